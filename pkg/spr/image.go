package spr

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/Faultbox/sprset/pkg/bc"
	"github.com/Faultbox/sprset/pkg/dds"
)

// stageTexture copies a texture's per-slice base payloads into a typed
// staging buffer laid out like the GPU upload it describes.
func stageTexture(tex *rawTexture) (*dds.Texture, error) {
	if len(tex.slices) == 0 {
		return nil, fmt.Errorf("%w: texture has no base payload", ErrMissingData)
	}
	base := tex.slices[0]
	if base.width <= 0 || base.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", dds.ErrInvalidDimensions, base.width, base.height)
	}

	st, err := dds.New(dds.Params{
		Width:       uint32(base.width),
		Height:      uint32(base.height),
		Depth:       uint32(tex.depth),
		Format:      base.format.staging(),
		MipMapCount: tex.mipMaps,
		ArraySize:   uint32(tex.arraySize),
		CubeMap:     tex.cubeMap,
	})
	if err != nil {
		return nil, err
	}
	for i := range tex.slices {
		layer, err := st.Layer(uint32(i))
		if err != nil {
			return nil, err
		}
		copy(layer, tex.slices[i].data)
	}
	return st, nil
}

// stageImage re-encodes an image as an uncompressed single-level staging
// texture in bottom-up row order.
func stageImage(img image.Image) (*dds.Texture, error) {
	width, height, pix := rgbaBytes(img)
	st, err := dds.New(dds.Params{
		Width:  uint32(width),
		Height: uint32(height),
		Format: dds.FormatR8G8B8A8UNorm,
	})
	if err != nil {
		return nil, err
	}
	copy(st.Bytes(), pix)
	return st, nil
}

// decodeStaged expands one array layer's base level to straight RGBA and
// flips it into top-down row order. Only the block-compressed staging
// formats have decoders wired; everything else fails.
func decodeStaged(st *dds.Texture, layer uint32) (*image.NRGBA, error) {
	data, err := st.Layer(layer)
	if err != nil {
		return nil, err
	}
	width := int(st.Width())
	height := int(st.Height())

	var pix []byte
	switch st.Format() {
	case dds.FormatBC1UNorm:
		pix, err = bc.DecodeBC1(data, width, height)
	case dds.FormatBC2UNorm:
		pix, err = bc.DecodeBC2(data, width, height)
	case dds.FormatBC3UNorm:
		pix, err = bc.DecodeBC3(data, width, height)
	case dds.FormatBC4UNorm:
		pix, err = bc.DecodeBC4(data, width, height)
	case dds.FormatBC5UNorm:
		pix, err = bc.DecodeBC5(data, width, height)
	default:
		return nil, fmt.Errorf("%w: no decoder for %s", ErrMissingData, st.Format())
	}
	if err != nil {
		return nil, err
	}

	flipVertical(pix, width, height)
	return &image.NRGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}, nil
}

// flipVertical reverses the row order of an RGBA buffer in place.
func flipVertical(pix []byte, width, height int) {
	stride := width * 4
	tmp := make([]byte, stride)
	for y := 0; y < height/2; y++ {
		top := pix[y*stride : (y+1)*stride]
		bottom := pix[(height-1-y)*stride : (height-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// rgbaBytes converts an image to straight-alpha RGBA bytes in bottom-up row
// order.
func rgbaBytes(img image.Image) (width, height int, pix []byte) {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	flipVertical(out.Pix, bounds.Dx(), bounds.Dy())
	return bounds.Dx(), bounds.Dy(), out.Pix
}

// SpriteImage crops the sprite's pixel region out of its source texture into
// a fresh image. Region coordinates are truncated to whole pixels.
func (s *Set) SpriteImage(name string) (image.Image, error) {
	sprite, ok := s.Sprites[name]
	if !ok {
		return nil, fmt.Errorf("%w: no sprite %q", ErrMissingData, name)
	}
	texture, ok := s.Textures[sprite.TextureName]
	if !ok {
		return nil, fmt.Errorf("%w: no texture %q for sprite %q", ErrMissingData, sprite.TextureName, name)
	}

	x := int(sprite.PixelRegion.X)
	y := int(sprite.PixelRegion.Y)
	width := int(sprite.PixelRegion.Z)
	height := int(sprite.PixelRegion.W)

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), texture, image.Pt(x, y), draw.Src)
	return out, nil
}
