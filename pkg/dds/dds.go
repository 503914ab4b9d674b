// Package dds models DirectDraw Surface textures as typed byte buffers.
//
// A Texture holds one backing buffer laid out the way GPU uploads expect:
// array layers in order, each layer carrying its full mip chain with
// dimensions halving per level. The package computes that layout from a DXGI
// format code and exposes per-layer slices; it performs no pixel conversion
// itself.
package dds

import (
	"errors"
	"fmt"
)

// Staging errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported DDS format")
	ErrInvalidDimensions = errors.New("invalid texture dimensions")
	ErrLayerOutOfRange   = errors.New("array layer out of range")
)

// Format is a DXGI format code.
type Format uint32

// DXGI format codes understood by the staging layer.
const (
	FormatUnknown       Format = 0
	FormatR8G8B8A8UNorm Format = 28
	FormatR8UNorm       Format = 61
	FormatA8UNorm       Format = 65
	FormatA8P8          Format = 68
	FormatBC1UNorm      Format = 71
	FormatBC2UNorm      Format = 74
	FormatBC2UNormSRGB  Format = 75
	FormatBC3UNorm      Format = 77
	FormatBC4UNorm      Format = 80
	FormatBC5UNorm      Format = 83
	FormatBC6HUF16      Format = 95
	FormatBC7UNorm      Format = 98
)

// String returns the DXGI constant name for the format.
func (f Format) String() string {
	switch f {
	case FormatR8G8B8A8UNorm:
		return "R8G8B8A8_UNORM"
	case FormatR8UNorm:
		return "R8_UNORM"
	case FormatA8UNorm:
		return "A8_UNORM"
	case FormatA8P8:
		return "A8P8"
	case FormatBC1UNorm:
		return "BC1_UNORM"
	case FormatBC2UNorm:
		return "BC2_UNORM"
	case FormatBC2UNormSRGB:
		return "BC2_UNORM_SRGB"
	case FormatBC3UNorm:
		return "BC3_UNORM"
	case FormatBC4UNorm:
		return "BC4_UNORM"
	case FormatBC5UNorm:
		return "BC5_UNORM"
	case FormatBC6HUF16:
		return "BC6H_UF16"
	case FormatBC7UNorm:
		return "BC7_UNORM"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(f))
	}
}

// BlockCompressed reports whether the format stores pixels in 4x4 blocks.
func (f Format) BlockCompressed() bool {
	switch f {
	case FormatBC1UNorm, FormatBC2UNorm, FormatBC2UNormSRGB, FormatBC3UNorm,
		FormatBC4UNorm, FormatBC5UNorm, FormatBC6HUF16, FormatBC7UNorm:
		return true
	}
	return false
}

// blockSize returns the byte size of one 4x4 block; BC1 and BC4 pack 8 bytes,
// the remaining BC formats 16.
func (f Format) blockSize() uint32 {
	switch f {
	case FormatBC1UNorm, FormatBC4UNorm:
		return 8
	default:
		return 16
	}
}

// bytesPerPixel returns the pixel stride of a linear format, or 0 when the
// format has no defined layout here.
func (f Format) bytesPerPixel() uint32 {
	switch f {
	case FormatR8G8B8A8UNorm:
		return 4
	case FormatR8UNorm, FormatA8UNorm:
		return 1
	case FormatA8P8:
		return 2
	default:
		return 0
	}
}

// MipSize returns the byte size of a single mip level at the given dimensions.
func (f Format) MipSize(width, height uint32) (uint32, error) {
	if f.BlockCompressed() {
		blocksWide := (width + 3) / 4
		blocksHigh := (height + 3) / 4
		return blocksWide * blocksHigh * f.blockSize(), nil
	}
	bpp := f.bytesPerPixel()
	if bpp == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return width * height * bpp, nil
}

// Params describes a texture to allocate. Zero MipMapCount and ArraySize
// default to 1; Depth is informational and does not affect the layout.
type Params struct {
	Width       uint32
	Height      uint32
	Depth       uint32
	Format      Format
	MipMapCount uint32
	ArraySize   uint32
	CubeMap     bool
}

// Texture is an allocated staging buffer with its layout metadata.
type Texture struct {
	width     uint32
	height    uint32
	depth     uint32
	format    Format
	mipCount  uint32
	arraySize uint32
	cubeMap   bool
	layerSize uint32
	data      []byte
}

// New allocates a zeroed texture buffer for the described layout.
func New(p Params) (*Texture, error) {
	if p.Width == 0 || p.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	mips := p.MipMapCount
	if mips == 0 {
		mips = 1
	}
	layers := p.ArraySize
	if layers == 0 {
		layers = 1
	}

	var layerSize uint32
	for m := uint32(0); m < mips; m++ {
		w := p.Width >> m
		if w == 0 {
			w = 1
		}
		h := p.Height >> m
		if h == 0 {
			h = 1
		}
		size, err := p.Format.MipSize(w, h)
		if err != nil {
			return nil, err
		}
		layerSize += size
	}

	return &Texture{
		width:     p.Width,
		height:    p.Height,
		depth:     p.Depth,
		format:    p.Format,
		mipCount:  mips,
		arraySize: layers,
		cubeMap:   p.CubeMap,
		layerSize: layerSize,
		data:      make([]byte, layerSize*layers),
	}, nil
}

// Width returns the top-level width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the top-level height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Depth returns the declared depth, 0 when unspecified.
func (t *Texture) Depth() uint32 { return t.depth }

// Format returns the DXGI format of the buffer.
func (t *Texture) Format() Format { return t.format }

// MipMapCount returns the number of mip levels per layer.
func (t *Texture) MipMapCount() uint32 { return t.mipCount }

// ArraySize returns the number of array layers (faces for a cube map).
func (t *Texture) ArraySize() uint32 { return t.arraySize }

// CubeMap reports whether the texture was declared as a cube map.
func (t *Texture) CubeMap() bool { return t.cubeMap }

// Bytes returns the whole backing buffer.
func (t *Texture) Bytes() []byte { return t.data }

// Layer returns the mutable sub-slice covering one array layer's mip chain.
func (t *Texture) Layer(i uint32) ([]byte, error) {
	if i >= t.arraySize {
		return nil, fmt.Errorf("%w: layer %d of %d", ErrLayerOutOfRange, i, t.arraySize)
	}
	start := i * t.layerSize
	return t.data[start : start+t.layerSize], nil
}
