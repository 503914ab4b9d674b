package dds

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// DDS file constants.
const (
	ddsMagic      = 0x20534444 // "DDS "
	ddsHeaderSize = 124
	dx10FourCC    = 0x30315844 // "DX10"

	ddsdCaps        = 0x1
	ddsdHeight      = 0x2
	ddsdWidth       = 0x4
	ddsdPitch       = 0x8
	ddsdPixelFormat = 0x1000
	ddsdMipMapCount = 0x20000
	ddsdLinearSize  = 0x80000

	ddpfFourCC = 0x4

	ddsCapsTexture = 0x1000
	ddsCapsMipMap  = 0x400000
	ddsCapsComplex = 0x8

	ddsCaps2CubeMap         = 0x200
	ddsCaps2CubeMapAllFaces = 0xfc00

	d3d10ResourceDimensionTexture2D = 3
	d3d10ResourceMiscTextureCube    = 0x4
)

// Encode writes the texture as a DDS file with a DX10 extension header.
func Encode(w io.Writer, t *Texture) error {
	header := make([]byte, 4+ddsHeaderSize+20)
	le := binary.LittleEndian

	le.PutUint32(header[0:], ddsMagic)
	le.PutUint32(header[4:], ddsHeaderSize)

	flags := uint32(ddsdCaps | ddsdHeight | ddsdWidth | ddsdPixelFormat)
	pitchOrLinear := uint32(0)
	if t.format.BlockCompressed() {
		flags |= ddsdLinearSize
		pitchOrLinear, _ = t.format.MipSize(t.width, t.height)
	} else {
		flags |= ddsdPitch
		pitchOrLinear = t.width * t.format.bytesPerPixel()
	}
	if t.mipCount > 1 {
		flags |= ddsdMipMapCount
	}
	le.PutUint32(header[8:], flags)
	le.PutUint32(header[12:], t.height)
	le.PutUint32(header[16:], t.width)
	le.PutUint32(header[20:], pitchOrLinear)
	le.PutUint32(header[24:], 0) // depth, unused for 2D resources
	le.PutUint32(header[28:], t.mipCount)
	// 44 reserved bytes stay zero.

	// DDS_PIXELFORMAT with the DX10 four-character code.
	le.PutUint32(header[76:], 32)
	le.PutUint32(header[80:], ddpfFourCC)
	le.PutUint32(header[84:], dx10FourCC)

	caps := uint32(ddsCapsTexture)
	if t.mipCount > 1 {
		caps |= ddsCapsMipMap | ddsCapsComplex
	}
	caps2 := uint32(0)
	if t.cubeMap {
		caps |= ddsCapsComplex
		caps2 = ddsCaps2CubeMap | ddsCaps2CubeMapAllFaces
	}
	le.PutUint32(header[108:], caps)
	le.PutUint32(header[112:], caps2)

	// DX10 extension: format, dimension, misc, array size, misc2.
	le.PutUint32(header[128:], uint32(t.format))
	le.PutUint32(header[132:], d3d10ResourceDimensionTexture2D)
	miscFlag := uint32(0)
	arraySize := t.arraySize
	if t.cubeMap {
		miscFlag = d3d10ResourceMiscTextureCube
		arraySize = t.arraySize / 6
	}
	le.PutUint32(header[136:], miscFlag)
	le.PutUint32(header[140:], arraySize)
	le.PutUint32(header[144:], 0)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing DDS header: %w", err)
	}
	if _, err := w.Write(t.data); err != nil {
		return fmt.Errorf("writing DDS data: %w", err)
	}
	return nil
}

// EncodeFile writes the texture to path as a DDS file.
func EncodeFile(path string, t *Texture) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return Encode(f, t)
}
