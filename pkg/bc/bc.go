// Package bc decodes BC1-BC5 block-compressed texture data into raw RGBA.
//
// Every decoder is a pure function from (compressed bytes, width, height) to a
// 4*width*height byte buffer, row-major, top-down. Partial blocks at the right
// and bottom edges are handled; pixels outside the image are discarded.
package bc

import (
	"errors"
	"fmt"
)

// Block decode errors.
var (
	ErrTruncatedData     = errors.New("truncated block data")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)

// expand565 widens an RGB565 color to 8-bit channels.
func expand565(c uint16) (r, g, b uint8) {
	r5 := (c >> 11) & 0x1F
	g6 := (c >> 5) & 0x3F
	b5 := c & 0x1F
	r = uint8((r5 << 3) | (r5 >> 2))
	g = uint8((g6 << 2) | (g6 >> 4))
	b = uint8((b5 << 3) | (b5 >> 2))
	return
}

// colorPalette builds the 4-entry color palette for a BC color block.
// When punchThrough is true and c0 <= c1 the block is in 3-color mode and
// entry 3 is transparent black; BC2/BC3 color blocks always use 4-color mode.
func colorPalette(c0, c1 uint16, punchThrough bool) [4][4]uint8 {
	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)

	var p [4][4]uint8
	p[0] = [4]uint8{r0, g0, b0, 255}
	p[1] = [4]uint8{r1, g1, b1, 255}

	if punchThrough && c0 <= c1 {
		p[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			255,
		}
		p[3] = [4]uint8{0, 0, 0, 0}
		return p
	}

	p[2] = [4]uint8{
		uint8((2*int(r0) + int(r1)) / 3),
		uint8((2*int(g0) + int(g1)) / 3),
		uint8((2*int(b0) + int(b1)) / 3),
		255,
	}
	p[3] = [4]uint8{
		uint8((int(r0) + 2*int(r1)) / 3),
		uint8((int(g0) + 2*int(g1)) / 3),
		uint8((int(b0) + 2*int(b1)) / 3),
		255,
	}
	return p
}

// alphaPalette builds the 8-entry palette for an interpolated alpha block,
// shared by BC3 alpha and the BC4/BC5 channels.
func alphaPalette(a0, a1 uint8) [8]uint8 {
	var p [8]uint8
	p[0] = a0
	p[1] = a1
	if a0 > a1 {
		for i := 2; i < 8; i++ {
			p[i] = uint8((int(a0)*(8-i) + int(a1)*(i-1)) / 7)
		}
	} else {
		for i := 2; i < 6; i++ {
			p[i] = uint8((int(a0)*(6-i) + int(a1)*(i-1)) / 5)
		}
		p[6] = 0
		p[7] = 255
	}
	return p
}

// alphaIndices packs the 48 bits of 3-bit alpha indices following a0/a1.
func alphaIndices(block []byte) uint64 {
	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(block[i]) << (i * 8)
	}
	return bits
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// writePixel stores one RGBA pixel, skipping positions outside the image.
func writePixel(out []byte, width, height, x, y int, c [4]uint8) {
	if x >= width || y >= height {
		return
	}
	off := (y*width + x) * 4
	out[off] = c[0]
	out[off+1] = c[1]
	out[off+2] = c[2]
	out[off+3] = c[3]
}

// DecodeBC1 decompresses BC1 (DXT1) data, honoring the punch-through
// transparency mode when c0 <= c1.
func DecodeBC1(data []byte, width, height int) ([]byte, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	out := make([]byte, 4*width*height)
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4

	off := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			if off+8 > len(data) {
				return nil, fmt.Errorf("%w: BC1 block (%d,%d)", ErrTruncatedData, bx, by)
			}
			c0 := uint16(data[off]) | uint16(data[off+1])<<8
			c1 := uint16(data[off+2]) | uint16(data[off+3])<<8
			palette := colorPalette(c0, c1, true)
			indices := uint32(data[off+4]) | uint32(data[off+5])<<8 |
				uint32(data[off+6])<<16 | uint32(data[off+7])<<24
			off += 8

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					idx := (indices >> (2 * (py*4 + px))) & 3
					writePixel(out, width, height, bx*4+px, by*4+py, palette[idx])
				}
			}
		}
	}
	return out, nil
}

// DecodeBC2 decompresses BC2 (DXT3) data: explicit 4-bit alpha over an
// always-opaque color block.
func DecodeBC2(data []byte, width, height int) ([]byte, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	out := make([]byte, 4*width*height)
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4

	off := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			if off+16 > len(data) {
				return nil, fmt.Errorf("%w: BC2 block (%d,%d)", ErrTruncatedData, bx, by)
			}
			alphaBits := data[off : off+8]
			c0 := uint16(data[off+8]) | uint16(data[off+9])<<8
			c1 := uint16(data[off+10]) | uint16(data[off+11])<<8
			palette := colorPalette(c0, c1, false)
			indices := uint32(data[off+12]) | uint32(data[off+13])<<8 |
				uint32(data[off+14])<<16 | uint32(data[off+15])<<24
			off += 16

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					i := py*4 + px
					c := palette[(indices>>(2*i))&3]
					a4 := (alphaBits[i/2] >> (4 * (i % 2))) & 0xF
					c[3] = uint8(a4<<4 | a4)
					writePixel(out, width, height, bx*4+px, by*4+py, c)
				}
			}
		}
	}
	return out, nil
}

// DecodeBC3 decompresses BC3 (DXT5) data: interpolated alpha over an
// always-opaque color block.
func DecodeBC3(data []byte, width, height int) ([]byte, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	out := make([]byte, 4*width*height)
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4

	off := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			if off+16 > len(data) {
				return nil, fmt.Errorf("%w: BC3 block (%d,%d)", ErrTruncatedData, bx, by)
			}
			alphas := alphaPalette(data[off], data[off+1])
			aBits := alphaIndices(data[off+2 : off+8])
			c0 := uint16(data[off+8]) | uint16(data[off+9])<<8
			c1 := uint16(data[off+10]) | uint16(data[off+11])<<8
			palette := colorPalette(c0, c1, false)
			indices := uint32(data[off+12]) | uint32(data[off+13])<<8 |
				uint32(data[off+14])<<16 | uint32(data[off+15])<<24
			off += 16

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					i := py*4 + px
					c := palette[(indices>>(2*i))&3]
					c[3] = alphas[(aBits>>(3*i))&7]
					writePixel(out, width, height, bx*4+px, by*4+py, c)
				}
			}
		}
	}
	return out, nil
}

// DecodeBC4 decompresses BC4 (ATI1) data: one interpolated channel stored in R.
func DecodeBC4(data []byte, width, height int) ([]byte, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	out := make([]byte, 4*width*height)
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4

	off := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			if off+8 > len(data) {
				return nil, fmt.Errorf("%w: BC4 block (%d,%d)", ErrTruncatedData, bx, by)
			}
			reds := alphaPalette(data[off], data[off+1])
			bits := alphaIndices(data[off+2 : off+8])
			off += 8

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					i := py*4 + px
					r := reds[(bits>>(3*i))&7]
					writePixel(out, width, height, bx*4+px, by*4+py, [4]uint8{r, 0, 0, 255})
				}
			}
		}
	}
	return out, nil
}

// DecodeBC5 decompresses BC5 (ATI2) data: two interpolated channels stored in
// R and G.
func DecodeBC5(data []byte, width, height int) ([]byte, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	out := make([]byte, 4*width*height)
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4

	off := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			if off+16 > len(data) {
				return nil, fmt.Errorf("%w: BC5 block (%d,%d)", ErrTruncatedData, bx, by)
			}
			reds := alphaPalette(data[off], data[off+1])
			rBits := alphaIndices(data[off+2 : off+8])
			greens := alphaPalette(data[off+8], data[off+9])
			gBits := alphaIndices(data[off+10 : off+16])
			off += 16

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					i := py*4 + px
					r := reds[(rBits>>(3*i))&7]
					g := greens[(gBits>>(3*i))&7]
					writePixel(out, width, height, bx*4+px, by*4+py, [4]uint8{r, g, 0, 255})
				}
			}
		}
	}
	return out, nil
}
