package bc

import (
	"errors"
	"testing"
)

// pixel reads the RGBA quad at (x, y) from a decoded buffer.
func pixel(buf []byte, width, x, y int) [4]uint8 {
	off := (y*width + x) * 4
	return [4]uint8{buf[off], buf[off+1], buf[off+2], buf[off+3]}
}

func TestExpand565(t *testing.T) {
	tests := []struct {
		c       uint16
		r, g, b uint8
	}{
		{0xF800, 255, 0, 0},
		{0x07E0, 0, 255, 0},
		{0x001F, 0, 0, 255},
		{0xFFFF, 255, 255, 255},
		{0x0000, 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := expand565(tt.c)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("expand565(%#04x) = (%d,%d,%d), expected (%d,%d,%d)",
				tt.c, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestDecodeBC1_FourColorMode(t *testing.T) {
	// c0 = red (0xF800) > c1 = blue (0x001F): 4-color mode.
	// Index bits 0x00000001: pixel (0,0) uses c1, everything else c0.
	block := []byte{
		0x00, 0xF8, 0x1F, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}

	out, err := DecodeBC1(block, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC1 failed: %v", err)
	}
	if len(out) != 4*4*4 {
		t.Fatalf("expected 64 bytes, got %d", len(out))
	}

	if got := pixel(out, 4, 0, 0); got != [4]uint8{0, 0, 255, 255} {
		t.Errorf("pixel (0,0): expected blue, got %v", got)
	}
	if got := pixel(out, 4, 1, 0); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("pixel (1,0): expected red, got %v", got)
	}
	if got := pixel(out, 4, 3, 3); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("pixel (3,3): expected red, got %v", got)
	}
}

func TestDecodeBC1_PunchThrough(t *testing.T) {
	// c0 <= c1 selects 3-color mode; index 3 is transparent black.
	block := []byte{
		0x1F, 0x00, 0x00, 0xF8,
		0xFF, 0xFF, 0xFF, 0xFF,
	}

	out, err := DecodeBC1(block, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC1 failed: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := pixel(out, 4, x, y); got != [4]uint8{0, 0, 0, 0} {
				t.Fatalf("pixel (%d,%d): expected transparent, got %v", x, y, got)
			}
		}
	}
}

func TestDecodeBC2(t *testing.T) {
	// Explicit alpha nibbles 0x8 expand to 136. Color block has c0 <= c1 but
	// must still decode in 4-color mode: index 3 = (c0 + 2*c1)/3.
	block := []byte{
		0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88,
		0x1F, 0x00, 0x00, 0xF8,
		0xFF, 0xFF, 0xFF, 0xFF,
	}

	out, err := DecodeBC2(block, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC2 failed: %v", err)
	}
	want := [4]uint8{170, 0, 85, 136}
	if got := pixel(out, 4, 0, 0); got != want {
		t.Errorf("pixel (0,0): expected %v, got %v", want, got)
	}
	if got := pixel(out, 4, 3, 3); got != want {
		t.Errorf("pixel (3,3): expected %v, got %v", want, got)
	}
}

func TestDecodeBC3(t *testing.T) {
	// alpha0 > alpha1: seven-step interpolation. Pixel (0,0) has alpha
	// index 2 = (6*255)/7 = 218 and color index 1 = blue; pixel (1,0)
	// falls back to alpha 255 and color red.
	block := []byte{
		0xFF, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0xF8, 0x1F, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}

	out, err := DecodeBC3(block, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC3 failed: %v", err)
	}
	if got := pixel(out, 4, 0, 0); got != [4]uint8{0, 0, 255, 218} {
		t.Errorf("pixel (0,0): expected (0,0,255,218), got %v", got)
	}
	if got := pixel(out, 4, 1, 0); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("pixel (1,0): expected opaque red, got %v", got)
	}
}

func TestDecodeBC3_AlphaLowMode(t *testing.T) {
	// alpha0 <= alpha1: five-step interpolation with fixed 0 and 255 at
	// indices 6 and 7.
	block := []byte{
		0x00, 0xFF, 0x3E, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0xF8, 0x00, 0xF8,
		0x00, 0x00, 0x00, 0x00,
	}

	out, err := DecodeBC3(block, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC3 failed: %v", err)
	}
	// Pixel (0,0) alpha index = 0x3E & 7 = 6 -> 0.
	if got := pixel(out, 4, 0, 0); got[3] != 0 {
		t.Errorf("pixel (0,0): expected alpha 0, got %d", got[3])
	}
	// Pixel (1,0) alpha index = (0x3E >> 3) & 7 = 7 -> 255.
	if got := pixel(out, 4, 1, 0); got[3] != 255 {
		t.Errorf("pixel (1,0): expected alpha 255, got %d", got[3])
	}
}

func TestDecodeBC4(t *testing.T) {
	block := []byte{200, 100, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	out, err := DecodeBC4(block, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC4 failed: %v", err)
	}
	want := [4]uint8{200, 0, 0, 255}
	if got := pixel(out, 4, 2, 2); got != want {
		t.Errorf("pixel (2,2): expected %v, got %v", want, got)
	}
}

func TestDecodeBC5(t *testing.T) {
	block := []byte{
		10, 5, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		20, 7, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	out, err := DecodeBC5(block, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC5 failed: %v", err)
	}
	want := [4]uint8{10, 20, 0, 255}
	if got := pixel(out, 4, 0, 0); got != want {
		t.Errorf("pixel (0,0): expected %v, got %v", want, got)
	}
}

func TestDecode_OutputLength(t *testing.T) {
	tests := []struct {
		name      string
		decode    func([]byte, int, int) ([]byte, error)
		blockSize int
	}{
		{"BC1", DecodeBC1, 8},
		{"BC2", DecodeBC2, 16},
		{"BC3", DecodeBC3, 16},
		{"BC4", DecodeBC4, 8},
		{"BC5", DecodeBC5, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const w, h = 64, 64
			data := make([]byte, (w/4)*(h/4)*tt.blockSize)
			out, err := tt.decode(data, w, h)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if len(out) != 4*w*h {
				t.Errorf("expected %d bytes, got %d", 4*w*h, len(out))
			}
		})
	}
}

func TestDecode_PartialBlock(t *testing.T) {
	// A 2x2 image still consumes one full block; edge pixels are discarded.
	block := []byte{
		0x00, 0xF8, 0x00, 0xF8,
		0x00, 0x00, 0x00, 0x00,
	}

	out, err := DecodeBC1(block, 2, 2)
	if err != nil {
		t.Fatalf("DecodeBC1 failed: %v", err)
	}
	if len(out) != 2*2*4 {
		t.Fatalf("expected 16 bytes, got %d", len(out))
	}
	if got := pixel(out, 2, 1, 1); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("pixel (1,1): expected red, got %v", got)
	}
}

func TestDecode_TruncatedData(t *testing.T) {
	if _, err := DecodeBC1([]byte{1, 2, 3}, 4, 4); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
	if _, err := DecodeBC5(make([]byte, 8), 4, 4); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestDecode_InvalidDimensions(t *testing.T) {
	if _, err := DecodeBC1(nil, 0, 4); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
	if _, err := DecodeBC3(nil, 4, -1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}
