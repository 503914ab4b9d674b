package spr

import (
	"fmt"

	"github.com/Faultbox/sprset/pkg/dds"
)

// ScreenMode identifies the display resolution class a sprite was authored
// for. The codes are a closed set; a container carrying anything else does
// not parse.
type ScreenMode uint32

// Screen mode codes in wire order.
const (
	ScreenModeQVGA ScreenMode = iota // 320x240
	ScreenModeVGA                    // 640x480
	ScreenModeSVGA
	ScreenModeXGA
	ScreenModeSXGA
	ScreenModeSXGAPlus
	ScreenModeUXGA
	ScreenModeWVGA
	ScreenModeWSVGA
	ScreenModeWXGA  // 1280x768
	ScreenModeWXGA2 // 1360x768
	ScreenModeWUXGA
	ScreenModeWQXGA
	ScreenModeHDTV720
	ScreenModeHDTV1080
	ScreenModeWQHD
	ScreenModeHVGA
	ScreenModeQHD
	ScreenModeCustom // fallback for newly authored sprites
)

var screenModeNames = [...]string{
	"QVGA", "VGA", "SVGA", "XGA", "SXGA", "SXGA+", "UXGA", "WVGA", "WSVGA",
	"WXGA", "WXGA2", "WUXGA", "WQXGA", "HDTV720", "HDTV1080", "WQHD", "HVGA",
	"QHD", "Custom",
}

// String returns the mode's display name.
func (m ScreenMode) String() string {
	if int(m) < len(screenModeNames) {
		return screenModeNames[m]
	}
	return fmt.Sprintf("ScreenMode(%d)", uint32(m))
}

// TextureFormat is a container pixel-format code.
type TextureFormat int32

// Pixel-format codes.
const (
	FormatUnknown TextureFormat = -1
	FormatA8      TextureFormat = 0
	FormatRGB8    TextureFormat = 1
	FormatRGBA8   TextureFormat = 2
	FormatRGB5    TextureFormat = 3
	FormatRGB5A1  TextureFormat = 4
	FormatRGBA4   TextureFormat = 5
	FormatDXT1    TextureFormat = 6
	FormatDXT1a   TextureFormat = 7
	FormatDXT3    TextureFormat = 8
	FormatDXT5    TextureFormat = 9
	FormatATI1    TextureFormat = 10
	FormatATI2    TextureFormat = 11
	FormatL8      TextureFormat = 12
	FormatL8A8    TextureFormat = 13
	FormatBC7     TextureFormat = 15
	FormatBC6H    TextureFormat = 127
)

// String returns the format code's name.
func (f TextureFormat) String() string {
	switch f {
	case FormatUnknown:
		return "Unknown"
	case FormatA8:
		return "A8"
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGB5:
		return "RGB5"
	case FormatRGB5A1:
		return "RGB5A1"
	case FormatRGBA4:
		return "RGBA4"
	case FormatDXT1:
		return "DXT1"
	case FormatDXT1a:
		return "DXT1a"
	case FormatDXT3:
		return "DXT3"
	case FormatDXT5:
		return "DXT5"
	case FormatATI1:
		return "ATI1"
	case FormatATI2:
		return "ATI2"
	case FormatL8:
		return "L8"
	case FormatL8A8:
		return "L8A8"
	case FormatBC7:
		return "BC7"
	case FormatBC6H:
		return "BC6H"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int32(f))
	}
}

// staging maps a container format code to its DXGI staging equivalent.
// Codes without a staging layout map to Unknown, which the staging layer
// rejects.
func (f TextureFormat) staging() dds.Format {
	switch f {
	case FormatA8:
		return dds.FormatR8UNorm
	case FormatRGBA8:
		return dds.FormatR8G8B8A8UNorm
	case FormatDXT1, FormatDXT1a:
		return dds.FormatBC1UNorm
	case FormatDXT3:
		return dds.FormatBC2UNormSRGB
	case FormatDXT5:
		return dds.FormatBC3UNorm
	case FormatATI1:
		return dds.FormatBC4UNorm
	case FormatATI2:
		return dds.FormatBC5UNorm
	case FormatL8:
		return dds.FormatA8UNorm
	case FormatL8A8:
		return dds.FormatA8P8
	case FormatBC7:
		return dds.FormatBC7UNorm
	case FormatBC6H:
		return dds.FormatBC6HUF16
	default:
		return dds.FormatUnknown
	}
}

// formatFromStaging maps a DXGI staging format back to its container code.
func formatFromStaging(f dds.Format) TextureFormat {
	switch f {
	case dds.FormatR8UNorm:
		return FormatA8
	case dds.FormatR8G8B8A8UNorm:
		return FormatRGBA8
	case dds.FormatBC1UNorm:
		return FormatDXT1
	case dds.FormatBC2UNormSRGB:
		return FormatDXT3
	case dds.FormatBC3UNorm:
		return FormatDXT5
	case dds.FormatBC4UNorm:
		return FormatATI1
	case dds.FormatBC5UNorm:
		return FormatATI2
	case dds.FormatA8UNorm:
		return FormatL8
	case dds.FormatA8P8:
		return FormatL8A8
	case dds.FormatBC7UNorm:
		return FormatBC7
	case dds.FormatBC6HUF16:
		return FormatBC6H
	default:
		return FormatUnknown
	}
}
