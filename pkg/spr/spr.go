// Package spr reads and writes sprite-set texture containers.
//
// A container carries a block of GPU textures and a table of named sprites,
// each referencing a rectangular region of one texture. Parsing decodes every
// texture to an RGBA image and resolves entry names, optionally against an
// auxiliary name database; writing re-encodes every texture uncompressed and
// rebuilds the container with entries sorted by name.
package spr

import (
	"errors"
	"image"
)

// Container errors.
var (
	ErrInvalidMagic      = errors.New("invalid container magic")
	ErrTruncatedData     = errors.New("truncated container data")
	ErrMalformedName     = errors.New("malformed name string")
	ErrUnknownScreenMode = errors.New("unknown screen mode")
	ErrMissingData       = errors.New("missing container data")
	ErrInvalidName       = errors.New("name contains an interior NUL")
)

// Block magics. The trailing byte doubles as a record-kind tag.
const (
	mipMagic     = "TXP\x02"
	texSetMagic  = "TXP\x03"
	planeMagic   = "TXP\x04"
	cubeMapMagic = "TXP\x05"
)

// Vec4 is a four-component float vector matching the wire layout.
type Vec4 struct {
	X, Y, Z, W float32
}

// Sprite is one named region of a set's texture.
type Sprite struct {
	TextureName string
	ScreenMode  ScreenMode
	TexelRegion Vec4 // normalized UV rectangle
	PixelRegion Vec4 // x, y, width, height in texture pixels
	Rotate      int32
}

// Set is a decoded sprite set. Textures holds one decoded image per texture
// entry; Sprites maps sprite names to their regions. Name is empty unless a
// database record supplied it.
type Set struct {
	Name     string
	Flags    uint32
	Textures map[string]image.Image
	Sprites  map[string]Sprite
}
