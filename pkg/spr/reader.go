package spr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Faultbox/sprset/pkg/sprdb"
)

// rawHeader mirrors the container header. The five pointer fields hold
// absolute file offsets.
type rawHeader struct {
	Flags          uint32
	TexSetPtr      uint32
	TexSetCount    uint32
	SpriteCount    uint32
	SpritePtr      uint32
	TexNamePtr     uint32
	SpriteNamePtr  uint32
	SpriteExtraPtr uint32
}

// rawSprite mirrors one sprite record.
type rawSprite struct {
	TextureIndex int32
	Rotate       int32
	TexelRegion  Vec4
	PixelRegion  Vec4
}

// rawExtra mirrors one sprite-extra record.
type rawExtra struct {
	Reserved   uint32
	ScreenMode uint32
}

// rawMip is the retained part of one mip record.
type rawMip struct {
	width  int32
	height int32
	format TextureFormat
	data   []byte
}

// rawTexture is one texture entry with the base mip record of every slice.
type rawTexture struct {
	cubeMap   bool
	mipMaps   uint32
	arraySize uint8
	depth     uint8
	slices    []rawMip
}

// reader wraps a seekable source with the pointer-field discipline the
// container requires: offsets are dereferenced by seeking away, parsing the
// payload, and restoring the cursor before the next sibling field.
type reader struct {
	rs io.ReadSeeker
}

func (r *reader) pos() (int64, error) {
	return r.rs.Seek(0, io.SeekCurrent)
}

func (r *reader) seek(offset int64) error {
	if _, err := r.rs.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %#x: %w", offset, err)
	}
	return nil
}

func (r *reader) read(v any, what string) error {
	err := binary.Read(r.rs, binary.LittleEndian, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	default:
		return fmt.Errorf("reading %s: %w", what, err)
	}
}

func (r *reader) readBytes(n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	_, err := io.ReadFull(r.rs, buf)
	switch {
	case err == nil:
		return buf, nil
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	default:
		return nil, fmt.Errorf("reading %s: %w", what, err)
	}
}

func (r *reader) readMagic() (string, error) {
	buf, err := r.readBytes(4, "magic")
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (r *reader) expectMagic(want string) error {
	magic, err := r.readMagic()
	if err != nil {
		return err
	}
	if magic != want {
		return fmt.Errorf("%w: % x", ErrInvalidMagic, magic)
	}
	return nil
}

// deref reads the u32 pointer field at the cursor, parses the payload it
// points to at base+offset, and leaves the cursor at the field's end.
func (r *reader) deref(base int64, parse func() error) error {
	var offset uint32
	if err := r.read(&offset, "pointer"); err != nil {
		return err
	}
	next, err := r.pos()
	if err != nil {
		return err
	}
	if err := r.seek(base + int64(offset)); err != nil {
		return err
	}
	if err := parse(); err != nil {
		return err
	}
	return r.seek(next)
}

// cstring reads a NUL-terminated UTF-8 string at the cursor.
func (r *reader) cstring() (string, error) {
	var name []byte
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r.rs, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return "", fmt.Errorf("%w: missing terminator", ErrMalformedName)
			}
			return "", fmt.Errorf("reading name: %w", err)
		}
		if buf[0] == 0 {
			break
		}
		name = append(name, buf[0])
	}
	if !utf8.Valid(name) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrMalformedName)
	}
	return string(name), nil
}

// Parse reads a whole container from rs and builds the decoded set. dbSet
// may be nil; it is consulted only for entries whose embedded name is empty.
func Parse(rs io.ReadSeeker, dbSet *sprdb.Set) (*Set, error) {
	r := &reader{rs: rs}

	var hdr rawHeader
	if err := r.read(&hdr, "header"); err != nil {
		return nil, err
	}

	textures, err := r.parseTextureSet(int64(hdr.TexSetPtr))
	if err != nil {
		return nil, fmt.Errorf("parsing texture set: %w", err)
	}
	texNames, err := r.parseNames(int64(hdr.TexNamePtr), hdr.TexSetCount)
	if err != nil {
		return nil, fmt.Errorf("parsing texture names: %w", err)
	}
	sprites, err := r.parseSprites(int64(hdr.SpritePtr), hdr.SpriteCount)
	if err != nil {
		return nil, err
	}
	sprNames, err := r.parseNames(int64(hdr.SpriteNamePtr), hdr.SpriteCount)
	if err != nil {
		return nil, fmt.Errorf("parsing sprite names: %w", err)
	}
	extras, err := r.parseExtras(int64(hdr.SpriteExtraPtr), hdr.SpriteCount)
	if err != nil {
		return nil, err
	}

	return buildSet(&hdr, textures, texNames, sprites, sprNames, extras, dbSet)
}

// ParseFile reads a container from disk. When db is non-nil the set record
// matching the path's base filename is looked up for name resolution.
func ParseFile(path string, db *sprdb.DB) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading container file: %w", err)
	}

	var dbSet *sprdb.Set
	if db != nil {
		filename := filepath.Base(path)
		dbSet, err = db.SetForFile(filename)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", filename, err)
		}
	}
	return Parse(bytes.NewReader(data), dbSet)
}

func (r *reader) parseTextureSet(ptr int64) ([]rawTexture, error) {
	if err := r.seek(ptr); err != nil {
		return nil, err
	}
	if err := r.expectMagic(texSetMagic); err != nil {
		return nil, err
	}
	var count, padding uint32
	if err := r.read(&count, "texture count"); err != nil {
		return nil, err
	}
	if err := r.read(&padding, "padding"); err != nil {
		return nil, err
	}

	// Texture pointers are relative to the block's own magic position.
	textures := make([]rawTexture, 0, count)
	for i := uint32(0); i < count; i++ {
		var tex rawTexture
		err := r.deref(ptr, func() error {
			var derr error
			tex, derr = r.parseTexture()
			return derr
		})
		if err != nil {
			return nil, fmt.Errorf("parsing texture %d: %w", i, err)
		}
		textures = append(textures, tex)
	}
	return textures, nil
}

func (r *reader) parseTexture() (rawTexture, error) {
	base, err := r.pos()
	if err != nil {
		return rawTexture{}, err
	}

	magic, err := r.readMagic()
	if err != nil {
		return rawTexture{}, err
	}
	var tex rawTexture
	switch magic {
	case planeMagic:
	case cubeMapMagic:
		tex.cubeMap = true
	default:
		return rawTexture{}, fmt.Errorf("%w: texture entry % x", ErrInvalidMagic, magic)
	}

	if err := r.read(&tex.mipMaps, "mip map count"); err != nil {
		return rawTexture{}, err
	}
	var fields struct {
		MipLevels  uint8
		ArraySize  uint8
		Depth      uint8
		Dimensions uint8
	}
	if err := r.read(&fields, "texture fields"); err != nil {
		return rawTexture{}, err
	}
	tex.arraySize = fields.ArraySize
	tex.depth = fields.Depth

	// A cube map declares its total level count across all faces; the
	// per-face count is the truncating quotient.
	levels := fields.MipLevels
	if tex.cubeMap {
		if fields.ArraySize == 0 {
			return rawTexture{}, fmt.Errorf("%w: cube map with no faces", ErrMissingData)
		}
		levels = fields.MipLevels / fields.ArraySize
	}

	// Every level of every slice is parsed; only the base level of each
	// slice is retained. Mip pointers are relative to the entry's magic.
	for s := uint8(0); s < fields.ArraySize; s++ {
		for l := uint8(0); l < levels; l++ {
			var mip rawMip
			err := r.deref(base, func() error {
				var derr error
				mip, derr = r.parseMip()
				return derr
			})
			if err != nil {
				return rawTexture{}, fmt.Errorf("parsing mip %d of slice %d: %w", l, s, err)
			}
			if l == 0 {
				tex.slices = append(tex.slices, mip)
			}
		}
	}
	return tex, nil
}

func (r *reader) parseMip() (rawMip, error) {
	if err := r.expectMagic(mipMagic); err != nil {
		return rawMip{}, err
	}
	var fields struct {
		Width      int32
		Height     int32
		Format     uint32
		Index      uint8
		ArrayIndex uint8
		Padding    uint16
		DataSize   uint32
	}
	if err := r.read(&fields, "mip fields"); err != nil {
		return rawMip{}, err
	}
	data, err := r.readBytes(int(fields.DataSize), "mip data")
	if err != nil {
		return rawMip{}, err
	}
	return rawMip{
		width:  fields.Width,
		height: fields.Height,
		format: TextureFormat(fields.Format),
		data:   data,
	}, nil
}

func (r *reader) parseNames(ptr int64, count uint32) ([]string, error) {
	if err := r.seek(ptr); err != nil {
		return nil, err
	}

	// Name pointers are absolute.
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		var name string
		err := r.deref(0, func() error {
			var derr error
			name, derr = r.cstring()
			return derr
		})
		if err != nil {
			return nil, fmt.Errorf("parsing name %d: %w", i, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (r *reader) parseSprites(ptr int64, count uint32) ([]rawSprite, error) {
	if err := r.seek(ptr); err != nil {
		return nil, err
	}
	sprites := make([]rawSprite, count)
	for i := range sprites {
		if err := r.read(&sprites[i], "sprite record"); err != nil {
			return nil, fmt.Errorf("parsing sprite %d: %w", i, err)
		}
	}
	return sprites, nil
}

func (r *reader) parseExtras(ptr int64, count uint32) ([]rawExtra, error) {
	if err := r.seek(ptr); err != nil {
		return nil, err
	}
	extras := make([]rawExtra, count)
	for i := range extras {
		if err := r.read(&extras[i], "sprite extra"); err != nil {
			return nil, fmt.Errorf("parsing sprite extra %d: %w", i, err)
		}
		if extras[i].ScreenMode > uint32(ScreenModeCustom) {
			return nil, fmt.Errorf("%w: code %d in sprite extra %d", ErrUnknownScreenMode, extras[i].ScreenMode, i)
		}
	}
	return extras, nil
}

// nameResolver fills empty embedded names from a database set record. The
// stored names carry a set-derived prefix that the model strips.
type nameResolver struct {
	db        *sprdb.Set
	sprPrefix string
	texPrefix string
}

func newNameResolver(db *sprdb.Set) *nameResolver {
	res := &nameResolver{db: db}
	if db != nil {
		res.sprPrefix = db.Name + "_"
		res.texPrefix = strings.ReplaceAll(res.sprPrefix, "SPR", "SPRTEX")
	}
	return res
}

func (res *nameResolver) setName() string {
	if res.db == nil {
		return ""
	}
	return res.db.Name
}

func (res *nameResolver) textureName(names []string, index int) (string, error) {
	if index < 0 || index >= len(names) {
		return "", fmt.Errorf("%w: texture name %d of %d", ErrMissingData, index, len(names))
	}
	if name := names[index]; name != "" {
		return name, nil
	}
	if res.db != nil {
		if name, ok := res.db.Textures[uint32(index)]; ok {
			return strings.ReplaceAll(name, res.texPrefix, ""), nil
		}
	}
	return "", fmt.Errorf("%w: texture %d has an empty name and no database entry", ErrMissingData, index)
}

func (res *nameResolver) spriteName(names []string, index int) (string, error) {
	if index < 0 || index >= len(names) {
		return "", fmt.Errorf("%w: sprite name %d of %d", ErrMissingData, index, len(names))
	}
	if name := names[index]; name != "" {
		return name, nil
	}
	if res.db != nil {
		if name, ok := res.db.Sprites[uint32(index)]; ok {
			return strings.ReplaceAll(name, res.sprPrefix, ""), nil
		}
	}
	return "", fmt.Errorf("%w: sprite %d has an empty name and no database entry", ErrMissingData, index)
}

func buildSet(hdr *rawHeader, textures []rawTexture, texNames []string, sprites []rawSprite, sprNames []string, extras []rawExtra, dbSet *sprdb.Set) (*Set, error) {
	res := newNameResolver(dbSet)

	set := &Set{
		Name:     res.setName(),
		Flags:    hdr.Flags,
		Textures: make(map[string]image.Image, len(textures)),
		Sprites:  make(map[string]Sprite, len(sprites)),
	}

	for i := range textures {
		name, err := res.textureName(texNames, i)
		if err != nil {
			return nil, fmt.Errorf("resolving texture %d name: %w", i, err)
		}
		st, err := stageTexture(&textures[i])
		if err != nil {
			return nil, fmt.Errorf("staging texture %q: %w", name, err)
		}
		img, err := decodeStaged(st, 0)
		if err != nil {
			return nil, fmt.Errorf("decoding texture %q: %w", name, err)
		}
		set.Textures[name] = img
	}

	for i := range sprites {
		name, err := res.spriteName(sprNames, i)
		if err != nil {
			return nil, fmt.Errorf("resolving sprite %d name: %w", i, err)
		}
		texName, err := res.textureName(texNames, int(sprites[i].TextureIndex))
		if err != nil {
			return nil, fmt.Errorf("resolving texture for sprite %q: %w", name, err)
		}
		set.Sprites[name] = Sprite{
			TextureName: texName,
			ScreenMode:  ScreenMode(extras[i].ScreenMode),
			TexelRegion: sprites[i].TexelRegion,
			PixelRegion: sprites[i].PixelRegion,
			Rotate:      sprites[i].Rotate,
		}
	}

	return set, nil
}
