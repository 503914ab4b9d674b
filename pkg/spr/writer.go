package spr

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/sprset/pkg/dds"
)

// writer wraps a seekable sink with the pointer-field discipline the
// container requires: pointer fields are written as zero placeholders, then
// patched once the payload position is known. Every patch returns the cursor
// to the stream tail.
type writer struct {
	ws io.WriteSeeker
}

func (w *writer) pos() (int64, error) {
	return w.ws.Seek(0, io.SeekCurrent)
}

func (w *writer) seek(offset int64) error {
	if _, err := w.ws.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %#x: %w", offset, err)
	}
	return nil
}

func (w *writer) write(v any, what string) error {
	if err := binary.Write(w.ws, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	return nil
}

// placeholder writes a zero pointer field and returns its position.
func (w *writer) placeholder() (int64, error) {
	at, err := w.pos()
	if err != nil {
		return 0, err
	}
	return at, w.write(uint32(0), "pointer placeholder")
}

// patch overwrites the pointer field at `at` with the current tail position
// expressed relative to base.
func (w *writer) patch(at, base int64) error {
	tail, err := w.pos()
	if err != nil {
		return err
	}
	if err := w.seek(at); err != nil {
		return err
	}
	if err := w.write(uint32(tail-base), "pointer"); err != nil {
		return err
	}
	return w.seek(tail)
}

// Write serializes the set. Textures and sprites are emitted in ascending
// name order and every texture is re-encoded uncompressed.
func (s *Set) Write(ws io.WriteSeeker) error {
	w := &writer{ws: ws}

	if err := w.write(s.Flags, "flags"); err != nil {
		return err
	}
	texSetPtr, err := w.placeholder()
	if err != nil {
		return err
	}
	if err := w.write(uint32(len(s.Textures)), "texture count"); err != nil {
		return err
	}
	if err := w.write(uint32(len(s.Sprites)), "sprite count"); err != nil {
		return err
	}
	spritePtr, err := w.placeholder()
	if err != nil {
		return err
	}
	texNamePtr, err := w.placeholder()
	if err != nil {
		return err
	}
	spriteNamePtr, err := w.placeholder()
	if err != nil {
		return err
	}
	spriteExtraPtr, err := w.placeholder()
	if err != nil {
		return err
	}

	textureNames := make([]string, 0, len(s.Textures))
	for name := range s.Textures {
		textureNames = append(textureNames, name)
	}
	sort.Strings(textureNames)
	spriteNames := make([]string, 0, len(s.Sprites))
	for name := range s.Sprites {
		spriteNames = append(spriteNames, name)
	}
	sort.Strings(spriteNames)

	// Texture set block
	if err := w.patch(texSetPtr, 0); err != nil {
		return err
	}
	texSetBase, err := w.pos()
	if err != nil {
		return err
	}
	if err := w.write([]byte(texSetMagic), "texture set magic"); err != nil {
		return err
	}
	if err := w.write(uint32(len(textureNames)), "texture count"); err != nil {
		return err
	}
	if err := w.write(uint32(0), "padding"); err != nil {
		return err
	}
	texturePtrs := make([]int64, len(textureNames))
	for i := range texturePtrs {
		if texturePtrs[i], err = w.placeholder(); err != nil {
			return err
		}
	}
	for i, name := range textureNames {
		st, err := stageImage(s.Textures[name])
		if err != nil {
			return fmt.Errorf("staging texture %q: %w", name, err)
		}
		if err := w.patch(texturePtrs[i], texSetBase); err != nil {
			return err
		}
		if err := w.writeTexture(st); err != nil {
			return fmt.Errorf("writing texture %q: %w", name, err)
		}
	}

	// Sprites
	if err := w.patch(spritePtr, 0); err != nil {
		return err
	}
	textureIndex := make(map[string]int32, len(textureNames))
	for i, name := range textureNames {
		textureIndex[name] = int32(i)
	}
	for _, name := range spriteNames {
		sprite := s.Sprites[name]
		index, ok := textureIndex[sprite.TextureName]
		if !ok {
			return fmt.Errorf("%w: sprite %q references unknown texture %q", ErrMissingData, name, sprite.TextureName)
		}
		if err := w.write(index, "texture index"); err != nil {
			return err
		}
		if err := w.write(sprite.Rotate, "rotate"); err != nil {
			return err
		}
		if err := w.write(sprite.TexelRegion, "texel region"); err != nil {
			return err
		}
		if err := w.write(sprite.PixelRegion, "pixel region"); err != nil {
			return err
		}
	}

	// Name arrays
	if err := w.writeNames(texNamePtr, textureNames); err != nil {
		return err
	}
	if err := w.writeNames(spriteNamePtr, spriteNames); err != nil {
		return err
	}

	// Sprite extras
	if err := w.patch(spriteExtraPtr, 0); err != nil {
		return err
	}
	for _, name := range spriteNames {
		if err := w.write(uint32(0), "reserved"); err != nil {
			return err
		}
		if err := w.write(uint32(s.Sprites[name].ScreenMode), "screen mode"); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile serializes the set to a file.
func (s *Set) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating container file: %w", err)
	}
	defer f.Close()

	return s.Write(f)
}

// writeTexture emits one texture entry from its staging buffer, always as a
// plane, one mip record per array slice.
func (w *writer) writeTexture(st *dds.Texture) error {
	base, err := w.pos()
	if err != nil {
		return err
	}
	if err := w.write([]byte(planeMagic), "texture magic"); err != nil {
		return err
	}
	mipMaps := st.MipMapCount()
	if err := w.write(mipMaps, "mip map count"); err != nil {
		return err
	}
	if err := w.write(uint8(mipMaps), "mip levels"); err != nil {
		return err
	}
	if err := w.write(uint8(st.ArraySize()), "array size"); err != nil {
		return err
	}
	depth := uint8(st.Depth())
	if depth == 0 {
		depth = 8
	}
	if err := w.write(depth, "depth"); err != nil {
		return err
	}
	if err := w.write(uint8(0), "dimensions"); err != nil {
		return err
	}

	// Mip pointers are relative to the entry's magic position.
	mipPtrs := make([]int64, st.ArraySize())
	for i := range mipPtrs {
		if mipPtrs[i], err = w.placeholder(); err != nil {
			return err
		}
	}
	format := formatFromStaging(st.Format())
	for i := uint32(0); i < st.ArraySize(); i++ {
		if err := w.patch(mipPtrs[i], base); err != nil {
			return err
		}
		data, err := st.Layer(i)
		if err != nil {
			return err
		}
		if err := w.write([]byte(mipMagic), "mip magic"); err != nil {
			return err
		}
		if err := w.write(int32(st.Width()), "width"); err != nil {
			return err
		}
		if err := w.write(int32(st.Height()), "height"); err != nil {
			return err
		}
		if err := w.write(uint32(format), "format"); err != nil {
			return err
		}
		if err := w.write(uint8(i), "mip index"); err != nil {
			return err
		}
		if err := w.write(uint8(i), "array index"); err != nil {
			return err
		}
		if err := w.write(uint16(0), "padding"); err != nil {
			return err
		}
		if err := w.write(uint32(len(data)), "data size"); err != nil {
			return err
		}
		if err := w.write(data, "mip data"); err != nil {
			return err
		}
	}
	return nil
}

// writeNames emits a pointer array followed by NUL-terminated strings,
// patching the section's header field and each entry's pointer. Name
// pointers are absolute.
func (w *writer) writeNames(ptrField int64, names []string) error {
	if err := w.patch(ptrField, 0); err != nil {
		return err
	}
	ptrs := make([]int64, len(names))
	var err error
	for i := range ptrs {
		if ptrs[i], err = w.placeholder(); err != nil {
			return err
		}
	}
	for i, name := range names {
		if strings.IndexByte(name, 0) >= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		if err := w.patch(ptrs[i], 0); err != nil {
			return err
		}
		if err := w.write(append([]byte(name), 0), "name"); err != nil {
			return err
		}
	}
	return nil
}
