package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Faultbox/sprset/internal/logger"
	"github.com/Faultbox/sprset/pkg/dds"
	"github.com/Faultbox/sprset/pkg/spr"
)

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	cf := addCommonFlags(fs)
	writeDDS := fs.Bool("dds", false, "Also write a .dds per texture")
	writeSprites := fs.Bool("sprites", false, "Also crop every sprite to PNG")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sprtool extract <file.spr> [outdir]")
		os.Exit(1)
	}

	cfg := cf.load()
	db := openDatabase(cfg)
	if db != nil {
		defer db.Close()
	}

	outDir := cfg.Extract.OutputDir
	if fs.NArg() > 1 {
		outDir = fs.Arg(1)
	}
	if *writeDDS {
		cfg.Extract.WriteDDS = true
	}
	if *writeSprites {
		cfg.Extract.WriteSprites = true
	}

	set, err := spr.ParseFile(fs.Arg(0), db)
	if err != nil {
		fail(err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fail(fmt.Errorf("creating output directory: %w", err))
	}

	for _, name := range sortedKeys(set.Textures) {
		img := set.Textures[name]

		path := filepath.Join(outDir, name+".png")
		if err := writePNG(path, img); err != nil {
			fail(err)
		}
		fmt.Printf("Extracted: %s\n", path)

		if cfg.Extract.WriteDDS {
			path := filepath.Join(outDir, name+".dds")
			if err := writeDDSFile(path, img); err != nil {
				fail(err)
			}
			fmt.Printf("Extracted: %s\n", path)
		}
	}

	if cfg.Extract.WriteSprites {
		spriteDir := filepath.Join(outDir, "sprites")
		if err := os.MkdirAll(spriteDir, 0755); err != nil {
			fail(fmt.Errorf("creating sprite directory: %w", err))
		}
		for _, name := range sortedKeys(set.Sprites) {
			img, err := set.SpriteImage(name)
			if err != nil {
				fail(err)
			}
			path := filepath.Join(spriteDir, name+".png")
			if err := writePNG(path, img); err != nil {
				fail(err)
			}
			fmt.Printf("Extracted: %s\n", path)
		}
	}

	logger.Sugar.Debugw("extraction finished",
		"file", fs.Arg(0), "outdir", outDir,
		"textures", len(set.Textures), "sprites", len(set.Sprites))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// writeDDSFile stages the decoded image as an uncompressed single-level
// texture and writes it as a DDS file.
func writeDDSFile(path string, img image.Image) error {
	bounds := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	st, err := dds.New(dds.Params{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Format: dds.FormatR8G8B8A8UNorm,
	})
	if err != nil {
		return err
	}
	copy(st.Bytes(), rgba.Pix)

	return dds.EncodeFile(path, st)
}
