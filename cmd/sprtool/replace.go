package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/Faultbox/sprset/internal/logger"
	"github.com/Faultbox/sprset/pkg/spr"

	// Register the stdlib and x/image decoders so any common image file can
	// be used as a replacement texture.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func cmdReplace(args []string) {
	fs := flag.NewFlagSet("replace", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 4 {
		fmt.Fprintln(os.Stderr, "Usage: sprtool replace <file.spr> <texture> <image> <out.spr>")
		os.Exit(1)
	}

	cfg := cf.load()
	db := openDatabase(cfg)
	if db != nil {
		defer db.Close()
	}

	set, err := spr.ParseFile(fs.Arg(0), db)
	if err != nil {
		fail(err)
	}

	texName := fs.Arg(1)
	if _, ok := set.Textures[texName]; !ok {
		fail(fmt.Errorf("no texture %q in %s", texName, fs.Arg(0)))
	}

	img, err := loadImage(fs.Arg(2))
	if err != nil {
		fail(err)
	}
	set.Textures[texName] = img

	if err := set.WriteFile(fs.Arg(3)); err != nil {
		fail(err)
	}

	bounds := img.Bounds()
	logger.Sugar.Debugw("replaced texture",
		"texture", texName, "width", bounds.Dx(), "height", bounds.Dy())
	fmt.Printf("Replaced %s (%dx%d), wrote %s\n", texName, bounds.Dx(), bounds.Dy(), fs.Arg(3))
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	logger.Sugar.Debugw("decoded replacement image", "path", path, "format", format)
	return img, nil
}
