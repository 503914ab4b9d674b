// sprtool is a CLI utility for working with sprite-set texture containers.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Faultbox/sprset/internal/config"
	"github.com/Faultbox/sprset/internal/logger"
	"github.com/Faultbox/sprset/pkg/spr"
	"github.com/Faultbox/sprset/pkg/sprdb"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "extract", "x":
		cmdExtract(args)
	case "rebuild":
		cmdRebuild(args)
	case "replace":
		cmdReplace(args)
	case "db":
		cmdDB(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
}

func printUsage() {
	fmt.Println(`sprtool - sprite-set container utility

Usage:
  sprtool <command> [options]

Commands:
  info <file.spr>                              Show container contents
  extract <file.spr> [outdir]                  Extract textures to PNG
  rebuild <in.spr> <out.spr>                   Parse and re-serialize a container
  replace <file.spr> <texture> <image> <out>   Swap a texture with an image file
  db init|import|show                          Manage the name database

Common options (per command):
  -config <path>   Explicit config file
  -db <path>       Name database for stripped containers
  -v               Debug logging

Examples:
  sprtool info -db names.db ui_title.spr
  sprtool extract -dds -sprites ui_title.spr ./out
  sprtool replace ui_title.spr TITLE_LOGO logo.png ui_title_new.spr
  sprtool db import names.db listing.txt`)
}

// commonFlags are the options shared by every subcommand.
type commonFlags struct {
	config  *string
	db      *string
	verbose *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:  fs.String("config", "", "Path to config file"),
		db:      fs.String("db", "", "Path to the name database"),
		verbose: fs.Bool("v", false, "Enable debug logging"),
	}
}

// load resolves the effective configuration (defaults < file < flags) and
// initializes logging from it.
func (cf *commonFlags) load() *config.Config {
	cfg, err := config.Load(*cf.config)
	if err != nil {
		fail(err)
	}
	config.Overrides{Database: *cf.db, Verbose: *cf.verbose}.Apply(cfg)

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	return cfg
}

// openDatabase opens the configured name database, or returns nil when none
// is configured.
func openDatabase(cfg *config.Config) *sprdb.DB {
	if cfg.Database.Path == "" {
		return nil
	}
	db, err := sprdb.Open(cfg.Database.Path)
	if err != nil {
		fail(fmt.Errorf("opening name database: %w", err))
	}
	return db
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sprtool info <file.spr>")
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
	logger.Sugar.Debugw("parsed container",
		"file", fs.Arg(0), "textures", len(set.Textures), "sprites", len(set.Sprites))

	fmt.Printf("Container: %s\n", fs.Arg(0))
	if set.Name != "" {
		fmt.Printf("Set name:  %s\n", set.Name)
	}
	fmt.Printf("Flags:     %#08x\n", set.Flags)
	fmt.Printf("Textures:  %d\n", len(set.Textures))
	fmt.Printf("Sprites:   %d\n", len(set.Sprites))

	fmt.Println()
	fmt.Println("Textures:")
	for _, name := range sortedKeys(set.Textures) {
		bounds := set.Textures[name].Bounds()
		fmt.Printf("  %-32s %dx%d\n", name, bounds.Dx(), bounds.Dy())
	}

	fmt.Println()
	fmt.Println("Sprites:")
	for _, name := range sortedKeys(set.Sprites) {
		sprite := set.Sprites[name]
		fmt.Printf("  %-32s %-24s [%g %g %g %g] %s\n",
			name, sprite.TextureName,
			sprite.PixelRegion.X, sprite.PixelRegion.Y,
			sprite.PixelRegion.Z, sprite.PixelRegion.W,
			sprite.ScreenMode)
	}
}

func cmdRebuild(args []string) {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: sprtool rebuild <in.spr> <out.spr>")
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
	if err := set.WriteFile(fs.Arg(1)); err != nil {
		fail(err)
	}

	fmt.Printf("Rebuilt: %s (%d textures, %d sprites)\n", fs.Arg(1), len(set.Textures), len(set.Sprites))
}

// sortedKeys returns a map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
