package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Faultbox/sprset/internal/logger"
	"github.com/Faultbox/sprset/pkg/encoding"
	"github.com/Faultbox/sprset/pkg/sprdb"
)

func cmdDB(args []string) {
	if len(args) < 1 {
		printDBUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "init":
		cmdDBInit(args[1:])
	case "import":
		cmdDBImport(args[1:])
	case "show":
		cmdDBShow(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown db command: %s\n", args[0])
		printDBUsage()
		os.Exit(1)
	}
}

func printDBUsage() {
	fmt.Println(`Usage:
  sprtool db init <names.db>                 Create an empty name database
  sprtool db import <names.db> <listing>     Import a name listing
  sprtool db show <names.db> <file.spr>      Show the record for a container

Listing format, one entry per line:
  set <filename> <set name>
  tex <index> <name>
  spr <index> <name>

tex/spr lines attach to the most recent set line. Pass -sjis when the
listing was dumped from a Shift-JIS release.`)
}

func cmdDBInit(args []string) {
	fs := flag.NewFlagSet("db init", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sprtool db init <names.db>")
		os.Exit(1)
	}

	db, err := sprdb.Open(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	if err := db.Close(); err != nil {
		fail(err)
	}
	fmt.Printf("Created: %s\n", fs.Arg(0))
}

func cmdDBImport(args []string) {
	fs := flag.NewFlagSet("db import", flag.ExitOnError)
	cf := addCommonFlags(fs)
	sjis := fs.Bool("sjis", false, "Listing is Shift-JIS encoded")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: sprtool db import <names.db> <listing>")
		os.Exit(1)
	}
	cf.load()

	data, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		fail(fmt.Errorf("reading listing: %w", err))
	}
	if *sjis {
		data = []byte(encoding.ShiftJISToUTF8(data))
	}

	sets, err := parseListing(data)
	if err != nil {
		fail(err)
	}

	db, err := sprdb.Open(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	defer db.Close()

	for _, set := range sets {
		if err := db.Put(set); err != nil {
			fail(fmt.Errorf("storing set %q: %w", set.Filename, err))
		}
		logger.Sugar.Debugw("imported set", "filename", set.Filename,
			"textures", len(set.Textures), "sprites", len(set.Sprites))
	}

	fmt.Printf("Imported %d sets into %s\n", len(sets), fs.Arg(0))
}

// parseListing reads a name listing into set records. tex/spr lines attach
// to the most recent set line; names take the rest of the line.
func parseListing(data []byte) ([]*sprdb.Set, error) {
	var sets []*sprdb.Set
	var current *sprdb.Set

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 {
			return nil, fmt.Errorf("listing line %d: expected 3 fields, got %q", lineNo, line)
		}

		switch parts[0] {
		case "set":
			current = &sprdb.Set{
				Filename: parts[1],
				Name:     strings.TrimSpace(parts[2]),
				Textures: make(map[uint32]string),
				Sprites:  make(map[uint32]string),
			}
			sets = append(sets, current)
		case "tex", "spr":
			if current == nil {
				return nil, fmt.Errorf("listing line %d: %s entry before any set line", lineNo, parts[0])
			}
			idx, err := strconv.ParseUint(parts[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("listing line %d: bad index %q", lineNo, parts[1])
			}
			name := strings.TrimSpace(parts[2])
			if parts[0] == "tex" {
				current.Textures[uint32(idx)] = name
			} else {
				current.Sprites[uint32(idx)] = name
			}
		default:
			return nil, fmt.Errorf("listing line %d: unknown entry kind %q", lineNo, parts[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	return sets, nil
}

func cmdDBShow(args []string) {
	fs := flag.NewFlagSet("db show", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: sprtool db show <names.db> <file.spr>")
		os.Exit(1)
	}

	db, err := sprdb.Open(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	defer db.Close()

	set, err := db.SetForFile(fs.Arg(1))
	if err != nil {
		fail(err)
	}
	if set == nil {
		fmt.Fprintf(os.Stderr, "No record for %s\n", fs.Arg(1))
		os.Exit(1)
	}

	fmt.Printf("Set:      %s\n", set.Name)
	fmt.Printf("Filename: %s\n", set.Filename)

	fmt.Println()
	fmt.Println("Textures:")
	for _, idx := range sortedIndexes(set.Textures) {
		fmt.Printf("  %4d  %s\n", idx, set.Textures[idx])
	}

	fmt.Println()
	fmt.Println("Sprites:")
	for _, idx := range sortedIndexes(set.Sprites) {
		fmt.Printf("  %4d  %s\n", idx, set.Sprites[idx])
	}
}

// sortedIndexes returns a name map's indexes in ascending order.
func sortedIndexes(m map[uint32]string) []uint32 {
	idxs := make([]uint32, 0, len(m))
	for idx := range m {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	return idxs
}
