// spawntool is a CLI utility for inspecting and rewriting world model
// spawn files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/midgard-vmap/internal/config"
	"github.com/Faultbox/midgard-vmap/internal/logger"
	"github.com/Faultbox/midgard-vmap/pkg/vmap"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "list", "ls":
		cmdList(args)
	case "verify":
		cmdVerify(args)
	case "copy", "cp":
		cmdCopy(args)
	case "scan":
		cmdScan(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`spawntool - world model spawn file utility

Usage:
  spawntool [flags] <command> [options]

Commands:
  info <file>            Show spawn file statistics
  list <file> [pattern]  List spawn records (optional name substring)
  verify <file>          Decode the whole file, report the first corruption
  copy <file> <output>   Decode and re-encode a spawn file
  scan [dir]             Summarize all spawn files under a directory

Flags:
  -config path           Config file path
  -debug                 Enable debug logging
  -spawn-dir path        Default directory for scan

Examples:
  spawntool info world.vmdir
  spawntool list world.vmdir azeroth
  spawntool copy world.vmdir world_copy.vmdir`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spawntool info <file>")
		os.Exit(1)
	}

	spawns, err := vmap.ReadSpawnFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tiles := make(map[uint16]int)
	var simple, bounded int
	for _, s := range spawns {
		tiles[s.TileID]++
		if s.Flags.Has(vmap.FlagSimpleModel) {
			simple++
		}
		if s.HasBound() {
			bounded++
		}
	}

	fmt.Printf("File:          %s\n", args[0])
	fmt.Printf("Records:       %d\n", len(spawns))
	fmt.Printf("Tiles:         %d\n", len(tiles))
	fmt.Printf("Simple models: %d\n", simple)
	fmt.Printf("With bound:    %d\n", bounded)
}

func cmdList(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spawntool list <file> [pattern]")
		os.Exit(1)
	}
	pattern := ""
	if len(args) > 1 {
		pattern = strings.ToLower(args[1])
	}

	spawns, err := vmap.ReadSpawnFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, s := range spawns {
		if pattern != "" && !strings.Contains(strings.ToLower(s.Name), pattern) {
			continue
		}
		fmt.Printf("%8d tile=%-5d scale=%-6.3f pos=(%.1f, %.1f, %.1f) [%s] %s\n",
			s.ID, s.TileID, s.Scale, s.Pos.X, s.Pos.Y, s.Pos.Z, s.Flags, s.Name)
	}
}

func cmdVerify(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spawntool verify <file>")
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	count := 0
	for {
		_, err := vmap.ReadSpawn(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Corruption at record %d: %v\n", count, err)
			os.Exit(1)
		}
		count++
	}
	fmt.Printf("OK: %d records\n", count)
}

func cmdCopy(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spawntool copy <file> <output>")
		os.Exit(1)
	}

	spawns, err := vmap.ReadSpawnFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := vmap.WriteSpawns(out, spawns); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Copied %d records to %s\n", len(spawns), args[1])
}

func cmdScan(cfg *config.Config, args []string) {
	dir := cfg.Data.SpawnDir
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.ScanTimeout)
	defer cancel()

	type fileStat struct {
		path    string
		records int
		err     error
	}
	var stats []fileStat

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		spawns, rerr := vmap.ReadSpawnFile(path)
		stats = append(stats, fileStat{path: path, records: len(spawns), err: rerr})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(os.Stderr, "Scan timed out")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].records > stats[j].records
	})

	for _, s := range stats {
		if s.err != nil {
			fmt.Printf("  %-40s BAD (%v)\n", s.path, s.err)
			continue
		}
		fmt.Printf("  %-40s %d records\n", s.path, s.records)
	}
	fmt.Printf("Scanned %d files under %s\n", len(stats), dir)
}
