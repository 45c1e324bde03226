package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"block-quest/internal/blueprint"
	"block-quest/internal/config"
	"block-quest/internal/levels"
	"block-quest/internal/progress"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) > 1 {
			fmt.Fprintln(os.Stderr, "Usage: bqtools validate [image-dir]")
			os.Exit(1)
		}
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		os.Exit(runValidate(os.Stdout, dir))
	case "viz":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: bqtools viz <image|level#>")
			os.Exit(1)
		}
		os.Exit(runViz(os.Stdout, args[0]))
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: bqtools stats <image|level#>")
			os.Exit(1)
		}
		os.Exit(runStats(os.Stdout, args[0]))
	case "all":
		os.Exit(runAll(os.Stdout))
	case "export":
		os.Exit(runExport(args))
	case "import":
		os.Exit(runImport(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: bqtools <command> [args]

Commands:
  validate [image-dir]                 Decode the built-in levels, or every image in a directory
  viz      <image|level#>              Render a blueprint as colored blocks
  stats    <image|level#>              Show size, needed cells and bounds
  all                                  Run validate + viz + stats for every built-in level
  export   [-config f] [-out f] <player>  Write a player's save ("-" = single-player key)
  import   [-config f] <player> <file>    Load a save exported by the game`)
}

// resolve loads a blueprint from a level number (1-based) or an image path.
func resolve(arg string) (*blueprint.Blueprint, string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		cat := levels.Builtin()
		src, ok := cat.Source(n - 1)
		if !ok {
			return nil, "", fmt.Errorf("no level %d (have 1..%d)", n, cat.Count())
		}
		bp, err := src.Decode()
		return bp, levels.Name(n - 1), err
	}
	bp, err := blueprint.DecodeFile(arg)
	return bp, filepath.Base(arg), err
}

// --- validate ---

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".gif", ".bmp":
		return true
	}
	return false
}

func runValidate(w io.Writer, dir string) int {
	if dir == "" {
		bps, err := levels.Builtin().Validate()
		if err != nil {
			fmt.Fprintf(w, "FAIL: %v\n", err)
			return 1
		}
		for i, bp := range bps {
			fmt.Fprintf(w, "%s: OK (%dx%d, %d needed)\n", levels.Name(i), bp.Width(), bp.Height(), bp.Count())
		}
		fmt.Fprintf(w, "\nAll %d levels valid\n", len(bps))
		return 0
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(w, "FAIL: %v\n", err)
		return 1
	}
	errors, checked := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !isImage(entry.Name()) {
			continue
		}
		checked++
		bp, err := blueprint.DecodeFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "%s: ERROR: %v\n", entry.Name(), err)
			errors++
			continue
		}
		if bp.Count() == 0 {
			fmt.Fprintf(w, "%s: WARNING: no needed cells, the level would never complete\n", entry.Name())
		}
		fmt.Fprintf(w, "%s: OK (%dx%d, %d needed)\n", entry.Name(), bp.Width(), bp.Height(), bp.Count())
	}
	if errors > 0 {
		fmt.Fprintf(w, "\n%d error(s) found\n", errors)
		return 1
	}
	fmt.Fprintf(w, "\nAll %d images valid\n", checked)
	return 0
}

// --- viz ---

// ansiColor returns the ANSI escape for the given code.
func ansiColor(code int) string {
	return fmt.Sprintf("\033[%dm", code)
}

func runViz(w io.Writer, arg string) int {
	bp, name, err := resolve(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	printViz(w, name, bp)
	return 0
}

func printViz(w io.Writer, name string, bp *blueprint.Blueprint) {
	fmt.Fprintf(w, "%s (%dx%d)\n", name, bp.Width(), bp.Height())
	for _, row := range bp.Rows() {
		for _, needed := range row {
			if needed {
				fmt.Fprint(w, ansiColor(97), "██", "\033[0m")
			} else {
				fmt.Fprint(w, ansiColor(90), "··", "\033[0m")
			}
		}
		fmt.Fprintln(w)
	}
}

// --- stats ---

func runStats(w io.Writer, arg string) int {
	bp, name, err := resolve(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	printStats(w, name, bp)
	return 0
}

func printStats(w io.Writer, name string, bp *blueprint.Blueprint) {
	total := bp.Width() * bp.Height()
	fmt.Fprintf(w, "%s (%dx%d = %d cells)\n\n", name, bp.Width(), bp.Height(), total)

	needed := bp.Count()
	pct := 0.0
	if total > 0 {
		pct = float64(needed) / float64(total) * 100
	}
	fmt.Fprintf(w, "  needed %4d (%5.1f%%) %s\n", needed, pct, strings.Repeat("█", int(pct/2)))

	minX, minZ, maxX, maxZ := bp.Width(), bp.Height(), -1, -1
	for z := 0; z < bp.Height(); z++ {
		for x := 0; x < bp.Width(); x++ {
			if !bp.Needed(x, z) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minZ, maxZ = min(minZ, z), max(maxZ, z)
		}
	}
	if maxX < 0 {
		fmt.Fprintln(w, "\nBounds:   none")
		return
	}
	fmt.Fprintf(w, "\nBounds:   x %d..%d, z %d..%d\n", minX, maxX, minZ, maxZ)
}

// --- all ---

func runAll(w io.Writer) int {
	fmt.Fprintln(w, "=== VALIDATE ===")
	if code := runValidate(w, ""); code != 0 {
		return code
	}

	bps, _ := levels.Builtin().Validate()
	for i, bp := range bps {
		fmt.Fprintf(w, "\n=== VIZ: %s ===\n", levels.Name(i))
		printViz(w, levels.Name(i), bp)
		fmt.Fprintf(w, "\n=== STATS: %s ===\n", levels.Name(i))
		printStats(w, levels.Name(i), bp)
	}
	return 0
}

// --- export / import ---

func saveKey(player string) string {
	if player == "-" {
		player = ""
	}
	return progress.KeyFor(player)
}

func openStore(path string) (progress.Store, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return progress.Open(cfg.Storage.Driver, cfg.Storage.Path)
}

func runExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	out := fs.String("out", "", "output file (default: stdout; use "+progress.ExportFileName+" to match the game)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: bqtools export [-config f] [-out f] <player>")
		return 1
	}

	store, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	data, err := progress.Export(context.Background(), store, saveKey(fs.Arg(0)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *out == "" {
		os.Stdout.Write(data)
		os.Stdout.WriteString("\n")
		return 0
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", *out, len(data))
	return 0
}

func runImport(args []string) int {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	fs.Parse(args)
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: bqtools import [-config f] <player> <file>")
		return 1
	}

	data, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	store, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	if err := progress.Import(context.Background(), store, saveKey(fs.Arg(0)), data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "Imported %s for %s\n", fs.Arg(1), fs.Arg(0))
	return 0
}
