package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"block-quest/internal/blueprint"
)

const maxSide = 64

var (
	neededColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	emptyColor  = color.NRGBA{A: 255}
)

func main() {
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	size := flag.String("size", "16x16", "blueprint size as WxH")
	threshold := flag.Float64("threshold", 0.5, "noise level above which a cell needs a block (0..1)")
	freq := flag.Float64("freq", 0.15, "noise frequency")
	out := flag.String("out", "", "output file, .png or .bmp (default: PNG on stdout)")
	flag.Parse()

	w, h, err := parseSize(*size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *threshold < 0 || *threshold > 1 {
		fmt.Fprintf(os.Stderr, "Error: threshold %v out of range 0..1\n", *threshold)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Generating %dx%d blueprint (seed %d, threshold %.2f)...\n", w, h, *seed, *threshold)

	img := generate(w, h, *seed, *threshold, *freq)

	var buf bytes.Buffer
	if err := encode(&buf, img, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding image: %v\n", err)
		os.Exit(1)
	}

	// Round-trip through the game's decoder so the file is known to load.
	bp, err := blueprint.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: generated image does not decode: %v\n", err)
		os.Exit(1)
	}
	if bp.Count() == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no needed cells, try a lower -threshold")
	}

	if *out == "" {
		os.Stdout.Write(buf.Bytes())
	} else {
		if err := os.WriteFile(*out, buf.Bytes(), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", *out, buf.Len())
	}

	total := w * h
	fmt.Fprintf(os.Stderr, "\n%s\n", bp.String())
	fmt.Fprintf(os.Stderr, "Needed: %d of %d (%.1f%%)\n", bp.Count(), total, float64(bp.Count())/float64(total)*100)
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w < 1 || w > maxSide {
		return 0, 0, fmt.Errorf("invalid width %q (1..%d)", parts[0], maxSide)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h < 1 || h > maxSide {
		return 0, 0, fmt.Errorf("invalid height %q (1..%d)", parts[1], maxSide)
	}
	return w, h, nil
}

// generate paints needed cells white and the rest black. The same seed
// always yields the same image.
func generate(w, h int, seed int64, threshold, freq float64) *image.NRGBA {
	noise := NewNoise(seed, 2, 2, 3)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Offset by half a cell so integer lattice points (always 0) are avoided.
			v := noise.At(float64(x)+0.5, float64(y)+0.5, freq)
			if v > threshold {
				img.SetNRGBA(x, y, neededColor)
			} else {
				img.SetNRGBA(x, y, emptyColor)
			}
		}
	}
	return img
}

func encode(w io.Writer, img image.Image, out string) error {
	if strings.EqualFold(filepath.Ext(out), ".bmp") {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}
