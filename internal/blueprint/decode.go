package blueprint

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
)

// Threshold is the red-channel value a pixel must exceed to need a block.
const Threshold = 128

// DecodeError reports a blueprint image that could not be turned into a grid.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode blueprint %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads a PNG, GIF or BMP image and thresholds its red channel.
// The grid has the image's pixel dimensions; pixel (x, y) maps to cell (x, z).
func Decode(r io.Reader) (*Blueprint, error) {
	return decode("image", r)
}

func decode(label string, r io.Reader) (*Blueprint, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Source: label, Err: err}
	}
	return FromImage(label, img)
}

// FromImage thresholds an already decoded image.
func FromImage(label string, img image.Image) (*Blueprint, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, &DecodeError{Source: label, Err: errors.New("empty image")}
	}

	cells := make([]bool, w*h)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			// Canvas pixel data is straight alpha, so compare the
			// non-premultiplied red value.
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+z)).(color.NRGBA)
			cells[z*w+x] = c.R > Threshold
		}
	}
	return &Blueprint{width: w, height: h, cells: cells}, nil
}

// DecodeDataURL decodes a "data:image/...;base64," URL.
func DecodeDataURL(u string) (*Blueprint, error) {
	label := dataURLLabel(u)
	data, err := dataURLBytes(u)
	if err != nil {
		return nil, &DecodeError{Source: label, Err: err}
	}
	return decode(label, bytes.NewReader(data))
}

// DecodeFile decodes an image file from disk.
func DecodeFile(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()
	return decode(path, f)
}

func dataURLBytes(u string) ([]byte, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("data URL has no payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func dataURLLabel(u string) string {
	meta, _, _ := strings.Cut(u, ",")
	if len(meta) > 32 {
		meta = meta[:32]
	}
	return meta
}
