// Package imageopt produces the JPEG variants of portfolio photos.
package imageopt

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Quality is the JPEG quality of every variant.
const Quality = 85

// maxDecodedSize guards against crafted headers claiming huge dimensions.
const maxDecodedSize = 512 << 20

// Variant is one written output file.
type Variant struct {
	Name   string
	Path   string
	Width  int
	Height int
	Bytes  int64
}

// Options tunes Optimize. The zero value keeps the source resolution.
type Options struct {
	// MaxWidth downscales the source before cropping when it is wider.
	MaxWidth int
}

// Decode reads an image after checking its decoded size.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image dimensions: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height)*4 > maxDecodedSize {
		return nil, fmt.Errorf("image too large: %dx%d pixels", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Flatten copies img onto an opaque white RGBA canvas, optionally scaled down to maxWidth.
func Flatten(img image.Image, maxWidth int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == b.Dx() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	}
	return dst
}

// DesktopCrop keeps the left-most 16:9 window at full height.
func DesktopCrop(img *image.RGBA) image.Image {
	b := img.Bounds()
	width := b.Dy() * 16 / 9
	if width >= b.Dx() {
		return img
	}
	return img.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Max.Y))
}

// MobileCrop keeps the centered 4:3 window at full height.
func MobileCrop(img *image.RGBA) image.Image {
	b := img.Bounds()
	width := b.Dy() * 4 / 3
	if width >= b.Dx() {
		return img
	}
	left := b.Min.X + (b.Dx()-width)/2
	return img.SubImage(image.Rect(left, b.Min.Y, left+width, b.Max.Y))
}

// Optimize writes <base>.jpg, <base>-desktop.jpg and <base>-mobile.jpg into outDir.
func Optimize(sourcePath, outDir string, opts Options) ([]Variant, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourcePath, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	full := Flatten(src, opts.MaxWidth)

	outputs := []struct {
		name string
		img  image.Image
	}{
		{base + ".jpg", full},
		{base + "-desktop.jpg", DesktopCrop(full)},
		{base + "-mobile.jpg", MobileCrop(full)},
	}

	variants := make([]Variant, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(outDir, o.name)
		size, err := writeJPEG(path, o.img)
		if err != nil {
			return variants, err
		}
		b := o.img.Bounds()
		variants = append(variants, Variant{Name: o.name, Path: path, Width: b.Dx(), Height: b.Dy(), Bytes: size})
	}
	return variants, nil
}

func writeJPEG(path string, img image.Image) (int64, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}
