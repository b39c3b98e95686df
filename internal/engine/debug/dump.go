// Package debug writes renderer diagnostics to disk.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Dumper writes state snapshots and framebuffer captures into one directory.
type Dumper struct {
	outputDir string
	now       func() time.Time
}

// NewDumper creates a dumper writing into outputDir. An empty dir means the
// working directory.
func NewDumper(outputDir string) *Dumper {
	return &Dumper{outputDir: outputDir, now: time.Now}
}

// Capture is raw RGBA framebuffer data with the origin at the bottom left.
type Capture struct {
	Pixels []byte
	Width  int
	Height int
}

// Dump writes <tag>_<timestamp>.yaml with state marshaled as YAML and, when
// capture has pixels, <tag>_<timestamp>.png. It returns the written paths.
// A failure of one file does not stop the other.
func (d *Dumper) Dump(tag string, state any, capture Capture) ([]string, error) {
	if d.outputDir != "" {
		if err := os.MkdirAll(d.outputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	base := fmt.Sprintf("%s_%s", tag, d.now().Format("2006-01-02_15-04-05.000"))
	base = filepath.Join(d.outputDir, base)

	var paths []string
	var errs error

	statePath := base + ".yaml"
	if err := writeYAML(statePath, state); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		paths = append(paths, statePath)
	}

	if capture.Width > 0 && capture.Height > 0 {
		imagePath := base + ".png"
		img, err := FlipPixels(capture.Pixels, capture.Width, capture.Height)
		if err == nil {
			err = writePNG(imagePath, img)
		}
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			paths = append(paths, imagePath)
		}
	}

	return paths, errs
}

// FlipPixels copies bottom-up RGBA rows into a top-down image.
func FlipPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

func writeYAML(path string, state any) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

func writePNG(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
