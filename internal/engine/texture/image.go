// Package texture decodes material images and deduplicates their GPU uploads.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Decode decodes an encoded image into RGBA. name is used for the TGA
// fallback (which has no magic number) and for error messages.
func Decode(data []byte, name string) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decoding %s: empty data", name)
	}

	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoding %s: empty %s image", name, format)
	}
	return ImageToRGBA(img), nil
}

// ImageToRGBA converts any image.Image to *image.RGBA with its origin at (0,0).
// An *image.RGBA that already starts at the origin is returned as is.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Solid returns a 1x1 image of one color.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// files with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("TGA has no pixels")
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	src := data[offset:]
	bytesPerPixel := bpp / 8

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	pixelCount := width * height
	put := func(i int, px []byte) {
		x, y := i%width, i/width
		if !topToBottom {
			y = height - 1 - y
		}
		a := uint8(255)
		if bytesPerPixel == 4 {
			a = px[3]
		}
		img.SetRGBA(x, y, color.RGBA{R: px[2], G: px[1], B: px[0], A: a})
	}

	if imageType == TGATypeUncompressed {
		if len(src) < pixelCount*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < pixelCount; i++ {
			put(i, src[i*bytesPerPixel:])
		}
		return img, nil
	}

	i, pos := 0, 0
	for i < pixelCount {
		if pos >= len(src) {
			return nil, fmt.Errorf("TGA RLE data truncated at pixel %d", i)
		}
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if pos+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("TGA RLE data truncated at pixel %d", i)
			}
			px := src[pos : pos+bytesPerPixel]
			pos += bytesPerPixel
			for n := 0; n < count && i < pixelCount; n++ {
				put(i, px)
				i++
			}
			continue
		}

		for n := 0; n < count && i < pixelCount; n++ {
			if pos+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("TGA RLE data truncated at pixel %d", i)
			}
			put(i, src[pos:pos+bytesPerPixel])
			pos += bytesPerPixel
			i++
		}
	}
	return img, nil
}
