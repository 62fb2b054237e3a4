// Package imageio is the image-loading collaborator for the OFIQ engine
// wrapper. It decodes common still-image formats (PNG, JPEG, GIF, BMP) into
// a contiguous, interleaved pixel buffer with known width, height and channel
// count - the only representation the native boundary accepts.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// Image loading errors
var (
	ErrEmptyImage    = errors.New("imageio: empty image data")
	ErrInvalidImage  = errors.New("imageio: invalid image data")
	ErrInvalidBounds = errors.New("imageio: invalid image bounds")
)

// Image is a decoded image as a contiguous, row-major, interleaved byte
// buffer. Channels is 1 (grayscale), 3 (RGB) or 4 (RGBA); the buffer holds
// exactly Width*Height*Channels bytes with no row padding.
type Image struct {
	Pixels   []byte
	Width    int
	Height   int
	Channels int
}

// ByteLen returns the expected buffer length Width*Height*Channels.
func (i *Image) ByteLen() int {
	return i.Width * i.Height * i.Channels
}

// Decode decodes image data from PNG, JPEG, GIF or BMP into a contiguous
// pixel buffer. Grayscale sources keep a single channel; sources with an
// alpha channel keep all four; everything else becomes 3-channel RGB.
// This is a pure function with no side effects.
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return FromImage(img)
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return Decode(data)
}

// FromImage flattens a decoded image.Image into a contiguous pixel buffer.
// This is a pure function with no side effects.
func FromImage(img image.Image) (*Image, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, width, height)
	}

	switch src := img.(type) {
	case *image.Gray:
		return flattenGray(src, width, height), nil
	case *image.NRGBA:
		return flattenRGBA(src.Pix, src.Stride, bounds, width, height), nil
	case *image.RGBA:
		return flattenRGBA(src.Pix, src.Stride, bounds, width, height), nil
	default:
		return flattenRGB(img, width, height), nil
	}
}

// flattenGray extracts a single-channel buffer from a grayscale image,
// dropping any row stride padding.
func flattenGray(src *image.Gray, width, height int) *Image {
	pixels := make([]byte, width*height)
	bounds := src.Bounds()
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := src.Pix[(y-bounds.Min.Y)*src.Stride:]
		copy(pixels[idx:idx+width], row[:width])
		idx += width
	}
	return &Image{Pixels: pixels, Width: width, Height: height, Channels: 1}
}

// flattenRGBA copies 4-channel pixel rows into a contiguous buffer,
// dropping any row stride padding. The byte order stays R,G,B,A.
func flattenRGBA(pix []byte, stride int, bounds image.Rectangle, width, height int) *Image {
	pixels := make([]byte, width*height*4)
	rowLen := width * 4
	idx := 0
	for y := 0; y < height; y++ {
		row := pix[y*stride:]
		copy(pixels[idx:idx+rowLen], row[:rowLen])
		idx += rowLen
	}
	return &Image{Pixels: pixels, Width: width, Height: height, Channels: 4}
}

// flattenRGB converts any other source (YCbCr JPEG, paletted GIF, ...) to a
// 3-channel RGB buffer via the color model.
func flattenRGB(img image.Image, width, height int) *Image {
	bounds := img.Bounds()
	pixels := make([]byte, width*height*3)
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA() returns 16-bit channels; keep the high byte.
			pixels[idx] = byte(r >> 8)
			pixels[idx+1] = byte(g >> 8)
			pixels[idx+2] = byte(b >> 8)
			idx += 3
		}
	}
	return &Image{Pixels: pixels, Width: width, Height: height, Channels: 3}
}
