package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// encodePNG renders an image.Image to PNG bytes.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// gradientNRGBA builds a w x h NRGBA test image with a deterministic
// per-pixel pattern.
func gradientNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: byte(x * 10),
				G: byte(y * 10),
				B: byte((x + y) * 5),
				A: 255,
			})
		}
	}
	return img
}

func TestDecodePNG_RGBA(t *testing.T) {
	const w, h = 8, 6
	src := gradientNRGBA(w, h)

	got, err := Decode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got.Width != w || got.Height != h {
		t.Errorf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, w, h)
	}
	if got.Channels != 4 {
		t.Fatalf("Channels = %d, want 4", got.Channels)
	}
	if len(got.Pixels) != got.ByteLen() {
		t.Fatalf("len(Pixels) = %d, want %d", len(got.Pixels), got.ByteLen())
	}

	// Spot-check a few pixels against the source pattern.
	for _, p := range []struct{ x, y int }{{0, 0}, {3, 2}, {w - 1, h - 1}} {
		idx := (p.y*w + p.x) * 4
		want := src.NRGBAAt(p.x, p.y)
		if got.Pixels[idx] != want.R || got.Pixels[idx+1] != want.G ||
			got.Pixels[idx+2] != want.B || got.Pixels[idx+3] != want.A {
			t.Errorf("pixel (%d,%d) = %v, want %v",
				p.x, p.y, got.Pixels[idx:idx+4], want)
		}
	}
}

func TestDecodePNG_Gray(t *testing.T) {
	const w, h = 5, 4
	src := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.SetGray(x, y, color.Gray{Y: byte(y*w + x)})
		}
	}

	got, err := Decode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got.Channels != 1 {
		t.Fatalf("Channels = %d, want 1 (grayscale preserved)", got.Channels)
	}
	if len(got.Pixels) != w*h {
		t.Fatalf("len(Pixels) = %d, want %d", len(got.Pixels), w*h)
	}
	for i := range got.Pixels {
		if got.Pixels[i] != byte(i) {
			t.Errorf("pixel %d = %d, want %d", i, got.Pixels[i], i)
		}
	}
}

func TestDecodeJPEG(t *testing.T) {
	const w, h = 16, 12
	src := gradientNRGBA(w, h)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// JPEG decodes to YCbCr, so the generic path yields 3-channel RGB.
	if got.Channels != 3 {
		t.Errorf("Channels = %d, want 3", got.Channels)
	}
	if got.Width != w || got.Height != h {
		t.Errorf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, w, h)
	}
	if len(got.Pixels) != got.ByteLen() {
		t.Errorf("len(Pixels) = %d, want %d", len(got.Pixels), got.ByteLen())
	}
}

func TestDecodeGIF(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{
		color.RGBA{R: 255, A: 255},
		color.RGBA{G: 255, A: 255},
	})
	src.SetColorIndex(1, 1, 1)
	var buf bytes.Buffer
	if err := gif.Encode(&buf, src, nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}

	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Channels != 3 {
		t.Errorf("Channels = %d, want 3", got.Channels)
	}

	// Pixel (1,1) is the green palette entry.
	idx := (1*4 + 1) * 3
	if got.Pixels[idx] != 0 || got.Pixels[idx+1] != 255 || got.Pixels[idx+2] != 0 {
		t.Errorf("pixel (1,1) = %v, want green", got.Pixels[idx:idx+3])
	}
}

func TestDecodeBMP(t *testing.T) {
	const w, h = 6, 3
	src := gradientNRGBA(w, h)
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}

	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Width != w || got.Height != h {
		t.Errorf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, w, h)
	}
	if len(got.Pixels) != got.ByteLen() {
		t.Errorf("len(Pixels) = %d, want %d", len(got.Pixels), got.ByteLen())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "empty data", data: nil, wantErr: ErrEmptyImage},
		{name: "not an image", data: []byte("definitely not pixels"), wantErr: ErrInvalidImage},
		{name: "truncated png header", data: []byte{0x89, 'P', 'N', 'G'}, wantErr: ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	if err := os.WriteFile(path, encodePNG(t, gradientNRGBA(3, 3)), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got.Width != 3 || got.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 3x3", got.Width, got.Height)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("LoadFile(missing) error = %v, want ErrInvalidImage", err)
	}
}

// TestFromImageSubimage verifies stride handling: a sub-image view has a
// stride wider than its row length, which must not leak padding bytes.
func TestFromImageSubimage(t *testing.T) {
	base := gradientNRGBA(10, 10)
	sub := base.SubImage(image.Rect(2, 3, 7, 8)).(*image.NRGBA)

	got, err := FromImage(sub)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if got.Width != 5 || got.Height != 5 || got.Channels != 4 {
		t.Fatalf("got %dx%dx%d, want 5x5x4", got.Width, got.Height, got.Channels)
	}

	want := base.NRGBAAt(2, 3)
	if got.Pixels[0] != want.R || got.Pixels[1] != want.G || got.Pixels[2] != want.B {
		t.Errorf("first pixel = %v, want %v", got.Pixels[:4], want)
	}
	wantLast := base.NRGBAAt(6, 7)
	last := got.Pixels[len(got.Pixels)-4:]
	if last[0] != wantLast.R || last[1] != wantLast.G || last[2] != wantLast.B {
		t.Errorf("last pixel = %v, want %v", last, wantLast)
	}
}
