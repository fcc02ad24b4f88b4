// Package imaging turns uploaded item photos into square JPEG cards.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// CardSize is the edge length of a stored card in pixels.
const CardSize = 600

// JPEGQuality is the compression quality of stored cards.
const JPEGQuality = 85

// MaxUpload is the largest accepted upload in bytes.
const MaxUpload = 5 << 20

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Card is a processed photo ready to store.
type Card struct {
	Data []byte
	MIME string
}

// Process sniffs the upload's real type, crops the centered square and
// scales it down to CardSize. Smaller squares are not enlarged.
func Process(r io.Reader) (*Card, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUpload {
		return nil, fmt.Errorf("image larger than %d MB", MaxUpload>>20)
	}

	detected := http.DetectContentType(data)
	if !accepted[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, square(img, CardSize), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return &Card{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// centerSquare returns the largest square of b centered on b.
func centerSquare(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x := b.Min.X + (b.Dx()-side)/2
	y := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}

// square crops img to its centered square and scales it to at most size.
func square(img image.Image, size int) image.Image {
	src := centerSquare(img.Bounds())
	side := min(src.Dx(), size)
	if side < 1 {
		side = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
