package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

const (
	defaultMaxBytes = 10 * 1024 * 1024
	defaultMaxEdge  = 1024
	defaultQuality  = 95
)

// Intake validates an uploaded image and normalizes it into the shape
// the analyzer and the report expect: oriented, bounded in size and
// re-encoded as JPEG, backed by a scoped temp file.
type Intake struct {
	tempDir  string
	maxBytes int
	maxEdge  int
	quality  int
}

func New(tempDir string, maxBytes, maxEdge, quality int) *Intake {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	if maxEdge <= 0 {
		maxEdge = defaultMaxEdge
	}
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Intake{
		tempDir:  tempDir,
		maxBytes: maxBytes,
		maxEdge:  maxEdge,
		quality:  quality,
	}
}

func (i *Intake) Prepare(_ context.Context, _ string, body io.Reader) (*domain.ImageAsset, error) {
	raw, err := io.ReadAll(io.LimitReader(body, int64(i.maxBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("read image payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidImage, "read image payload", errors.New("empty payload"))
	}
	if len(raw) > i.maxBytes {
		return nil, domain.WrapError(domain.ErrInvalidImage, "read image payload", fmt.Errorf("payload exceeds %d bytes", i.maxBytes))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidImage, "decode image", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, domain.WrapError(domain.ErrInvalidImage, "decode image", fmt.Errorf("unsupported format %q", format))
	}

	// Only JPEG carries EXIF; a missing or unreadable tag means no-op.
	if format == "jpeg" {
		if orientation := readOrientation(raw); orientation != 1 {
			img = correctOrientation(img, orientation)
		}
	}

	img = downscale(img, i.maxEdge)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: i.quality}); err != nil {
		return nil, fmt.Errorf("encode normalized jpeg: %w", err)
	}

	tempPath, err := i.writeTempFile(buf.Bytes())
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return domain.NewImageAsset(buf.Bytes(), "image/jpeg", bounds.Dx(), bounds.Dy(), tempPath, func() error {
		if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}), nil
}

func (i *Intake) writeTempFile(data []byte) (string, error) {
	f, err := os.CreateTemp(i.tempDir, "skincheck-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

func downscale(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxEdge && height <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(width)
	if height > width {
		scale = float64(maxEdge) / float64(height)
	}
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
	return scaled
}
