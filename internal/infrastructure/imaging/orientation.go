package imaging

import (
	"bytes"
	"image"
	"image/color"

	"github.com/rwcarlsen/goexif/exif"
)

func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	value, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return value
}

// correctOrientation remaps pixels for EXIF orientations 2 through 8.
func correctOrientation(img image.Image, orientation int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	var dst *image.RGBA
	var set func(x, y int, c color.Color)

	switch orientation {
	case 2: // flip horizontal
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		set = func(x, y int, c color.Color) { dst.Set(w-1-x, y, c) }
	case 3: // rotate 180
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		set = func(x, y int, c color.Color) { dst.Set(w-1-x, h-1-y, c) }
	case 4: // flip vertical
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		set = func(x, y int, c color.Color) { dst.Set(x, h-1-y, c) }
	case 5: // transpose
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		set = func(x, y int, c color.Color) { dst.Set(y, x, c) }
	case 6: // rotate 90 clockwise
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		set = func(x, y int, c color.Color) { dst.Set(h-1-y, x, c) }
	case 7: // transverse
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		set = func(x, y int, c color.Color) { dst.Set(h-1-y, w-1-x, c) }
	case 8: // rotate 90 counter-clockwise
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		set = func(x, y int, c color.Color) { dst.Set(y, w-1-x, c) }
	default:
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}
