package mapview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"
)

// Thumbnail decodes the image at path and returns it scaled so its longest
// side is at most maxSide pixels, as a JPEG data URI for the marker popup.
func Thumbnail(path string, maxSide int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for thumbnail: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("unable to decode image %s: %w", path, err)
	}

	dst := image.NewRGBA(fitWithin(src.Bounds(), maxSide))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 75}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fitWithin returns a rectangle at the origin with the aspect ratio of b and
// no side longer than maxSide. Images already small enough keep their size.
func fitWithin(b image.Rectangle, maxSide int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return image.Rect(0, 0, w, h)
	}
	if w >= h {
		return image.Rect(0, 0, maxSide, maxInt(1, h*maxSide/w))
	}
	return image.Rect(0, 0, maxInt(1, w*maxSide/h), maxSide)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
