// Package clipboard reads crop sources from, and publishes crop results to,
// the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

var (
	// ErrNoImage is returned when the clipboard holds no decodable image.
	ErrNoImage = errors.New("clipboard does not contain image data")
	// ErrNoText is returned when the clipboard holds no text.
	ErrNoText = errors.New("clipboard does not contain text data")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Join(ErrNoImage, err)
	}
	return img, nil
}
