//go:build !cgo

package source

import (
	"bytes"
	"image"

	"golang.org/x/image/webp"
)

func decodeWebP(data []byte) (image.Image, error) {
	return webp.Decode(bytes.NewReader(data))
}
