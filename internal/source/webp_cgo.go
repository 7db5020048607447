//go:build cgo

package source

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
)

// decodeWebP uses libwebp, which also handles animated and extended files
// the pure Go decoder rejects.
func decodeWebP(data []byte) (image.Image, error) {
	return webp.Decode(bytes.NewReader(data))
}
