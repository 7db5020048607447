// Package source resolves and decodes the image a crop session starts from.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/imageclipper/internal/clipboard"
)

var (
	// ErrNoImage is returned when no image was selected.
	ErrNoImage = errors.New("please select image")
	// ErrUnsupportedURI is returned for references that are not local files.
	ErrUnsupportedURI = errors.New("unsupported image uri")
)

var (
	readClipboardImage = clipboard.ReadImage
	readClipboardText  = clipboard.ReadText
)

// ResolvePath turns a file path or file:// URI into a local path.
func ResolvePath(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoImage
	}
	if !strings.Contains(ref, "://") {
		return filepath.Clean(ref), nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", ref, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURI, u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote host %s", ErrUnsupportedURI, u.Host)
	}
	if u.Path == "" {
		return "", ErrNoImage
	}
	return filepath.FromSlash(u.Path), nil
}

// Load resolves ref and decodes the image it names, applying EXIF
// orientation.
func Load(ref string) (image.Image, error) {
	path, err := ResolvePath(ref)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, fmt.Errorf("open %s: %w", path, rerr)
	}
	if img, werr := decodeWebP(data); werr == nil {
		return img, nil
	}
	return nil, fmt.Errorf("decode %s: %w", path, err)
}

// Decode decodes raw image bytes, falling back to WebP.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	if img, werr := decodeWebP(data); werr == nil {
		return img, nil
	}
	return nil, fmt.Errorf("decode: %w", err)
}

// FromClipboard returns the clipboard image. When the clipboard holds text
// instead, the text is treated as a path or file:// URI and loaded. The
// second result names where the image came from.
func FromClipboard() (image.Image, string, error) {
	img, imgErr := readClipboardImage()
	if imgErr == nil {
		return img, "clipboard", nil
	}
	text, err := readClipboardText()
	if err != nil {
		if errors.Is(imgErr, clipboard.ErrNoImage) && errors.Is(err, clipboard.ErrNoText) {
			return nil, "", ErrNoImage
		}
		return nil, "", fmt.Errorf("clipboard: %w", errors.Join(imgErr, err))
	}
	// file managers put one URI per line
	ref, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	img, err = Load(strings.TrimSpace(ref))
	if err != nil {
		return nil, "", err
	}
	return img, ref, nil
}
