package session

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// CacheSubdir is the directory crop results are written to under the cache
// root.
const CacheSubdir = "img_clip_cache"

// CacheDir returns the output directory under root. An empty root selects the
// user cache directory.
func CacheDir(root string) string {
	if root == "" {
		root = filepath.Join(xdg.CacheHome, "imageclipper")
	}
	return filepath.Join(root, CacheSubdir)
}

// OutputPath names the file a crop confirmed at now is written to.
func OutputPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("clipped_img_%d.png", now.UnixMilli()))
}

// FileURI returns the file:// URI for path.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// CheckStorage verifies that dir can be created and written to. Hosts call it
// once before starting a session.
func CheckStorage(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}
