package git

import (
	"os"
	"path/filepath"

	"gitdeck/internal/lru"
)

const repoCacheSize = 32

// Detector answers "is this directory a repository root?" with a bounded
// cache, since the check runs before nearly every operation.
type Detector struct {
	cache *lru.Cache[bool]
}

func NewDetector() *Detector {
	return &Detector{cache: lru.New[bool](repoCacheSize)}
}

// IsRepo reports whether path exists and contains a .git entry at its top
// level. Results are cached per path.
func (d *Detector) IsRepo(path string) bool {
	if path == "" {
		return false
	}
	if cached, ok := d.cache.Get(path); ok {
		return cached
	}
	valid := isRepo(path)
	d.cache.Set(path, valid)
	return valid
}

// Invalidate drops the cached answer for one path, e.g. after the user
// initializes or removes a repository out of band.
func (d *Detector) Invalidate(path string) {
	d.cache.Delete(path)
}

func isRepo(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(path, ".git"))
	return err == nil
}
