package git

import (
	"strconv"
	"strings"

	"gitdeck/internal/lru"
)

const pathCacheSize = 128

// PathResolver turns the path field of a porcelain status line into a plain
// file path. Results are memoized in a bounded LRU since refreshes repeat
// the same fields over and over.
type PathResolver struct {
	cache *lru.Cache[string]
}

func NewPathResolver() *PathResolver {
	return &PathResolver{cache: lru.New[string](pathCacheSize)}
}

// Resolve strips surrounding quotes, keeps only the target of a rename
// arrow, and unescapes backslash sequences. On any unescape failure the
// original text is kept.
func (p *PathResolver) Resolve(field string) string {
	if field == "" {
		return field
	}
	if cached, ok := p.cache.Get(field); ok {
		return cached
	}
	resolved := resolvePath(field)
	p.cache.Set(field, resolved)
	return resolved
}

func resolvePath(field string) string {
	path := field
	// Rename lines read `old -> new`; only the new name is displayed. The
	// arrow is found before unquoting since both sides may be quoted.
	if idx := strings.LastIndex(path, " -> "); idx >= 0 {
		path = path[idx+len(" -> "):]
	}
	path = stripQuotes(path)
	if strings.Contains(path, `\`) {
		if unescaped, err := strconv.Unquote(`"` + path + `"`); err == nil {
			path = unescaped
		}
	}
	return path
}

func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
