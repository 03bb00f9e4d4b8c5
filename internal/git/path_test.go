package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"plain", "file.txt", "file.txt"},
		{"quoted", `"with space.txt"`, "with space.txt"},
		{"rename", "old.txt -> new.txt", "new.txt"},
		{"rename quoted", `"old.txt" -> "new.txt"`, "new.txt"},
		{"rename into dir", `a.txt -> "dir/b name.txt"`, "dir/b name.txt"},
		{"escaped utf8", `"\346\226\207.txt"`, "文.txt"},
		{"escaped tab", `"a\tb.txt"`, "a\tb.txt"},
		{"bad escape keeps original", `"broken\q.txt"`, `broken\q.txt`},
		{"empty", "", ""},
	}
	resolver := NewPathResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.field))
		})
	}
}

func TestResolveIsCached(t *testing.T) {
	r := NewPathResolver()
	first := r.Resolve(`"cached name.txt"`)
	second := r.Resolve(`"cached name.txt"`)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.cache.Len())
}
