package category_test

import (
	"testing"

	"github.com/arthur-debert/mkp/pkg/category"
	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"agents", "checkman", "checks", "doc", "inventory", "notifications",
		"pnp-templates", "web",
	}, category.Names())
	assert.Len(t, category.All(), len(category.Names()))
}

func TestParse(t *testing.T) {
	for _, c := range category.All() {
		parsed, ok := category.Parse(c.String())
		assert.True(t, ok, c.String())
		assert.Equal(t, c, parsed)
		assert.True(t, c.Valid())
	}

	_, ok := category.Parse("plugins")
	assert.False(t, ok)
	assert.False(t, category.IsKnown("plugins"))
	assert.True(t, category.IsKnown("pnp-templates"))
	assert.False(t, category.Category(42).Valid())
	assert.Equal(t, "unknown", category.Category(42).String())
}

func TestArchiveNames(t *testing.T) {
	assert.Equal(t, "agents.tar", category.Agents.ArchiveName())

	tests := []struct {
		entry  string
		want   string
		wantOK bool
	}{
		{"agents.tar", "agents", true},
		{"lib.tar", "lib", true},
		{"info", "", false},
		{".tar", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got, ok := category.FromArchiveName(tt.entry)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrder(t *testing.T) {
	got := category.Order([]string{"web", "zzz", "agents", "lib", "doc", "agents"})
	assert.Equal(t, []string{"agents", "doc", "web", "lib", "zzz"}, got)
	assert.Empty(t, category.Order(nil))
}
