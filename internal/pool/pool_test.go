package pool

import (
	"testing"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAppendAndFind(t *testing.T) {
	p := New()
	assert.Equal(t, 0, p.Len())

	p.Append(models.Image{ID: "a", Source: "src-a"}, models.Image{ID: "b", Source: "src-b"})
	p.Append(models.Image{ID: "c", Source: "src-c"})

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"src-a", "src-b", "src-c"}, p.Sources())

	img, ok := p.Find("b")
	require.True(t, ok)
	assert.Equal(t, "src-b", img.Source)

	img, ok = p.FindBySource("src-c")
	require.True(t, ok)
	assert.Equal(t, "c", img.ID)

	_, ok = p.Find("missing")
	assert.False(t, ok)
	_, ok = p.FindBySource("missing")
	assert.False(t, ok)
}

func TestPoolReturnsCopies(t *testing.T) {
	p := New()
	p.Append(models.Image{ID: "a", Source: "src-a"})

	images := p.Images()
	images[0].ID = "mutated"

	img, ok := p.Find("a")
	require.True(t, ok)
	img.Source = "mutated"

	again, _ := p.Find("a")
	assert.Equal(t, "src-a", again.Source)
	assert.Equal(t, "a", p.Images()[0].ID)
}

func TestFindBySourceReturnsFirstMatch(t *testing.T) {
	p := New()
	p.Append(models.Image{ID: "first", Source: "same"}, models.Image{ID: "second", Source: "same"})

	img, ok := p.FindBySource("same")
	require.True(t, ok)
	assert.Equal(t, "first", img.ID)
}
