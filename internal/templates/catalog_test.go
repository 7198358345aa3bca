package templates

import (
	"testing"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, []models.TemplateKey{
		models.TemplateSquare,
		models.TemplateRectangle,
		models.TemplateTrapezium,
		models.TemplateRandom,
	}, c.Keys())

	tests := []struct {
		key   models.TemplateKey
		name  string
		slots []int
	}{
		{models.TemplateSquare, "Square", []int{1, 2, 3, 4}},
		{models.TemplateRectangle, "Rectangle", []int{1, 2, 3, 4}},
		{models.TemplateTrapezium, "Trapezium", []int{1, 2, 3, 4}},
		{models.TemplateRandom, "Mosaic", []int{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			tmpl, ok := c.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.name, tmpl.Name)
			assert.Equal(t, tt.slots, tmpl.SlotIDs())
			assert.NotEmpty(t, tmpl.GridTemplate)
			assert.NotEmpty(t, tmpl.AspectRatio)
		})
	}

	mosaic := c.MustGet(models.TemplateRandom)
	assert.Equal(t, "polygon(0 0, 100% 20%, 100% 80%, 0 100%)", mosaic.Slots[6].ClipPath)
	assert.Equal(t, "g", mosaic.Slots[6].GridArea)
}

func TestMustGetPanicsOnUnknownKey(t *testing.T) {
	assert.Panics(t, func() {
		Default().MustGet("HEXAGON")
	})
}

func TestResolve(t *testing.T) {
	c := Default()

	tmpl, fellBack := c.Resolve(models.TemplateSquare)
	assert.False(t, fellBack)
	assert.Equal(t, models.TemplateSquare, tmpl.Key)

	tmpl, fellBack = c.Resolve("HEXAGON")
	assert.True(t, fellBack)
	assert.Equal(t, Fallback, tmpl.Key)
}

func TestResolveWithoutFallbackKeyUsesFirstTemplate(t *testing.T) {
	c, err := New(models.Template{Key: "ONLY", Slots: []models.Slot{{ID: 1}}})
	require.NoError(t, err)

	tmpl, fellBack := c.Resolve("MISSING")
	assert.True(t, fellBack)
	assert.Equal(t, models.TemplateKey("ONLY"), tmpl.Key)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		templates []models.Template
		wantErr   string
	}{
		{
			name:    "empty catalog",
			wantErr: "empty",
		},
		{
			name:      "missing key",
			templates: []models.Template{{Name: "x", Slots: []models.Slot{{ID: 1}}}},
			wantErr:   "no key",
		},
		{
			name: "duplicate key",
			templates: []models.Template{
				{Key: "A", Slots: []models.Slot{{ID: 1}}},
				{Key: "A", Slots: []models.Slot{{ID: 1}}},
			},
			wantErr: "duplicate template key",
		},
		{
			name:      "no slots",
			templates: []models.Template{{Key: "A"}},
			wantErr:   "no slots",
		},
		{
			name:      "non-positive slot id",
			templates: []models.Template{{Key: "A", Slots: []models.Slot{{ID: 0}}}},
			wantErr:   "must be positive",
		},
		{
			name:      "duplicate slot id",
			templates: []models.Template{{Key: "A", Slots: []models.Slot{{ID: 1}, {ID: 1}}}},
			wantErr:   "duplicate slot id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.templates...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("key: [unterminated"))
	assert.Error(t, err)
}
