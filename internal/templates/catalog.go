package templates

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtinYAML []byte

// Fallback is substituted when an arrangement names a template the catalog does not know
const Fallback = models.TemplateRandom

// Catalog is a read-only mapping from template key to template
type Catalog struct {
	order     []models.TemplateKey
	templates map[models.TemplateKey]models.Template
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the compiled-in catalog. It panics if the embedded definition is invalid.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtinYAML)
		if err != nil {
			panic(fmt.Sprintf("invalid built-in template catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a catalog from a YAML list of templates
func Parse(data []byte) (*Catalog, error) {
	var list []models.Template
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}
	return New(list...)
}

// New validates the templates and builds a catalog, preserving declaration order
func New(list ...models.Template) (*Catalog, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	c := &Catalog{
		order:     make([]models.TemplateKey, 0, len(list)),
		templates: make(map[models.TemplateKey]models.Template, len(list)),
	}
	for _, t := range list {
		if t.Key == "" {
			return nil, fmt.Errorf("template %q has no key", t.Name)
		}
		if _, dup := c.templates[t.Key]; dup {
			return nil, fmt.Errorf("duplicate template key %s", t.Key)
		}
		if len(t.Slots) == 0 {
			return nil, fmt.Errorf("template %s has no slots", t.Key)
		}
		seen := make(map[int]bool, len(t.Slots))
		for _, s := range t.Slots {
			if s.ID <= 0 {
				return nil, fmt.Errorf("template %s: slot id %d must be positive", t.Key, s.ID)
			}
			if seen[s.ID] {
				return nil, fmt.Errorf("template %s: duplicate slot id %d", t.Key, s.ID)
			}
			seen[s.ID] = true
		}
		c.order = append(c.order, t.Key)
		c.templates[t.Key] = t
	}
	return c, nil
}

// Get looks up a template by key
func (c *Catalog) Get(key models.TemplateKey) (models.Template, bool) {
	t, ok := c.templates[key]
	return t, ok
}

// MustGet looks up a template and panics on an unknown key.
// Use it only with keys that originate from the catalog itself.
func (c *Catalog) MustGet(key models.TemplateKey) models.Template {
	t, ok := c.templates[key]
	if !ok {
		panic(fmt.Sprintf("unknown template key %q", key))
	}
	return t
}

// Keys returns template keys in declaration order
func (c *Catalog) Keys() []models.TemplateKey {
	keys := make([]models.TemplateKey, len(c.order))
	copy(keys, c.order)
	return keys
}

// All returns templates in declaration order
func (c *Catalog) All() []models.Template {
	all := make([]models.Template, 0, len(c.order))
	for _, k := range c.order {
		all = append(all, c.templates[k])
	}
	return all
}

// Resolve returns the template for key, or the fallback template when key is unknown.
// The second return value reports whether the fallback was used.
func (c *Catalog) Resolve(key models.TemplateKey) (models.Template, bool) {
	if t, ok := c.templates[key]; ok {
		return t, false
	}
	if t, ok := c.templates[Fallback]; ok {
		return t, true
	}
	// catalogs without the fallback key fall back to their first template
	return c.templates[c.order[0]], true
}
