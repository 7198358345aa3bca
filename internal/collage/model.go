package collage

import (
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/templates"
)

// ImageLookup resolves pool images by id or by source reference
type ImageLookup interface {
	Find(id string) (*models.Image, bool)
	FindBySource(src string) (*models.Image, bool)
}

// Model holds the slot to image bindings for the active template.
// The assignment sequence always has exactly one entry per slot of the
// active template, in the template's slot order, and no image is bound
// to more than one slot.
type Model struct {
	catalog     *templates.Catalog
	key         models.TemplateKey
	assignments []models.Assignment
}

// Snapshot is an immutable copy of the model state
type Snapshot struct {
	TemplateKey models.TemplateKey  `json:"template_key" yaml:"template_key"`
	Assignments []models.Assignment `json:"assignments" yaml:"assignments"`
}

// ApplyResult describes how an arrangement candidate was resolved
type ApplyResult struct {
	TemplateKey models.TemplateKey
	FellBack    bool
	Bound       int
	Dropped     int
}

// New returns a model with every slot of key empty. key must be in the catalog.
func New(catalog *templates.Catalog, key models.TemplateKey) *Model {
	m := &Model{catalog: catalog}
	m.Initialize(key)
	return m
}

// Initialize discards all bindings and activates key with empty slots
func (m *Model) Initialize(key models.TemplateKey) {
	tmpl := m.catalog.MustGet(key)
	m.key = tmpl.Key
	m.assignments = emptyAssignments(tmpl)
}

func emptyAssignments(tmpl models.Template) []models.Assignment {
	out := make([]models.Assignment, len(tmpl.Slots))
	for i, s := range tmpl.Slots {
		out[i] = models.Assignment{SlotID: s.ID}
	}
	return out
}

// TemplateKey returns the active template key
func (m *Model) TemplateKey() models.TemplateKey {
	return m.key
}

// Template returns the active template
func (m *Model) Template() models.Template {
	return m.catalog.MustGet(m.key)
}

// SelectTemplate switches to key and reflows bound images into the new
// slots in their current positional order. Images that do not fit are
// dropped from the assignment; they stay in the pool.
func (m *Model) SelectTemplate(key models.TemplateKey) {
	m.key, m.assignments = reflow(m.assignments, m.catalog.MustGet(key))
}

func reflow(current []models.Assignment, tmpl models.Template) (models.TemplateKey, []models.Assignment) {
	next := emptyAssignments(tmpl)
	i := 0
	for _, a := range current {
		if a.Image == nil {
			continue
		}
		if i == len(next) {
			break
		}
		next[i].Image = a.Image
		i++
	}
	return tmpl.Key, next
}

// PlaceFromPool binds the pool image imageID into targetSlotID. If the image
// is already bound elsewhere the two slots exchange images. Unknown slots or
// images leave the model untouched. It reports whether the state changed.
func (m *Model) PlaceFromPool(images ImageLookup, imageID string, targetSlotID int) bool {
	target := m.indexOfSlot(targetSlotID)
	if target == -1 {
		return false
	}
	img, ok := images.Find(imageID)
	if !ok {
		return false
	}

	if source := m.indexOfImage(img.ID); source != -1 {
		if source == target {
			return false
		}
		m.swap(source, target)
		return true
	}

	m.assignments[target].Image = img
	return true
}

// MoveWithinCanvas exchanges the images of two slots. Either may be empty.
func (m *Model) MoveWithinCanvas(sourceSlotID, targetSlotID int) bool {
	source := m.indexOfSlot(sourceSlotID)
	target := m.indexOfSlot(targetSlotID)
	if source == -1 || target == -1 || source == target {
		return false
	}
	m.swap(source, target)
	return true
}

// ApplyArrangement replaces the whole state with the candidate. Unknown
// template keys fall back to templates.Fallback. Entries whose slot is not in
// the template, whose source does not resolve to a pool image, or whose slot
// was already filled by an earlier entry are dropped. A source named for
// several slots binds its image to each of them. The new sequence is built
// completely before it replaces the old one.
func (m *Model) ApplyArrangement(images ImageLookup, c models.Candidate) ApplyResult {
	tmpl, fellBack := m.catalog.Resolve(c.TemplateKey)
	next := emptyAssignments(tmpl)
	res := ApplyResult{TemplateKey: tmpl.Key, FellBack: fellBack}

	for _, entry := range c.Arrangement {
		idx := indexOfSlot(next, entry.SlotID)
		if idx == -1 || next[idx].Image != nil {
			res.Dropped++
			continue
		}
		img, ok := images.FindBySource(entry.ImageSource)
		if !ok {
			res.Dropped++
			continue
		}
		next[idx].Image = img
		res.Bound++
	}

	m.key, m.assignments = tmpl.Key, next
	return res
}

// Snapshot returns a deep copy of the current state
func (m *Model) Snapshot() Snapshot {
	out := make([]models.Assignment, len(m.assignments))
	for i, a := range m.assignments {
		out[i].SlotID = a.SlotID
		if a.Image != nil {
			img := *a.Image
			out[i].Image = &img
		}
	}
	return Snapshot{TemplateKey: m.key, Assignments: out}
}

// IsEmpty reports whether no slot holds an image
func (m *Model) IsEmpty() bool {
	for _, a := range m.assignments {
		if a.Image != nil {
			return false
		}
	}
	return true
}

// ImageAt returns the image bound to slotID, if any
func (m *Model) ImageAt(slotID int) (*models.Image, bool) {
	idx := m.indexOfSlot(slotID)
	if idx == -1 || m.assignments[idx].Image == nil {
		return nil, false
	}
	img := *m.assignments[idx].Image
	return &img, true
}

func (m *Model) swap(i, j int) {
	m.assignments[i].Image, m.assignments[j].Image = m.assignments[j].Image, m.assignments[i].Image
}

func (m *Model) indexOfSlot(slotID int) int {
	return indexOfSlot(m.assignments, slotID)
}

func (m *Model) indexOfImage(imageID string) int {
	for i, a := range m.assignments {
		if a.Image != nil && a.Image.ID == imageID {
			return i
		}
	}
	return -1
}

func indexOfSlot(assignments []models.Assignment, slotID int) int {
	for i, a := range assignments {
		if a.SlotID == slotID {
			return i
		}
	}
	return -1
}
