package models

import "time"

// TemplateKey identifies a layout in the template catalog
type TemplateKey string

const (
	TemplateSquare    TemplateKey = "SQUARE"
	TemplateRectangle TemplateKey = "RECTANGLE"
	TemplateTrapezium TemplateKey = "TRAPEZIUM"
	TemplateRandom    TemplateKey = "RANDOM"
)

// Image represents an uploaded photo in a session's image pool
type Image struct {
	ID       string `json:"id" yaml:"id"`
	Source   string `json:"src" yaml:"-"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Width    int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Slot is a position within a template. Grid area and clip path are purely presentational.
type Slot struct {
	ID       int    `json:"id" yaml:"id"`
	GridArea string `json:"grid_area" yaml:"grid_area"`
	ClipPath string `json:"clip_path" yaml:"clip_path"`
}

// Template is a named collage layout
type Template struct {
	Key          TemplateKey `json:"key" yaml:"key"`
	Name         string      `json:"name" yaml:"name"`
	AspectRatio  string      `json:"aspect_ratio" yaml:"aspect_ratio"`
	GridTemplate string      `json:"grid_template" yaml:"grid_template"`
	Slots        []Slot      `json:"slots" yaml:"slots"`
}

// SlotIDs returns the template's slot ids in declared order
func (t Template) SlotIDs() []int {
	ids := make([]int, len(t.Slots))
	for i, s := range t.Slots {
		ids[i] = s.ID
	}
	return ids
}

// Assignment binds a slot to at most one image
type Assignment struct {
	SlotID int    `json:"slot_id" yaml:"slot_id"`
	Image  *Image `json:"image" yaml:"image"`
}

// NotificationLevel classifies user-facing notifications
type NotificationLevel string

const (
	NotificationInfo  NotificationLevel = "info"
	NotificationError NotificationLevel = "error"
)

// Notification is a transient message surfaced to the user
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

// CollageSession is the rendered view of one editing session
type CollageSession struct {
	ID            string         `json:"id"`
	TemplateKey   TemplateKey    `json:"template_key"`
	Assignments   []Assignment   `json:"assignments"`
	Images        []Image        `json:"images"`
	Busy          bool           `json:"busy"`
	Notifications []Notification `json:"notifications,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ArrangementEntry pairs a slot with an image source reference
type ArrangementEntry struct {
	SlotID      int    `json:"slotId" yaml:"slot_id"`
	ImageSource string `json:"imageSrc" yaml:"image_src"`
}

// Candidate is an arrangement proposed by an oracle. Slot ids are only
// meaningful within the named template.
type Candidate struct {
	TemplateKey TemplateKey        `json:"templateKey" yaml:"template_key"`
	Arrangement []ArrangementEntry `json:"arrangement" yaml:"arrangement"`
}
