package pool

import (
	"github.com/lehigh-university-libraries/collager/internal/models"
)

// Pool is the append-only set of images uploaded during a session.
// Lookups are linear scans; sessions hold tens of images.
type Pool struct {
	images []models.Image
}

// New returns an empty pool
func New() *Pool {
	return &Pool{}
}

// Append adds images to the end of the pool in the order given
func (p *Pool) Append(images ...models.Image) {
	p.images = append(p.images, images...)
}

// Find returns the image with the given id
func (p *Pool) Find(id string) (*models.Image, bool) {
	for i := range p.images {
		if p.images[i].ID == id {
			img := p.images[i]
			return &img, true
		}
	}
	return nil, false
}

// FindBySource returns the first image whose source reference matches src
func (p *Pool) FindBySource(src string) (*models.Image, bool) {
	for i := range p.images {
		if p.images[i].Source == src {
			img := p.images[i]
			return &img, true
		}
	}
	return nil, false
}

// Images returns a copy of the pool in upload order
func (p *Pool) Images() []models.Image {
	out := make([]models.Image, len(p.images))
	copy(out, p.images)
	return out
}

// Sources returns the source references in upload order
func (p *Pool) Sources() []string {
	out := make([]string, len(p.images))
	for i, img := range p.images {
		out[i] = img.Source
	}
	return out
}

func (p *Pool) Len() int {
	return len(p.images)
}
