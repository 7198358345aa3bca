package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/arrangement"
	"github.com/lehigh-university-libraries/collager/internal/collage"
	"github.com/lehigh-university-libraries/collager/internal/dragdata"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/pool"
	"github.com/lehigh-university-libraries/collager/internal/templates"
	"github.com/lehigh-university-libraries/collager/internal/upload"
)

// ErrUnknownTemplate is returned when a caller names a template the catalog does not have
var ErrUnknownTemplate = errors.New("unknown template")

// Session is the top-level controller of one collage. It owns the image pool
// and the assignment model; every mutation goes through its methods and runs
// under the session lock, one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	catalog  *templates.Catalog
	ingester *upload.Ingester
	runner   *arrangement.Runner

	mu            sync.Mutex
	pool          *pool.Pool
	model         *collage.Model
	notifications []models.Notification
}

// Options configures a new session
type Options struct {
	Catalog   *templates.Catalog
	Template  models.TemplateKey
	Oracle    arrangement.Oracle
	Timeout   time.Duration
	Supersede bool
	Ingester  *upload.Ingester
}

// New creates a session with an empty pool and every slot of opts.Template empty
func New(id string, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		opts.Catalog = templates.Default()
	}
	if _, ok := opts.Catalog.Get(opts.Template); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, opts.Template)
	}
	if opts.Ingester == nil {
		opts.Ingester = upload.NewIngester(0)
	}

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		catalog:   opts.Catalog,
		ingester:  opts.Ingester,
		pool:      pool.New(),
		model:     collage.New(opts.Catalog, opts.Template),
	}
	s.runner = arrangement.NewRunner(opts.Oracle, opts.Timeout, opts.Supersede, arrangement.NotifierFunc(s.notify))
	return s, nil
}

// Upload decodes a batch and appends the decoded images to the pool once the
// whole batch has finished. Per-file failures are returned alongside the images that were added.
func (s *Session) Upload(ctx context.Context, files []upload.File) ([]models.Image, error) {
	images, err := s.ingester.Ingest(ctx, files)
	if len(images) > 0 {
		s.mu.Lock()
		s.pool.Append(images...)
		s.mu.Unlock()
		slog.Info("Images added to pool", "session_id", s.ID, "count", len(images))
	}
	return images, err
}

// SelectTemplate switches the active template, reflowing the current images
func (s *Session) SelectTemplate(key models.TemplateKey) error {
	if _, ok := s.catalog.Get(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.SelectTemplate(key)
	slog.Debug("Template selected", "session_id", s.ID, "template", key)
	return nil
}

// Drop handles a drop of an encoded drag payload onto targetSlotID. Payloads
// that fail to decode are logged and abandoned. Stale references are ignored.
// It reports whether the assignment changed.
func (s *Session) Drop(payload []byte, targetSlotID int) (bool, error) {
	p, err := dragdata.Decode(payload)
	if err != nil {
		slog.Warn("Failed to parse drag data", "session_id", s.ID, "error", err)
		return false, err
	}
	return s.DropPayload(p, targetSlotID), nil
}

// DropPayload applies a decoded drag payload
func (s *Session) DropPayload(p dragdata.Payload, targetSlotID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed bool
	switch v := p.(type) {
	case dragdata.BinDrag:
		changed = s.model.PlaceFromPool(s.pool, v.ImageID, targetSlotID)
	case dragdata.CanvasDrag:
		changed = s.model.MoveWithinCanvas(v.SlotID, targetSlotID)
	}
	if !changed {
		slog.Debug("Drop ignored", "session_id", s.ID, "source", p.Source(), "target_slot", targetSlotID)
	}
	return changed
}

// Arrange asks the oracle for an arrangement of the whole pool and applies it
// atomically. The model is not touched while the oracle is pending or when it fails.
func (s *Session) Arrange(ctx context.Context) error {
	s.mu.Lock()
	sources := s.pool.Sources()
	s.mu.Unlock()

	return s.runner.Run(ctx, sources, func(c models.Candidate) {
		s.mu.Lock()
		defer s.mu.Unlock()
		res := s.model.ApplyArrangement(s.pool, c)
		if res.FellBack {
			slog.Warn("Arrangement named an unknown template, using fallback", "session_id", s.ID, "requested", c.TemplateKey, "used", res.TemplateKey)
		}
		slog.Info("Arrangement result", "session_id", s.ID, "template", res.TemplateKey, "bound", res.Bound, "dropped", res.Dropped)
	})
}

// Busy reports whether an arrangement is in flight
func (s *Session) Busy() bool {
	return s.runner.Busy()
}

// Snapshot returns a copy of the assignment state
func (s *Session) Snapshot() collage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Snapshot()
}

// State returns the rendered session view, including pending notifications
func (s *Session) State() *models.CollageSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.model.Snapshot()
	return &models.CollageSession{
		ID:            s.ID,
		TemplateKey:   snap.TemplateKey,
		Assignments:   snap.Assignments,
		Images:        s.pool.Images(),
		Busy:          s.runner.Busy(),
		Notifications: append([]models.Notification(nil), s.notifications...),
		CreatedAt:     s.CreatedAt,
	}
}

// DrainNotifications returns and clears pending notifications
func (s *Session) DrainNotifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notifications
	s.notifications = nil
	return out
}

func (s *Session) notify(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}
