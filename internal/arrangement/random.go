package arrangement

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/templates"
)

// RandomOracle picks a random template and fills its slots with the shuffled
// sources, cycling through them when there are fewer images than slots.
type RandomOracle struct {
	catalog *templates.Catalog
	latency time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomOracle returns a random oracle that answers after latency
func NewRandomOracle(catalog *templates.Catalog, latency time.Duration) *RandomOracle {
	return &RandomOracle{
		catalog: catalog,
		latency: latency,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithSeed makes the oracle deterministic
func (o *RandomOracle) WithSeed(seed int64) *RandomOracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rnd = rand.New(rand.NewSource(seed))
	return o
}

func (o *RandomOracle) Arrange(ctx context.Context, sources []string) (models.Candidate, error) {
	if len(sources) == 0 {
		return models.Candidate{}, ErrEmptyPool
	}

	if o.latency > 0 {
		timer := time.NewTimer(o.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Candidate{}, ctx.Err()
		case <-timer.C:
		}
	}

	keys := o.catalog.Keys()

	o.mu.Lock()
	key := keys[o.rnd.Intn(len(keys))]
	shuffled := make([]string, len(sources))
	copy(shuffled, sources)
	o.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	o.mu.Unlock()

	tmpl := o.catalog.MustGet(key)
	candidate := models.Candidate{
		TemplateKey: key,
		Arrangement: make([]models.ArrangementEntry, len(tmpl.Slots)),
	}
	for i, slot := range tmpl.Slots {
		candidate.Arrangement[i] = models.ArrangementEntry{
			SlotID:      slot.ID,
			ImageSource: shuffled[i%len(shuffled)],
		}
	}

	slog.Debug("Random arrangement generated", "template", key, "images", len(sources), "slots", len(tmpl.Slots))
	return candidate, nil
}
