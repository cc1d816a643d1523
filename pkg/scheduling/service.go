package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/oav/pkg/dataaccess"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultMaxAttempts is how many identifiers are tried before giving up.
const DefaultMaxAttempts = 5

// ErrIdentifierExhausted is returned when every attempted identifier was already taken.
var ErrIdentifierExhausted = errors.New("no free event identifier found")

var (
	// EventsCreated is the total number of events saved.
	EventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduling_events_created_total",
			Help: "Total number of scheduled events saved",
		},
	)

	// IdentifierCollisions is the total number of generated identifiers that were already taken.
	IdentifierCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduling_identifier_collisions_total",
			Help: "Total number of generated event identifiers that were already taken",
		},
	)
)

// IDGenerator generates event identifiers.
type IDGenerator interface {
	Generate() string
}

// Service saves scheduled flight events.
type Service struct {
	// l is the logger.
	l *slog.Logger

	// dal is the schedule store.
	dal dataaccess.ScheduleDal

	// ids generates event identifiers.
	ids IDGenerator

	// maxAttempts bounds the collision retry.
	maxAttempts int
}

// NewService creates a new scheduling service. A maxAttempts below 1 uses DefaultMaxAttempts.
func NewService(l *slog.Logger, dal dataaccess.ScheduleDal, ids IDGenerator, maxAttempts int) *Service {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Service{
		l:           l.With(slog.String("component", "scheduling")),
		dal:         dal,
		ids:         ids,
		maxAttempts: maxAttempts,
	}
}

// AddEvent saves a new event under a freshly generated identifier. When the store reports the identifier as taken a
// new one is generated and the insert is retried.
func (s *Service) AddEvent(ctx context.Context, details entities.EventDetails) (*entities.EventRecord, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		event := &entities.EventRecord{
			ID:           s.ids.Generate(),
			EventDetails: details,
		}

		err := s.dal.InsertEvent(ctx, event)
		switch {
		case err == nil:
			EventsCreated.Inc()
			s.l.Info("Event saved",
				slog.String("event_id", event.ID),
				slog.Int("attempt", attempt),
			)
			return event, nil
		case errors.Is(err, dataaccess.ErrDuplicateKey):
			IdentifierCollisions.Inc()
			s.l.Warn("Event identifier already taken, retrying",
				slog.String("event_id", event.ID),
				slog.Int("attempt", attempt),
			)
		default:
			return nil, fmt.Errorf("error saving event: %w", err)
		}
	}

	s.l.Error("Giving up saving event",
		slog.String(logging.KeyError, ErrIdentifierExhausted.Error()),
		slog.Int("attempts", s.maxAttempts),
	)
	return nil, fmt.Errorf("%w after %d attempts", ErrIdentifierExhausted, s.maxAttempts)
}

// GetEvent returns a saved event.
func (s *Service) GetEvent(ctx context.Context, id string) (*entities.EventRecord, error) {
	event, err := s.dal.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	return event, nil
}
