package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/oav/pkg/dataaccess"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/eventid"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/stretchr/testify/require"
)

// memoryDal is an in memory schedule store that enforces key uniqueness like the real stores.
type memoryDal struct {
	mu      sync.Mutex
	events  map[string]entities.EventRecord
	inserts int
	err     error
}

func newMemoryDal() *memoryDal {
	return &memoryDal{events: make(map[string]entities.EventRecord)}
}

func (m *memoryDal) Migrate(context.Context) error { return nil }

func (m *memoryDal) Ping(context.Context) error { return nil }

func (m *memoryDal) InsertEvent(_ context.Context, event *entities.EventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserts++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[event.ID]; ok {
		return fmt.Errorf("%w: event %s", dataaccess.ErrDuplicateKey, event.ID)
	}
	m.events[event.ID] = *event
	return nil
}

func (m *memoryDal) GetEvent(_ context.Context, id string) (*entities.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: event %s", dataaccess.ErrNotFound, id)
	}
	return &e, nil
}

// sequenceIDs hands out identifiers in order.
type sequenceIDs struct {
	ids []string
	i   int
}

func (s *sequenceIDs) Generate() string {
	id := s.ids[s.i%len(s.ids)]
	s.i++
	return id
}

func scenarioDetails() entities.EventDetails {
	return entities.EventDetails{
		Date:       "2025-01-01",
		DepAirport: "KJFK",
		ArrAirport: "KLAX",
		DepTime:    "08:00",
		FlightTime: "05:30",
		Operator:   "OAV",
		FlightNo:   "OAV123",
		Aircraft:   "B738",
		Server:     "US-East",
	}
}

func newTestService(t *testing.T, dal dataaccess.ScheduleDal, ids IDGenerator, attempts int) *Service {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return NewService(l, dal, ids, attempts)
}

func TestService_AddEvent(t *testing.T) {
	dal := newMemoryDal()
	gen, err := eventid.NewGenerator(eventid.DefaultMin, eventid.DefaultMax)
	require.NoError(t, err)

	svc := newTestService(t, dal, gen, 0)

	event, err := svc.AddEvent(context.Background(), scenarioDetails())
	require.NoError(t, err)
	require.True(t, eventid.Valid(event.ID), "invalid id %s", event.ID)
	require.Equal(t, scenarioDetails(), event.EventDetails)

	// Read after write.
	got, err := svc.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Equal(t, event, got)
	require.Len(t, dal.events, 1)
}

func TestService_AddEvent_RetriesCollision(t *testing.T) {
	dal := newMemoryDal()
	dal.events["OAV-100"] = entities.EventRecord{ID: "OAV-100"}
	dal.events["OAV-101"] = entities.EventRecord{ID: "OAV-101"}

	ids := &sequenceIDs{ids: []string{"OAV-100", "OAV-101", "OAV-102"}}
	svc := newTestService(t, dal, ids, 5)

	event, err := svc.AddEvent(context.Background(), scenarioDetails())
	require.NoError(t, err)
	require.Equal(t, "OAV-102", event.ID)
	require.Equal(t, 3, dal.inserts)
}

func TestService_AddEvent_Exhausted(t *testing.T) {
	dal := newMemoryDal()
	dal.events["OAV-100"] = entities.EventRecord{ID: "OAV-100"}

	ids := &sequenceIDs{ids: []string{"OAV-100"}}
	svc := newTestService(t, dal, ids, 3)

	_, err := svc.AddEvent(context.Background(), scenarioDetails())
	require.ErrorIs(t, err, ErrIdentifierExhausted)
	require.Equal(t, 3, dal.inserts)
}

func TestService_AddEvent_StoreError(t *testing.T) {
	dal := newMemoryDal()
	dal.err = errors.New("connection refused")

	ids := &sequenceIDs{ids: []string{"OAV-100"}}
	svc := newTestService(t, dal, ids, 5)

	_, err := svc.AddEvent(context.Background(), scenarioDetails())
	require.ErrorIs(t, err, dal.err)
	require.NotErrorIs(t, err, ErrIdentifierExhausted)
	require.Equal(t, 1, dal.inserts)
}

func TestService_DuplicateInsert(t *testing.T) {
	dal := newMemoryDal()
	event := &entities.EventRecord{ID: "OAV-500", EventDetails: scenarioDetails()}

	require.NoError(t, dal.InsertEvent(context.Background(), event))
	require.ErrorIs(t, dal.InsertEvent(context.Background(), event), dataaccess.ErrDuplicateKey)
	require.Len(t, dal.events, 1)
}
