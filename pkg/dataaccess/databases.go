package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/oav/pkg/entities"
)

const (
	// mongoDatabase is the name of the Mongo database.
	mongoDatabase = "oav"

	// scheduledEventsTable is the name of the table (or collection) holding scheduled events.
	scheduledEventsTable = "scheduled_events"
)

var (
	// ErrDuplicateKey is returned when a record with the same key already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// ScheduleDal is the data access layer for scheduled flight events.
type ScheduleDal interface {
	// Migrate prepares the backing store, creating the table or indexes if they do not exist.
	Migrate(ctx context.Context) error

	// InsertEvent inserts a new event. ErrDuplicateKey is returned if the event ID is already taken, the existing
	// event is never overwritten.
	InsertEvent(ctx context.Context, event *entities.EventRecord) error

	// GetEvent gets an event by ID.
	GetEvent(ctx context.Context, id string) (*entities.EventRecord, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
