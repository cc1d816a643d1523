package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/oav/pkg/custom"
	"github.com/Jacobbrewer1/oav/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const scheduleMongoDalName = "schedule_mongo_dal"

// eventDocument is the Mongo representation of an event.
type eventDocument struct {
	entities.EventRecord `bson:",inline"`

	// CreatedAt is the time that the event was saved.
	CreatedAt custom.Datetime `bson:"created_at"`
}

type scheduleMongoDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewScheduleMongoDal creates a new schedule data access layer backed by Mongo.
func NewScheduleMongoDal(l *slog.Logger, client *mongo.Client) ScheduleDal {
	l = l.With(slog.String(logging.KeyDal, scheduleMongoDalName))

	if client == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &scheduleMongoDal{
		l:      l,
		client: client,
	}
}

func (d *scheduleMongoDal) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(scheduledEventsTable)
}

func (d *scheduleMongoDal) observe(query string) func() {
	monitoring.MongoTotalRequests.WithLabelValues(scheduleMongoDalName, query, mongoDatabase, scheduledEventsTable).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(scheduleMongoDalName, query, mongoDatabase, scheduledEventsTable))
	return func() { t.ObserveDuration() }
}

func (d *scheduleMongoDal) Migrate(ctx context.Context) error {
	defer d.observe("migrate")()

	// The unique index is what turns an ID collision into a duplicate key error.
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("event_id_unique"),
	}

	if _, err := d.collection().Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("error creating event_id index: %w", err)
	}
	return nil
}

func (d *scheduleMongoDal) InsertEvent(ctx context.Context, event *entities.EventRecord) error {
	defer d.observe("insert_event")()

	doc := &eventDocument{
		EventRecord: *event,
		CreatedAt:   custom.Now(),
	}

	if _, err := d.collection().InsertOne(ctx, doc); err != nil {
		return translateMongoError(event.ID, err)
	}
	return nil
}

func (d *scheduleMongoDal) GetEvent(ctx context.Context, id string) (*entities.EventRecord, error) {
	defer d.observe("get_event")()

	doc := new(eventDocument)
	err := d.collection().FindOne(ctx, bson.M{"event_id": id}).Decode(doc)
	if err != nil {
		return nil, translateMongoError(id, err)
	}

	return &doc.EventRecord, nil
}

func (d *scheduleMongoDal) Ping(ctx context.Context) error {
	defer d.observe("ping")()

	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}

// translateMongoError maps driver errors onto the package errors.
func translateMongoError(id string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: event %s", ErrDuplicateKey, id)
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	default:
		return fmt.Errorf("error querying event %s: %w", id, err)
	}
}
