package dataaccess

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func testLogger(t *testing.T) *slog.Logger {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return l
}

func testEvent() *entities.EventRecord {
	return &entities.EventRecord{
		ID: "OAV-1234",
		EventDetails: entities.EventDetails{
			Date:       "2025-01-01",
			DepAirport: "KJFK",
			ArrAirport: "KLAX",
			DepTime:    "08:00",
			FlightTime: "05:30",
			Operator:   "OAV",
			FlightNo:   "OAV123",
			Aircraft:   "B738",
			Server:     "US-East",
		},
	}
}

func TestScheduleMongoDal(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	l := testLogger(t)

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		dal := NewScheduleMongoDal(l, mt.Client)
		require.NoError(mt, dal.InsertEvent(context.Background(), testEvent()))
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: oav.scheduled_events index: event_id_unique",
		}))

		dal := NewScheduleMongoDal(l, mt.Client)
		err := dal.InsertEvent(context.Background(), testEvent())
		require.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("get", func(mt *mtest.T) {
		want := testEvent()
		ns := mongoDatabase + "." + scheduledEventsTable
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "event_id", Value: want.ID},
			{Key: "date", Value: want.Date},
			{Key: "dep_airport", Value: want.DepAirport},
			{Key: "arr_airport", Value: want.ArrAirport},
			{Key: "dep_time", Value: want.DepTime},
			{Key: "flight_time", Value: want.FlightTime},
			{Key: "operator", Value: want.Operator},
			{Key: "flight_no", Value: want.FlightNo},
			{Key: "aircraft", Value: want.Aircraft},
			{Key: "server", Value: want.Server},
			{Key: "created_at", Value: "2025-01-01T00:00:00Z"},
		}))

		dal := NewScheduleMongoDal(l, mt.Client)
		got, err := dal.GetEvent(context.Background(), want.ID)
		require.NoError(mt, err)
		require.Equal(mt, want, got)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		ns := mongoDatabase + "." + scheduledEventsTable
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		dal := NewScheduleMongoDal(l, mt.Client)
		_, err := dal.GetEvent(context.Background(), "OAV-100")
		require.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestTranslateMongoError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "duplicate",
			err:  mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}},
			want: ErrDuplicateKey,
		},
		{
			name: "no documents",
			err:  mongo.ErrNoDocuments,
			want: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, translateMongoError("OAV-100", tt.err), tt.want)
		})
	}

	other := errors.New("boom")
	got := translateMongoError("OAV-100", other)
	require.ErrorIs(t, got, other)
	require.NotErrorIs(t, got, ErrDuplicateKey)
	require.NotErrorIs(t, got, ErrNotFound)
}
