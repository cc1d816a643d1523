package config

import "time"

const (
	// AppName is the name of the application.
	AppName = "oav"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvScheduleStore is the environment variable choosing the schedule store backend.
	EnvScheduleStore = `SCHEDULE_STORE`

	// EnvPostgresUrl is the environment variable for the Postgres URL.
	EnvPostgresUrl = `POSTGRES_URL`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvSessionFile is the environment variable for the gate session file.
	EnvSessionFile = `SESSION_FILE`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvEventIDMin is the environment variable for the smallest event number.
	EnvEventIDMin = `EVENT_ID_MIN`

	// EnvEventIDMax is the environment variable for the largest event number.
	EnvEventIDMax = `EVENT_ID_MAX`

	// EnvEventIDAttempts is the environment variable for how many event identifiers are tried.
	EnvEventIDAttempts = `EVENT_ID_ATTEMPTS`

	// EnvMissingRolePolicy is the environment variable for what happens when no staff role can be pinged.
	EnvMissingRolePolicy = `MISSING_ROLE_POLICY`

	// EnvInteractionRate is the environment variable for the seconds between interactions per user.
	EnvInteractionRate = `INTERACTION_RATE`

	// EnvInteractionBurst is the environment variable for the interactions a user can make in a burst.
	EnvInteractionBurst = `INTERACTION_BURST`
)

const (
	// StorePostgres keeps scheduled events in Postgres.
	StorePostgres = "postgres"

	// StoreMongo keeps scheduled events in MongoDB.
	StoreMongo = "mongo"
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// ScheduleStore is the schedule store backend, StorePostgres or StoreMongo.
	ScheduleStore string

	// PostgresUrl is the URL for the Postgres database.
	PostgresUrl string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// SessionFile is the path of the gate session file.
	SessionFile string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// EventIDMin is the smallest number used in event identifiers.
	EventIDMin int

	// EventIDMax is the largest number used in event identifiers.
	EventIDMax int

	// EventIDAttempts is how many identifiers are tried before an event is rejected.
	EventIDAttempts int

	// MissingRolePolicy is "silent" or "warn".
	MissingRolePolicy string

	// InteractionInterval is the time a user earns one more interaction in.
	InteractionInterval time.Duration

	// InteractionBurst is the interactions a user can make at once.
	InteractionBurst int
)
