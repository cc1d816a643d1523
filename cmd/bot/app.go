package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/cmd/bot/config"
	"github.com/Jacobbrewer1/oav/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/oav/pkg/dataaccess"
	"github.com/Jacobbrewer1/oav/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/oav/pkg/eventid"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/Jacobbrewer1/oav/pkg/request"
	"github.com/Jacobbrewer1/oav/pkg/scheduling"
	"github.com/Jacobbrewer1/oav/pkg/sessions"
	"github.com/Jacobbrewer1/oav/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// migrateTimeout bounds the schema setup of the schedule store at startup.
	migrateTimeout = 30 * time.Second

	// limiterPruneInterval is how often idle users are dropped from the interaction limiter.
	limiterPruneInterval = 5 * time.Minute
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Tickets returns the ticket workflow.
	Tickets() *ticketing.Workflow

	// Scheduler returns the event scheduling service.
	Scheduler() *scheduling.Service

	// Sessions returns the gate session store.
	Sessions() *sessions.Store
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// scheduleDal is the schedule store.
	scheduleDal dataaccess.ScheduleDal

	// scheduler saves scheduled events.
	scheduler *scheduling.Service

	// sessions is the gate session store.
	sessions *sessions.Store

	// tickets opens ticket channels.
	tickets *ticketing.Workflow

	// limiter throttles interactions per user.
	limiter *interactionLimiter

	// closers release the store connections on shutdown.
	closers []func()

	// commandsMtx guards commands.
	commandsMtx sync.Mutex

	// commands are the slash commands registered per guild.
	commands map[string][]*discordgo.ApplicationCommand
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger:   l,
		r:        r,
		commands: make(map[string][]*discordgo.ApplicationCommand),
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	if err := a.setupStores(); err != nil {
		return fmt.Errorf("error setting up stores: %w", err)
	}

	if err := a.setupServices(); err != nil {
		return fmt.Errorf("error setting up services: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.Info("Bot is now running.")

	go a.pruneLimiter()

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Process shutdown signal.
	sig := <-c
	a.Info("Received shutdown signal", slog.String("signal", sig.String()))
	if err := a.ShutdownHook(); err != nil {
		a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	var errs []error

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		errs = append(errs, fmt.Errorf("error unregistering slash commands: %w", err))
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	if err := a.sessions.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("error flushing gate sessions: %w", err))
	}

	if a.svr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	for _, closeFn := range a.closers {
		closeFn()
	}

	return errors.Join(errs...)
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds)

	if a.eventNotifier == nil {
		// Buffered so a slow listener does not block the gateway.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

// setupStores connects the schedule store chosen in the configuration and loads the gate sessions.
func (a *App) setupStores() error {
	switch config.ScheduleStore {
	case config.StoreMongo:
		client, err := (&connection.MongoDB{ConnectionString: config.MongoUri}).Connect()
		if err != nil {
			return fmt.Errorf("error connecting to mongo: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				a.Error("Error disconnecting from mongo", slog.String(logging.KeyError, err.Error()))
			}
		})
		a.scheduleDal = dataaccess.NewScheduleMongoDal(a.Logger, client)
	default:
		pool, err := (&connection.Postgres{ConnectionString: config.PostgresUrl}).Connect()
		if err != nil {
			return fmt.Errorf("error connecting to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.scheduleDal = dataaccess.NewSchedulePostgresDal(a.Logger, pool)
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if err := a.scheduleDal.Migrate(ctx); err != nil {
		return fmt.Errorf("error migrating schedule store: %w", err)
	}

	a.sessions = sessions.NewStore(a.Logger, config.SessionFile)
	loaded, err := a.sessions.Load()
	if err != nil {
		return fmt.Errorf("error loading gate sessions: %w", err)
	}

	a.Info("Stores ready",
		slog.String("schedule_store", config.ScheduleStore),
		slog.Int("gate_sessions", len(loaded)),
	)
	return nil
}

func (a *App) setupServices() error {
	ids, err := eventid.NewGenerator(config.EventIDMin, config.EventIDMax)
	if err != nil {
		return fmt.Errorf("error creating event id generator: %w", err)
	}

	if ids.Keyspace() < config.EventIDAttempts {
		a.Warn("Event id range is smaller than the number of attempts",
			slog.Int("keyspace", ids.Keyspace()),
			slog.Int("attempts", config.EventIDAttempts),
		)
	}

	a.scheduler = scheduling.NewService(a.Logger, a.scheduleDal, ids, config.EventIDAttempts)

	policy, err := ticketing.ParsePingPolicy(config.MissingRolePolicy)
	if err != nil {
		return fmt.Errorf("error parsing missing role policy: %w", err)
	}

	a.tickets = ticketing.NewWorkflow(a.Logger, ticketing.NewDiscordPlatform(a.s), ticketing.NewPlanner(), policy)
	a.limiter = newInteractionLimiter(config.InteractionInterval, config.InteractionBurst)
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("port", config.MonitoringPort))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, middlewareHttp(a, promhttp.Handler().ServeHTTP)).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + config.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a, a.registerGuildCommands))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a, a.limiter,
		// Slash commands
		map[string]commandProcessor{
			addEventCmd.Name:    addEventHandler,
			ticketPanelCmd.Name: ticketPanelHandler,
		},
		// Buttons
		ticketButtonProcessors(),
	))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) pruneLimiter() {
	t := time.NewTicker(limiterPruneInterval)
	defer t.Stop()

	for range t.C {
		if n := a.limiter.prune(limiterPruneInterval); n > 0 {
			a.Debug("Pruned interaction limiter", slog.Int("users", n))
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	for _, g := range guilds {
		if err := a.registerGuildCommands(g.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) registerGuildCommands(guildID string) error {
	a.commandsMtx.Lock()
	defer a.commandsMtx.Unlock()

	if _, ok := a.commands[guildID]; ok {
		return nil
	}

	created := make([]*discordgo.ApplicationCommand, 0, len(slashCommands))
	for _, cmd := range slashCommands {
		c, err := a.s.ApplicationCommandCreate(config.ApplicationId, guildID, cmd)
		if err != nil {
			return fmt.Errorf("error creating %s command for guild %s: %w", cmd.Name, guildID, err)
		}
		created = append(created, c)
	}

	a.commands[guildID] = created
	return nil
}

func (a *App) unregisterSlashCommands() error {
	a.commandsMtx.Lock()
	defer a.commandsMtx.Unlock()

	var errs []error
	for guildID, cmds := range a.commands {
		for _, cmd := range cmds {
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guildID, cmd.ID); err != nil {
				errs = append(errs, fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guildID, err))
			}
		}
		delete(a.commands, guildID)
	}
	return errors.Join(errs...)
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Tickets() *ticketing.Workflow {
	return a.tickets
}

func (a *App) Scheduler() *scheduling.Service {
	return a.scheduler
}

func (a *App) Sessions() *sessions.Store {
	return a.sessions
}
