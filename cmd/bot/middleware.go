package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/Jacobbrewer1/oav/pkg/messages"
	"github.com/Jacobbrewer1/oav/pkg/request"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// errAlreadyResponded marks a handler error after which the user has already been told what went wrong.
var errAlreadyResponded = errors.New("interaction already responded to")

// commandProcessor is the processor for slash commands and buttons.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(a IApp, handler Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				request.WriteMessage(a.Log(), cw, http.StatusInternalServerError, request.NewMessage(request.ErrInternalServer.Error()))
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has returned.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionName is the slash command name or the button custom ID of an interaction.
func interactionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	default:
		return ""
	}
}

// interactionUserID is the ID of the user behind an interaction, in a guild or a direct message.
func interactionUserID(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

// interactionHandler routes slash commands by name and buttons by custom ID.
func interactionHandler(a IApp, limiter *interactionLimiter, commands, buttons map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var processors map[string]commandProcessor
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			processors = commands
		case discordgo.InteractionMessageComponent:
			processors = buttons
		default:
			return
		}

		name := interactionName(i)
		l := a.Log().With(
			slog.String("interaction", name),
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyUserID, interactionUserID(i)),
		)
		l.Debug("Handling interaction")

		processor, ok := processors[name]
		if !ok {
			l.Warn("No processor found for interaction")
			if err := respondSlashError(a, i); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		if i.GuildID == "" || i.Member == nil {
			if err := respondSlashEphemeral(a, i, messages.ErrUserGuildOnly); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		if !limiter.allow(interactionUserID(i)) {
			monitoring.InteractionsRateLimited.WithLabelValues(name).Inc()
			if err := respondSlashEphemeral(a, i, messages.ErrUserRateLimited); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		start := time.Now()
		result := "success"
		defer func() {
			monitoring.DiscordInteractionDuration.WithLabelValues(name, result).Observe(time.Since(start).Seconds())
		}()

		defer func() {
			if rec := recover(); rec != nil {
				result = "panic"
				l.Error("Panic in interaction handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		if err := processor(a, i); err != nil {
			result = "error"
			l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))

			if errors.Is(err, errAlreadyResponded) {
				return
			}

			if err := respondSlashError(a, i); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// interactionLimiter is a token bucket per user.
type interactionLimiter struct {
	mtx   sync.Mutex
	every rate.Limit
	burst int
	users map[string]*limiterEntry
	now   func() time.Time
}

// newInteractionLimiter creates a limiter that lets each user make burst interactions at once and one more every
// interval. A zero interval disables the limit.
func newInteractionLimiter(interval time.Duration, burst int) *interactionLimiter {
	every := rate.Inf
	if interval > 0 {
		every = rate.Every(interval)
	}

	return &interactionLimiter{
		every: every,
		burst: burst,
		users: make(map[string]*limiterEntry),
		now:   time.Now,
	}
}

func (l *interactionLimiter) allow(userID string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	now := l.now()
	e, ok := l.users[userID]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.users[userID] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// prune forgets users idle for longer than idle and returns how many were removed.
func (l *interactionLimiter) prune(idle time.Duration) int {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for id, e := range l.users {
		if e.lastSeen.Before(cutoff) {
			delete(l.users, id)
			removed++
		}
	}
	return removed
}
