package ticketing

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/Jacobbrewer1/oav/pkg/messages"
	"github.com/google/uuid"
)

const (
	// ContainerName is the name of the category that holds every ticket channel.
	ContainerName = "TICKETS"

	// announcementColour is the colour of the announcement embed.
	announcementColour = 0x2f3136
)

// PingPolicy decides what happens when none of a category's staff roles exist on the guild.
type PingPolicy int

const (
	// PingPolicySilent opens the ticket without pinging anyone.
	PingPolicySilent PingPolicy = iota

	// PingPolicyWarn opens the ticket, logs a warning and notes in the ticket that no staff were pinged.
	PingPolicyWarn
)

// ParsePingPolicy parses "silent" or "warn". An empty string is silent.
func ParsePingPolicy(s string) (PingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "silent":
		return PingPolicySilent, nil
	case "warn":
		return PingPolicyWarn, nil
	default:
		return 0, fmt.Errorf("unknown ping policy %q", s)
	}
}

func (p PingPolicy) String() string {
	switch p {
	case PingPolicySilent:
		return "silent"
	case PingPolicyWarn:
		return "warn"
	default:
		return fmt.Sprintf("PingPolicy(%d)", int(p))
	}
}

// Request is a request to open a ticket.
type Request struct {
	// GuildID is the guild the ticket is opened in.
	GuildID string

	// Requester is the user opening the ticket.
	Requester *discordgo.User

	// Category is the purpose of the ticket.
	Category entities.TicketCategory

	// BotID is the user ID of the bot.
	BotID string
}

// Result is the outcome of a successful run.
type Result struct {
	// Ticket describes the ticket.
	Ticket *entities.Ticket

	// Channel is the ticket channel.
	Channel *discordgo.Channel

	// Container is the tickets category.
	Container *discordgo.Channel

	// Plan is the access list applied to the channel. Nil when the channel already existed.
	Plan *AccessPlan

	// Existing is set when the requester already had a ticket of this category and no channel was created.
	Existing bool
}

// Workflow opens ticket channels. Every call to Open is an independent run, no state is kept between runs apart from
// the locks.
type Workflow struct {
	// l is the logger.
	l *slog.Logger

	// platform is the chat platform.
	platform Platform

	// planner computes the channel access lists.
	planner *Planner

	// policy is applied when no staff role resolves.
	policy PingPolicy

	// containerLocks serialise the get-or-create of the tickets category per guild.
	containerLocks keyedMutex

	// ticketLocks serialise runs for the same guild, requester and category.
	ticketLocks keyedMutex
}

// NewWorkflow creates a new ticket workflow.
func NewWorkflow(l *slog.Logger, platform Platform, planner *Planner, policy PingPolicy) *Workflow {
	return &Workflow{
		l:        l.With(slog.String("component", "ticketing")),
		platform: platform,
		planner:  planner,
		policy:   policy,
	}
}

// Open runs the ticket workflow and answers the requester through reply, with either the ticket channel or a failure
// notice. Errors are *StageError values.
func (w *Workflow) Open(req Request, reply Replier) (*Result, error) {
	l := w.l.With(
		slog.String(logging.KeyRunID, uuid.NewString()),
		slog.String(logging.KeyGuildID, req.GuildID),
		slog.String("category", req.Category.String()),
	)
	if req.Requester != nil {
		l = l.With(slog.String(logging.KeyUserID, req.Requester.ID))
	}

	res, err := w.open(l, req)
	if err != nil {
		w.fail(l, req, err)

		if replyErr := reply.ReplyPrivate(failureNotice(err)); replyErr != nil {
			l.Error("Error sending failure notice", slog.String(logging.KeyError, replyErr.Error()))
		}
		return nil, err
	}

	content := fmt.Sprintf(messages.TicketCreated, res.Channel.Mention())
	if res.Existing {
		content = fmt.Sprintf(messages.TicketExists, res.Channel.Mention())
	}

	if err := reply.ReplyPrivate(content); err != nil {
		stageErr := &StageError{
			Stage:     StageAcknowledge,
			ChannelID: res.Channel.ID,
			Err:       err,
		}
		w.fail(l, req, stageErr)
		return res, stageErr
	}

	result := "created"
	if res.Existing {
		result = "existing"
	}
	TicketsOpened.WithLabelValues(req.Category.Tag(), result).Inc()

	l.Info("Ticket opened",
		slog.String("channel_id", res.Channel.ID),
		slog.String("channel_name", res.Channel.Name),
		slog.Bool("existing", res.Existing),
	)
	return res, nil
}

func (w *Workflow) fail(l *slog.Logger, req Request, err error) {
	stage, partial := StageStart, false

	stageErr := new(StageError)
	if errors.As(err, &stageErr) {
		stage, partial = stageErr.Stage, stageErr.Partial()
	}

	TicketsFailed.WithLabelValues(req.Category.Tag(), string(stage), strconv.FormatBool(partial)).Inc()
	l.Error("Error opening ticket",
		slog.String(logging.KeyError, err.Error()),
		slog.String("stage", string(stage)),
		slog.Bool("partial", partial),
	)
}

func (w *Workflow) open(l *slog.Logger, req Request) (*Result, error) {
	if req.Requester == nil || req.Requester.ID == "" || req.GuildID == "" || !req.Category.Valid() {
		return nil, &StageError{Stage: StageStart, Err: ErrInvalidRequest}
	}

	ticket := &entities.Ticket{
		GuildID:  req.GuildID,
		Category: req.Category,
		UserID:   req.Requester.ID,
		Username: req.Requester.Username,
	}

	// One run at a time per requester and category, so that a double press cannot create two channels.
	unlock := w.ticketLocks.Lock(req.GuildID + "/" + req.Category.Tag() + "/" + req.Requester.ID)
	defer unlock()

	container, channels, created, err := w.resolveContainer(l, req.GuildID)
	if err != nil {
		return nil, &StageError{Stage: StageResolveCategory, Err: err}
	}

	if existing := findTicketChannel(channels, container.ID, ticket.Name()); existing != nil {
		ticket.ChannelID = existing.ID
		return &Result{
			Ticket:    ticket,
			Channel:   existing,
			Container: container,
			Existing:  true,
		}, nil
	}

	roles, err := w.platform.GuildRoles(req.GuildID)
	if err != nil {
		return nil, &StageError{Stage: StagePlanAccess, ContainerCreated: created, Err: err}
	}

	plan, err := w.planner.Plan(req.Category, req.GuildID, req.Requester, req.BotID, NewRoster(roles))
	if err != nil {
		return nil, &StageError{Stage: StagePlanAccess, ContainerCreated: created, Err: err}
	}

	if len(plan.Skipped) > 0 {
		TicketRolesMissing.WithLabelValues(req.Category.Tag()).Add(float64(len(plan.Skipped)))
		l.Debug("Skipping staff roles missing from the guild", slog.Any("role_ids", plan.Skipped))
	}

	noStaff := len(plan.Mentions) == 0 && w.policy == PingPolicyWarn
	if noStaff {
		l.Warn("No staff roles resolved for ticket, nobody will be pinged", slog.Any("role_ids", plan.Skipped))
	}

	// The overwrites go in with the create call, the channel is never visible to more people than intended.
	channel, err := w.platform.CreateChannel(req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 ticket.Name(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket opened by %s", req.Category.Tag(), req.Requester.Username),
		ParentID:             container.ID,
		PermissionOverwrites: plan.Overwrites,
	})
	if err != nil {
		return nil, &StageError{Stage: StageCreateChannel, ContainerCreated: created, Err: err}
	}
	ticket.ChannelID = channel.ID

	if _, err := w.platform.SendMessage(channel.ID, announcement(req.Requester, plan, noStaff)); err != nil {
		stageErr := &StageError{
			Stage:            StageAnnounce,
			ContainerCreated: created,
			ChannelID:        channel.ID,
			Err:              err,
		}

		// Roll the channel back so the requester can simply try again.
		if delErr := w.platform.DeleteChannel(channel.ID); delErr != nil {
			stageErr.Err = errors.Join(err, delErr)
			return nil, stageErr
		}

		stageErr.Compensated = true
		return nil, stageErr
	}

	return &Result{
		Ticket:    ticket,
		Channel:   channel,
		Container: container,
		Plan:      plan,
	}, nil
}

// resolveContainer gets the tickets category of the guild, creating it if it does not exist. The guild's channels
// are returned along with it so that existing tickets can be found without listing them again.
func (w *Workflow) resolveContainer(l *slog.Logger, guildID string) (*discordgo.Channel, []*discordgo.Channel, bool, error) {
	unlock := w.containerLocks.Lock(guildID)
	defer unlock()

	channels, err := w.platform.GuildChannels(guildID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("error listing channels: %w", err)
	}

	if c := findContainer(channels); c != nil {
		return c, channels, false, nil
	}

	l.Warn("Tickets category does not exist, creating it now")

	container, err := w.platform.CreateChannel(guildID, discordgo.GuildChannelCreateData{
		Name: ContainerName,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		// Another instance may have created the category first, look again before giving up.
		again, lookupErr := w.platform.GuildChannels(guildID)
		if lookupErr == nil {
			if c := findContainer(again); c != nil {
				l.Info("Tickets category was created concurrently, using it")
				return c, again, false, nil
			}
		}
		return nil, nil, false, fmt.Errorf("error creating tickets category: %w", err)
	}

	// A new category has no channels under it.
	return container, nil, true, nil
}

func findContainer(channels []*discordgo.Channel) *discordgo.Channel {
	for _, c := range channels {
		if c != nil && c.Type == discordgo.ChannelTypeGuildCategory && c.Name == ContainerName {
			return c
		}
	}
	return nil
}

func findTicketChannel(channels []*discordgo.Channel, parentID, name string) *discordgo.Channel {
	for _, c := range channels {
		if c != nil && c.Type == discordgo.ChannelTypeGuildText && c.ParentID == parentID && c.Name == name {
			return c
		}
	}
	return nil
}

func announcement(requester *discordgo.User, plan *AccessPlan, noStaff bool) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       messages.TicketOpenedTitle,
		Description: fmt.Sprintf(messages.TicketOpenedBy, requester.Mention()),
		Color:       announcementColour,
	}

	if noStaff {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Staff",
			Value: messages.TicketNoStaff,
		})
	}

	return &discordgo.MessageSend{
		Content: strings.Join(plan.Mentions, " "),
		Embeds:  []*discordgo.MessageEmbed{embed},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Roles: plan.RoleIDs,
			Users: []string{requester.ID},
		},
	}
}

func failureNotice(err error) string {
	stageErr := new(StageError)
	if errors.As(err, &stageErr) && stageErr.ChannelLeft() {
		return fmt.Sprintf(messages.ErrTicketPartial, "<#"+stageErr.ChannelID+">")
	}
	return messages.ErrTicketFailed
}
