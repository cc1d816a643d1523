package ticketing

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/pkg/entities"
)

const (
	// memberPermissions are granted to the requester and the staff roles.
	memberPermissions = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages

	// botPermissions are granted to the bot itself.
	botPermissions = discordgo.PermissionViewChannel
)

// ErrInvalidRequest is returned when a ticket request is missing required information.
var ErrInvalidRequest = errors.New("invalid ticket request")

// RoleResolver looks roles up in the live guild roster.
type RoleResolver interface {
	// ResolveRole returns the role with the given ID, or false if the guild has no such role.
	ResolveRole(id string) (*discordgo.Role, bool)
}

// Roster is a snapshot of a guild's roles keyed by ID.
type Roster map[string]*discordgo.Role

// NewRoster creates a roster from a list of guild roles.
func NewRoster(roles []*discordgo.Role) Roster {
	r := make(Roster, len(roles))
	for _, role := range roles {
		if role == nil {
			continue
		}
		r[role.ID] = role
	}
	return r
}

// ResolveRole implements RoleResolver.
func (r Roster) ResolveRole(id string) (*discordgo.Role, bool) {
	role, ok := r[id]
	return role, ok
}

// AccessPlan is the access list for a new ticket channel.
type AccessPlan struct {
	// Overwrites are applied to the channel when it is created.
	Overwrites []*discordgo.PermissionOverwrite

	// RoleIDs are the staff roles that resolved, in ping order.
	RoleIDs []string

	// Mentions are the mentions of RoleIDs, used to ping staff in the announcement.
	Mentions []string

	// Skipped are the entitled roles that no longer exist on the guild.
	Skipped []string
}

// Planner computes access lists for ticket channels.
type Planner struct {
	// entitlements maps a category onto its staff roles.
	entitlements func(entities.TicketCategory) []string
}

// NewPlanner creates a planner using the static role table.
func NewPlanner() *Planner {
	return &Planner{
		entitlements: EntitledRoles,
	}
}

// Plan builds the access list of a ticket channel. Everyone in the guild is denied, the requester and each entitled
// staff role may view and post, and the bot may view. Entitled roles that are not in the roster are skipped.
func (p *Planner) Plan(category entities.TicketCategory, guildID string, requester *discordgo.User, botID string, roles RoleResolver) (*AccessPlan, error) {
	switch {
	case !category.Valid():
		return nil, fmt.Errorf("%w: unknown category %s", ErrInvalidRequest, category)
	case guildID == "":
		return nil, fmt.Errorf("%w: missing guild", ErrInvalidRequest)
	case requester == nil || requester.ID == "":
		return nil, fmt.Errorf("%w: missing requester", ErrInvalidRequest)
	case botID == "":
		return nil, fmt.Errorf("%w: missing bot identity", ErrInvalidRequest)
	}

	entitled := p.entitlements(category)

	plan := &AccessPlan{
		Overwrites: make([]*discordgo.PermissionOverwrite, 0, 3+len(entitled)),
	}

	plan.Overwrites = append(plan.Overwrites,
		// The @everyone role shares its ID with the guild.
		&discordgo.PermissionOverwrite{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		&discordgo.PermissionOverwrite{
			ID:    requester.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberPermissions,
		},
		&discordgo.PermissionOverwrite{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: botPermissions,
		},
	)

	for _, id := range entitled {
		role, ok := roles.ResolveRole(id)
		if !ok || role == nil {
			plan.Skipped = append(plan.Skipped, id)
			continue
		}

		plan.Overwrites = append(plan.Overwrites, &discordgo.PermissionOverwrite{
			ID:    role.ID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberPermissions,
		})
		plan.RoleIDs = append(plan.RoleIDs, role.ID)
		plan.Mentions = append(plan.Mentions, role.Mention())
	}

	return plan, nil
}
