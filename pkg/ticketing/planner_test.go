package ticketing

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID = "guild-1"
	testBotID   = "bot-1"
)

func fullRoster() Roster {
	return NewRoster([]*discordgo.Role{
		{ID: testGuildID, Name: "@everyone"},
		{ID: CEORoleID, Name: "CEO"},
		{ID: CAORoleID, Name: "CAO"},
		{ID: CMORoleID, Name: "CMO"},
		{ID: RecruiterRoleID, Name: "Recruiter"},
		{ID: ModRoleID, Name: "Moderator"},
	})
}

func overwriteFor(plan *AccessPlan, id string) *discordgo.PermissionOverwrite {
	for _, o := range plan.Overwrites {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func TestPlanner_Plan_StaffHelp(t *testing.T) {
	alice := &discordgo.User{ID: "user-alice", Username: "alice"}

	plan, err := NewPlanner().Plan(entities.TicketCategoryStaffHelp, testGuildID, alice, testBotID, fullRoster())
	require.NoError(t, err)

	require.Len(t, plan.Overwrites, 4)

	everyone := overwriteFor(plan, testGuildID)
	require.NotNil(t, everyone)
	require.Equal(t, discordgo.PermissionOverwriteTypeRole, everyone.Type)
	require.EqualValues(t, discordgo.PermissionViewChannel, everyone.Deny)
	require.Zero(t, everyone.Allow)

	requester := overwriteFor(plan, alice.ID)
	require.NotNil(t, requester)
	require.Equal(t, discordgo.PermissionOverwriteTypeMember, requester.Type)
	require.EqualValues(t, discordgo.PermissionViewChannel|discordgo.PermissionSendMessages, requester.Allow)

	bot := overwriteFor(plan, testBotID)
	require.NotNil(t, bot)
	require.Equal(t, discordgo.PermissionOverwriteTypeMember, bot.Type)
	require.EqualValues(t, discordgo.PermissionViewChannel, bot.Allow)

	mod := overwriteFor(plan, ModRoleID)
	require.NotNil(t, mod)
	require.Equal(t, discordgo.PermissionOverwriteTypeRole, mod.Type)
	require.EqualValues(t, discordgo.PermissionViewChannel|discordgo.PermissionSendMessages, mod.Allow)

	require.Equal(t, []string{ModRoleID}, plan.RoleIDs)
	require.Equal(t, []string{"<@&" + ModRoleID + ">"}, plan.Mentions)
	require.Empty(t, plan.Skipped)
}

func TestPlanner_Plan_RolesDependOnlyOnCategory(t *testing.T) {
	alice := &discordgo.User{ID: "user-alice", Username: "alice"}
	bob := &discordgo.User{ID: "user-bob", Username: "bob"}

	p := NewPlanner()
	for _, c := range entities.TicketCategories() {
		t.Run(c.Tag(), func(t *testing.T) {
			planA, err := p.Plan(c, testGuildID, alice, testBotID, fullRoster())
			require.NoError(t, err)

			planB, err := p.Plan(c, testGuildID, bob, testBotID, fullRoster())
			require.NoError(t, err)

			require.Equal(t, planA.RoleIDs, planB.RoleIDs)
			require.Equal(t, planA.Mentions, planB.Mentions)
			require.Equal(t, EntitledRoles(c), planA.RoleIDs)
		})
	}
}

func TestPlanner_Plan_MissingRoles(t *testing.T) {
	alice := &discordgo.User{ID: "user-alice", Username: "alice"}

	tests := []struct {
		name        string
		category    entities.TicketCategory
		roster      Roster
		wantRoles   []string
		wantSkipped []string
	}{
		{
			name:        "one of two missing",
			category:    entities.TicketCategoryRecruiter,
			roster:      NewRoster([]*discordgo.Role{{ID: RecruiterRoleID}}),
			wantRoles:   []string{RecruiterRoleID},
			wantSkipped: []string{CMORoleID},
		},
		{
			name:        "all missing",
			category:    entities.TicketCategoryCareerMode,
			roster:      NewRoster(nil),
			wantRoles:   nil,
			wantSkipped: []string{CEORoleID, CAORoleID},
		},
		{
			name:        "nil entries ignored",
			category:    entities.TicketCategoryStaffHelp,
			roster:      NewRoster([]*discordgo.Role{nil}),
			wantRoles:   nil,
			wantSkipped: []string{ModRoleID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlanner().Plan(tt.category, testGuildID, alice, testBotID, tt.roster)
			require.NoError(t, err)

			require.Equal(t, tt.wantRoles, plan.RoleIDs)
			require.Equal(t, tt.wantSkipped, plan.Skipped)
			require.Len(t, plan.Mentions, len(tt.wantRoles))
			require.Len(t, plan.Overwrites, 3+len(tt.wantRoles))

			for _, id := range tt.wantSkipped {
				require.Nil(t, overwriteFor(plan, id), "skipped role %s in overwrites", id)
			}
		})
	}
}

func TestPlanner_Plan_Invalid(t *testing.T) {
	alice := &discordgo.User{ID: "user-alice", Username: "alice"}

	tests := []struct {
		name      string
		category  entities.TicketCategory
		guildID   string
		requester *discordgo.User
		botID     string
	}{
		{name: "unknown category", category: 0, guildID: testGuildID, requester: alice, botID: testBotID},
		{name: "missing guild", category: entities.TicketCategoryStaffHelp, requester: alice, botID: testBotID},
		{name: "missing requester", category: entities.TicketCategoryStaffHelp, guildID: testGuildID, botID: testBotID},
		{name: "missing bot", category: entities.TicketCategoryStaffHelp, guildID: testGuildID, requester: alice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlanner().Plan(tt.category, tt.guildID, tt.requester, tt.botID, fullRoster())
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestEntitledRoles(t *testing.T) {
	require.Len(t, EntitledRoles(entities.TicketCategoryStaffHelp), 1)
	require.Len(t, EntitledRoles(entities.TicketCategoryRecruiter), 2)
	require.Len(t, EntitledRoles(entities.TicketCategoryCareerMode), 2)
	require.Nil(t, EntitledRoles(0))
}
