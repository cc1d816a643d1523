package main

import (
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestInteractionLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newInteractionLimiter(2*time.Second, 2)
	l.now = func() time.Time { return now }

	require.True(t, l.allow("user"))
	require.True(t, l.allow("user"))
	require.False(t, l.allow("user"), "burst should be spent")
	require.True(t, l.allow("other"), "users are limited separately")

	now = now.Add(2 * time.Second)
	require.True(t, l.allow("user"), "a token is earned back after the interval")
	require.False(t, l.allow("user"))
}

func TestInteractionLimiter_Unlimited(t *testing.T) {
	l := newInteractionLimiter(0, 1)
	for n := 0; n < 50; n++ {
		require.True(t, l.allow("user"))
	}
}

func TestInteractionLimiter_Prune(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newInteractionLimiter(time.Second, 1)
	l.now = func() time.Time { return now }

	l.allow("old")
	now = now.Add(10 * time.Minute)
	l.allow("new")

	require.Equal(t, 1, l.prune(5*time.Minute))
	require.Len(t, l.users, 1)
	require.Contains(t, l.users, "new")
}

func TestInteractionName(t *testing.T) {
	cmd := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: addEventCmdName},
	}}
	require.Equal(t, addEventCmdName, interactionName(cmd))

	button := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: StaffTicketButtonID},
	}}
	require.Equal(t, StaffTicketButtonID, interactionName(button))

	ping := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}}
	require.Empty(t, interactionName(ping))
}

func TestInteractionUserID(t *testing.T) {
	member := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "member"}},
	}}
	require.Equal(t, "member", interactionUserID(member))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "dm"},
	}}
	require.Equal(t, "dm", interactionUserID(dm))

	require.Empty(t, interactionUserID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}))
}
