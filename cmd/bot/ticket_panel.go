package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/Jacobbrewer1/oav/pkg/messages"
	"github.com/Jacobbrewer1/oav/pkg/sessions"
)

const (
	// ticketPanelCmdName is the name of the command that posts the ticket panel.
	ticketPanelCmdName = "ticketpanel"

	panelChannelKey = "channel_id"
	panelMessageKey = "message_id"
)

var (
	// ticketPanelCmd posts the ticket panel in the current channel.
	ticketPanelCmd = &discordgo.ApplicationCommand{
		Name:        ticketPanelCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Post the ticket panel in this channel.",
	}
)

// panelSessionKey is the gate session key holding where the ticket panel of a guild was posted.
func panelSessionKey(guildID string) string {
	return "ticket_panel:" + guildID
}

func ticketPanelMessage() *discordgo.MessageSend {
	const messageText = `**Need help?**
Open a ticket with the button for your request and a private channel will be created for you and our staff.`

	buttons := make([]discordgo.MessageComponent, 0, len(ticketButtons))
	for _, b := range ticketButtons {
		buttons = append(buttons, discordgo.Button{
			Label:    b.label,
			Style:    discordgo.PrimaryButton,
			CustomID: b.id,
		})
	}

	return &discordgo.MessageSend{
		Content:         messageText,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: buttons,
			},
		},
	}
}

// ticketPanelHandler posts the ticket panel and replaces the panel previously posted in the guild.
func ticketPanelHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !isAdmin(i) {
		return respondSlashEphemeral(a, i, messages.ErrUserNotAdmin)
	}

	l := a.Log().With(slog.String(logging.KeyGuildID, i.GuildID))

	msg, err := a.Session().ChannelMessageSendComplex(i.ChannelID, ticketPanelMessage())
	if err != nil {
		return fmt.Errorf("error sending ticket panel: %w", err)
	}

	key := panelSessionKey(i.GuildID)
	if prev, ok := a.Sessions().Get(key); ok {
		removePanel(a, l, prev)
	}

	doc := sessions.Document{
		panelChannelKey: msg.ChannelID,
		panelMessageKey: msg.ID,
		"posted_by":     i.Member.User.ID,
		"posted_at":     time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.Sessions().Update(key, doc); err != nil {
		// The panel works without its session, it just will not be replaced next time.
		l.Warn("Error saving ticket panel session", slog.String(logging.KeyError, err.Error()))
	}

	if err := respondSlashEphemeral(a, i, fmt.Sprintf(messages.PanelPosted, fmt.Sprintf("<#%s>", msg.ChannelID))); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// removePanel deletes a previously posted panel message. The message may already be gone.
func removePanel(a IApp, l *slog.Logger, prev sessions.Document) {
	channelID, _ := prev[panelChannelKey].(string)
	messageID, _ := prev[panelMessageKey].(string)
	if channelID == "" || messageID == "" {
		return
	}

	if err := a.Session().ChannelMessageDelete(channelID, messageID); err != nil {
		l.Debug("Previous ticket panel not deleted",
			slog.String("message_id", messageID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
