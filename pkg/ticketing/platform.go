package ticketing

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

// Platform is the part of the chat platform that the ticket workflow drives.
type Platform interface {
	// GuildChannels lists every channel of a guild.
	GuildChannels(guildID string) ([]*discordgo.Channel, error)

	// GuildRoles lists every role of a guild.
	GuildRoles(guildID string) ([]*discordgo.Role, error)

	// CreateChannel creates a channel, applying the permission overwrites in the same call.
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error

	// SendMessage posts a message to a channel.
	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
}

// Replier answers the requester privately.
type Replier interface {
	ReplyPrivate(content string) error
}

type discordPlatform struct {
	s *discordgo.Session
}

// NewDiscordPlatform creates a Platform backed by a discord session.
func NewDiscordPlatform(s *discordgo.Session) Platform {
	return &discordPlatform{s: s}
}

func (d *discordPlatform) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	channels, err := d.s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild channels: %w", err)
	}
	return channels, nil
}

func (d *discordPlatform) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	roles, err := d.s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild roles: %w", err)
	}
	return roles, nil
}

func (d *discordPlatform) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	ch, err := d.s.GuildChannelCreateComplex(guildID, data)
	if err != nil {
		return nil, fmt.Errorf("error creating channel %s: %w", data.Name, err)
	}
	return ch, nil
}

func (d *discordPlatform) DeleteChannel(channelID string) error {
	if _, err := d.s.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("error deleting channel %s: %w", channelID, err)
	}
	return nil
}

func (d *discordPlatform) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m, err := d.s.ChannelMessageSendComplex(channelID, msg)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}
	return m, nil
}
