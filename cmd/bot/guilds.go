package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/oav/pkg/logging"
)

// guildJoinedHandler counts the guild and makes sure its slash commands exist. Discord also sends a guild create for
// every guild the bot is already in when the gateway connects.
func guildJoinedHandler(a IApp, register func(guildID string) error) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info(fmt.Sprintf("Joined guild %s", g.Name), slog.String(logging.KeyGuildID, g.ID))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()

		if err := register(g.ID); err != nil {
			a.Log().Error("Error registering slash commands",
				slog.String(logging.KeyGuildID, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// Unavailable guilds are outages, the bot is still a member.
		if g.Unavailable {
			return
		}

		a.Log().Info("Left guild", slog.String(logging.KeyGuildID, g.ID))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
	}
}
