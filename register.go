package main

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

func registerCommands(s *discordgo.Session, log *slog.Logger, appID, guildID string, cmds []*discordgo.ApplicationCommand) error {
	log.Info("registering commands", "guild", guildID)

	created, err := s.ApplicationCommandBulkOverwrite(appID, guildID, cmds)
	if err != nil {
		return err
	}
	for _, cmd := range created {
		log.Info("added command", "name", cmd.Name, "id", cmd.ID, "guild", cmd.GuildID)
	}

	log.Info("done registering commands", "count", len(created))
	return nil
}

func cleanupCommands(s *discordgo.Session, log *slog.Logger, appID, guildID string) error {
	log.Info("cleaning up commands")

	guildIDs := []string{guildID}
	if guildID == "" {
		guilds, err := s.UserGuilds(200, "", "", false)
		if err != nil {
			return err
		}
		for _, g := range guilds {
			guildIDs = append(guildIDs, g.ID)
		}
	}

	for _, guildID := range guildIDs {
		cmds, err := s.ApplicationCommands(appID, guildID)
		if err != nil {
			return err
		}
		for _, cmd := range cmds {
			if err := s.ApplicationCommandDelete(cmd.ApplicationID, cmd.GuildID, cmd.ID); err != nil {
				return err
			}
			log.Info("deleted command", "name", cmd.Name, "id", cmd.ID, "guild", cmd.GuildID)
		}
	}

	log.Info("done cleaning up commands")
	return nil
}
