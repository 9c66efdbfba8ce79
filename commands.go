package main

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/itizir/blobstats/emojistats"
)

type Handler func(s *discordgo.Session, i *discordgo.InteractionCreate) error

type dispatcher struct {
	commands []*discordgo.ApplicationCommand
	handlers map[string]Handler
	log      *slog.Logger
}

func newDispatcher(c *emojistats.Commands, log *slog.Logger) *dispatcher {
	d := &dispatcher{handlers: make(map[string]Handler), log: log}
	for cmd, h := range map[*discordgo.ApplicationCommand]Handler{
		emojistats.StatsCommand:       c.HandleStats,
		emojistats.InviteCommand:      c.HandleInvite,
		emojistats.ExportCommand:      c.HandleExport,
		emojistats.ExportAliasCommand: c.HandleExport,
	} {
		d.commands = append(d.commands, cmd)
		d.handlers[cmd.Name] = h
	}
	return d
}

func (d *dispatcher) handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name
	h, ok := d.handlers[name]
	if !ok {
		d.log.Warn("unknown command", "command", name)
		return
	}
	if err := h(s, i); err != nil {
		d.log.Error("handler failed", "command", name, "guild", i.GuildID, "error", err)
	}
}
