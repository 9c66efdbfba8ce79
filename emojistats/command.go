package emojistats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/itizir/blobstats/metrics"
	"github.com/itizir/blobstats/store"
	"golang.org/x/time/rate"
)

const (
	optionEmoji = "emoji"

	DefaultInviteURL        = "https://discord.gg/s2Fbfhq"
	DefaultReferenceGuildID = "272885620769161216"

	exportInterval = 30 * time.Second
)

var (
	adminPermission int64 = discordgo.PermissionAdministrator

	StatsCommand = &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        "blobstats",
		Description: "Usage statistics of blobs",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionEmoji,
				Description: "Blob emoji, its ID or its name",
			},
		},
	}

	InviteCommand = &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        "blobs",
		Description: "Gives an invite for the blob server",
	}

	ExportCommand = &discordgo.ApplicationCommand{
		Type:                     discordgo.ChatApplicationCommand,
		Name:                     "blobsort",
		Description:              "Sorts the blob post",
		DefaultMemberPermissions: &adminPermission,
	}

	ExportAliasCommand = &discordgo.ApplicationCommand{
		Type:                     discordgo.ChatApplicationCommand,
		Name:                     "blobpost",
		Description:              "Sorts the blob post",
		DefaultMemberPermissions: &adminPermission,
	}
)

// Interactor is the part of a session the command handlers use.
type Interactor interface {
	EmojiSource
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Config struct {
	ReferenceGuildID string
	InviteURL        string
	Timeout          time.Duration
}

// Commands binds the slash commands to the reporter and the reference guild.
type Commands struct {
	cfg      Config
	reporter *Reporter
	log      *slog.Logger
	export   *rate.Limiter
}

func NewCommands(cfg Config, st store.Store, log *slog.Logger) *Commands {
	if cfg.ReferenceGuildID == "" {
		cfg.ReferenceGuildID = DefaultReferenceGuildID
	}
	if cfg.InviteURL == "" {
		cfg.InviteURL = DefaultInviteURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Commands{
		cfg:      cfg,
		reporter: NewReporter(st, cfg.ReferenceGuildID),
		log:      log,
		export:   rate.NewLimiter(rate.Every(exportInterval), 1),
	}
}

func (c *Commands) HandleStats(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return c.handleStats(s, i)
}

func (c *Commands) handleStats(s Interactor, i *discordgo.InteractionCreate) error {
	metrics.Commands.WithLabelValues(StatsCommand.Name).Inc()

	return deferred(s, i.Interaction, func() (*discordgo.InteractionResponseData, error) {
		return c.stats(s, i.ApplicationCommandData())
	})
}

// stats builds the reply; only store and listing failures are returned as errors,
// everything the user can fix is answered ephemerally.
func (c *Commands) stats(src EmojiSource, data discordgo.ApplicationCommandInteractionData) (*discordgo.InteractionResponseData, error) {
	token := ""
	for _, o := range data.Options {
		if o.Name == optionEmoji {
			token = o.StringValue()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	e, err := c.reporter.Report(ctx, src, token)
	switch {
	case errors.Is(err, ErrEmojiNotFound):
		return ephemeral(fmt.Sprintf("%s: %s.", capitalise(err.Error()), token)), nil
	case errors.Is(err, ErrNoData):
		return ephemeral("No emoji usage recorded yet."), nil
	case err != nil:
		return ephemeral("Failed to fetch blob statistics."), err
	}
	return &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{e}}, nil
}

func (c *Commands) HandleInvite(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	metrics.Commands.WithLabelValues(InviteCommand.Name).Inc()

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: c.cfg.InviteURL},
	})
}

func (c *Commands) HandleExport(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return c.handleExport(s, i)
}

func (c *Commands) handleExport(s Interactor, i *discordgo.InteractionCreate) error {
	metrics.Commands.WithLabelValues(ExportCommand.Name).Inc()

	return deferred(s, i.Interaction, func() (*discordgo.InteractionResponseData, error) {
		data, err := c.exportList(s, i.GuildID, i.Member)
		if len(data.Files) > 0 {
			c.log.Info("exported emoji list", "guild", i.GuildID)
		}
		return data, err
	})
}

func (c *Commands) exportList(src EmojiSource, guildID string, member *discordgo.Member) (*discordgo.InteractionResponseData, error) {
	if guildID != c.cfg.ReferenceGuildID {
		return ephemeral("This command can only be used in the blob server."), nil
	}
	if member == nil || member.Permissions&discordgo.PermissionAdministrator == 0 {
		return ephemeral("Unauthorised. Administrator permission required."), nil
	}
	// a token is only spent once there is a file to send
	if c.export.Tokens() < 1 {
		return exportThrottled(), nil
	}

	emojis, err := src.GuildEmojis(guildID)
	if err != nil {
		return ephemeral("Failed to fetch the emoji list."), fmt.Errorf("list emoji of guild %s: %w", guildID, err)
	}
	if len(emojis) == 0 {
		return ephemeral("The blob server has no emoji to sort."), nil
	}
	if !c.export.Allow() {
		return exportThrottled(), nil
	}

	return &discordgo.InteractionResponseData{
		Files: []*discordgo.File{{
			Name:        exportFileName,
			ContentType: "text/plain; charset=utf-8",
			Reader:      bytes.NewReader(ExportList(emojis)),
		}},
	}, nil
}

// deferred acknowledges the interaction before build runs, then replaces the
// placeholder with build's reply. A deferred public response cannot become
// ephemeral, so ephemeral replies remove it and follow up instead.
func deferred(s Interactor, i *discordgo.Interaction, build func() (*discordgo.InteractionResponseData, error)) error {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	data, err := build()
	if rerr := deliver(s, i, data); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

func deliver(s Interactor, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	if data.Flags&discordgo.MessageFlagsEphemeral != 0 {
		if err := s.InteractionResponseDelete(i); err != nil {
			return err
		}
		_, err := s.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
			Content: data.Content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		return err
	}

	edit := &discordgo.WebhookEdit{Files: data.Files}
	if data.Content != "" {
		edit.Content = &data.Content
	}
	if len(data.Embeds) > 0 {
		edit.Embeds = &data.Embeds
	}
	_, err := s.InteractionResponseEdit(i, edit)
	return err
}

func exportThrottled() *discordgo.InteractionResponseData {
	return ephemeral("The blob post was sorted moments ago, try again shortly.")
}

func ephemeral(msg string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
