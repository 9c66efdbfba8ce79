package emojistats

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/itizir/blobstats/store"
)

const (
	refGuild   = "272885620769161216"
	otherGuild = "81384788765712384"

	idA     = "396521773144866826"
	idB     = "396521772691881987"
	idC     = "396521773216301056"
	idOther = "228574821590499329"
)

var (
	blobA = &discordgo.Emoji{ID: idA, Name: "blobA"}
	blobB = &discordgo.Emoji{ID: idB, Name: "blobB"}
	blobC = &discordgo.Emoji{ID: idC, Name: "blobC"}

	errBoom = errors.New("boom")
)

func mention(e *discordgo.Emoji) string {
	return e.MessageFormat()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memStore struct {
	mu      sync.Mutex
	data    map[string]store.Record
	gets    int
	alls    int
	puts    int
	failGet bool
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]store.Record)}
}

func (m *memStore) Get(_ context.Context, guildID string) (store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, errBoom
	}
	return m.data[guildID].Clone(), nil
}

func (m *memStore) Put(_ context.Context, guildID string, rec store.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.failPut {
		return errBoom
	}
	m.data[guildID] = rec.Clone()
	return nil
}

func (m *memStore) All(_ context.Context) (map[string]store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alls++
	if m.failGet {
		return nil, errBoom
	}
	all := make(map[string]store.Record, len(m.data))
	for k, v := range m.data {
		all[k] = v.Clone()
	}
	return all, nil
}

func (m *memStore) Close() error { return nil }

type fakeSource struct {
	emojis map[string][]*discordgo.Emoji
	err    error
	calls  int
}

func (f *fakeSource) GuildEmojis(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Emoji, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.emojis[guildID], nil
}

func referenceSource() *fakeSource {
	return &fakeSource{emojis: map[string][]*discordgo.Emoji{
		refGuild: {blobA, blobB, blobC},
	}}
}

// fakeSession records the interaction calls a handler makes, in order.
type fakeSession struct {
	*fakeSource
	events     []string
	edit       *discordgo.WebhookEdit
	followup   *discordgo.WebhookParams
	onEmojis   func()
	respondErr error
}

func newFakeSession(src *fakeSource) *fakeSession {
	return &fakeSession{fakeSource: src}
}

func (f *fakeSession) GuildEmojis(guildID string, opts ...discordgo.RequestOption) ([]*discordgo.Emoji, error) {
	f.events = append(f.events, "emojis")
	if f.onEmojis != nil {
		f.onEmojis()
	}
	return f.fakeSource.GuildEmojis(guildID, opts...)
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if resp.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource {
		f.events = append(f.events, "defer")
	} else {
		f.events = append(f.events, "respond")
	}
	return f.respondErr
}

func (f *fakeSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.events = append(f.events, "edit")
	f.edit = edit
	return &discordgo.Message{}, nil
}

func (f *fakeSession) InteractionResponseDelete(_ *discordgo.Interaction, _ ...discordgo.RequestOption) error {
	f.events = append(f.events, "delete")
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.events = append(f.events, "followup")
	f.followup = data
	return &discordgo.Message{}, nil
}

func commandInteraction(guildID string, member *discordgo.Member, data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member:  member,
		Data:    data,
	}}
}
