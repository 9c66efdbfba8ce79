package emojistats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/itizir/blobstats/metrics"
	"github.com/itizir/blobstats/store"
)

// Counter records, per guild, how many messages mentioned each custom emoji.
type Counter struct {
	store   store.Store
	log     *slog.Logger
	timeout time.Duration

	// discordgo runs handlers concurrently; serialise the read-modify-write
	mu sync.Mutex
}

const defaultTimeout = 5 * time.Second

func NewCounter(st store.Store, log *slog.Logger, timeout time.Duration) *Counter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Counter{store: st, log: log, timeout: timeout}
}

// Count increments each distinct emoji found in content once and returns how many were counted.
func (c *Counter) Count(ctx context.Context, guildID, content string) (int, error) {
	ids := Extract(content)
	if len(ids) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.store.Get(ctx, guildID)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return 0, fmt.Errorf("get usage for guild %s: %w", guildID, err)
	}
	for _, id := range ids {
		rec[id]++
	}
	if err := c.store.Put(ctx, guildID, rec); err != nil {
		metrics.StoreErrors.WithLabelValues("put").Inc()
		return 0, fmt.Errorf("put usage for guild %s: %w", guildID, err)
	}

	metrics.EmojiCounted.Add(float64(len(ids)))
	return len(ids), nil
}

// OnMessageCreate is the discordgo handler. Direct messages and the bot's own messages are ignored.
func (c *Counter) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	metrics.MessagesScanned.Inc()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.Count(ctx, m.GuildID, m.Content)
	if err != nil {
		c.log.Error("failed to count emoji", "guild", m.GuildID, "message", m.ID, "error", err)
		return
	}
	if n > 0 {
		c.log.Debug("counted emoji", "guild", m.GuildID, "count", n)
	}
}
