package emojistats

import (
	"context"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/itizir/blobstats/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_CountsMessagesNotMentions(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	c := NewCounter(st, discardLogger(), 0)

	messages := []string{
		mention(blobB),
		"look " + mention(blobB) + mention(blobB) + mention(blobB),
		mention(blobB) + " and " + mention(blobC) + " " + mention(blobC),
		"nothing here",
	}
	for _, m := range messages {
		_, err := c.Count(ctx, otherGuild, m)
		require.NoError(t, err)
	}

	rec, err := st.Get(ctx, otherGuild)
	require.NoError(t, err)
	assert.Equal(t, store.Record{idB: 3, idC: 1}, rec)
}

func TestCounter_DuplicateIncrementsOnce(t *testing.T) {
	st := newMemStore()
	c := NewCounter(st, discardLogger(), 0)

	n, err := c.Count(context.Background(), refGuild, mention(blobA)+mention(blobA))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, store.Record{idA: 1}, st.data[refGuild])
}

func TestCounter_NoEmojiSkipsStore(t *testing.T) {
	st := newMemStore()
	c := NewCounter(st, discardLogger(), 0)

	n, err := c.Count(context.Background(), refGuild, "just words :blobA:")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, st.gets)
	assert.Zero(t, st.puts)
}

func TestCounter_PerGuild(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	c := NewCounter(st, discardLogger(), 0)

	_, err := c.Count(ctx, refGuild, mention(blobA))
	require.NoError(t, err)
	_, err = c.Count(ctx, otherGuild, mention(blobA))
	require.NoError(t, err)
	_, err = c.Count(ctx, otherGuild, mention(blobA))
	require.NoError(t, err)

	assert.Equal(t, 1, st.data[refGuild][idA])
	assert.Equal(t, 2, st.data[otherGuild][idA])
}

func TestCounter_StoreFailures(t *testing.T) {
	ctx := context.Background()

	st := newMemStore()
	st.failGet = true
	_, err := NewCounter(st, discardLogger(), 0).Count(ctx, refGuild, mention(blobA))
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, st.puts)

	st = newMemStore()
	st.failPut = true
	_, err = NewCounter(st, discardLogger(), 0).Count(ctx, refGuild, mention(blobA))
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, st.data)
}

func TestCounter_ConcurrentMessages(t *testing.T) {
	st := newMemStore()
	c := NewCounter(st, discardLogger(), 0)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Count(context.Background(), refGuild, mention(blobB))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, st.data[refGuild][idB])
}

func TestCounter_OnMessageCreate(t *testing.T) {
	st := newMemStore()
	c := NewCounter(st, discardLogger(), 0)

	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "1"}

	dm := &discordgo.MessageCreate{Message: &discordgo.Message{
		Author:  &discordgo.User{ID: "2"},
		Content: mention(blobA),
	}}
	own := &discordgo.MessageCreate{Message: &discordgo.Message{
		GuildID: refGuild,
		Author:  &discordgo.User{ID: "1"},
		Content: mention(blobA),
	}}
	msg := &discordgo.MessageCreate{Message: &discordgo.Message{
		GuildID: refGuild,
		Author:  &discordgo.User{ID: "2"},
		Content: mention(blobA),
	}}

	c.OnMessageCreate(s, dm)
	c.OnMessageCreate(s, own)
	assert.Empty(t, st.data)

	c.OnMessageCreate(s, msg)
	assert.Equal(t, store.Record{idA: 1}, st.data[refGuild])

	st.failPut = true
	c.OnMessageCreate(s, msg)
	assert.Equal(t, store.Record{idA: 1}, st.data[refGuild])
}
