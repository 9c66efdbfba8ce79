package emojistats

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/itizir/blobstats/metrics"
	"github.com/itizir/blobstats/store"
)

var ErrNoData = errors.New("no emoji usage recorded yet")

type Entry struct {
	Emoji *discordgo.Emoji
	Count int
}

// Aggregate is the cross-guild view of usage restricted to the reference emoji.
// Entries are sorted by count, descending; ties keep the reference guild's listing order.
type Aggregate struct {
	Entries []Entry
	// Total sums the reference emoji only, Global every emoji seen anywhere.
	Total  int
	Global int
}

func NewAggregate(records map[string]store.Record, reference []*discordgo.Emoji) *Aggregate {
	usage := make(map[string]int)
	agg := &Aggregate{}
	for _, rec := range records {
		for id, n := range rec {
			usage[id] += n
			agg.Global += n
		}
	}

	seen := make(map[string]bool, len(reference))
	agg.Entries = make([]Entry, 0, len(reference))
	for _, e := range reference {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		agg.Entries = append(agg.Entries, Entry{Emoji: e, Count: usage[e.ID]})
		agg.Total += usage[e.ID]
	}

	slices.SortStableFunc(agg.Entries, func(a, b Entry) int {
		return b.Count - a.Count
	})
	return agg
}

// Rank returns the 1-based position of the emoji with the given ID, or 0 if it is not tracked.
func (a *Aggregate) Rank(id string) (int, Entry) {
	for i, e := range a.Entries {
		if e.Emoji.ID == id {
			return i + 1, e
		}
	}
	return 0, Entry{}
}

func (a *Aggregate) Top(n int) []Entry {
	return a.Entries[:min(n, len(a.Entries))]
}

func (a *Aggregate) Bottom(n int) []Entry {
	return a.Entries[max(0, len(a.Entries)-n):]
}

// Reporter reads usage fresh from the store on every request.
type Reporter struct {
	store            store.Store
	referenceGuildID string
}

func NewReporter(st store.Store, referenceGuildID string) *Reporter {
	return &Reporter{store: st, referenceGuildID: referenceGuildID}
}

// Report renders the summary of all reference emoji when token is empty, or the detail
// of the emoji token resolves to.
func (r *Reporter) Report(ctx context.Context, src EmojiSource, token string) (*discordgo.MessageEmbed, error) {
	reference, err := src.GuildEmojis(r.referenceGuildID)
	if err != nil {
		return nil, fmt.Errorf("list emoji of guild %s: %w", r.referenceGuildID, err)
	}

	var emoji *discordgo.Emoji
	if token != "" {
		if emoji, err = Resolve(token, reference); err != nil {
			return nil, err
		}
	}

	records, err := r.store.All(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("all").Inc()
		return nil, fmt.Errorf("read usage: %w", err)
	}

	agg := NewAggregate(records, reference)
	if emoji == nil {
		return summaryEmbed(agg)
	}
	return detailEmbed(agg, emoji)
}
