package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesScanned counts guild messages inspected for emoji.
	MessagesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobstats_messages_scanned_total",
		Help: "Guild messages inspected for custom emoji",
	})

	// EmojiCounted counts per-message emoji increments written to the store.
	EmojiCounted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobstats_emoji_counted_total",
		Help: "Distinct emoji increments recorded",
	})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blobstats_store_errors_total",
		Help: "Failed store operations",
	}, []string{"op"})

	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blobstats_commands_total",
		Help: "Slash command invocations",
	}, []string{"command"})
)
