// Package emojistats counts custom emoji used in guild messages and reports how the
// emoji of a reference guild rank against each other.
package emojistats

import (
	"regexp"

	"github.com/bwmarrin/discordgo"
)

var (
	emojiPattern   = regexp.MustCompile(`<a?:.+?:([0-9]{15,21})>`)
	mentionPattern = regexp.MustCompile(`^<a?:.+?:([0-9]{15,21})>`)
)

// EmojiSource lists the custom emoji of a guild. *discordgo.Session implements it.
type EmojiSource interface {
	GuildEmojis(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error)
}

// Extract returns the distinct emoji IDs mentioned in content, in order of first appearance.
func Extract(content string) []string {
	matches := emojiPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}
	return ids
}
