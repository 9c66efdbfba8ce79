package emojistats

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var ErrEmojiNotFound = errors.New("not a valid blob emoji")

// Resolve finds the emoji a user meant among candidates. The token may be a full emoji
// mention, a bare ID or an exact name; the first matching rule wins.
func Resolve(token string, candidates []*discordgo.Emoji) (*discordgo.Emoji, error) {
	token = strings.TrimSpace(token)

	byID := func(id string) (*discordgo.Emoji, error) {
		for _, e := range candidates {
			if e.ID == id {
				return e, nil
			}
		}
		return nil, ErrEmojiNotFound
	}

	if m := mentionPattern.FindStringSubmatch(token); m != nil {
		return byID(m[1])
	}
	if isDigits(token) {
		return byID(token)
	}

	name := strings.Trim(token, ":")
	for _, e := range candidates {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, ErrEmojiNotFound
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
