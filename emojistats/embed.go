package emojistats

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	embedColour = 0xf1c40f
	windowSize  = 7
)

var printer = message.NewPrinter(language.English)

// percent is num/den as a percentage, with an empty denominator reading as 0%.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return 100 * float64(num) / float64(den)
}

func entryLine(e Entry, total int) string {
	return printer.Sprintf("%s: %d times (%.2f%%)", e.Emoji.MessageFormat(), e.Count, percent(e.Count, total))
}

func entryLines(entries []Entry, total int) string {
	if len(entries) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, entryLine(e, total))
	}
	return strings.Join(lines, "\n")
}

func summaryEmbed(agg *Aggregate) (*discordgo.MessageEmbed, error) {
	if agg.Global == 0 {
		return nil, ErrNoData
	}

	return &discordgo.MessageEmbed{
		Title: "Blob Statistics",
		Color: embedColour,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Total Usage",
				Value:  printer.Sprintf("%d (%.2f%% of all emoji usage)", agg.Total, percent(agg.Total, agg.Global)),
				Inline: true,
			},
			{Name: "Most Common", Value: entryLines(agg.Top(windowSize), agg.Total)},
			{Name: "Least Common", Value: entryLines(agg.Bottom(windowSize), agg.Total)},
		},
	}, nil
}

func detailEmbed(agg *Aggregate, emoji *discordgo.Emoji) (*discordgo.MessageEmbed, error) {
	if agg.Total == 0 {
		return nil, ErrNoData
	}

	rank, e := agg.Rank(emoji.ID)
	if rank == 0 {
		return nil, ErrEmojiNotFound
	}

	return &discordgo.MessageEmbed{
		Title: "Statistics",
		Color: embedColour,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Emoji", Value: emoji.MessageFormat(), Inline: true},
			{Name: "Usage", Value: printer.Sprintf("%d (%.2f%%)", e.Count, percent(e.Count, agg.Total)), Inline: true},
			{Name: "Rank", Value: printer.Sprintf("%d", rank), Inline: true},
		},
	}, nil
}
