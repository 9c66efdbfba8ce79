package emojistats

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	exportFileName = "blob_posts.txt"
	// a page has to fit in a single Discord message
	exportPageSize = 2000
)

func exportLine(e *discordgo.Emoji) string {
	return fmt.Sprintf("%s = `:%s:`", e.MessageFormat(), e.Name)
}

// paginate groups lines into pages of at most size characters, newlines included.
// A line that is longer than size gets a page of its own.
func paginate(lines []string, size int) []string {
	var (
		pages []string
		cur   []string
		n     int
	)
	for _, l := range lines {
		if len(cur) > 0 && n+len(l)+1 > size {
			pages = append(pages, strings.Join(cur, "\n"))
			cur, n = nil, 0
		}
		cur = append(cur, l)
		n += len(l) + 1
	}
	if len(cur) > 0 {
		pages = append(pages, strings.Join(cur, "\n"))
	}
	return pages
}

// ExportList renders emojis sorted by name as numbered pages in a single text document.
func ExportList(emojis []*discordgo.Emoji) []byte {
	sorted := slices.Clone(emojis)
	slices.SortStableFunc(sorted, func(a, b *discordgo.Emoji) int {
		return cmp.Compare(a.Name, b.Name)
	})

	lines := make([]string, 0, len(sorted))
	for _, e := range sorted {
		lines = append(lines, exportLine(e))
	}

	var buf bytes.Buffer
	for i, page := range paginate(lines, exportPageSize) {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "Page %d\n\n", i+1)
		buf.WriteString(page)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
