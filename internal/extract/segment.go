package extract

import (
	"regexp"
	"strings"
)

// Statements are segmented by the invoice-series anchor, not by page
// boundaries: a statement spanning several physical pages stays one chunk.
var (
	rePageBreak = regexp.MustCompile(`\f|\n[-=]{3,}\s*(?:[Pp]age|[Pp]sl\.?)\s*\d+\s*[-=]{3,}\n?`)
	reAnchor    = regexp.MustCompile(`(?i)serija\s*:?\s*[\p{Lu}]{1,6}\s*Nr`)
)

// SegmentStatements splits a combined document's text into one chunk per
// resident statement. A new chunk opens on every page carrying the
// statement-header anchor; following pages are appended until the next
// anchor. Pages before the first anchor are not statements and are dropped.
func SegmentStatements(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	pages := rePageBreak.Split(text, -1)

	var chunks []string
	var open []string
	flush := func() {
		if len(open) > 0 {
			chunks = append(chunks, strings.TrimSpace(strings.Join(open, "\n")))
			open = nil
		}
	}
	for _, page := range pages {
		if reAnchor.MatchString(page) {
			flush()
			open = []string{page}
			continue
		}
		if open != nil {
			open = append(open, page)
		}
	}
	flush()
	return chunks
}
