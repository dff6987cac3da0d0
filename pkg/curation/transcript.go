package curation

import (
	"strconv"
	"strings"

	"github.com/ProbablyAY/SparkCo/internal/entity"
)

// RenderTranscript writes one line per utterance in the given order:
//
//	USER [1200-3400ms]: text
//
// The bracket is omitted when both bounds are nil; a single missing bound prints as "?".
func RenderTranscript(utterances []*entity.Utterance) string {
	var b strings.Builder
	for i, u := range utterances {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToUpper(string(u.Speaker)))
		if u.StartMs != nil || u.EndMs != nil {
			b.WriteString(" [")
			b.WriteString(bound(u.StartMs))
			b.WriteByte('-')
			b.WriteString(bound(u.EndMs))
			b.WriteString("ms]")
		}
		b.WriteString(": ")
		b.WriteString(u.Text)
	}
	return b.String()
}

func bound(ms *int64) string {
	if ms == nil {
		return "?"
	}
	return strconv.FormatInt(*ms, 10)
}
