package transcribe

import (
	"fmt"
	"strings"
	"time"
)

// FormatTimestamp renders a duration as HH:MM:SS, truncating fractional
// seconds. Hours do not wrap.
func FormatTimestamp(d time.Duration) string {
	s := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

// Render formats a result as the persisted transcript text: one line per
// segment, "[HH:MM:SS] <text>", joined with newlines. An empty segment
// list renders as the empty string.
func Render(res *Result) string {
	lines := make([]string, 0, len(res.Segments))
	for _, seg := range res.Segments {
		lines = append(lines, fmt.Sprintf("[%s] %s", FormatTimestamp(seg.Start), strings.TrimSpace(seg.Text)))
	}
	return strings.Join(lines, "\n")
}
