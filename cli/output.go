package cli

import (
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/amil/i18n"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range headers {
		headers[i] = headerStyle.Render(h)
	}
	_, _ = io.WriteString(tw, strings.Join(headers, "\t")+"\n")
	return tw
}

func row(tw *tabwriter.Writer, cells ...string) {
	_, _ = io.WriteString(tw, strings.Join(cells, "\t")+"\n")
}

// truncate shortens s to n runes for table cells.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func optionalDate(t *time.Time, loc i18n.Locale) string {
	if t == nil {
		return "-"
	}
	return loc.Date(*t)
}

// parseOptional leaves an empty flag for the record defaults.
func parseOptional[T ~string](v string, parse func(string) (T, error)) (T, error) {
	if strings.TrimSpace(v) == "" {
		var zero T
		return zero, nil
	}
	return parse(v)
}
