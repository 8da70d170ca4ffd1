package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/henrybloomingdale/cristin-report/internal/classify"
)

// --- Styles ---

var (
	cyan       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bold       = lipgloss.NewStyle().Bold(true)
	dim        = lipgloss.NewStyle().Faint(true)
	green      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red        = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
)

// bucketLabels are the section headings used in the report template.
var bucketLabels = map[string]string{
	classify.MonographLevel2: "Monografi, nivå 2",
	classify.MonographLevel1: "Monografi, nivå 1",
	classify.ArticleLevel2:   "Artikkel, nivå 2",
	classify.ArticleLevel1:   "Artikkel, nivå 1",
	classify.AnthologyLevel2: "Antologi, nivå 2",
	classify.AnthologyLevel1: "Antologi, nivå 1",
	classify.BookReview:      "Bokanmeldelse",
	classify.Other:           "Annet",
}

// truncate cuts a string to maxLen runes, appending "…" if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Headers(headers...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			}
			return lipgloss.NewStyle()
		})
}

func personCard(s Summary) string {
	title := bold.Render(fmt.Sprintf("Årsrapport %s · %s", s.Year, s.Person.Name))
	meta := cyan.Render("Person: " + s.Person.ID)
	if inst := joinNonEmpty(", ", s.Person.Institution, s.Person.InstitutionSecondary); inst != "" {
		meta += dim.Render(" · ") + inst
	}
	return boxStyle.Render(title + "\n" + meta)
}

func bucketTable(s Summary) string {
	t := newTable("Section", "Key", "Count")
	for _, key := range classify.BucketKeys() {
		n := len(s.Buckets[key])
		count := dim.Render("0")
		if n > 0 {
			count = green.Render(fmt.Sprint(n))
		}
		t.Row(bucketLabels[key], dim.Render(key), count)
	}
	return t.Render()
}

// --- Generate ---

func formatResultHuman(w io.Writer, s Summary) error {
	fmt.Fprintln(w, personCard(s))
	fmt.Fprintln(w)
	fmt.Fprintln(w, bucketTable(s))
	fmt.Fprintln(w)

	if len(s.ManualFields) > 0 {
		fmt.Fprintf(w, "  %s %d filled automatically\n", labelStyle.Render("Manual fields:"), len(s.ManualFields))
	}
	fmt.Fprintf(w, "📄 %s\n", bold.Render(s.OutputPath))
	return nil
}

// --- Preview ---

func formatPreviewHuman(w io.Writer, s Summary) error {
	fmt.Fprintln(w, personCard(s))
	fmt.Fprintln(w)

	if s.Entries == 0 {
		fmt.Fprintf(w, "📭 No publications registered for %s.\n", s.Year)
	} else {
		fmt.Fprintln(w, bucketTable(s))
	}

	for _, key := range classify.BucketKeys() {
		refs := s.Buckets[key]
		if len(refs) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", labelStyle.Render(bucketLabels[key]+":"))
		for _, ref := range refs {
			writeWrapped(w, ref)
		}
	}

	for _, key := range classify.ManualFieldKeys() {
		text, ok := s.ManualFields[key]
		if !ok {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", labelStyle.Render(key+":"))
		for _, para := range strings.Split(text, "\n\n") {
			writeWrapped(w, para)
		}
	}
	return nil
}

func writeWrapped(w io.Writer, text string) {
	lines := strings.Split(wordWrap(text, 74), "\n")
	for i, line := range lines {
		marker := "  "
		if i == 0 {
			marker = cyan.Render("• ")
		}
		fmt.Fprintf(w, "    %s%s\n", marker, line)
	}
}

// --- Placeholders ---

func formatPlaceholdersHuman(w io.Writer, path string, found, missing []string) error {
	fmt.Fprintf(w, "🧩 %s  %s\n\n", bold.Render(path), dim.Render(fmt.Sprintf("%d placeholders", len(found))))

	required := make(map[string]bool)
	for _, k := range classify.RequiredPlaceholders() {
		required[k] = true
	}

	t := newTable("Placeholder", "Status")
	for _, k := range found {
		status := dim.Render("extra")
		if required[k] {
			status = green.Render("ok")
		}
		t.Row(truncate(k, 48), status)
	}
	for _, k := range missing {
		t.Row(truncate(k, 48), red.Render("missing"))
	}
	fmt.Fprintln(w, t.Render())

	if len(missing) == 0 {
		fmt.Fprintln(w, green.Render("✔ Template has every required placeholder"))
	} else {
		fmt.Fprintln(w, red.Render(fmt.Sprintf("✘ %d required placeholders missing", len(missing))))
	}
	return nil
}

// wordWrap wraps text at the given width, breaking at spaces.
func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len([]rune(current))+1+len([]rune(word)) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return strings.Join(lines, "\n")
}
