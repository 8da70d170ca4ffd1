// Package output formats cristin-report results for the terminal and
// exports them for citation managers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/classify"
	"github.com/henrybloomingdale/cristin-report/internal/report"
)

// OutputConfig controls which output mode(s) are active.
type OutputConfig struct {
	JSON    bool   // Structured JSON
	Human   bool   // Rich terminal output with color
	RISFile string // Export entries to this RIS path (works alongside any mode)
}

// Summary is the JSON form of a generation or preview run.
type Summary struct {
	OutputPath   string              `json:"output_path,omitempty"`
	Year         string              `json:"year"`
	Person       report.Person       `json:"person"`
	Entries      int                 `json:"entries"`
	Buckets      map[string][]string `json:"buckets"`
	ManualFields map[string]string   `json:"manual_fields"`
}

// Summarize collects the reportable parts of a result.
func Summarize(res report.Result) Summary {
	manual := make(map[string]string)
	for _, key := range classify.ManualFieldKeys() {
		if v := res.Context[key]; v != "" {
			manual[key] = v
		}
	}
	return Summary{
		OutputPath:   res.OutputPath,
		Year:         res.Context[classify.KeyReportYear],
		Person:       res.Person,
		Entries:      len(res.Entries),
		Buckets:      report.Group(res.Entries),
		ManualFields: manual,
	}
}

// FormatResult writes the outcome of a generate run.
func FormatResult(w io.Writer, res report.Result, cfg OutputConfig) error {
	if err := exportRIS(res, cfg); err != nil {
		return err
	}
	if cfg.JSON {
		return writeJSON(w, Summarize(res))
	}
	if cfg.Human {
		return formatResultHuman(w, Summarize(res))
	}
	fmt.Fprintln(w, res.OutputPath)
	return nil
}

// FormatPreview writes the classified references and manual fields of a
// run that was not rendered.
func FormatPreview(w io.Writer, res report.Result, cfg OutputConfig) error {
	if err := exportRIS(res, cfg); err != nil {
		return err
	}
	s := Summarize(res)
	if cfg.JSON {
		return writeJSON(w, s)
	}
	if cfg.Human {
		return formatPreviewHuman(w, s)
	}
	return formatPreviewPlain(w, s)
}

// FormatPlaceholders writes the placeholders found in a template and the
// required ones it lacks.
func FormatPlaceholders(w io.Writer, path string, found, missing []string, cfg OutputConfig) error {
	if cfg.JSON {
		return writeJSON(w, struct {
			Template string   `json:"template"`
			Found    []string `json:"found"`
			Missing  []string `json:"missing"`
		}{path, nonNil(found), nonNil(missing)})
	}
	if cfg.Human {
		return formatPlaceholdersHuman(w, path, found, missing)
	}

	fmt.Fprintf(w, "Template: %s\n", path)
	fmt.Fprintf(w, "Found %d placeholders\n", len(found))
	for _, k := range found {
		fmt.Fprintf(w, "  %s\n", k)
	}
	if len(missing) == 0 {
		fmt.Fprintln(w, "All required placeholders present.")
		return nil
	}
	fmt.Fprintf(w, "\nMissing %d required placeholders:\n", len(missing))
	for _, k := range missing {
		fmt.Fprintf(w, "  %s\n", k)
	}
	return nil
}

// FormatKeys writes the placeholder keys a template must declare, grouped
// by section.
func FormatKeys(w io.Writer, cfg OutputConfig) error {
	sections := []struct {
		Name string   `json:"section"`
		Keys []string `json:"keys"`
	}{
		{"header", classify.HeaderKeys()},
		{"publications", classify.BucketKeys()},
		{"manual", classify.ManualFieldKeys()},
	}
	if cfg.JSON {
		return writeJSON(w, sections)
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if cfg.Human {
			fmt.Fprintln(w, labelStyle.Render(s.Name+":"))
		} else {
			fmt.Fprintf(w, "%s:\n", s.Name)
		}
		for _, k := range s.Keys {
			fmt.Fprintf(w, "  {{ %s }}\n", k)
		}
	}
	return nil
}

// FormatDump reports a raw record dump written to path.
func FormatDump(w io.Writer, path string, records int, cfg OutputConfig) error {
	if cfg.JSON {
		return writeJSON(w, struct {
			Path    string `json:"path"`
			Records int    `json:"records"`
		}{path, records})
	}
	if cfg.Human {
		fmt.Fprintf(w, "💾 Saved %s records to %s\n", bold.Render(fmt.Sprint(records)), cyan.Render(path))
		return nil
	}
	fmt.Fprintf(w, "Saved %d records to %s\n", records, path)
	return nil
}

// --- Plain text formatters (default) ---

func formatPreviewPlain(w io.Writer, s Summary) error {
	fmt.Fprintf(w, "%s (%s), %s\n", s.Person.Name, s.Person.ID, s.Year)
	if s.Person.Institution != "" {
		fmt.Fprintf(w, "Institution: %s\n", joinNonEmpty(", ", s.Person.Institution, s.Person.InstitutionSecondary))
	}
	fmt.Fprintf(w, "Publications: %d\n", s.Entries)

	for _, key := range classify.BucketKeys() {
		refs := s.Buckets[key]
		if len(refs) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d):\n", key, len(refs))
		for i, ref := range refs {
			fmt.Fprintf(w, "  %d. %s\n", i+1, ref)
		}
	}

	for _, key := range classify.ManualFieldKeys() {
		text, ok := s.ManualFields[key]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", key)
		for _, para := range strings.Split(text, "\n\n") {
			fmt.Fprintf(w, "  %s\n", para)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func exportRIS(res report.Result, cfg OutputConfig) error {
	if cfg.RISFile == "" {
		return nil
	}
	if err := writeEntriesRIS(cfg.RISFile, res.Entries); err != nil {
		return fmt.Errorf("RIS export failed: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
