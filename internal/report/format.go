// Package report turns registry records into the key/value context that
// fills an annual report template, and drives the full generation run.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/extract"
)

// FormatReference renders a record as a single citation line:
//
//	{authors} ({year}). {title}. {venue}, Volume {volume}, pp. {from}-{to}.
//
// followed by " {doi}." when the record carries a DOI.
func FormatReference(rec cristin.Record) string {
	return FormatCitation(extract.CitationOf(rec))
}

// FormatCitation is FormatReference for already extracted fields.
func FormatCitation(c extract.Citation) string {
	ref := fmt.Sprintf("%s (%s). %s. %s, Volume %s, pp. %s-%s.",
		extract.JoinAuthors(c.Authors),
		orDefault(c.Year, extract.NoDate),
		orDefault(c.Title, extract.NoTitle),
		orDefault(c.Venue, extract.NoVenue),
		orDefault(c.Volume, extract.NotAvailable),
		orDefault(c.PageFrom, extract.NotAvailable),
		orDefault(c.PageTo, extract.NotAvailable),
	)
	if c.DOI != "" {
		ref += " " + c.DOI + "."
	}
	return ref
}

// FormatDissemination renders a lecture, interview or similar activity for
// a manual field.
func FormatDissemination(rec cristin.Record) string {
	title := extract.Title(rec)
	year := orDefault(extract.Year(rec), extract.NoDate)

	var parts []string
	if authors := extract.AuthorList(rec); len(authors) > 0 {
		parts = append(parts, fmt.Sprintf("%s (%s). %s.", extract.JoinAuthors(authors), year, title))
	} else {
		parts = append(parts, fmt.Sprintf("%s (%s).", title, year))
	}

	if name, location := extract.Event(rec); name != "" {
		if location != "" {
			name += ", " + location
		}
		parts = append(parts, name+".")
	} else if channel := extract.Channel(rec); channel != "" {
		parts = append(parts, channel+".")
	}
	return strings.Join(parts, " ")
}

var (
	illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]+`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes value safe to use as part of a file name. It
// returns fallback when nothing usable is left.
func SanitizeFilename(value, fallback string) string {
	cleaned := illegalFilenameChars.ReplaceAllString(strings.TrimSpace(value), "")
	cleaned = strings.TrimSpace(whitespaceRun.ReplaceAllString(cleaned, " "))
	cleaned = strings.TrimRight(cleaned, ". ")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

// OutputFilename names the report file for a person and year. The person
// ID stands in for a name that sanitizes to nothing.
func OutputFilename(personName, personID, year string) string {
	name := SanitizeFilename(personName, SanitizeFilename(personID, "report"))
	return fmt.Sprintf("Aarsrapport_%s_%s.docx", SanitizeFilename(year, "year"), name)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
