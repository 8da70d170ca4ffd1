// Package extract pulls normalized scalar values out of raw registry
// records. Every extractor is total: missing, null or oddly typed fields
// produce the documented fallback instead of an error.
package extract

import (
	"strconv"
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/tidwall/gjson"
	"golang.org/x/text/unicode/norm"
)

// Fallback values used when a record lacks the corresponding field.
const (
	NoTitle         = "No title available"
	UnknownAuthor   = "Unknown author"
	NoVenue         = "No publication information available"
	UnknownName     = "Ukjent navn"
	NotAvailable    = "N/A"
	NoDate          = "n.d."
	maxAffiliations = 2
)

// levelPaths lists where a publication channel level may live, in
// priority order.
var levelPaths = []string{
	"level",
	"publication_level",
	"scientific_level",
	"publication_context.level",
	"publicationContext.level",
	"publication_channel.level",
	"publicationChannel.level",
	"channel.level",
	"journal.level",
	"channel.nvi_level",
	"journal.nvi_level",
}

// Citation holds the bibliographic fields of one record as found, without
// fallbacks applied.
type Citation struct {
	Authors  []string // "Surname, First"
	Year     string
	Title    string
	Venue    string
	Volume   string
	PageFrom string
	PageTo   string
	DOI      string
}

// CitationOf extracts every citation field from rec.
func CitationOf(rec cristin.Record) Citation {
	pages := rec.Get("pages")
	var from, to string
	if pages.IsObject() {
		from = text(pages.Get("from"))
		to = text(pages.Get("to"))
	}
	doi, _ := DOI(rec)
	return Citation{
		Authors:  AuthorList(rec),
		Year:     Year(rec),
		Title:    firstValue(rec.Get("title")),
		Venue:    venue(rec),
		Volume:   text(rec.Get("volume")),
		PageFrom: from,
		PageTo:   to,
		DOI:      doi,
	}
}

// Title returns the first non-empty title in document order.
func Title(rec cristin.Record) string {
	if t := firstValue(rec.Get("title")); t != "" {
		return t
	}
	return NoTitle
}

// Year returns year_published, or year, as a string. Records without a
// year yield "".
func Year(rec cristin.Record) string {
	for _, key := range []string{"year_published", "year"} {
		if v := rec.Get(key); truthy(v) {
			if y := text(v); y != "" {
				return y
			}
		}
	}
	return ""
}

// AuthorList returns "Surname, First" for every contributor with at least
// one name part.
func AuthorList(rec cristin.Record) []string {
	var authors []string
	rec.Get("contributors.preview").ForEach(func(_, author gjson.Result) bool {
		parts := make([]string, 0, 2)
		if s := text(author.Get("surname")); s != "" {
			parts = append(parts, s)
		}
		if f := text(author.Get("first_name")); f != "" {
			parts = append(parts, f)
		}
		if len(parts) > 0 {
			authors = append(authors, strings.Join(parts, ", "))
		}
		return true
	})
	return authors
}

// Authors joins AuthorList with semicolons.
func Authors(rec cristin.Record) string {
	return JoinAuthors(AuthorList(rec))
}

// JoinAuthors joins author names with "; ", or returns UnknownAuthor.
func JoinAuthors(authors []string) string {
	if len(authors) == 0 {
		return UnknownAuthor
	}
	return strings.Join(authors, "; ")
}

// DOI returns the URL of the first link typed DOI (case-insensitive).
func DOI(rec cristin.Record) (string, bool) {
	var doi string
	rec.Get("links").ForEach(func(_, link gjson.Result) bool {
		if strings.ToUpper(text(link.Get("url_type"))) != "DOI" {
			return true
		}
		if u := text(link.Get("url")); u != "" {
			doi = u
			return false
		}
		return true
	})
	return doi, doi != ""
}

// Venue returns the journal, event or channel the record was published in.
func Venue(rec cristin.Record) string {
	if v := venue(rec); v != "" {
		return v
	}
	return NoVenue
}

func venue(rec cristin.Record) string {
	for _, path := range []string{"journal.name", "event.name", "channel.title"} {
		if v := firstValue(rec.Get(path)); v != "" {
			return v
		}
	}
	return ""
}

// Level returns the publication level ("1" or "2") from the first
// candidate field holding exactly 1, 2, "1" or "2".
func Level(rec cristin.Record) (string, bool) {
	for _, path := range levelPaths {
		v := rec.Get(path)
		switch v.Type {
		case gjson.Number:
			if v.Num == 1 || v.Num == 2 {
				return strconv.Itoa(int(v.Num)), true
			}
		case gjson.String:
			if v.Str == "1" || v.Str == "2" {
				return v.Str, true
			}
		}
	}
	return "", false
}

// Category returns the category code and its first non-empty display name.
func Category(rec cristin.Record) (code, label string) {
	category := rec.Get("category")
	if !category.IsObject() {
		return "", ""
	}
	return text(category.Get("code")), firstValue(category.Get("name"))
}

// Event returns the event name and location, if any.
func Event(rec cristin.Record) (name, location string) {
	event := rec.Get("event")
	if !event.IsObject() {
		return "", ""
	}
	return firstValue(event.Get("name")), text(event.Get("location"))
}

// Channel returns the channel title, falling back to the journal name.
func Channel(rec cristin.Record) string {
	if t := firstValue(rec.Get("channel.title")); t != "" {
		return t
	}
	return firstValue(rec.Get("journal.name"))
}

// Normalize prepares a label for substring matching: it decomposes
// accented characters, drops everything outside ASCII, lower-cases and
// trims.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

// text returns the trimmed text of a string or number value. Objects,
// arrays, booleans and null have no text.
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

// firstValue unwraps a multilingual mapping to its first non-empty value
// in document order; plain values are returned as text.
func firstValue(v gjson.Result) string {
	if !v.IsObject() {
		return text(v)
	}
	var out string
	v.ForEach(func(_, val gjson.Result) bool {
		out = text(val)
		return out == ""
	})
	return out
}

// truthy mirrors what the registry treats as "set": not null, not false,
// not zero and not an empty string, object or array.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		empty := true
		v.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	default:
		return true
	}
}
