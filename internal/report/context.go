package report

import (
	"sort"
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/classify"
	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/extract"
)

// separator joins references and manual entries within one field.
const separator = "\n\n"

// Entry is one publication selected for the report.
type Entry struct {
	Reference string           `json:"reference"`
	Category  string           `json:"category"`
	Year      string           `json:"year"`
	Citation  extract.Citation `json:"-"`
}

// Header carries the scalar fields at the top of the report.
type Header struct {
	Year                 string
	PersonName           string
	Institution          string
	InstitutionSecondary string
}

// Context is the complete key/value mapping handed to a template renderer.
type Context map[string]string

// BuildEntries formats every record published in year that classifies as
// a publication. Years are compared as strings, so records without a year
// never match.
func BuildEntries(records []cristin.Record, year string) []Entry {
	var entries []Entry
	for _, rec := range records {
		recYear := extract.Year(rec)
		if recYear == "" || recYear != year {
			continue
		}
		bucket, ok := classify.Classify(rec)
		if !ok {
			continue
		}
		c := extract.CitationOf(rec)
		entries = append(entries, Entry{
			Reference: FormatCitation(c),
			Category:  bucket,
			Year:      recYear,
			Citation:  c,
		})
	}
	return entries
}

// Group collects references by bucket. Every bucket key is present and each
// list is sorted.
func Group(entries []Entry) map[string][]string {
	grouped := make(map[string][]string, len(classify.BucketKeys()))
	for _, key := range classify.BucketKeys() {
		grouped[key] = []string{}
	}
	for _, e := range entries {
		grouped[e.Category] = append(grouped[e.Category], e.Reference)
	}
	for _, refs := range grouped {
		sort.Strings(refs)
	}
	return grouped
}

// BuildAutoManualFields derives manual-field text from the dissemination
// records of year. Every manual-field key is present.
func BuildAutoManualFields(records []cristin.Record, year string) map[string]string {
	collected := make(map[string][]string)
	for _, rec := range records {
		recYear := extract.Year(rec)
		if recYear == "" || recYear != year {
			continue
		}
		field, ok := classify.ManualFieldFor(rec)
		if !ok {
			continue
		}
		collected[field] = append(collected[field], FormatDissemination(rec))
	}

	fields := make(map[string]string, len(classify.ManualFieldKeys()))
	for _, key := range classify.ManualFieldKeys() {
		fields[key] = strings.Join(collected[key], separator)
	}
	return fields
}

// MergeManualFields combines derived and user-supplied text per key. Both
// sides are trimmed; when both are present the derived text comes first.
// Keys outside the manual-field set are ignored.
func MergeManualFields(auto, user map[string]string) map[string]string {
	merged := make(map[string]string, len(classify.ManualFieldKeys()))
	for _, key := range classify.ManualFieldKeys() {
		a := strings.TrimSpace(auto[key])
		u := strings.TrimSpace(user[key])
		switch {
		case a != "" && u != "":
			merged[key] = a + separator + u
		case u != "":
			merged[key] = u
		default:
			merged[key] = a
		}
	}
	return merged
}

// BuildContext assembles the full template context. The result has exactly
// the keys of classify.RequiredPlaceholders.
func BuildContext(entries []Entry, h Header, manual map[string]string) Context {
	ctx := Context{
		classify.KeyReportYear:               h.Year,
		classify.KeyPersonName:               h.PersonName,
		classify.KeyInstitutionName:          h.Institution,
		classify.KeyInstitutionNameSecondary: h.InstitutionSecondary,
	}
	grouped := Group(entries)
	for _, key := range classify.BucketKeys() {
		ctx[key] = strings.Join(grouped[key], separator)
	}
	for _, key := range classify.ManualFieldKeys() {
		ctx[key] = strings.TrimSpace(manual[key])
	}
	return ctx
}
