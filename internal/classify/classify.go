package classify

import (
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/extract"
)

// kind is a leveled bucket family; the level suffix is appended at
// classification time.
type kind int

const (
	kindNone kind = iota
	kindMonograph
	kindArticle
	kindAnthology
)

var leveledBuckets = map[kind][2]string{
	kindMonograph: {MonographLevel1, MonographLevel2},
	kindArticle:   {ArticleLevel1, ArticleLevel2},
	kindAnthology: {AnthologyLevel1, AnthologyLevel2},
}

// disseminationCodes maps category codes that are not publications to the
// manual field they feed. Records with these codes never land in a bucket.
var disseminationCodes = map[string]string{
	"ACADEMICLECTURE": FieldAcademic,
	"LECTURE":         FieldAcademic,
	"POSTER":          FieldAcademic,
	"OTHERPRES":       FieldAcademic,
	"MEDIAINTERVIEW":  FieldMedia,
	"PROGRAMPARTICIP": FieldMedia,
	"ARTICLEFEATURE":  FieldOpinion,
	"READEROPINION":   FieldOpinion,
}

// codeRules are checked before any label rule.
var codeRules = map[string]kind{
	"ARTICLE":  kindArticle,
	"TEXTBOOK": kindMonograph,
}

// labelRule matches a normalized category label by substring.
type labelRule struct {
	terms  []string
	kind   kind
	bucket string // used when kind is kindNone
}

// labelRules are evaluated in order; the first match wins.
var labelRules = []labelRule{
	{terms: []string{"book review", "bokanmeldelse"}, bucket: BookReview},
	{terms: []string{"monograph", "monografi", "book"}, kind: kindMonograph},
	{terms: []string{"anthology", "antologi", "edited"}, kind: kindAnthology},
	{terms: []string{"article", "artikkel"}, kind: kindArticle},
}

// manualLabelRules apply to records whose code is not a dissemination code.
var manualLabelRules = []struct {
	terms []string
	field string
}{
	{terms: []string{"interview"}, field: FieldMedia},
	{terms: []string{"poster", "presentation", "lecture"}, field: FieldAcademic},
}

// Classify returns the bucket a record belongs to. The boolean is false for
// records that are not publications.
func Classify(rec cristin.Record) (string, bool) {
	code, label := extract.Category(rec)
	if _, ok := disseminationCodes[code]; ok {
		return "", false
	}
	if k, ok := codeRules[code]; ok {
		return leveled(k, rec), true
	}

	normalized := extract.Normalize(label)
	for _, rule := range labelRules {
		if !containsAny(normalized, rule.terms) {
			continue
		}
		if rule.kind == kindNone {
			return rule.bucket, true
		}
		return leveled(rule.kind, rec), true
	}
	return Other, true
}

// ManualFieldFor returns the manual field a dissemination record feeds, if
// any.
func ManualFieldFor(rec cristin.Record) (string, bool) {
	code, label := extract.Category(rec)
	if field, ok := disseminationCodes[code]; ok {
		return field, true
	}
	if label == "" {
		return "", false
	}
	normalized := extract.Normalize(label)
	for _, rule := range manualLabelRules {
		if containsAny(normalized, rule.terms) {
			return rule.field, true
		}
	}
	return "", false
}

func leveled(k kind, rec cristin.Record) string {
	buckets := leveledBuckets[k]
	if level, ok := extract.Level(rec); ok && level == "2" {
		return buckets[1]
	}
	return buckets[0]
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
