package extract

import (
	"slices"
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/tidwall/gjson"
)

var namePairs = [][2]string{
	{"first_name", "surname"},
	{"given_name", "family_name"},
	{"firstName", "lastName"},
}

// PersonName returns a readable name for a person record. Name pairs are
// tried before single full-name fields; a record with no name at all yields
// UnknownName.
func PersonName(person cristin.Record) string {
	for _, pair := range namePairs {
		first := text(person.Get(pair[0]))
		last := text(person.Get(pair[1]))
		if first == "" && last == "" {
			continue
		}
		return strings.TrimSpace(first + " " + last)
	}
	for _, key := range []string{"full_name", "display_name", "name"} {
		if v := text(person.Get(key)); v != "" {
			return v
		}
	}
	return UnknownName
}

// Affiliations returns up to two distinct institution names from a person
// record, in the order they are listed.
func Affiliations(person cristin.Record) (primary, secondary string) {
	list := person.Get("affiliations")
	if !truthy(list) {
		list = person.Get("employments")
	}

	var names []string
	list.ForEach(func(_, aff gjson.Result) bool {
		org := aff.Get("organization")
		if !truthy(org) {
			org = aff.Get("institution")
		}
		name := affiliationName(org)
		if name == "" || slices.Contains(names, name) {
			return true
		}
		names = append(names, name)
		return len(names) < maxAffiliations
	})

	if len(names) > 0 {
		primary = names[0]
	}
	if len(names) > 1 {
		secondary = names[1]
	}
	return primary, secondary
}

func affiliationName(org gjson.Result) string {
	if !org.IsObject() {
		return ""
	}
	for _, key := range []string{"name", "name_short", "title"} {
		if v := org.Get(key); truthy(v) {
			return firstValue(v)
		}
	}
	return ""
}
