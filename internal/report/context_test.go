package report

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/henrybloomingdale/cristin-report/internal/classify"
	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []cristin.Record {
	t.Helper()
	records, err := cristin.LoadRecords(filepath.Join("..", "..", "testdata", "results_page1.json"))
	require.NoError(t, err)
	return records
}

func TestBuildEntries_FiltersByYear(t *testing.T) {
	rec := cristin.ParseRecord(`{"category": {"code": "ARTICLE"}, "level": "1", "year_published": 2024, "title": "T"}`)

	entries := BuildEntries([]cristin.Record{rec}, "2024")
	require.Len(t, entries, 1)
	assert.Equal(t, classify.ArticleLevel1, entries[0].Category)
	assert.Equal(t, "2024", entries[0].Year)

	ctx := BuildContext(entries, Header{Year: "2024"}, nil)
	assert.Contains(t, ctx[classify.ArticleLevel1], "T.")

	assert.Empty(t, BuildEntries([]cristin.Record{rec}, "2023"))
	assert.Empty(t, BuildContext(BuildEntries([]cristin.Record{rec}, "2023"), Header{}, nil)[classify.ArticleLevel1])
}

func TestBuildEntries_NoYearNeverMatches(t *testing.T) {
	records := []cristin.Record{
		cristin.ParseRecord(`{"category": {"code": "ARTICLE"}}`),
		cristin.ParseRecord(`{"category": {"code": "ARTICLE"}, "year": null}`),
	}
	for _, year := range []string{"", "2024", "0"} {
		assert.Empty(t, BuildEntries(records, year), "year %q", year)
	}
}

func TestBuildEntries_Fixture(t *testing.T) {
	entries := BuildEntries(loadFixture(t), "2024")
	require.Len(t, entries, 1, "interview is not a publication")

	want := Entry{
		Reference: "Nordmann, Kari; Hansen, Ola (2024). Sleep and memory in adolescents. Journal of Sleep Research, Volume 33, pp. 101-118. https://doi.org/10.1111/jsr.14000.",
		Category:  classify.ArticleLevel2,
		Year:      "2024",
	}
	if diff := cmp.Diff(want.Reference, entries[0].Reference); diff != "" {
		t.Errorf("reference mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want.Category, entries[0].Category)
	assert.Equal(t, "Journal of Sleep Research", entries[0].Citation.Venue)

	older := BuildEntries(loadFixture(t), "2023")
	require.Len(t, older, 1)
	assert.Equal(t, classify.MonographLevel1, older[0].Category)
}

func TestGroup(t *testing.T) {
	entries := []Entry{
		{Reference: "b", Category: classify.ArticleLevel1},
		{Reference: "a", Category: classify.ArticleLevel1},
		{Reference: "c", Category: classify.BookReview},
	}
	grouped := Group(entries)

	want := map[string][]string{}
	for _, key := range classify.BucketKeys() {
		want[key] = []string{}
	}
	want[classify.ArticleLevel1] = []string{"a", "b"}
	want[classify.BookReview] = []string{"c"}

	if diff := cmp.Diff(want, grouped); diff != "" {
		t.Errorf("grouping mismatch (-want +got):\n%s", diff)
	}

	for _, key := range classify.BucketKeys() {
		assert.Contains(t, Group(nil), key)
	}
}

func TestBuildAutoManualFields(t *testing.T) {
	fields := BuildAutoManualFields(loadFixture(t), "2024")
	assert.Len(t, fields, len(classify.ManualFieldKeys()))
	assert.Equal(t, "Nordmann, Kari (2024). Hvorfor sover tenåringer så lenge?. NRK P2.", fields[classify.FieldMedia])
	assert.Empty(t, fields[classify.FieldAcademic])

	none := BuildAutoManualFields(loadFixture(t), "2020")
	for key, v := range none {
		assert.Empty(t, v, key)
	}
}

func TestBuildAutoManualFields_JoinsInRecordOrder(t *testing.T) {
	records := []cristin.Record{
		cristin.ParseRecord(`{"category": {"code": "PROGRAMPARTICIP"}, "year": "2024", "title": "Second"}`),
		cristin.ParseRecord(`{"category": {"code": "MEDIAINTERVIEW"}, "year": "2024", "title": "First"}`),
	}
	fields := BuildAutoManualFields(records, "2024")
	assert.Equal(t, "Second (2024).\n\nFirst (2024).", fields[classify.FieldMedia])
}

func TestMergeManualFields(t *testing.T) {
	const key = "veiledning_phd"
	tests := []struct {
		name string
		auto string
		user string
		want string
	}{
		{"auto only", "A", "", "A"},
		{"user only", "", "U", "U"},
		{"both", "A", "U", "A\n\nU"},
		{"neither", "", "", ""},
		{"trims both sides", "  A \n", "\tU  ", "A\n\nU"},
		{"whitespace user", "A", "   ", "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeManualFields(map[string]string{key: tt.auto}, map[string]string{key: tt.user})
			assert.Equal(t, tt.want, merged[key])
		})
	}

	merged := MergeManualFields(nil, map[string]string{"not_a_field": "x"})
	assert.NotContains(t, merged, "not_a_field")
	assert.Len(t, merged, len(classify.ManualFieldKeys()))
}

func TestBuildContext_HasExactlyRequiredKeys(t *testing.T) {
	entries := BuildEntries(loadFixture(t), "2024")
	ctx := BuildContext(entries, Header{
		Year:        "2024",
		PersonName:  "Kari Nordmann",
		Institution: "Universitetet i Oslo",
	}, map[string]string{classify.FieldMedia: " text "})

	required := classify.RequiredPlaceholders()
	assert.Len(t, ctx, len(required))
	for _, key := range required {
		assert.Contains(t, ctx, key)
	}
	assert.Equal(t, "2024", ctx[classify.KeyReportYear])
	assert.Equal(t, "Kari Nordmann", ctx[classify.KeyPersonName])
	assert.Equal(t, "", ctx[classify.KeyInstitutionNameSecondary])
	assert.Equal(t, "text", ctx[classify.FieldMedia])
	assert.Equal(t, entries[0].Reference, ctx[classify.ArticleLevel2])
}

func TestBuildContext_JoinsSortedReferences(t *testing.T) {
	entries := []Entry{
		{Reference: "Zeta", Category: classify.Other},
		{Reference: "Alpha", Category: classify.Other},
	}
	ctx := BuildContext(entries, Header{}, nil)
	assert.Equal(t, "Alpha\n\nZeta", ctx[classify.Other])
}
