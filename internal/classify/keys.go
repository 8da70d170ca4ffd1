// Package classify maps registry records onto the fixed report buckets and
// manual-field keys. Every key set and rule is declared as data.
package classify

import "slices"

// Bucket keys, highest ranked first.
const (
	MonographLevel2 = "publisert_monografi_niva2"
	MonographLevel1 = "publisert_monografi_niva1"
	ArticleLevel2   = "publisert_artikkel_niva2"
	ArticleLevel1   = "publisert_artikkel_niva1"
	AnthologyLevel2 = "publisert_antologi_niva2"
	AnthologyLevel1 = "publisert_antologi_niva1"
	BookReview      = "publisert_book_review"
	Other           = "publisert_annet"
)

// Manual-field keys filled automatically from dissemination records.
const (
	FieldAcademic = "formidling_faglig"
	FieldMedia    = "formidling_media"
	FieldOpinion  = "formidling_kronikker"
)

// Header keys.
const (
	KeyReportYear               = "report_year"
	KeyPersonName               = "person_name"
	KeyInstitutionName          = "institution_name"
	KeyInstitutionNameSecondary = "institution_name_secondary"
)

var bucketKeys = []string{
	MonographLevel2,
	MonographLevel1,
	ArticleLevel2,
	ArticleLevel1,
	AnthologyLevel2,
	AnthologyLevel1,
	BookReview,
	Other,
}

var manualFieldKeys = []string{
	"forskningsarbeid_internasjonal_deltagelse",
	"forskningsarbeid_internasjonal_ledelse",
	"forskningsarbeid_nasjonal_deltagelse",
	"forskningsarbeid_nasjonal_ledelse",
	"forskningsarbeid_innvilget_soknad",
	"forskningsarbeid_utenlandsopphold",
	"forskningsarbeid_innovasjon",
	"forskningsarbeid_nasjonale_nettverk",
	"forskningsarbeid_internasjonale_nettverk",
	FieldAcademic,
	"formidling_politisk",
	FieldOpinion,
	"formidling_popularvitenskapelig",
	FieldMedia,
	"veiledning_phd",
	"opponent_phd",
	"referee_vitenskapelige_artikler",
	"veiledning_masteroppgave",
	"sensur_masteroppgave",
	"professor_vurderinger",
}

var headerKeys = []string{
	KeyReportYear,
	KeyPersonName,
	KeyInstitutionName,
	KeyInstitutionNameSecondary,
}

// BucketKeys returns the publication bucket keys in report order.
func BucketKeys() []string { return slices.Clone(bucketKeys) }

// ManualFieldKeys returns the manual-field keys in report order.
func ManualFieldKeys() []string { return slices.Clone(manualFieldKeys) }

// HeaderKeys returns the report header keys.
func HeaderKeys() []string { return slices.Clone(headerKeys) }

// RequiredPlaceholders returns every key a report template must contain:
// header keys, then bucket keys, then manual-field keys.
func RequiredPlaceholders() []string {
	out := make([]string, 0, len(headerKeys)+len(bucketKeys)+len(manualFieldKeys))
	out = append(out, headerKeys...)
	out = append(out, bucketKeys...)
	return append(out, manualFieldKeys...)
}

// IsBucket reports whether key is a publication bucket key.
func IsBucket(key string) bool { return slices.Contains(bucketKeys, key) }

// IsManualField reports whether key is a manual-field key.
func IsManualField(key string) bool { return slices.Contains(manualFieldKeys, key) }
