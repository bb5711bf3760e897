package googleads

import (
	"strconv"
	"strings"
)

// languageIDs maps ISO 639-1 codes to Google Ads language criterion ids.
var languageIDs = map[string]int64{
	"en": 1000,
	"de": 1001,
	"fr": 1002,
	"es": 1003,
	"it": 1004,
	"ja": 1005,
	"nl": 1010,
	"ko": 1012,
	"pt": 1014,
	"sv": 1015,
	"zh": 1017,
	"ar": 1019,
	"hi": 1023,
	"pl": 1030,
	"ru": 1031,
	"tr": 1037,
}

// LanguageConstant returns the language constant resource name for a
// language code ("en") or criterion id ("1000"). Values that are already
// resource names are returned unchanged.
func LanguageConstant(language string) string {
	language = strings.TrimSpace(language)
	if strings.HasPrefix(language, "languageConstants/") {
		return language
	}
	if id, ok := languageIDs[strings.ToLower(language)]; ok {
		return "languageConstants/" + strconv.FormatInt(id, 10)
	}
	return "languageConstants/" + language
}

// GeoTargetConstant returns the geo target constant resource name for a location id.
func GeoTargetConstant(id int64) string {
	return "geoTargetConstants/" + strconv.FormatInt(id, 10)
}

// GeoTargetConstants maps location ids to resource names.
func GeoTargetConstants(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = GeoTargetConstant(id)
	}
	return out
}
