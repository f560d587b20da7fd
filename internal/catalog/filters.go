package catalog

import "slices"

// Discover filters accepted by both media types.
var CommonFilters = []string{
	"page",
	"sort_by",
	"with_genres",
	"without_genres",
	"vote_average.gte",
	"vote_average.lte",
	"vote_count.gte",
	"with_original_language",
	"with_keywords",
	"without_keywords",
	"with_companies",
	"with_people",
	"include_adult",
}

var MovieOnlyFilters = []string{
	"primary_release_date.gte",
	"primary_release_date.lte",
	"region",
	"with_runtime.gte",
	"with_runtime.lte",
	"certification_country",
	"certification",
	"certification.gte",
	"certification.lte",
	"include_video",
	"year",
	"with_release_type",
}

var TVOnlyFilters = []string{
	"first_air_date.gte",
	"first_air_date.lte",
	"with_origin_country",
	"with_networks",
	"with_status",
	"with_type",
	"air_date.gte",
	"air_date.lte",
}

// AllowedFilter reports whether key may be forwarded to /discover/{mediaType}.
func AllowedFilter(mediaType, key string) bool {
	if slices.Contains(CommonFilters, key) {
		return true
	}
	switch mediaType {
	case "movie":
		return slices.Contains(MovieOnlyFilters, key)
	case "tv":
		return slices.Contains(TVOnlyFilters, key)
	}
	return false
}

// ValidSort reports whether value is one of the sort options for mediaType.
func ValidSort(mediaType, value string) bool {
	_, ok := SortOptionByValue(mediaType, value)
	return ok
}
