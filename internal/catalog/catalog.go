// Package catalog holds the static option lists shown by the discovery UI: sort
// orders, release types, languages, regions and the discover filter whitelist.
package catalog

import "slices"

type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

var MovieSortOptions = []Option{
	{Value: "popularity.asc", Label: "人气升序", Description: "按人气从低到高排序"},
	{Value: "popularity.desc", Label: "人气降序", Description: "按人气从高到低排序"},
	{Value: "release_date.asc", Label: "上映日期升序", Description: "按上映日期从早到晚排序"},
	{Value: "release_date.desc", Label: "上映日期降序", Description: "按上映日期从晚到早排序"},
	{Value: "revenue.asc", Label: "票房升序", Description: "按票房从低到高排序"},
	{Value: "revenue.desc", Label: "票房降序", Description: "按票房从高到低排序"},
	{Value: "primary_release_date.asc", Label: "首映日期升序", Description: "按首映日期从早到晚排序"},
	{Value: "primary_release_date.desc", Label: "首映日期降序", Description: "按首映日期从晚到早排序"},
	{Value: "original_title.asc", Label: "原标题升序", Description: "按原标题字母顺序排序"},
	{Value: "original_title.desc", Label: "原标题降序", Description: "按原标题字母倒序排序"},
	{Value: "vote_average.asc", Label: "评分升序", Description: "按评分从低到高排序"},
	{Value: "vote_average.desc", Label: "评分降序", Description: "按评分从高到低排序"},
	{Value: "vote_count.asc", Label: "投票数升序", Description: "按投票数从少到多排序"},
	{Value: "vote_count.desc", Label: "投票数降序", Description: "按投票数从多到少排序"},
}

var TVSortOptions = []Option{
	{Value: "popularity.asc", Label: "人气升序", Description: "按人气从低到高排序"},
	{Value: "popularity.desc", Label: "人气降序", Description: "按人气从高到低排序"},
	{Value: "air_date.asc", Label: "播出日期升序", Description: "按播出日期从早到晚排序"},
	{Value: "air_date.desc", Label: "播出日期降序", Description: "按播出日期从晚到早排序"},
	{Value: "first_air_date.asc", Label: "首播日期升序", Description: "按首播日期从早到晚排序"},
	{Value: "first_air_date.desc", Label: "首播日期降序", Description: "按首播日期从晚到早排序"},
	{Value: "name.asc", Label: "名称升序", Description: "按名称字母顺序排序"},
	{Value: "name.desc", Label: "名称降序", Description: "按名称字母倒序排序"},
	{Value: "original_name.asc", Label: "原名升序", Description: "按原名字母顺序排序"},
	{Value: "original_name.desc", Label: "原名降序", Description: "按原名字母倒序排序"},
	{Value: "vote_average.asc", Label: "评分升序", Description: "按评分从低到高排序"},
	{Value: "vote_average.desc", Label: "评分降序", Description: "按评分从高到低排序"},
	{Value: "vote_count.asc", Label: "投票数升序", Description: "按投票数从少到多排序"},
	{Value: "vote_count.desc", Label: "投票数降序", Description: "按投票数从多到少排序"},
}

// SortOptions returns the tv list for "tv" and the movie list for anything else.
func SortOptions(mediaType string) []Option {
	if mediaType == "tv" {
		return TVSortOptions
	}
	return MovieSortOptions
}

func SortOptionByValue(mediaType, value string) (Option, bool) {
	return find(SortOptions(mediaType), value)
}

// Release type codes follow TMDB: 1 premiere, 2 limited theatrical, 3 theatrical,
// 4 digital, 5 physical, 6 TV. Pipe separated codes are OR filters.
var ReleaseTypeOptions = []Option{
	{Value: "", Label: "所有类型"},
	{Value: "2|3", Label: "影院上映"},
	{Value: "3|2", Label: "影院上映 (优先)"},
	{Value: "4", Label: "数字发行"},
	{Value: "5", Label: "实体发行"},
	{Value: "6", Label: "电视播出"},
}

var releaseTypeNames = map[string]string{
	"2|3": "影院上映",
	"3|2": "影院上映",
	"4":   "数字发行",
	"5":   "实体发行",
	"6":   "电视播出",
}

var theatricalReleaseTypes = []string{"2|3", "3|2"}

// ReleaseTypeName returns "" for unknown codes.
func ReleaseTypeName(code string) string {
	return releaseTypeNames[code]
}

func IsTheatricalRelease(code string) bool {
	return slices.Contains(theatricalReleaseTypes, code)
}

const DefaultUILanguage = "zh-CN"

// UILanguageOptions are values for the API's language parameter.
var UILanguageOptions = []Option{
	{Value: "zh-CN", Label: "中文（简体）"},
	{Value: "zh-TW", Label: "中文（繁体）"},
	{Value: "en-US", Label: "English"},
	{Value: "ja-JP", Label: "日本語"},
	{Value: "ko-KR", Label: "한국어"},
}

func UILanguageName(code string) string {
	if opt, ok := find(UILanguageOptions, code); ok {
		return opt.Label
	}
	return code
}

// ContentLanguageOptions filter titles by original language (with_original_language).
var ContentLanguageOptions = []Option{
	{Value: "", Label: "所有语言"},
	{Value: "zh", Label: "中文"},
	{Value: "en", Label: "英语"},
	{Value: "ja", Label: "日语"},
	{Value: "ko", Label: "韩语"},
	{Value: "fr", Label: "法语"},
	{Value: "de", Label: "德语"},
	{Value: "es", Label: "西班牙语"},
	{Value: "pt", Label: "葡萄牙语"},
	{Value: "ru", Label: "俄语"},
	{Value: "it", Label: "意大利语"},
	{Value: "ar", Label: "阿拉伯语"},
	{Value: "hi", Label: "印地语"},
	{Value: "th", Label: "泰语"},
}

func ContentLanguageName(code string) string {
	if code == "" {
		return code
	}
	if opt, ok := find(ContentLanguageOptions, code); ok {
		return opt.Label
	}
	return code
}

var RegionOptions = []Option{
	{Value: "", Label: "全球"},
	{Value: "US", Label: "美国"},
	{Value: "CN", Label: "中国"},
	{Value: "JP", Label: "日本"},
	{Value: "KR", Label: "韩国"},
	{Value: "GB", Label: "英国"},
	{Value: "FR", Label: "法国"},
	{Value: "DE", Label: "德国"},
	{Value: "CA", Label: "加拿大"},
	{Value: "AU", Label: "澳大利亚"},
	{Value: "IN", Label: "印度"},
}

func RegionName(code string) string {
	if code == "" {
		return code
	}
	if opt, ok := find(RegionOptions, code); ok {
		return opt.Label
	}
	return code
}

func find(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}
