// Package format renders TMDB values for display.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const Unknown = "未知"

// Runtime renders minutes as "2h 5m".
func Runtime(minutes int) string {
	if minutes <= 0 {
		return Unknown
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Budget renders amounts as $1.5M, $2.0K or $999.
func Budget(amount int64) string {
	switch {
	case amount <= 0:
		return Unknown
	case amount >= 1_000_000:
		return fmt.Sprintf("$%.1fM", float64(amount)/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("$%.1fK", float64(amount)/1_000)
	default:
		return "$" + strconv.FormatInt(amount, 10)
	}
}

// Year extracts the year of a YYYY-MM-DD date.
func Year(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return Unknown
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return Unknown
	}
	return date[:4]
}

// Date renders a YYYY-MM-DD date the way zh-CN locales print it (2006/1/2).
func Date(date string) string {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return Unknown
	}
	return t.Format("2006/1/2")
}

func Popularity(p float64) string {
	if p == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// Gender maps TMDB gender codes: 1 female, 2 male, anything else unknown.
func Gender(code int) string {
	switch code {
	case 1:
		return "女"
	case 2:
		return "男"
	default:
		return Unknown
	}
}

var departmentsZH = map[string]string{
	"Directing":         "导演",
	"Writing":           "编剧",
	"Production":        "制片",
	"Sound":             "音效",
	"Art":               "美术",
	"Camera":            "摄影",
	"Editing":           "剪辑",
	"Costume & Make-Up": "服装与化妆",
	"Visual Effects":    "视觉特效",
	"Lighting":          "灯光",
	"Acting":            "演员",
	"Crew":              "剧组",
	"Creator":           "创作",
	"Actors":            "演员",
	"Costume Design":    "服装设计",
	"Makeup Artist":     "化妆师",
	"Executive":         "执行制片",
	"Sound Design":      "音效设计",
	"Music":             "音乐",
}

// Department translates a department name for zh locales and returns it unchanged otherwise.
func Department(name, locale string) string {
	if !strings.HasPrefix(strings.ToLower(locale), "zh") {
		return name
	}
	if zh, ok := departmentsZH[name]; ok {
		return zh
	}
	return name
}
