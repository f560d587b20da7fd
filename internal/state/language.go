// Package state holds the per-visitor and shared state containers behind the
// API: language, theme, region list and genre cache.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/handsomefox/movie-discovery/internal/logger"
)

const (
	DefaultLocale = "zh-CN"

	// LocaleCookie is the cookie the front-end i18n module reads and writes.
	LocaleCookie = "i18n_redirected"
)

type LocaleInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
	ISO  string `json:"iso"`
	Flag string `json:"flag"`
}

var locales = []LocaleInfo{
	{Code: "en-US", Name: "English", ISO: "en-US", Flag: "🇺🇸"},
	{Code: "zh-CN", Name: "中文", ISO: "zh-CN", Flag: "🇨🇳"},
	{Code: "ja-JP", Name: "日本語", ISO: "ja-JP", Flag: "🇯🇵"},
	{Code: "ko-KR", Name: "한국어", ISO: "ko-KR", Flag: "🇰🇷"},
	{Code: "ar-SA", Name: "العربية", ISO: "ar-SA", Flag: "🇸🇦"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tags = append(tags, language.MustParse(l.Code))
	}
	return language.NewMatcher(tags)
}()

// Locales returns the supported locales in display order.
func Locales() []LocaleInfo {
	return append([]LocaleInfo(nil), locales...)
}

func LocaleCodes() []string {
	out := make([]string, 0, len(locales))
	for _, l := range locales {
		out = append(out, l.Code)
	}
	return out
}

// FindLocale looks a locale up by code, case-insensitively.
func FindLocale(code string) (LocaleInfo, bool) {
	code = strings.TrimSpace(code)
	for _, l := range locales {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return LocaleInfo{}, false
}

// PersistLocaleFunc stores a locale change, for example in the preferences table.
type PersistLocaleFunc func(ctx context.Context, code string) error

// Language tracks the active locale of one visitor.
type Language struct {
	mu      sync.RWMutex
	current string
	persist PersistLocaleFunc
}

// NewLanguage starts at current, falling back to DefaultLocale when current is unknown.
// persist may be nil.
func NewLanguage(current string, persist PersistLocaleFunc) *Language {
	l := &Language{current: DefaultLocale, persist: persist}
	l.SetLocale(current)
	return l
}

func (l *Language) Current() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *Language) CurrentInfo() (LocaleInfo, bool) {
	return FindLocale(l.Current())
}

func (l *Language) Available() []LocaleInfo { return Locales() }

// Others lists every locale except the current one.
func (l *Language) Others() []LocaleInfo {
	current := l.Current()
	out := make([]LocaleInfo, 0, len(locales)-1)
	for _, loc := range locales {
		if loc.Code != current {
			out = append(out, loc)
		}
	}
	return out
}

// SetLocale switches to code when it is supported and reports whether it did.
func (l *Language) SetLocale(code string) bool {
	info, ok := FindLocale(code)
	if !ok {
		return false
	}
	l.mu.Lock()
	l.current = info.Code
	l.mu.Unlock()
	return true
}

// Switch changes the locale and persists it. When persisting fails the previous
// locale is restored and the error returned.
func (l *Language) Switch(ctx context.Context, code string) error {
	info, ok := FindLocale(code)
	if !ok {
		return fmt.Errorf("unsupported locale %q", code)
	}

	l.mu.Lock()
	prev := l.current
	if prev == info.Code {
		l.mu.Unlock()
		return nil
	}
	l.current = info.Code
	l.mu.Unlock()

	if l.persist == nil {
		return nil
	}
	if err := l.persist(ctx, info.Code); err != nil {
		slog.Warn("failed to switch language", slog.String("locale", info.Code), logger.Error(err))
		l.mu.Lock()
		if l.current == info.Code {
			l.current = prev
		}
		l.mu.Unlock()
		return fmt.Errorf("switch language to %s: %w", info.Code, err)
	}
	return nil
}

// ResolveLocale picks the locale for a request: the stored preference, then the
// i18n cookie, then Accept-Language, then fallback (normally the configured
// default), then DefaultLocale.
func ResolveLocale(r *http.Request, preferred, fallback string) string {
	if info, ok := FindLocale(preferred); ok {
		return info.Code
	}
	if c, err := r.Cookie(LocaleCookie); err == nil {
		if info, ok := FindLocale(c.Value); ok {
			return info.Code
		}
	}
	if code, ok := MatchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return code
	}
	if info, ok := FindLocale(fallback); ok {
		return info.Code
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return DefaultLocale
}

// MatchAcceptLanguage returns the supported locale closest to an Accept-Language header.
func MatchAcceptLanguage(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return locales[idx].Code, true
}
