package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/handsomefox/movie-discovery/internal/store"
)

type PreferenceStore interface {
	GetPreferences(ctx context.Context, clientID string) (store.Preferences, error)
	SavePreferences(ctx context.Context, prefs *store.Preferences) error
}

// Preferences are the settings a visitor keeps between visits.
type Preferences struct {
	ClientID  string    `json:"client_id"`
	Locale    string    `json:"locale,omitempty"`
	Region    string    `json:"region,omitempty"`
	ThemeMode ThemeMode `json:"theme_mode"`
}

func DefaultPreferences(clientID string) Preferences {
	return Preferences{ClientID: clientID, ThemeMode: DefaultThemeMode}
}

// Validate normalizes the fields in place. Empty locale and region mean unset.
func (p *Preferences) Validate() error {
	p.Locale = strings.TrimSpace(p.Locale)
	if p.Locale != "" {
		info, ok := FindLocale(p.Locale)
		if !ok {
			return fmt.Errorf("unsupported locale %q", p.Locale)
		}
		p.Locale = info.Code
	}

	p.Region = strings.ToUpper(strings.TrimSpace(p.Region))
	if p.Region != "" && !isRegionCode(p.Region) {
		return fmt.Errorf("invalid region %q", p.Region)
	}

	if p.ThemeMode == "" {
		p.ThemeMode = DefaultThemeMode
	}
	mode, ok := ParseThemeMode(string(p.ThemeMode))
	if !ok {
		return fmt.Errorf("invalid theme mode %q", p.ThemeMode)
	}
	p.ThemeMode = mode
	return nil
}

func isRegionCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// LoadPreferences returns defaults for clients without a stored row.
func LoadPreferences(ctx context.Context, ps PreferenceStore, clientID string) (Preferences, error) {
	row, err := ps.GetPreferences(ctx, clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(clientID), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}

	prefs := Preferences{ClientID: row.ClientID, ThemeMode: ThemeMode(row.ThemeMode)}
	if row.Locale.Valid {
		prefs.Locale = row.Locale.V
	}
	if row.Region.Valid {
		prefs.Region = row.Region.V
	}
	if _, ok := ParseThemeMode(row.ThemeMode); !ok {
		prefs.ThemeMode = DefaultThemeMode
	}
	return prefs, nil
}

func SavePreferences(ctx context.Context, ps PreferenceStore, prefs Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	row := &store.Preferences{
		ClientID:  prefs.ClientID,
		Locale:    sql.Null[string]{V: prefs.Locale, Valid: prefs.Locale != ""},
		Region:    sql.Null[string]{V: prefs.Region, Valid: prefs.Region != ""},
		ThemeMode: string(prefs.ThemeMode),
	}
	if err := ps.SavePreferences(ctx, row); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// LocalePersister returns a PersistLocaleFunc that writes the locale into prefs.
func LocalePersister(ps PreferenceStore, prefs *Preferences) PersistLocaleFunc {
	return func(ctx context.Context, code string) error {
		next := *prefs
		next.Locale = code
		if err := SavePreferences(ctx, ps, next); err != nil {
			return err
		}
		*prefs = next
		return nil
	}
}
