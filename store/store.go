package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "bili-ticket-cli"

// Preference keys persisted between runs.
const (
	PrefContactName  = "people_buyer_name"
	PrefContactPhone = "people_buyer_phone"
	PrefPhone        = "phone"
)

// CookiePath returns where the session cookie set is stored.
func CookiePath() (string, error) {
	return configPath("cookies.json")
}

// LoadCookies returns the persisted session cookie set, or an empty map
// when no session is stored.
func LoadCookies() (map[string]string, error) {
	path, err := CookiePath()
	if err != nil {
		return nil, err
	}
	return readCookieJSON(path, true)
}

// SaveCookies overwrites the persisted session cookie set.
func SaveCookies(cookies map[string]string) error {
	path, err := CookiePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// ClearCookies removes the persisted session. Clearing an absent session
// is not an error.
func ClearCookies() error {
	path, err := CookiePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ReadCookieFile loads a cookie set exported as a flat JSON object of
// name/value pairs, the same shape SaveCookies writes.
func ReadCookieFile(path string) (map[string]string, error) {
	return readCookieJSON(path, false)
}

func readCookieJSON(path string, missingOK bool) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if missingOK && os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var cookies map[string]string
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("invalid cookie file %s: %w", path, err)
	}
	if cookies == nil {
		cookies = map[string]string{}
	}
	return cookies, nil
}

// GetPreference returns the stored value for key, empty when unset.
func GetPreference(key string) (string, error) {
	prefs, err := loadPreferences()
	if err != nil {
		return "", err
	}
	return prefs[key], nil
}

// SetPreference stores value under key. Last write wins, no history.
func SetPreference(key, value string) error {
	prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	prefs[key] = value

	path, err := configPath("preferences.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func loadPreferences() (map[string]string, error) {
	path, err := configPath("preferences.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var prefs map[string]string
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("invalid preference file %s: %w", path, err)
	}
	if prefs == nil {
		prefs = map[string]string{}
	}
	return prefs, nil
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
