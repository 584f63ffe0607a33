// Package credentials loads the four X API secrets from a .env file or the
// process environment. Posting never starts with incomplete credentials;
// the loader runs once at startup and failures are surfaced to the caller
// before any network call is made.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Credentials is the OAuth 1.0a user-context secret set for one account.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// Placeholder values from config templates count as missing.
var placeholders = map[string]bool{
	"YOUR_API_KEY":             true,
	"YOUR_API_SECRET":          true,
	"YOUR_ACCESS_TOKEN":        true,
	"YOUR_ACCESS_TOKEN_SECRET": true,
}

// MissingError reports which of the four required secrets are absent or
// still set to a template placeholder.
type MissingError struct {
	Fields []string
}

func (e *MissingError) Error() string {
	return "missing credentials: " + strings.Join(e.Fields, ", ")
}

// Load reads credentials from the process environment, a .env file in the
// working directory, and ~/.sashimi/.env, in that precedence order. It
// fails with *MissingError when any secret is blank or a placeholder.
func Load() (Credentials, error) {
	env, _ := godotenv.Read()
	var home map[string]string
	if dir, err := os.UserHomeDir(); err == nil {
		home, _ = godotenv.Read(filepath.Join(dir, ".sashimi", ".env"))
	}
	return load(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := env[key]; v != "" {
			return v
		}
		return home[key]
	})
}

// LoadFile is Load against a specific .env path.
func LoadFile(path string) (Credentials, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read %s: %w", path, err)
	}
	return load(func(key string) string { return env[key] })
}

func load(get func(string) string) (Credentials, error) {
	creds := Credentials{
		APIKey:            get("API_KEY"),
		APISecret:         get("API_SECRET"),
		AccessToken:       get("ACCESS_TOKEN"),
		AccessTokenSecret: get("ACCESS_TOKEN_SECRET"),
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"API_KEY", creds.APIKey},
		{"API_SECRET", creds.APISecret},
		{"ACCESS_TOKEN", creds.AccessToken},
		{"ACCESS_TOKEN_SECRET", creds.AccessTokenSecret},
	} {
		if f.value == "" || placeholders[f.value] {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Credentials{}, &MissingError{Fields: missing}
	}
	return creds, nil
}
