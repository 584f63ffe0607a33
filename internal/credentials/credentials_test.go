package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileComplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte(
		"API_KEY=k\nAPI_SECRET=s\nACCESS_TOKEN=t\nACCESS_TOKEN_SECRET=ts\n",
	), 0o600)

	creds, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if creds.APIKey != "k" || creds.AccessTokenSecret != "ts" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

func TestLoadFileMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte("API_KEY=k\nACCESS_TOKEN=t\n"), 0o600)

	_, err := LoadFile(path)
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingError", err)
	}
	want := []string{"API_SECRET", "ACCESS_TOKEN_SECRET"}
	if len(missing.Fields) != 2 || missing.Fields[0] != want[0] || missing.Fields[1] != want[1] {
		t.Errorf("Fields = %v, want %v", missing.Fields, want)
	}
}

func TestLoadFileRejectsPlaceholders(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte(
		"API_KEY=YOUR_API_KEY\nAPI_SECRET=YOUR_API_SECRET\n"+
			"ACCESS_TOKEN=YOUR_ACCESS_TOKEN\nACCESS_TOKEN_SECRET=YOUR_ACCESS_TOKEN_SECRET\n",
	), 0o600)

	_, err := LoadFile(path)
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingError", err)
	}
	if len(missing.Fields) != 4 {
		t.Errorf("Fields = %v, want all four", missing.Fields)
	}
}

func TestLoadPrefersEnvironment(t *testing.T) {
	t.Setenv("API_KEY", "env-key")
	t.Setenv("API_SECRET", "env-secret")
	t.Setenv("ACCESS_TOKEN", "env-token")
	t.Setenv("ACCESS_TOKEN_SECRET", "env-token-secret")

	creds, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if creds.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", creds.APIKey)
	}
}
