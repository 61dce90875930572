package config

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"SKILLJAR_API_KEY", "SKILLJAR_BASE_URL", "SKILLJAR_PAGE_SIZE",
		"MIRROR_DIR", "DATA_DIR", "PUBLIC_DIR", "EMPLOYEE_DOMAIN",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.SkilljarBaseURL != "https://api.skilljar.com/v1" {
		t.Errorf("base url = %q", cfg.SkilljarBaseURL)
	}
	if cfg.PageSize != 100 {
		t.Errorf("page size = %d", cfg.PageSize)
	}
	if cfg.MirrorDir != "local-skilljar" || cfg.DataDir != "public/data" {
		t.Errorf("dirs = %q %q", cfg.MirrorDir, cfg.DataDir)
	}
}

func TestLoadCapsPageSize(t *testing.T) {
	cases := map[string]int{
		"250": 100,
		"0":   100,
		"-5":  100,
		"abc": 100,
		"25":  25,
	}
	for in, want := range cases {
		t.Setenv("SKILLJAR_PAGE_SIZE", in)
		if got := Load().PageSize; got != want {
			t.Errorf("SKILLJAR_PAGE_SIZE=%s: page size = %d, want %d", in, got, want)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	cfg := Config{}
	err := cfg.RequireAuth()
	if !IsAuthError(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	var ae *AuthError
	if errors.As(err, &ae); ae.Missing != "SKILLJAR_API_KEY" {
		t.Errorf("missing = %q", ae.Missing)
	}

	cfg.SkilljarAPIKey = "k"
	if err := cfg.RequireAuth(); err != nil {
		t.Errorf("unexpected error with a key set: %v", err)
	}
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_INT", "7")
	t.Setenv("X_INT_BAD", "seven")
	t.Setenv("X_BOOL", "false")
	t.Setenv("X_BOOL_BAD", "nope")

	if got := getenv("X_STR", "def"); got != "value" {
		t.Errorf("getenv set = %q", got)
	}
	if got := getenv("X_UNSET", "def"); got != "def" {
		t.Errorf("getenv unset = %q", got)
	}
	if got := getenvInt("X_INT", 1); got != 7 {
		t.Errorf("getenvInt set = %d", got)
	}
	if got := getenvInt("X_INT_BAD", 1); got != 1 {
		t.Errorf("getenvInt bad = %d", got)
	}
	if got := getenvBool("X_BOOL", true); got {
		t.Error("getenvBool set should be false")
	}
	if got := getenvBool("X_BOOL_BAD", true); !got {
		t.Error("getenvBool bad should fall back to default")
	}
}
