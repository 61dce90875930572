package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// maxPageSize is the largest page size the Skilljar API accepts.
const maxPageSize = 100

// Config holds everything a command needs to talk to Skilljar and find its
// local directories. Built once in the CLI layer and passed down by value;
// no package-level client state.
type Config struct {
	// Skilljar
	SkilljarAPIKey  string
	SkilljarBaseURL string
	PageSize        int

	// Local layout
	MirrorDir string
	DataDir   string
	PublicDir string

	// Reporting
	EmployeeDomain string

	// SFTP drop for exported reports
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

// AuthError means the run cannot authenticate against Skilljar at all.
// It is fatal and raised before any request is made.
type AuthError struct {
	Missing string
}

func (e *AuthError) Error() string {
	return "auth config: missing " + e.Missing
}

// IsAuthError reports whether err is an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// Load reads .env (if present) and then the environment.
func Load() Config {
	// dotenv is optional; a missing file just means plain env vars.
	_ = godotenv.Load()

	cfg := Config{
		SkilljarAPIKey:  os.Getenv("SKILLJAR_API_KEY"),
		SkilljarBaseURL: getenv("SKILLJAR_BASE_URL", "https://api.skilljar.com/v1"),
		PageSize:        getenvInt("SKILLJAR_PAGE_SIZE", maxPageSize),

		MirrorDir: getenv("MIRROR_DIR", "local-skilljar"),
		DataDir:   getenv("DATA_DIR", "public/data"),
		PublicDir: getenv("PUBLIC_DIR", "public"),

		EmployeeDomain: getenv("EMPLOYEE_DOMAIN", "chainguard.dev"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}

	if cfg.PageSize <= 0 || cfg.PageSize > maxPageSize {
		cfg.PageSize = maxPageSize
	}
	return cfg
}

// RequireAuth fails fast when the API credential is absent, so no command
// starts paginating with a key that can only produce 401s.
func (c Config) RequireAuth() error {
	if c.SkilljarAPIKey == "" {
		return &AuthError{Missing: "SKILLJAR_API_KEY"}
	}
	return nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
