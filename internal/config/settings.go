package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// Write lock mode constants
const (
	WriteLockNone    = "none"
	WriteLockProcess = "process"
	WriteLockFlock   = "flock"
)

// AuthSettings configuration for authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// IndexSettings configuration for the per-tenant index store
type IndexSettings struct {
	BaseDir     string        `mapstructure:"base_dir"`
	Tenant      string        `mapstructure:"tenant"`
	WriteLock   string        `mapstructure:"write_lock"` // WriteLockNone, WriteLockProcess, or WriteLockFlock
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	MaxResults  int           `mapstructure:"max_results"`
}

// Settings application settings
type Settings struct {
	Transport string        `mapstructure:"transport"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Auth      AuthSettings  `mapstructure:"auth"`
	Index     IndexSettings `mapstructure:"index"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	// Index store defaults
	v.SetDefault("index.base_dir", defaultIndexBaseDir())
	v.SetDefault("index.tenant", "default")
	v.SetDefault("index.write_lock", WriteLockNone)
	v.SetDefault("index.lock_timeout", 30*time.Second)
	v.SetDefault("index.max_results", 20)

	// Environment variables
	v.SetEnvPrefix("FTINDEX_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", "FTINDEX_MCP_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", "FTINDEX_MCP_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", "FTINDEX_MCP_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", "FTINDEX_MCP_AUTH_API_KEYS")

	// Index store env var bindings
	_ = v.BindEnv("index.base_dir", "FTINDEX_MCP_INDEX_BASE_DIR")
	_ = v.BindEnv("index.tenant", "FTINDEX_MCP_INDEX_TENANT")
	_ = v.BindEnv("index.write_lock", "FTINDEX_MCP_INDEX_WRITE_LOCK")
	_ = v.BindEnv("index.lock_timeout", "FTINDEX_MCP_INDEX_LOCK_TIMEOUT")
	_ = v.BindEnv("index.max_results", "FTINDEX_MCP_INDEX_MAX_RESULTS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		// Index store CLI flags
		_ = v.BindPFlag("index.base_dir", flags.Lookup("index-base-dir"))
		_ = v.BindPFlag("index.tenant", flags.Lookup("index-tenant"))
		_ = v.BindPFlag("index.write_lock", flags.Lookup("index-write-lock"))
		_ = v.BindPFlag("index.lock_timeout", flags.Lookup("index-lock-timeout"))
		_ = v.BindPFlag("index.max_results", flags.Lookup("index-max-results"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle explicit parsing of API keys if provided via env var as comma-separated string
	apiKeysEnv := os.Getenv("FTINDEX_MCP_AUTH_API_KEYS")
	if apiKeysEnv != "" {
		if len(settings.Auth.APIKeys) == 0 || (len(settings.Auth.APIKeys) == 1 && strings.Contains(settings.Auth.APIKeys[0], ",")) {
			settings.Auth.APIKeys = strings.Split(apiKeysEnv, ",")
		}
	}

	// Trim spaces from API keys
	for i := range settings.Auth.APIKeys {
		settings.Auth.APIKeys[i] = strings.TrimSpace(settings.Auth.APIKeys[i])
	}

	// Expand home directory in base_dir
	settings.Index.BaseDir = expandHomeDir(settings.Index.BaseDir)

	return &settings, nil
}

// defaultIndexBaseDir returns the default base directory for index storage
func defaultIndexBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ftindex-mcp"
	}
	return filepath.Join(home, ".ftindex-mcp")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	// Validate index store settings
	if err := validateIndexSettings(&s.Index); err != nil {
		return err
	}

	return nil
}

// validateIndexSettings validates the index store configuration
func validateIndexSettings(i *IndexSettings) error {
	if i.BaseDir == "" {
		return errors.New("index-base-dir cannot be empty")
	}

	if i.Tenant == "" {
		return errors.New("index-tenant cannot be empty")
	}

	switch i.WriteLock {
	case WriteLockNone, WriteLockProcess, WriteLockFlock, "":
		// valid
	default:
		return errors.New("index-write-lock must be 'none', 'process' or 'flock', got: " + i.WriteLock)
	}

	if i.WriteLock == WriteLockFlock && i.LockTimeout <= 0 {
		return errors.New("index-lock-timeout must be positive when flock locking is enabled")
	}

	if i.MaxResults <= 0 {
		return errors.New("index-max-results must be positive")
	}

	return nil
}
