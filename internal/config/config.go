// Package config provides configuration management for rtdb-admin.
//
// Configuration is loaded from:
// 1. rtdb-admin.yaml (optional, or the file named by --config)
// 2. Environment variables (nested keys map to FIREBASE_DATABASE_URL, RECONCILE_PAGE_SIZE, ...)
// 3. Default values
//
// The environment names used by the earlier node admin scripts (GOOGLE_APPLICATION_CREDENTIALS,
// DRY_RUN, FORCE, ENV_PATH) are bound explicitly.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/config
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

// Supported backends.
const (
	BackendFirebase = "firebase"
	BackendPostgres = "postgres"
)

// MaxPageSize is the largest page the Firebase Auth user listing accepts.
const MaxPageSize = 1000

// Config is the root configuration structure.
type Config struct {
	Backend    string           `mapstructure:"backend"`
	Firebase   FirebaseConfig   `mapstructure:"firebase"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Reconcile  ReconcileConfig  `mapstructure:"reconcile"`
	RemovePath RemovePathConfig `mapstructure:"remove_path"`
	WebConfig  WebConfigConfig  `mapstructure:"web_config"`
}

// FirebaseConfig contains Firebase Admin SDK settings.
type FirebaseConfig struct {
	DatabaseURL     string `mapstructure:"database_url"`
	CredentialsFile string `mapstructure:"credentials_file"`
	ProjectID       string `mapstructure:"project_id"`
}

// DatabaseConfig contains PostgreSQL connection settings for the postgres backend.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`

	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
// Priority: DATABASE_URL > constructed from individual fields.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslmode,
	)
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// ReconcileConfig contains orphan reconciliation settings.
type ReconcileConfig struct {
	PageSize          int    `mapstructure:"page_size"`
	MaxUniqueAttempts int    `mapstructure:"max_unique_attempts"`
	ProfilesRoot      string `mapstructure:"profiles_root"`
	NameIndexRoot     string `mapstructure:"name_index_root"`
	DryRun            bool   `mapstructure:"dry_run"`
}

// RemovePathConfig contains subtree removal settings.
type RemovePathConfig struct {
	Path       string `mapstructure:"path"`
	DryRun     bool   `mapstructure:"dry_run"`
	Confirm    bool   `mapstructure:"confirm"`
	SampleSize int    `mapstructure:"sample_size"`
	BackupFile string `mapstructure:"backup_file"`
}

// WebConfigConfig contains web config generation settings.
type WebConfigConfig struct {
	EnvFile string `mapstructure:"env_file"`
	Output  string `mapstructure:"output"`
}

// Load reads configuration from file and environment variables.
// An empty path searches the default locations and tolerates a missing file;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rtdb-admin")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/rtdb-admin")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// bindLegacyEnv binds the variable names the node admin scripts read.
// For keys with several names the first one set wins.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"firebase.credentials_file", "FIREBASE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"},
		{"firebase.project_id", "FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"},
		{"remove_path.dry_run", "REMOVE_PATH_DRY_RUN", "DRY_RUN"},
		{"remove_path.confirm", "REMOVE_PATH_CONFIRM", "FORCE"},
		{"web_config.env_file", "WEB_CONFIG_ENV_FILE", "ENV_PATH"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("bind env %s: %w", b[0], err)
		}
	}
	return nil
}

// Validate checks for configuration errors that make every command unusable.
// Backend reachability is checked at bootstrap, not here.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFirebase, BackendPostgres:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendFirebase, BackendPostgres, c.Backend)
	}
	if c.Reconcile.PageSize < 1 || c.Reconcile.PageSize > MaxPageSize {
		return fmt.Errorf("reconcile.page_size must be between 1 and %d", MaxPageSize)
	}
	if c.Reconcile.MaxUniqueAttempts < 1 {
		return fmt.Errorf("reconcile.max_unique_attempts must be positive")
	}
	if domain.CleanPath(c.Reconcile.ProfilesRoot) == "" || domain.CleanPath(c.Reconcile.NameIndexRoot) == "" {
		return fmt.Errorf("reconcile.profiles_root and reconcile.name_index_root must not be empty")
	}
	if domain.CleanPath(c.Reconcile.ProfilesRoot) == domain.CleanPath(c.Reconcile.NameIndexRoot) {
		return fmt.Errorf("reconcile.profiles_root and reconcile.name_index_root must differ")
	}
	if c.RemovePath.SampleSize < 0 {
		return fmt.Errorf("remove_path.sample_size must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendFirebase)

	// Firebase
	v.SetDefault("firebase.database_url", "https://sungjintrb-default-rtdb.firebaseio.com")
	v.SetDefault("firebase.credentials_file", "serviceAccountKey.json")
	v.SetDefault("firebase.project_id", "")

	// Database (postgres backend)
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rtdb")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "rtdb")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "10m")
	v.SetDefault("database.auto_migrate", false)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Reconcile
	v.SetDefault("reconcile.page_size", MaxPageSize)
	v.SetDefault("reconcile.max_unique_attempts", 10000)
	v.SetDefault("reconcile.profiles_root", domain.DefaultProfilesRoot)
	v.SetDefault("reconcile.name_index_root", domain.DefaultNameIndexRoot)
	v.SetDefault("reconcile.dry_run", false)

	// Remove path
	v.SetDefault("remove_path.path", "/users")
	v.SetDefault("remove_path.dry_run", false)
	v.SetDefault("remove_path.confirm", false)
	v.SetDefault("remove_path.sample_size", 20)
	v.SetDefault("remove_path.backup_file", "")

	// Web config
	v.SetDefault("web_config.env_file", ".env")
	v.SetDefault("web_config.output", "firebase-config.js")
}
