// Package config provides functionality for managing configuration options
// for the portal binaries using command-line flags, an optional JSON config
// file, an optional .env file and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Credential store kinds accepted by Options.Store.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Options holds the configuration values for the application.
type Options struct {
	// APIURL is the origin of the portal REST API.
	APIURL string `json:"api_url"`

	// LoginPath is where the client is sent after the API rejects its token.
	LoginPath string `json:"login_path"`

	// Store selects the credential store backend: file, memory, redis or postgres.
	Store string `json:"store"`

	// StorePath is the credentials file used by the file store.
	StorePath string `json:"store_path"`

	// RedisAddr is the address of the redis credential store.
	RedisAddr string `json:"redis_addr"`

	// DatabaseDSN holds the connection string of the postgres credential store.
	DatabaseDSN string `json:"database_dsn"`

	// Profile namespaces stored credentials in shared backends.
	Profile string `json:"profile"`

	// CAFile optionally pins the CA used to verify the API certificate.
	CAFile string `json:"ca_file"`

	// Timeout bounds each HTTP request at the transport level.
	Timeout time.Duration `json:"-"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// DevAPIAddr is the listening address (ip:port) of the development API.
	DevAPIAddr string `json:"devapi_address"`

	// DevAPISecret signs tokens issued by the development API.
	DevAPISecret string `json:"devapi_secret"`

	// DevAPITLSDir, when set, serves the development API over HTTPS with a
	// certificate bundle kept in that directory.
	DevAPITLSDir string `json:"devapi_tls_dir"`

	// DevAdminEmail and DevAdminPassword seed the development API's
	// administrator account.
	DevAdminEmail    string `json:"devapi_admin_email"`
	DevAdminPassword string `json:"devapi_admin_password"`

	// Command is the client command: login, register, logout, whoami or shell.
	Command string `json:"-"`

	// Email prefills the login and register prompts.
	Email string `json:"-"`

	// ShowVersion prints build metadata and exits.
	ShowVersion bool `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// EnvFile is the path to an optional .env file.
	EnvFile string `json:"-"`
}

// DefaultStorePath returns ~/.portal/credentials.json, or a relative path
// when the home directory is unknown.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".portal", "credentials.json")
	}
	return filepath.Join(home, ".portal", "credentials.json")
}

// Parse reads args (without the program name) and the environment and
// returns the resulting Options. Precedence, lowest first: defaults,
// flags, JSON config file, environment.
func Parse(name string, args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&options.APIURL, "url", "http://localhost:3000", "portal API base URL")
	fs.StringVar(&options.LoginPath, "login-path", "/admin/login", "login entry point used after a rejected token")
	fs.StringVar(&options.Store, "store", StoreFile, "credential store: file | memory | redis | postgres")
	fs.StringVar(&options.StorePath, "store-path", DefaultStorePath(), "credentials file for the file store")
	fs.StringVar(&options.RedisAddr, "redis", "localhost:6379", "redis address for the redis store")
	fs.StringVar(&options.DatabaseDSN, "d", "", "postgres DSN for the postgres store")
	fs.StringVar(&options.Profile, "profile", "default", "credential profile name")
	fs.StringVar(&options.CAFile, "ca", "", "path to a CA certificate for the API")
	fs.DurationVar(&options.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	fs.StringVar(&options.LogLevel, "log-level", "warn", "log level")
	fs.StringVar(&options.DevAPIAddr, "a", "localhost:3000", "run development API on ip:port")
	fs.StringVar(&options.DevAPISecret, "secret", "dev-secret", "development API token signing secret")
	fs.StringVar(&options.DevAPITLSDir, "tls-dir", "", "serve the development API over HTTPS with certificates in this directory")
	fs.StringVar(&options.DevAdminEmail, "admin-email", "admin@uecsr.edu.ec", "development API administrator email")
	fs.StringVar(&options.DevAdminPassword, "admin-password", "admin123", "development API administrator password")
	fs.StringVar(&options.Command, "cmd", "shell", "client command: login | register | logout | whoami | shell")
	fs.StringVar(&options.Email, "email", "", "email for login and register")
	fs.BoolVar(&options.ShowVersion, "version", false, "show build version and date")
	fs.StringVar(&options.Config, "config", "", "path to config file")
	fs.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
	fs.StringVar(&options.EnvFile, "env", ".env", "path to an optional .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is not an error.
	if options.EnvFile != "" {
		if _, err := os.Stat(options.EnvFile); err == nil {
			if err := godotenv.Load(options.EnvFile); err != nil {
				return nil, fmt.Errorf("error while loading env file: %w", err)
			}
		}
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if err := overrideFromEnv(options); err != nil {
		return nil, err
	}

	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func overrideFromEnv(options *Options) error {
	envs := []struct {
		key string
		dst *string
	}{
		{"PORTAL_API_URL", &options.APIURL},
		{"PORTAL_LOGIN_PATH", &options.LoginPath},
		{"PORTAL_STORE", &options.Store},
		{"PORTAL_STORE_PATH", &options.StorePath},
		{"PORTAL_REDIS_ADDR", &options.RedisAddr},
		{"PORTAL_DATABASE_DSN", &options.DatabaseDSN},
		{"PORTAL_PROFILE", &options.Profile},
		{"PORTAL_CA_FILE", &options.CAFile},
		{"PORTAL_LOG_LEVEL", &options.LogLevel},
		{"DEVAPI_ADDRESS", &options.DevAPIAddr},
		{"DEVAPI_SECRET", &options.DevAPISecret},
		{"DEVAPI_TLS_DIR", &options.DevAPITLSDir},
		{"DEVAPI_ADMIN_EMAIL", &options.DevAdminEmail},
		{"DEVAPI_ADMIN_PASSWORD", &options.DevAdminPassword},
	}
	for _, e := range envs {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}
	if v := os.Getenv("PORTAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PORTAL_TIMEOUT %q: %w", v, err)
		}
		options.Timeout = d
	}
	return nil
}

func (o *Options) validate() error {
	switch o.Store {
	case StoreFile, StoreMemory, StoreRedis:
	case StorePostgres:
		if o.DatabaseDSN == "" {
			return fmt.Errorf("store %q requires a database DSN", o.Store)
		}
	default:
		return fmt.Errorf("unknown credential store %q", o.Store)
	}
	if o.APIURL == "" {
		return fmt.Errorf("api url must not be empty")
	}
	return nil
}
