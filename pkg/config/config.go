package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application settings (read with Viper from env and, optionally, a file).
type Config struct {
	App     AppConfig
	Backend BackendConfig
	DB      DBConfig
	Storage StorageConfig
	Redis   RedisConfig
	HTTP    HTTPConfig
	SSO     SSOConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// Backend drivers.
const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// BackendConfig hosted backend settings. URL and AnonKey are validated by the client factory, not here.
type BackendConfig struct {
	URL     string
	AnonKey string
	Driver  string
}

// DBConfig PostgreSQL settings for the direct driver.
// When DatabaseURL is set it is used as-is (e.g. the Supabase DATABASE_URL).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns DATABASE_URL when present, otherwise DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds a postgres URL, escaping special characters in the password.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Storage targets for session persistence.
const (
	TargetNative = "native"
	TargetWeb    = "web"
	TargetMemory = "memory"
)

// StorageConfig session storage settings.
type StorageConfig struct {
	Target    string
	Service   string // keyring service name
	ChunkSize int    // bytes per secure-storage item
}

// RedisConfig backs the web storage target.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// HTTPConfig local API listener.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SSOConfig identity provider settings.
type SSOConfig struct {
	CallbackBaseURL string
	Providers       map[string]SSOProvider // keyed by strategy, e.g. oauth_google
}

// SSOProvider OAuth2 client settings for one provider.
type SSOProvider struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scopes       []string
}

// CallbackURL is the fixed redirect address of the SSO handshake.
func (c SSOConfig) CallbackURL() string {
	return strings.TrimRight(c.CallbackBaseURL, "/") + "/sso-callback"
}

// provider name in env keys -> strategy and default endpoints.
var ssoProviders = []struct {
	env, strategy, authURL, tokenURL, scopes string
}{
	{"GOOGLE", "oauth_google", "https://accounts.google.com/o/oauth2/auth", "https://oauth2.googleapis.com/token", "openid email profile"},
	{"APPLE", "oauth_apple", "https://appleid.apple.com/auth/authorize", "https://appleid.apple.com/auth/token", "openid email name"},
	{"FACEBOOK", "oauth_facebook", "https://www.facebook.com/v19.0/dialog/oauth", "https://graph.facebook.com/v19.0/oauth/access_token", "openid email"},
}

// Load reads the configuration from environment variables and, if present, from .env or config.env.
// Env vars win. Names: APP_ENV, SUPABASE_URL, SUPABASE_ANON_KEY, STORAGE_TARGET, SSO_GOOGLE_CLIENT_ID, ...
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "khata"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Backend: BackendConfig{
			URL:     strings.TrimSpace(getString(v, "SUPABASE_URL", "")),
			AnonKey: strings.TrimSpace(getString(v, "SUPABASE_ANON_KEY", "")),
			Driver:  getString(v, "BACKEND_DRIVER", DriverPostgREST),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "postgres"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Target:    getString(v, "STORAGE_TARGET", TargetNative),
			Service:   getString(v, "STORAGE_SERVICE", "khata"),
			ChunkSize: getInt(v, "STORAGE_CHUNK_SIZE", 1800),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8787),
		},
		SSO: SSOConfig{
			CallbackBaseURL: getString(v, "SSO_CALLBACK_BASE_URL", "http://127.0.0.1:8787"),
			Providers:       map[string]SSOProvider{},
		},
	}

	switch cfg.Backend.Driver {
	case DriverPostgREST, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown BACKEND_DRIVER %q", cfg.Backend.Driver)
	}
	switch cfg.Storage.Target {
	case TargetNative, TargetWeb, TargetMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_TARGET %q", cfg.Storage.Target)
	}
	if cfg.Storage.ChunkSize <= 0 {
		return nil, fmt.Errorf("config: STORAGE_CHUNK_SIZE must be positive, got %d", cfg.Storage.ChunkSize)
	}

	for _, p := range ssoProviders {
		prefix := "SSO_" + p.env + "_"
		clientID := getString(v, prefix+"CLIENT_ID", "")
		if clientID == "" {
			continue
		}
		cfg.SSO.Providers[p.strategy] = SSOProvider{
			ClientID:     clientID,
			ClientSecret: getString(v, prefix+"CLIENT_SECRET", ""),
			AuthURL:      getString(v, prefix+"AUTH_URL", p.authURL),
			TokenURL:     getString(v, prefix+"TOKEN_URL", p.tokenURL),
			Scopes:       strings.Fields(getString(v, prefix+"SCOPES", p.scopes)),
		}
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
