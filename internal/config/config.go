// internal/config/config.go
//
// Runtime configuration.
//
// Values are resolved by viper in this order: command-line flag, environment
// variable, .env file (loaded into the environment by godotenv), default.
// Environment variable names are the upper-case keys (PORT, LOG_LEVEL, ...).

package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyPort           = "port"
	KeyLogLevel       = "log_level"
	KeyDBPath         = "db_path"
	KeyWordsFile      = "words_file"
	KeyPastWordsFile  = "past_words_file"
	KeyExcludePast    = "exclude_past_words"
	KeyJWTSecret      = "jwt_secret"
	KeyJWTExpiresDays = "jwt_expires_days"
	KeyCookieName     = "cookie_name"
	KeyClientOrigin   = "client_origin"
	KeyDailySalt      = "daily_salt"
	KeyEnv            = "node_env"
	KeyMaxGuesses     = "max_guesses"
	KeySeed           = "seed"
)

const devSecret = "dev_secret_change_me"

// Config is the resolved configuration shared by every command.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	WordsFile      string
	PastWordsFile  string
	ExcludePast    bool
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	Env            string
	MaxGuesses     int
	Seed           int64
}

// Production reports whether NODE_ENV=production; cookies are then Secure.
func (c Config) Production() bool { return c.Env == "production" }

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "5175")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDBPath, "./data/solver.db")
	v.SetDefault(KeyWordsFile, "")
	v.SetDefault(KeyPastWordsFile, "")
	v.SetDefault(KeyExcludePast, true)
	v.SetDefault(KeyJWTSecret, devSecret)
	v.SetDefault(KeyJWTExpiresDays, 14)
	v.SetDefault(KeyCookieName, "wordle_token")
	v.SetDefault(KeyClientOrigin, "http://localhost:5173")
	v.SetDefault(KeyDailySalt, "local_dev_salt")
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyMaxGuesses, 6)
	v.SetDefault(KeySeed, 0)
}

// NewViper returns a viper instance reading the environment, after loading any
// .env file in the working directory.
func NewViper() *viper.Viper {
	_ = godotenv.Load()
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load resolves a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Port:           v.GetString(KeyPort),
		LogLevel:       v.GetString(KeyLogLevel),
		DBPath:         v.GetString(KeyDBPath),
		WordsFile:      v.GetString(KeyWordsFile),
		PastWordsFile:  v.GetString(KeyPastWordsFile),
		ExcludePast:    v.GetBool(KeyExcludePast),
		JWTSecret:      v.GetString(KeyJWTSecret),
		JWTExpiresDays: v.GetInt(KeyJWTExpiresDays),
		CookieName:     v.GetString(KeyCookieName),
		ClientOrigin:   v.GetString(KeyClientOrigin),
		DailySalt:      v.GetString(KeyDailySalt),
		Env:            v.GetString(KeyEnv),
		MaxGuesses:     v.GetInt(KeyMaxGuesses),
		Seed:           v.GetInt64(KeySeed),
	}
	return c, c.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port is required")
	}
	if c.MaxGuesses < 1 || c.MaxGuesses > 20 {
		return errors.New("config: max_guesses must be 1-20")
	}
	if c.JWTExpiresDays < 1 {
		return errors.New("config: jwt_expires_days must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.New("config: unknown log_level " + c.LogLevel)
	}
	if c.Production() && c.JWTSecret == devSecret {
		return errors.New("config: jwt_secret must be set in production")
	}
	return nil
}
