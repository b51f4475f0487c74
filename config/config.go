// Package config binds the process environment into a typed Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"prono-league/utils"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string `env:"DATABASE_URL" env-required:"true" env-description:"PostgreSQL connection string"`
	HTTPAddr       string `env:"HTTP_ADDR" env-default:":5200" env-description:"HTTP listen address"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" env-default:"http://localhost:3000" env-description:"comma separated CORS origins"`
	AdminToken     string `env:"ADMIN_TOKEN" env-description:"bearer token for admin routes"`

	PredictionCutoff    time.Duration `env:"PREDICTION_CUTOFF" env-default:"5m" env-description:"how long before kickoff predictions close"`
	TotalsAuditInterval time.Duration `env:"TOTALS_AUDIT_INTERVAL" env-default:"0s" env-description:"totals audit period, 0 disables it"`
	LogLevel            string        `env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`

	R2 R2
}

type R2 struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

// Enabled reports whether leaderboard export can reach a bucket.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.Bucket != "" && r.AccessKeyID != "" && r.AccessKeySecret != ""
}

func (r R2) StoreConfig() utils.R2Config {
	return utils.R2Config{
		AccountID:       r.AccountID,
		AccessKeyID:     r.AccessKeyID,
		AccessKeySecret: r.AccessKeySecret,
		Bucket:          r.Bucket,
		CDNBaseURL:      r.CDNBaseURL,
	}
}

// Load reads envFile (if it exists) into the environment and then binds the
// environment. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
			slog.Debug("no env file found, reading environment variables directly", "file", envFile)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	origins := strings.Split(cfg.AllowedOrigins, ",")
	kept := origins[:0]
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			kept = append(kept, o)
		}
	}
	cfg.AllowedOrigins = strings.Join(kept, ",")
	cfg.AdminToken = strings.TrimSpace(cfg.AdminToken)

	if cfg.PredictionCutoff < 0 {
		return nil, fmt.Errorf("PREDICTION_CUTOFF must not be negative, got %s", cfg.PredictionCutoff)
	}
	if cfg.TotalsAuditInterval < 0 {
		return nil, fmt.Errorf("TOTALS_AUDIT_INTERVAL must not be negative, got %s", cfg.TotalsAuditInterval)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireAdminToken fails when the admin routes would be unreachable.
func (c *Config) RequireAdminToken() error {
	if c.AdminToken == "" {
		return errors.New("ADMIN_TOKEN is required to serve the API")
	}
	return nil
}

// ParseLevel maps LOG_LEVEL onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// Usage describes every variable, for the CLI help text.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
