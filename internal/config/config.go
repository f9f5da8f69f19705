// Package config loads service configuration from an optional YAML file and
// SUNPATH_* environment variables.
//
// Malformed or out-of-range values are logged and replaced by their defaults
// so a typo in one setting does not stop the service. The exception is auth:
// an unparsable auth.enabled, or auth enabled without a token, is an error.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/star/sunpath/internal/auth"
	"github.com/star/sunpath/internal/solar"
	"github.com/star/sunpath/internal/stream"
)

// EnvPrefix is prepended to every environment variable, e.g. SUNPATH_HTTP_ADDR.
const EnvPrefix = "SUNPATH"

// Defaults are the fallback inputs used when a request omits them.
type Defaults struct {
	Latitude float64
	Radius   float64
}

// Config is the fully resolved service configuration.
type Config struct {
	Addr       string
	TrustProxy bool
	LogLevel   slog.Level
	Auth       auth.Config
	Model      solar.Model
	Defaults   Defaults
	Stream     stream.Config
}

// MaxRadius bounds the plot radius accepted from clients.
const MaxRadius = 100.0

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.trust_proxy", false)
	v.SetDefault("log.level", "debug")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.token", "")

	v.SetDefault("model.axial_tilt", solar.DefaultAxialTilt)
	v.SetDefault("model.day_offset", solar.DefaultDayOffset)
	v.SetDefault("model.year_length", solar.DefaultYearLength)
	v.SetDefault("model.samples", solar.DefaultSamples)

	v.SetDefault("defaults.latitude", 45.0)
	v.SetDefault("defaults.radius", 1.0)

	v.SetDefault("stream.max_concurrent_per_ip", 10)
	v.SetDefault("stream.keepalive_interval", "30s")
	v.SetDefault("stream.max_interval", "5s")
}

// Load resolves configuration. path names an optional config file; when it is
// empty only defaults and the environment are used.
func Load(path string, logger *slog.Logger) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		logger.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return fromViper(v, logger)
}

func fromViper(v *viper.Viper, logger *slog.Logger) (Config, error) {
	l := loader{v: v, logger: logger}

	authCfg, err := l.auth()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:       l.str("http.addr", ":8080"),
		TrustProxy: l.boolean("http.trust_proxy", false),
		LogLevel:   l.level("log.level", slog.LevelDebug),
		Auth:       authCfg,
		Model: solar.Model{
			AxialTilt:  l.float("model.axial_tilt", solar.DefaultAxialTilt, 0, 90, false),
			DayOffset:  l.float("model.day_offset", solar.DefaultDayOffset, math.Inf(-1), math.Inf(1), true),
			YearLength: l.float("model.year_length", solar.DefaultYearLength, 0, math.Inf(1), false),
			Samples:    l.integer("model.samples", solar.DefaultSamples, 2, 100000),
		},
		Defaults: Defaults{
			Latitude: l.float("defaults.latitude", 45, -90, 90, true),
			Radius:   l.float("defaults.radius", 1, 0, MaxRadius, false),
		},
		Stream: stream.Config{
			MaxConcurrentPerIP: l.integer("stream.max_concurrent_per_ip", 10, 1, math.MaxInt32),
			KeepaliveInterval:  l.duration("stream.keepalive_interval", 30*time.Second),
			MaxInterval:        l.duration("stream.max_interval", 5*time.Second),
		},
	}
	cfg.Stream.TrustProxy = cfg.TrustProxy
	cfg.Stream.DefaultLatitude = cfg.Defaults.Latitude
	cfg.Stream.DefaultRadius = cfg.Defaults.Radius

	logger.Info("model config",
		"axial_tilt", cfg.Model.AxialTilt,
		"day_offset", cfg.Model.DayOffset,
		"year_length", cfg.Model.YearLength,
		"samples", cfg.Model.Samples,
	)
	logger.Info("stream config",
		"max_concurrent_per_ip", cfg.Stream.MaxConcurrentPerIP,
		"keepalive_interval_seconds", cfg.Stream.KeepaliveInterval.Seconds(),
		"max_interval_seconds", cfg.Stream.MaxInterval.Seconds(),
	)

	return cfg, nil
}

// loader reads typed values, warning and defaulting on anything it cannot use.
type loader struct {
	v      *viper.Viper
	logger *slog.Logger
}

func (l loader) invalid(key string, value any, def any) {
	l.logger.Warn("invalid config value, using default", "key", key, "value", value, "default", def)
}

func (l loader) auth() (auth.Config, error) {
	cfg := auth.Config{}

	enabled, err := cast.ToBoolE(l.v.Get("auth.enabled"))
	if err != nil {
		return cfg, errors.New("auth.enabled must be a boolean value (true/false/1/0)")
	}
	cfg.Enabled = enabled

	if cfg.Enabled {
		cfg.Token = l.v.GetString("auth.token")
		if cfg.Token == "" {
			return cfg, errors.New("auth.token is required when auth is enabled")
		}
		l.logger.Info("auth enabled")
	}
	return cfg, nil
}

func (l loader) str(key, def string) string {
	s := strings.TrimSpace(l.v.GetString(key))
	if s == "" {
		l.invalid(key, s, def)
		return def
	}
	return s
}

func (l loader) boolean(key string, def bool) bool {
	raw := l.v.Get(key)
	b, err := cast.ToBoolE(raw)
	if err != nil {
		l.invalid(key, raw, def)
		return def
	}
	return b
}

func (l loader) level(key string, def slog.Level) slog.Level {
	raw := l.v.GetString(key)
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		l.invalid(key, raw, def.String())
		return def
	}
	return lvl
}

// float reads a finite number in (lo, hi], or [lo, hi] when inclusive.
func (l loader) float(key string, def, lo, hi float64, inclusive bool) float64 {
	raw := l.v.Get(key)
	f, err := cast.ToFloat64E(raw)
	ok := err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && f <= hi
	if ok {
		if inclusive {
			ok = f >= lo
		} else {
			ok = f > lo
		}
	}
	if !ok {
		l.invalid(key, raw, def)
		return def
	}
	return f
}

func (l loader) integer(key string, def, lo, hi int) int {
	raw := l.v.Get(key)
	n, err := cast.ToIntE(raw)
	if err != nil || n < lo || n > hi {
		l.invalid(key, raw, def)
		return def
	}
	return n
}

func (l loader) duration(key string, def time.Duration) time.Duration {
	raw := l.v.Get(key)
	d, err := cast.ToDurationE(raw)
	if err != nil || d <= 0 {
		l.invalid(key, raw, def.String())
		return def
	}
	return d
}
