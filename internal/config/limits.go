package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LimitsConfig holds the daily quota for each metered feature on the free plan.
type LimitsConfig struct {
	Recommendation int `mapstructure:"recommendation"`
	MrDpChat       int `mapstructure:"mrDpChat"`
	QuickDope      int `mapstructure:"quickDope"`
}

// DefaultLimitsConfig returns the product's fixed free-tier daily limits.
func DefaultLimitsConfig() LimitsConfig {
	return LimitsConfig{
		Recommendation: 5,
		MrDpChat:       10,
		QuickDope:      3,
	}
}

// LimitsConfigHolder serves the current limits and hot-reloads the optional
// limits file when it changes on disk.
type LimitsConfigHolder struct {
	current atomic.Value // holds LimitsConfig
}

// NewLimitsConfigHolder loads limits.yml if present, falling back to defaults.
func NewLimitsConfigHolder() (*LimitsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("limits")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/neurostream/config")
	v.AddConfigPath("/etc/neurostream")
	v.AddConfigPath(".")

	v.SetEnvPrefix("NEUROSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &LimitsConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultLimitsConfig())
		return holder, nil
	}

	cfg, err := unmarshalLimits(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.OnConfigChange(func(fsnotify.Event) {
		updated, err := unmarshalLimits(v)
		if err != nil {
			return
		}
		holder.current.Store(updated)
	})
	v.WatchConfig()

	return holder, nil
}

// Current returns the limits in effect.
func (h *LimitsConfigHolder) Current() LimitsConfig {
	if value, ok := h.current.Load().(LimitsConfig); ok {
		return value
	}
	return DefaultLimitsConfig()
}

func unmarshalLimits(v *viper.Viper) (LimitsConfig, error) {
	cfg := DefaultLimitsConfig()
	if err := v.UnmarshalKey("limits", &cfg); err != nil {
		return LimitsConfig{}, err
	}
	defaults := DefaultLimitsConfig()
	if cfg.Recommendation <= 0 {
		cfg.Recommendation = defaults.Recommendation
	}
	if cfg.MrDpChat <= 0 {
		cfg.MrDpChat = defaults.MrDpChat
	}
	if cfg.QuickDope <= 0 {
		cfg.QuickDope = defaults.QuickDope
	}
	return cfg, nil
}
