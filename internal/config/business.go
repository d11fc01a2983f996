package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BusinessProfile is the sender identity used in customer-facing emails.
type BusinessProfile struct {
	Name          string  `mapstructure:"name"`
	Signature     string  `mapstructure:"signature"`
	ReplyTo       string  `mapstructure:"replyTo"`
	Phone         string  `mapstructure:"phone"`
	IBAN          string  `mapstructure:"iban"`
	PortalURL     string  `mapstructure:"portalUrl"`
	DefaultKmRate float64 `mapstructure:"defaultKmRate"`
}

func DefaultBusinessProfile(cfg Config) BusinessProfile {
	return BusinessProfile{
		Name:          cfg.Business.Name,
		Signature:     cfg.Business.Name,
		ReplyTo:       cfg.SMTP.From,
		PortalURL:     cfg.Business.PortalURL,
		DefaultKmRate: cfg.Business.DefaultKmRate,
	}
}

type BusinessProfileHolder struct {
	current atomic.Value // holds BusinessProfile
}

// NewStaticBusinessProfileHolder wraps a fixed profile, mainly for tests.
func NewStaticBusinessProfileHolder(profile BusinessProfile) *BusinessProfileHolder {
	holder := &BusinessProfileHolder{}
	holder.current.Store(profile)
	return holder
}

func NewBusinessProfileHolder(cfg Config, log *zap.Logger) (*BusinessProfileHolder, error) {
	log = log.Named("config.business")
	v := viper.New()

	v.SetConfigName("business")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/gestionale")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GESTIONALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBusinessProfile(cfg)
	v.SetDefault("business.name", defaults.Name)
	v.SetDefault("business.signature", defaults.Signature)
	v.SetDefault("business.replyTo", defaults.ReplyTo)
	v.SetDefault("business.portalUrl", defaults.PortalURL)
	v.SetDefault("business.defaultKmRate", defaults.DefaultKmRate)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var profile BusinessProfile
	if err := v.UnmarshalKey("business", &profile); err != nil {
		return nil, err
	}
	if err := validateBusinessProfile(profile); err != nil {
		return nil, err
	}

	holder := NewStaticBusinessProfileHolder(profile)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BusinessProfile
		if err := v.UnmarshalKey("business", &updated); err != nil {
			log.Warn("business profile reload failed", zap.Error(err))
			return
		}
		if err := validateBusinessProfile(updated); err != nil {
			log.Warn("invalid business profile ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("business profile reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *BusinessProfileHolder) Get() BusinessProfile {
	return h.current.Load().(BusinessProfile)
}

func validateBusinessProfile(p BusinessProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("business.name cannot be empty")
	}
	if p.DefaultKmRate < 0 {
		return errors.New("business.defaultKmRate cannot be negative")
	}
	return nil
}
