package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Policy is the house bookkeeping policy: the expense category set and the
// per-day meal count cap used for input validation. It lives in settings.yml
// so an operator can adjust it without a rebuild.
type Policy struct {
	Categories     []string `mapstructure:"categories"`
	MaxMealsPerDay float64  `mapstructure:"maxMealsPerDay"`
}

func DefaultPolicy() Policy {
	return Policy{
		Categories:     []string{"Rice", "Fish", "Meat", "Vegetables", "Utility", "Others"},
		MaxMealsPerDay: 3,
	}
}

// HasCategory reports whether name is one of the configured categories.
func (p Policy) HasCategory(name string) bool {
	for _, category := range p.Categories {
		if strings.EqualFold(category, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// PolicyHolder hot-reloads the policy from settings.yml.
type PolicyHolder struct {
	current atomic.Value // holds Policy
}

func NewPolicyHolder() (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("settings")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/messbook/config")
	v.AddConfigPath("/etc/messbook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MESSBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPolicy()
		v.SetDefault("policy.categories", defaults.Categories)
		v.SetDefault("policy.maxMealsPerDay", defaults.MaxMealsPerDay)
	}

	var policy Policy
	if err := v.UnmarshalKey("policy", &policy); err != nil {
		return nil, err
	}
	if err := validatePolicy(policy); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Policy
		if err := v.UnmarshalKey("policy", &updated); err != nil {
			log.Printf("[policy] reload failed: %v", err)
			return
		}
		if err := validatePolicy(updated); err != nil {
			log.Printf("[policy] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPolicyHolder returns a holder pinned to the given policy. Tests
// use it to avoid touching the filesystem.
func NewStaticPolicyHolder(policy Policy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func (h *PolicyHolder) Get() Policy {
	return h.current.Load().(Policy)
}

func validatePolicy(policy Policy) error {
	if len(policy.Categories) == 0 {
		return errors.New("policy.categories cannot be empty")
	}
	if policy.MaxMealsPerDay <= 0 {
		return errors.New("policy.maxMealsPerDay must be positive")
	}
	return nil
}
