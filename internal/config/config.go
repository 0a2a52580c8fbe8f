package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultDSN = "packer.db"

// Config is the runtime configuration. Every key can be set from the
// environment with the PACKER_ prefix, e.g. PACKER_DB_DSN.
type Config struct {
	Addr       string
	DBDriver   string
	DBDSN      string
	SigningKey string
	Strict     bool
	Timezone   string
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("validation.strict", false)
	v.SetDefault("stats.timezone", "Local")
	v.SetEnvPrefix("packer")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and resolves the configuration.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	cfg := &Config{
		Addr:       v.GetString("addr"),
		DBDriver:   v.GetString("db.driver"),
		DBDSN:      v.GetString("db.dsn"),
		SigningKey: v.GetString("auth.signing_key"),
		Strict:     v.GetBool("validation.strict"),
		Timezone:   v.GetString("stats.timezone"),
	}
	// DEV_DB predates the PACKER_ variables.
	if cfg.DBDSN == "" {
		cfg.DBDSN = os.Getenv("DEV_DB")
	}
	if cfg.DBDSN == "" {
		cfg.DBDSN = DefaultDSN
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone; "Local" and "" mean the host's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("stats timezone: %w", err)
	}
	return loc, nil
}
