package config

import (
	"fmt"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"time"
)

type Config struct {
	ServerAddress         string        `mapstructure:"address"`
	DatabaseURI           string        `mapstructure:"database-uri"`
	ReverseDNSAPIEndpoint string        `mapstructure:"reverse-dns-api-endpoint"`
	ReverseDNSAPITimeout  time.Duration `mapstructure:"reverse-dns-api-timeout"`
}

var envs = map[string]string{
	"address":                  "SERVER_ADDRESS",
	"database-uri":             "DATABASE_URI",
	"reverse-dns-api-endpoint": "REVERSE_DNS_API_ENDPOINT",
	"reverse-dns-api-timeout":  "REVERSE_DNS_API_TIMEOUT",
}

// Parse reads flags from args. A flag set on the command line wins over its
// environment variable, which wins over the default.
func Parse(name string, args []string) (Config, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("address", "a", ":8080", "address to listen on")
	fs.StringP("database-uri", "d", "host=localhost port=5432 user=vancho password=vancho_pswd dbname=vancho_db sslmode=disable", "database connection string")
	fs.StringP("reverse-dns-api-endpoint", "r", "", "reverse DNS API endpoint")
	fs.DurationP("reverse-dns-api-timeout", "t", 30*time.Second, "reverse DNS API request timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse: error parsing flags: %w", err)
	}

	v := viper.New()
	for key, env := range envs {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return Config{}, fmt.Errorf("parse: error binding flag %s: %w", key, err)
		}
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("parse: error binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse: error decoding config: %w", err)
	}
	return cfg, nil
}
