// Package config holds the knobs shared by the patzer binaries. Values
// resolve in the usual viper order: explicit Set, then command-line
// flags, then PATZER_* environment variables, then flag defaults.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	v    *viper.Viper
	rest []string
}

// Load parses args and binds the flag set into viper. Non-flag
// arguments remain available through Args.
func (c *Config) Load(args []string) error {
	c.v = viper.New()

	fs := pflag.NewFlagSet("patzer", pflag.ContinueOnError)
	fs.Bool("debug", false, "log debug information")
	fs.Int("depth", 3, "search depth in plies")
	fs.Int("threads", 1, "workers used to split the root moves")
	fs.Int("max-plies", 300, "abort self-play games after this many plies")
	fs.Int("batch-workers", 4, "games played concurrently in a batch run")
	fs.String("white-player", "minimax", "White player spec for self-play (minimax[:depth], random, first)")
	fs.String("black-player", "minimax", "Black player spec for self-play")
	fs.String("nats-url", "nats://localhost:4222", "URL of the NATS server")
	fs.String("bot-subject", "patzer.bestmove", "NATS subject the move service answers on")
	fs.String("results-db", "", "optional sqlite file batch results are written to")
	fs.String("cpu-profile", "", "write a CPU profile to this file")
	fs.String("mem-profile", "", "write a memory profile to this file on exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.rest = fs.Args()

	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}
	c.v.SetEnvPrefix("patzer")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return nil
}

// DefaultConfig returns a config loaded with no arguments. Tests use it.
func DefaultConfig() Config {
	c := Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}

// Args returns the non-flag arguments left over from Load.
func (c *Config) Args() []string {
	return c.rest
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// Set overrides a key at runtime; the shell's set command uses this.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// AllSettings dumps the resolved settings map.
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}
