package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt("depth"), 3)
	is.Equal(c.GetInt("threads"), 1)
	is.Equal(c.GetBool("debug"), false)
	is.Equal(c.GetString("white-player"), "minimax")
	is.Equal(c.GetString("nats-url"), "nats://localhost:4222")
	is.Equal(c.GetString("results-db"), "")
}

func TestFlagsOverrideDefaults(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--depth", "5", "--debug", "suite.txt"})
	is.NoErr(err)
	is.Equal(c.GetInt("depth"), 5)
	is.Equal(c.GetBool("debug"), true)
	is.Equal(c.Args(), []string{"suite.txt"})
}

func TestEnvOverridesDefaults(t *testing.T) {
	is := is.New(t)
	t.Setenv("PATZER_DEPTH", "7")
	t.Setenv("PATZER_MAX_PLIES", "50")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt("depth"), 7)
	is.Equal(c.GetInt("max-plies"), 50)
}

func TestSetOverridesEverything(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--depth", "5"}))
	c.Set("depth", 9)
	is.Equal(c.GetInt("depth"), 9)
}

func TestBadFlagErrors(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"--no-such-flag"}) != nil)
}
