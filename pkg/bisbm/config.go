package bisbm

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages algorithm configuration using Viper.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults matching the
// reference driver.
func NewConfig() *Config {
	v := viper.New()

	// Algorithm parameters
	v.SetDefault("algorithm.epsilon", 1.0)
	v.SetDefault("algorithm.strategy", string(StrategyTiago))
	v.SetDefault("algorithm.cooling_schedule", ScheduleAbruptCool)
	v.SetDefault("algorithm.cooling_kwargs", []float64{})
	v.SetDefault("algorithm.seed", time.Now().UnixNano())
	v.SetDefault("algorithm.randomize", false)

	// Sampling parameters. Burn-in and sampling frequency are accepted
	// for compatibility with the marginalize mode and unused while
	// maximizing.
	v.SetDefault("sampling.burn_in", 1000)
	v.SetDefault("sampling.duration", 1000)
	v.SetDefault("sampling.frequency", 10)
	v.SetDefault("sampling.steps_await", 1000)

	// Logging parameters
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads configuration from file.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for algorithm parameters
func (c *Config) Epsilon() float64 { return c.v.GetFloat64("algorithm.epsilon") }
func (c *Config) Strategy() StrategyKind {
	return StrategyKind(c.v.GetString("algorithm.strategy"))
}
func (c *Config) CoolingSchedule() string { return c.v.GetString("algorithm.cooling_schedule") }
func (c *Config) Seed() int64 { return c.v.GetInt64("algorithm.seed") }
func (c *Config) Randomize() bool { return c.v.GetBool("algorithm.randomize") }

func (c *Config) CoolingKwargs() []float64 {
	if kwargs, ok := c.v.Get("algorithm.cooling_kwargs").([]float64); ok {
		return kwargs
	}
	var kwargs []float64
	for _, item := range c.v.GetStringSlice("algorithm.cooling_kwargs") {
		value, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil
		}
		kwargs = append(kwargs, value)
	}
	return kwargs
}

func (c *Config) BurnIn() int { return c.v.GetInt("sampling.burn_in") }
func (c *Config) Duration() int { return c.v.GetInt("sampling.duration") }
func (c *Config) SamplingFrequency() int { return c.v.GetInt("sampling.frequency") }
func (c *Config) StepsAwait() int { return c.v.GetInt("sampling.steps_await") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config. Diagnostics go
// to stderr; stdout is reserved for the final membership line.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "bisbm").Logger()
}
