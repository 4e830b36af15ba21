package config

import (
	"strings"

	"github.com/filegram/filegram"
	"github.com/filegram/filegram/crypto/ciphers"
	"github.com/filegram/filegram/imagefile"
	"github.com/filegram/filegram/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DefaultKeyFile is where the key artifact is written and read when no path is given.
	DefaultKeyFile = "filegram.key"

	envPrefix = "FILEGRAM"
)

// Config contains all settings for the fig command.
type Config struct {
	LogLevel    uint32
	KeyFile     string
	KeyFormat   filegram.KeyFormat
	Engine      string
	ImageFormat imagefile.Format
}

// NewDefaultConfig creates a new Config with default settings.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:    uint32(log.InfoLevel),
		KeyFile:     DefaultKeyFile,
		KeyFormat:   filegram.KeyFormatJSON,
		Engine:      ciphers.DefaultEngine,
		ImageFormat: imagefile.FormatPNG,
	}
}

// NewConfig creates a new Config with default settings and applies any
// settings from the given YAML configuration file and from FILEGRAM_*
// environment variables. An empty path skips the file.
func NewConfig(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	config := NewDefaultConfig()

	if v.IsSet("log.level") {
		level, err := logger.ParseLevel(v.GetString("log.level"))
		if err != nil {
			return nil, err
		}
		config.LogLevel = level
	}

	if v.IsSet("key.file") {
		config.KeyFile = v.GetString("key.file")
	}

	if v.IsSet("key.format") {
		format, err := filegram.ParseKeyFormat(v.GetString("key.format"))
		if err != nil {
			return nil, err
		}
		config.KeyFormat = format
	}

	if v.IsSet("cipher.engine") {
		config.Engine = v.GetString("cipher.engine")
	}

	if v.IsSet("image.format") {
		format, err := imagefile.ParseFormat(v.GetString("image.format"))
		if err != nil {
			return nil, err
		}
		config.ImageFormat = format
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings that cannot be verified while parsing.
func (c *Config) Validate() error {
	if !ciphers.IsEngineSupported(c.Engine) {
		return errors.Wrapf(ciphers.ErrEngineNotSupported, "cipher.engine %q", c.Engine)
	}
	if c.KeyFile == "" {
		return errors.New("key.file cannot be empty")
	}
	return nil
}
