// Package config loads service settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cristianadrielbraun/qrstyle/internal/encoder"
	"github.com/cristianadrielbraun/qrstyle/internal/grid"
	"github.com/cristianadrielbraun/qrstyle/internal/logo"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
)

const (
	defaultPort          = "8080"
	defaultMaxConcurrent = 4
	envPrefix            = "QRSTYLE_"
)

type Config struct {
	Listen    string `yaml:"listen"`
	Mode      string `yaml:"mode"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Encoder              string `yaml:"encoder"`
	Estimator            string `yaml:"estimator"`
	MaxWidth             int    `yaml:"max_width"`
	MaxConcurrentRenders int64  `yaml:"max_concurrent_renders"`
	Verify               bool   `yaml:"verify"`

	AllowRemoteLogos  bool          `yaml:"allow_remote_logos"`
	RemoteLogoTimeout time.Duration `yaml:"remote_logo_timeout"`
	MaxLogoBytes      int64         `yaml:"max_logo_bytes"`

	CORSOrigins []string `yaml:"cors_origins"`
}

func Default() *Config {
	return &Config{
		Listen:               ":" + defaultPort,
		Mode:                 "release",
		LogLevel:             "info",
		LogFormat:            "text",
		Encoder:              encoder.BackendYeqown,
		Estimator:            grid.EstimatorRunLength,
		MaxWidth:             render.DefaultMaxWidth,
		MaxConcurrentRenders: defaultMaxConcurrent,
		RemoteLogoTimeout:    logo.DefaultTimeout,
		MaxLogoBytes:         logo.DefaultMaxBytes,
		CORSOrigins:          []string{"*"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	// PORT is honored for hosting platforms that only set that.
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Listen = ":" + port
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("LISTEN", &c.Listen)
	str("MODE", &c.Mode)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("ENCODER", &c.Encoder)
	str("ESTIMATOR", &c.Estimator)

	if v, ok := lookup(envPrefix + "CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = c.CORSOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}

	var errs []error
	parse := func(key string, set func(string) error) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			if err := set(v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			}
		}
	}
	parse("MAX_WIDTH", func(v string) (err error) {
		c.MaxWidth, err = strconv.Atoi(v)
		return err
	})
	parse("MAX_CONCURRENT_RENDERS", func(v string) (err error) {
		c.MaxConcurrentRenders, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	parse("VERIFY", func(v string) (err error) {
		c.Verify, err = strconv.ParseBool(v)
		return err
	})
	parse("ALLOW_REMOTE_LOGOS", func(v string) (err error) {
		c.AllowRemoteLogos, err = strconv.ParseBool(v)
		return err
	})
	parse("REMOTE_LOGO_TIMEOUT", func(v string) (err error) {
		c.RemoteLogoTimeout, err = time.ParseDuration(v)
		return err
	})
	parse("MAX_LOGO_BYTES", func(v string) (err error) {
		c.MaxLogoBytes, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	return errors.Join(errs...)
}

// Validate rejects unknown enum values and out of range limits.
func (c *Config) Validate() error {
	var errs []error
	if _, err := encoder.New(c.Encoder); err != nil {
		errs = append(errs, err)
	}
	if _, err := grid.NewEstimator(c.Estimator); err != nil {
		errs = append(errs, err)
	}
	switch c.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.MaxWidth < render.MinWidth {
		errs = append(errs, fmt.Errorf("max_width must be at least %d", render.MinWidth))
	}
	if c.MaxConcurrentRenders < 1 {
		errs = append(errs, errors.New("max_concurrent_renders must be at least 1"))
	}
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	return errors.Join(errs...)
}
