package smtp

import (
	"errors"
	"fmt"
)

// Config holds the SMTP channel module configuration.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// From is the sender address. Defaults to Username.
	From string `yaml:"from"`

	// SSL selects implicit TLS (port 465 style) instead of STARTTLS.
	// Defaults to true.
	SSL *bool `yaml:"ssl"`
}

func (c *Config) defaults() {
	if c.Port == 0 {
		c.Port = 465
	}
	if c.From == "" {
		c.From = c.Username
	}
	if c.SSL == nil {
		t := true
		c.SSL = &t
	}
}

func (c *Config) sslEnabled() bool {
	return c.SSL == nil || *c.SSL
}

func (c *Config) validate() error {
	if c.Host == "" {
		return errors.New("notify.smtp: host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("notify.smtp: invalid port %d", c.Port)
	}
	if c.Username == "" {
		return errors.New("notify.smtp: username is required")
	}
	if c.Password == "" {
		return errors.New("notify.smtp: password is required")
	}
	return nil
}
