package stubstore

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/libadmin/internal/flagx"
)

// Config holds the stub server settings.
//
// Fields:
//   - Addr: listen address.
//   - FailReports: answer 500 on every report endpoint.
//   - Empty: start without demo data.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr        string
	FailReports bool
	Empty       bool
	LogLevel    string
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8000"
	c.FailReports = false
	c.Empty = false
	c.LogLevel = "info"
}

// LoadConfig applies defaults and then command-line flags:
//
//	-addr string     listen address
//	-fail-reports    make report endpoints fail
//	-empty           skip demo data
//	-l string        log level
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	args = flagx.FilterArgs(args, []string{"-addr", "-fail-reports", "-empty", "-l"})
	fs := flag.NewFlagSet("stubserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.BoolVar(&cfg.FailReports, "fail-reports", cfg.FailReports, "answer 500 on report endpoints")
	fs.BoolVar(&cfg.Empty, "empty", cfg.Empty, "start without demo data")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	return cfg, nil
}
