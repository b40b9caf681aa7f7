package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
)

// Config is the declarative logger configuration.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// Output is one of stderr (default), stdout or null.
	Output string `json:"output" yaml:"output"`
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		return NewLogger(), nil
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var format Format
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		format = FormatText
	case "json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "null":
		out = io.Discard
	default:
		return nil, fmt.Errorf("log: unknown output %q", cfg.Output)
	}
	return NewLogger(WithLevel(level), WithFormat(format), WithOutput(out)), nil
}

// RedirectStdLog sends output of the standard library logger to l at info level.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{l: l.WithComponent("stdlog")})
}

type stdWriter struct{ l Logger }

func (w stdWriter) Write(p []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
