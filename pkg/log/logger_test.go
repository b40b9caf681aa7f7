package log

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: DebugLevel},
		{in: "INFO", want: InfoLevel},
		{in: "", want: InfoLevel},
		{in: "warning", want: WarnLevel},
		{in: "error", want: ErrorLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseLevel(%q)=%v want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormat(FormatJSON), WithOutput(&buf))
	l.WithComponent("idgen").Info("ready", Int64("worker", 5), Err(errors.New("boom")))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if m["msg"] != "ready" || m["component"] != "idgen" || m["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", m)
	}
	if m["worker"] != float64(5) {
		t.Fatalf("worker field: %v", m["worker"])
	}
}

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(WarnLevel), WithOutput(&buf))
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %s", buf.String())
	}
	child := l.With(Str("k", "v"))
	child.SetLevel(DebugLevel)
	if l.GetLevel() != DebugLevel {
		t.Fatalf("child shares level with parent")
	}
	l.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}

func TestApplyConfig(t *testing.T) {
	l, err := ApplyConfig(&Config{Level: "debug", Format: "json", Output: "null"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if l.GetLevel() != DebugLevel {
		t.Fatalf("level: %v", l.GetLevel())
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := ApplyConfig(&Config{Output: "syslog"}); err == nil {
		t.Fatalf("expected error for unknown output")
	}
}

func TestRedirectStdLog(t *testing.T) {
	var buf bytes.Buffer
	RedirectStdLog(NewLogger(WithOutput(&buf)))
	t.Cleanup(func() {
		stdlog.SetOutput(os.Stderr)
		stdlog.SetFlags(stdlog.LstdFlags)
	})

	stdlog.Printf("pebble says hi")
	out := buf.String()
	if !strings.Contains(out, "pebble says hi") || !strings.Contains(out, "component=stdlog") {
		t.Fatalf("unexpected redirect output: %q", out)
	}
}
