package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Info("built tree", "symbols", 3)

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("log line should start with an HH:MM:SS.ms timestamp: %q", line)
	}
	if !strings.Contains(line, "built tree") || !strings.Contains(line, "symbols=3") {
		t.Errorf("log line missing message or fields: %q", line)
	}
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		wantDbg bool
	}{
		{"default info hides debug", LogInfo, false},
		{"verbose shows debug", LogDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf, LogInfo)
			c.SetLogLevel(tt.level)

			c.Logger.Debug("layout cached")
			if got := strings.Contains(buf.String(), "layout cached"); got != tt.wantDbg {
				t.Errorf("debug output = %v, want %v", got, tt.wantDbg)
			}
		})
	}
}

// Commands log through the logger the root command puts in their context.
func TestCommandsUseCLILogger(t *testing.T) {
	isolateEnv(t)

	for _, verbose := range []bool{false, true} {
		var logs bytes.Buffer
		c := New(&logs, LogInfo)
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		root := c.RootCommand()
		root.SetArgs([]string{"analyze", "--text", "aaabbc", "--json"})
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		if err := root.Execute(); err != nil {
			t.Fatalf("analyze: %v", err)
		}

		got := logs.String()
		if verbose && !strings.Contains(got, "symbols=3") {
			t.Errorf("verbose analyze should log stats, got %q", got)
		}
		if !verbose && got != "" {
			t.Errorf("quiet analyze should not log, got %q", got)
		}
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Compressed notes.txt")

	if !regexp.MustCompile(`Compressed notes\.txt \(\d+(\.\d+)?[µnm]?s\)`).MatchString(buf.String()) {
		t.Errorf("unexpected progress line: %q", buf.String())
	}
}

func TestCompressLogsProgress(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("mississippi"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.InfoLevel))
	if _, err := runCompress(ctx, input, ""); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !strings.Contains(buf.String(), "Compressed "+input) {
		t.Errorf("compress should log through the context logger, got %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should fall back to log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
