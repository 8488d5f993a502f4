package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/huffviz/pkg/huffman/layout"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

var envKeys = []string{
	"HUFFVIZ_ADDR", "HUFFVIZ_MAX_UPLOAD_BYTES",
	"HUFFVIZ_STORAGE", "HUFFVIZ_STORAGE_DIR",
	"HUFFVIZ_MONGO_URI", "HUFFVIZ_MONGO_DATABASE", "HUFFVIZ_MONGO_COLLECTION",
	"HUFFVIZ_CACHE", "HUFFVIZ_CACHE_DIR",
	"HUFFVIZ_REDIS_ADDR", "HUFFVIZ_REDIS_DB", "HUFFVIZ_REDIS_PASSWORD",
	"HUFFVIZ_LAYOUT_POLICY", "HUFFVIZ_LAYOUT_SPAN", "HUFFVIZ_LAYOUT_SCALE", "HUFFVIZ_LAYOUT_LEVEL_HEIGHT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	// Keep the user's real config file out of the tests.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("Addr = %q, want :5000", cfg.Server.Addr)
	}
	if cfg.Server.MaxUploadBytes != 16<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.Storage.Backend != BackendFile || cfg.Cache.Backend != BackendFile {
		t.Errorf("backends = %q/%q, want file/file", cfg.Storage.Backend, cfg.Cache.Backend)
	}
	if cfg.Layout.Policy != layout.PolicyHalving || cfg.Layout.InitialSpan != layout.DefaultInitialSpan {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Server.ReadTimeout.Duration != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[server]
addr = "127.0.0.1:8080"
read_timeout = "5s"

[cache]
backend = "redis"
redis_addr = "redis:6379"
redis_db = 2
ttl = "1h"

[layout]
policy = "leaf-slots"
scale = 40.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	// Unset keys keep their defaults.
	if cfg.Server.WriteTimeout.Duration != 60*time.Second {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "redis:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Layout.Policy != layout.PolicyLeafSlots || cfg.Layout.Scale != 40 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.LevelHeight != layout.DefaultLevelHeight {
		t.Errorf("LevelHeight = %v", cfg.Layout.LevelHeight)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "huffviz"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[server]\naddr = \":9999\"\n"
	if err := os.WriteFile(filepath.Join(dir, "huffviz", "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Server.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadBadTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server\naddr = ")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server]\naddr = \":7000\"\n")

	t.Setenv("HUFFVIZ_ADDR", ":8000")
	t.Setenv("HUFFVIZ_REDIS_DB", "3")
	t.Setenv("HUFFVIZ_LAYOUT_SPAN", "8")
	t.Setenv("HUFFVIZ_STORAGE", "mongo")
	t.Setenv("HUFFVIZ_MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("env should override file: Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.Cache.RedisDB)
	}
	if cfg.Layout.InitialSpan != 8 {
		t.Errorf("InitialSpan = %v, want 8", cfg.Layout.InitialSpan)
	}
	if cfg.Storage.Backend != BackendMongo {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero upload", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "max_upload_bytes"},
		{"bad storage", func(c *Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"mongo without uri", func(c *Config) { c.Storage.Backend = BackendMongo }, "mongo_uri"},
		{"bad cache", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = BackendRedis
			c.Cache.RedisAddr = ""
		}, "redis_addr"},
		{"bad policy", func(c *Config) { c.Layout.Policy = "random" }, "layout.policy"},
		{"zero scale", func(c *Config) { c.Layout.Scale = 0 }, "layout.scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	cfg.Layout.Policy = "random"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "server.addr") || !strings.Contains(msg, "layout.policy") {
		t.Errorf("expected both errors, got %q", msg)
	}
}

func TestLayoutApply(t *testing.T) {
	l := Default().Layout
	l.Scale = 40

	opts := pipeline.Options{LevelHeight: 120}
	l.Apply(&opts)

	if opts.Scale != 40 {
		t.Errorf("Scale = %v, want 40", opts.Scale)
	}
	if opts.LevelHeight != 120 {
		t.Errorf("explicit LevelHeight should be kept, got %v", opts.LevelHeight)
	}
	if opts.Policy != layout.PolicyHalving || opts.Span != layout.DefaultInitialSpan {
		t.Errorf("policy/span = %q/%v", opts.Policy, opts.Span)
	}
	if opts.MarginX == nil || *opts.MarginX != layout.DefaultMarginX {
		t.Errorf("MarginX should come from config, got %v", opts.MarginX)
	}

	zero := pipeline.Options{MarginX: pipeline.Margin(0)}
	l.Apply(&zero)
	if *zero.MarginX != 0 {
		t.Errorf("explicit zero MarginX should be kept, got %v", *zero.MarginX)
	}
	if *zero.MarginY != layout.DefaultMarginY {
		t.Errorf("MarginY = %v, want config value", *zero.MarginY)
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		value    string
		fallback int
		want     int
	}{
		{"", 5, 5},
		{"12", 5, 12},
		{"abc", 5, 5},
		{"-1", 5, -1},
	}
	for _, tt := range tests {
		t.Setenv("HUFFVIZ_TEST_INT", tt.value)
		if got := getenvInt("HUFFVIZ_TEST_INT", tt.fallback); got != tt.want {
			t.Errorf("getenvInt(%q, %d) = %d, want %d", tt.value, tt.fallback, got, tt.want)
		}
	}
}

func TestGetenvFloat(t *testing.T) {
	t.Setenv("HUFFVIZ_TEST_FLOAT", "2.5")
	if got := getenvFloat("HUFFVIZ_TEST_FLOAT", 1); got != 2.5 {
		t.Errorf("getenvFloat = %v, want 2.5", got)
	}
	t.Setenv("HUFFVIZ_TEST_FLOAT", "x")
	if got := getenvFloat("HUFFVIZ_TEST_FLOAT", 1); got != 1 {
		t.Errorf("getenvFloat with bad value = %v, want fallback 1", got)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "huffviz") {
		t.Errorf("CacheDir() = %q", dir)
	}
}

func TestResolvedDirs(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := Default()

	dir, err := cfg.ResolvedStorageDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-data", "huffviz", "artifacts") {
		t.Errorf("ResolvedStorageDir() = %q", dir)
	}

	cfg.Cache.Dir = "/var/cache/hv"
	if dir, _ := cfg.ResolvedCacheDir(); dir != "/var/cache/hv" {
		t.Errorf("ResolvedCacheDir() = %q", dir)
	}
}
