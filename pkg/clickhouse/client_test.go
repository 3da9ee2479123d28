package clickhouse

import (
	"net/url"
	"testing"
	"time"
)

func TestDSNNative(t *testing.T) {
	cfg := Config{
		Host:        "ch.internal",
		Port:        9000,
		Database:    "pricecast",
		User:        "default",
		Password:    "secret",
		DialTimeout: 5 * time.Second,
	}

	u, err := url.Parse(cfg.dsn())
	if err != nil {
		t.Fatalf("dsn must parse: %v", err)
	}
	if u.Scheme != "clickhouse" {
		t.Fatalf("expected native scheme, got %q", u.Scheme)
	}
	if u.Host != "ch.internal:9000" || u.Path != "/pricecast" {
		t.Fatalf("unexpected host/path: %q %q", u.Host, u.Path)
	}
	if pw, _ := u.User.Password(); u.User.Username() != "default" || pw != "secret" {
		t.Fatalf("credentials not encoded: %v", u.User)
	}
	q := u.Query()
	if q.Get("dial_timeout") != "5s" {
		t.Fatalf("dial_timeout missing: %q", u.RawQuery)
	}
	if q.Has("async_insert") || q.Has("read_timeout") {
		t.Fatalf("unset options must not appear: %q", u.RawQuery)
	}
}

func TestDSNHTTPAsync(t *testing.T) {
	cfg := Config{
		Host:             "ch.internal",
		Port:             8123,
		Database:         "pricecast",
		UseHTTP:          true,
		AsyncInsert:      true,
		WaitForAsync:     true,
		MaxExecutionTime: 90 * time.Second,
	}

	u, err := url.Parse(cfg.dsn())
	if err != nil {
		t.Fatalf("dsn must parse: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("expected http scheme, got %q", u.Scheme)
	}
	q := u.Query()
	if q.Get("async_insert") != "1" || q.Get("wait_for_async_insert") != "1" {
		t.Fatalf("async options missing: %q", u.RawQuery)
	}
	if q.Get("max_execution_time") != "90" {
		t.Fatalf("max_execution_time must be whole seconds: %q", u.RawQuery)
	}
}

func TestOpenRequiresHost(t *testing.T) {
	if _, err := Open(Config{Port: 9000}); err == nil {
		t.Fatalf("expected error for missing host")
	}
}

func TestPoolDefaults(t *testing.T) {
	cfg := Config{Host: "ch.internal"}
	cfg.applyDefaults()
	if cfg.MaxOpenConns != 10 || cfg.MaxIdleConns != 5 || cfg.ConnMaxLifetime != 5*time.Minute {
		t.Fatalf("unexpected pool defaults: %+v", cfg)
	}
}
