package server

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/punchclock/internal/server/config"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

func TestNewApp_BadLogLevel(t *testing.T) {
	c := testConfig()
	c.LogLevel = "loud"

	if _, err := NewApp(context.Background(), c); err == nil || !strings.Contains(err.Error(), "logger init error") {
		t.Fatalf("expected logger init error, got %v", err)
	}
}

func TestNewApp_DBError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })

	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("conn refused")
	}

	_, err := NewApp(context.Background(), testConfig())
	if err == nil || err.Error() != "db init error: conn refused" {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
