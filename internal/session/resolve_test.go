package session

import (
	"testing"

	"github.com/matheus3301/portal/internal/config"
)

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if got := Resolve(""); got != DefaultSessionName {
		t.Errorf("Resolve() without config = %q, want %q", got, DefaultSessionName)
	}

	cfg := config.Default()
	cfg.DefaultSession = "kiosk"
	if err := config.Save(ConfigPath(), cfg); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(""); got != "kiosk" {
		t.Errorf("Resolve() with config = %q, want kiosk", got)
	}
	if got := Resolve("ward"); got != "ward" {
		t.Errorf("Resolve(ward) = %q, want ward", got)
	}
}
