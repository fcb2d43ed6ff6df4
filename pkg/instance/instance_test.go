package instance

import "testing"

func TestGetIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.1")
	t.Setenv("K_REVISION", "api-00042")
	if got := GetID(); got != "web.1" {
		t.Fatalf("GetID() = %q", got)
	}
}

func TestGetIDFallsBackToRevision(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("K_REVISION", "api-00042")
	if got := GetID(); got != "api-00042" {
		t.Fatalf("GetID() = %q", got)
	}
}

func TestGetIDNeverEmpty(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("K_REVISION", "")
	if GetID() == "" {
		t.Fatal("expected non-empty id")
	}
}
