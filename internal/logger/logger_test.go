package logger

import "testing"

func TestRedactMasksSessionCredentials(t *testing.T) {
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJjbGllbnQifQ.signature"
	kv := []interface{}{"session_token", "abc", "run_id", "r1", "header", jwtLike, "Authorization", "Bearer x", "dangling"}
	out := redact(kv)

	if out[1] != redacted || out[7] != redacted {
		t.Fatalf("expected credential keys redacted, got %v", out)
	}
	if out[3] != "r1" {
		t.Fatalf("expected run id untouched, got %v", out[3])
	}
	if out[5] != redacted {
		t.Fatalf("expected jwt-looking value redacted, got %v", out[5])
	}
	if len(out) != len(kv) || out[8] != "dangling" {
		t.Fatalf("expected trailing key kept, got %v", out)
	}
	if kv[1] != "abc" {
		t.Fatal("expected the caller's slice to be left alone")
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", ""} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		log.With("component", "test").Debug("ready", "mode", mode)
	}
}
