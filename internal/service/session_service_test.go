package service

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	sessions := NewSessionService("test-secret", time.Hour)

	session, apiErr := sessions.Open()
	if apiErr != nil {
		t.Fatalf("open: %v", apiErr)
	}
	clientID, apiErr := sessions.ParseToken(session.Token)
	if apiErr != nil {
		t.Fatalf("parse: %v", apiErr)
	}
	if clientID != session.ClientID {
		t.Fatalf("expected client id %s, got %s", session.ClientID, clientID)
	}

	other := NewSessionService("other-secret", time.Hour)
	if _, apiErr := other.ParseToken(session.Token); apiErr == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}

	sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, apiErr := sessions.ParseToken(session.Token); apiErr == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
