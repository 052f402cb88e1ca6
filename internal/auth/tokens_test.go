package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer() *Issuer {
	return NewIssuer("access-secret", time.Minute, "refresh-secret", time.Hour)
}

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("user-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected access claims %+v", claims)
	}

	refresh, err := issuer.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refresh.UserID != "user-1" || refresh.Username != "" {
		t.Fatalf("unexpected refresh claims %+v", refresh)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.IssuePair("user-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := issuer.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestExpiredAccessTokenIsRejected(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Now().Add(-2 * time.Minute)
	issuer.now = func() time.Time { return issued }

	pair, err := issuer.IssuePair("user-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.ParseAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestParseRejectsEmptyToken(t *testing.T) {
	if _, err := newTestIssuer().ParseAccess(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}
