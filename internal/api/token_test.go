package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestParseAccessToken(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"snake_case field", `{"access_token":"aaa","token_type":"bearer"}`, "aaa", false},
		{"bare token field", `{"token":"bbb"}`, "bbb", false},
		{"camelCase field", `{"accessToken":"ccc"}`, "ccc", false},
		{"access_token preferred", `{"access_token":"aaa","token":"bbb","accessToken":"ccc"}`, "aaa", false},
		{"none present", `{"id":1,"email":"x@y.z"}`, "", true},
		{"not json", `welcome`, "", true},
		{"empty body", ``, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAccessToken([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrNoToken) {
					t.Fatalf("err = %v, want ErrNoToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

// unsignedJWT builds a JWT-shaped token with the given claims and an empty
// signature; TokenRemaining never verifies signatures.
func unsignedJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	enc := func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := map[string]string{"alg": "none", "typ": "JWT"}
	return fmt.Sprintf("%s.%s.", enc(header), enc(claims))
}

func TestTokenRemaining(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	tok := unsignedJWT(t, map[string]any{"sub": "1", "exp": now.Add(90 * time.Second).Unix()})
	remaining, ok := TokenRemaining(tok, now)
	if !ok {
		t.Fatal("expected exp claim to be readable")
	}
	if remaining != 90 {
		t.Errorf("remaining = %d, want 90", remaining)
	}
}

func TestTokenRemainingClampsExpired(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	tok := unsignedJWT(t, map[string]any{"exp": now.Add(-time.Hour).Unix()})

	remaining, ok := TokenRemaining(tok, now)
	if !ok {
		t.Fatal("expected exp claim to be readable")
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want clamped 0", remaining)
	}
}

func TestTokenRemainingNonJWT(t *testing.T) {
	if _, ok := TokenRemaining("opaque-api-key", time.Now()); ok {
		t.Error("expected ok=false for non-JWT token")
	}
	tok := unsignedJWT(t, map[string]any{"sub": "1"})
	if _, ok := TokenRemaining(tok, time.Now()); ok {
		t.Error("expected ok=false for token without exp")
	}
}
