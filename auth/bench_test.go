package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BenchmarkVerifier_Verify measures token validation, the per-request
// cost of the auth middleware for authenticated callers.
func BenchmarkVerifier_Verify(b *testing.B) {
	key := []byte("bench-signing-key")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := token.SignedString(key)
	if err != nil {
		b.Fatalf("failed to sign token: %v", err)
	}

	v := NewVerifier(VerifierConfig{Key: key})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Verify(s); err != nil {
			b.Fatalf("Verify failed: %v", err)
		}
	}
}

// BenchmarkIdentityFromContext measures the context lookup on the hot
// request path.
func BenchmarkIdentityFromContext(b *testing.B) {
	ctx := WithIdentity(context.Background(), &Identity{Principal: "42", Method: AuthMethodJWT})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = IdentityFromContext(ctx)
	}
}
