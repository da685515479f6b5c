package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// VerifierConfig configures the bearer-token verifier.
type VerifierConfig struct {
	// Key is the HMAC signing key. Required.
	Key []byte

	// Issuer is the expected token issuer (iss claim). Optional.
	Issuer string

	// HeaderName is the header containing the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix is the prefix before the token in the header.
	// Default: "Bearer "
	TokenPrefix string

	// PrincipalClaim is the claim containing the user principal.
	// Default: "sub"
	PrincipalClaim string
}

// Verifier validates HMAC-signed bearer tokens into Identities.
type Verifier struct {
	config VerifierConfig
}

// NewVerifier creates a bearer-token verifier.
func NewVerifier(config VerifierConfig) *Verifier {
	// Apply defaults
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	if config.PrincipalClaim == "" {
		config.PrincipalClaim = "sub"
	}
	return &Verifier{config: config}
}

// VerifyRequest extracts and validates the bearer token from req.
// Returns ErrMissingCredentials when no token is present, so callers can
// distinguish "anonymous" from "bad token".
func (v *Verifier) VerifyRequest(req *http.Request) (*Identity, error) {
	header := req.Header.Get(v.config.HeaderName)
	if header == "" {
		return nil, ErrMissingCredentials
	}

	tokenString := strings.TrimPrefix(header, v.config.TokenPrefix)
	if tokenString == header {
		return nil, ErrMissingCredentials
	}

	return v.Verify(strings.TrimSpace(tokenString))
}

// Verify validates a raw token string.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return v.config.Key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	principal, _ := claims[v.config.PrincipalClaim].(string)
	if principal == "" {
		return nil, ErrInvalidCredentials
	}

	id := &Identity{
		Principal: principal,
		Method:    AuthMethodJWT,
		Claims:    map[string]any(claims),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		id.IssuedAt = iat.Time
	}
	return id, nil
}

// Middleware attaches the verified identity to the request context.
// Requests without credentials, and requests whose token fails
// verification, proceed as anonymous - rejecting bad tokens is the
// downstream authorizer's decision, not this layer's.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.VerifyRequest(r)
			if err != nil || id.IsExpired() {
				id = AnonymousIdentity()
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
