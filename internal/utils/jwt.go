package utils // package utils provides helpers for tokens and password hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is the iss claim of every access token.
const tokenIssuer = "adora-api"

// ErrInvalidToken is returned for any access token that fails verification.
var ErrInvalidToken = errors.New("invalid access token")

// AccessToken is a signed JWT and its expiry.  Clients send it as
// "Authorization: Bearer <Token>".
type AccessToken struct {
	Token string
	Exp   time.Time // UTC
}

// RefreshToken is the raw random string handed to the client.  Only its
// HashRefreshRaw digest is stored.
type RefreshToken struct {
	Raw string
	Exp time.Time // UTC
}

// accessClaims is the JWT payload: the standard claims plus the user_role.
type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken signs an HS256 token for userID with role, valid for
// ttlMin minutes.
func NewAccessToken(secret, userID, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns 48 random bytes hex encoded (96 chars) that
// expire after ttlDays.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: hex.EncodeToString(buf),
		Exp: time.Now().UTC().AddDate(0, 0, ttlDays),
	}, nil
}

// HashRefreshRaw is the hex SHA-256 digest stored for a refresh token.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// AccessClaims are the fields of a verified access token.
type AccessClaims struct {
	UserID string
	Role   string
}

// ParseAccessToken verifies signature, expiry and issuer of an HS256
// access token.  Every failure is reported as ErrInvalidToken.
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.Subject == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	return AccessClaims{UserID: claims.Subject, Role: claims.Role}, nil
}
