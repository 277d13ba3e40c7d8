package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // jti claim on every issued token
)

// AccessTokenTTL is fixed: tokens live one hour from issuance and expiry is
// the only termination path (no revocation list exists).
const AccessTokenTTL = time.Hour

// VerifyLeeway is the clock-skew tolerance applied when validating expiry.
const VerifyLeeway = 30 * time.Second

// ErrInvalidToken covers every verification failure.  The caller treats the
// request as unauthenticated without learning why the token was rejected.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed HS256 JWT along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Identity is what a verified token proves about the caller.
type Identity struct {
	UserID uint64
	Email  string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  Claims carry the
// user id as subject, the email, a unique jti, issuer, audience, expiry one
// hour out and the issue time.
func NewAccessToken(secret, issuer, audience string, userID uint64, email string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(AccessTokenTTL)
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(userID, 10),
		"email": email,
		"jti":   uuid.NewString(),
		"iss":   issuer,
		"aud":   audience,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks signature, issuer, audience and expiry (with the
// 30s leeway) and returns the identity the token carries.  It fails closed:
// any validation problem comes back as ErrInvalidToken.  Extra parser options
// are appended after the defaults, which lets tests pin the clock.
func VerifyAccessToken(secret, issuer, audience, raw string, extra ...jwt.ParserOption) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(VerifyLeeway),
	}
	opts = append(opts, extra...)

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	return Identity{UserID: userID, Email: email}, nil
}
