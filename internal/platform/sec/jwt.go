// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing,
// role checks) from the domain logic. Everything here is a pure function of
// its inputs plus the immutable signing key held by [TokenCodec], so all
// types are safe for concurrent use without locking.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSigningKey is returned when the codec is built without a key.
	// The process must not start in that state.
	ErrMissingSigningKey = errors.New("sec: signing key is absent or empty")

	// ErrInvalidToken matches every decode failure via [errors.Is].
	ErrInvalidToken = errors.New("sec: invalid token")

	errUnsupportedAlgorithm = errors.New("sec: unsupported signing algorithm")
)

// # Decode Failures

// TokenFailure classifies why a token was rejected.
type TokenFailure int

const (
	// ReasonMalformed covers bad structure, bad base64 and bad JSON.
	ReasonMalformed TokenFailure = iota + 1
	// ReasonAlgorithm covers any algorithm other than HS256, including "none".
	ReasonAlgorithm
	// ReasonSignature means the MAC does not match the header and payload.
	ReasonSignature
	// ReasonExpired means the current time is at or past exp.
	ReasonExpired
	// ReasonClaims covers a wrong issuer, missing subject or unknown role.
	ReasonClaims
)

func (f TokenFailure) String() string {
	switch f {
	case ReasonMalformed:
		return "malformed"
	case ReasonAlgorithm:
		return "algorithm"
	case ReasonSignature:
		return "signature"
	case ReasonExpired:
		return "expired"
	case ReasonClaims:
		return "claims"
	default:
		return "unknown"
	}
}

// TokenError is the single error type returned by [TokenCodec.Decode].
type TokenError struct {
	Reason TokenFailure
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("sec: invalid token (%s): %v", e.Reason, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Is makes every TokenError match [ErrInvalidToken].
func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }

// # Claims

// Claims is the decoded content of a verified session token.
type Claims struct {
	Subject   string
	Role      Role
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the wire shape: sub, role, iss, iat, exp.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// # Codec

// TokenCodec signs and verifies HS256 session tokens.
type TokenCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// CodecOption customises a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) {
		codec.now = now
	}
}

// NewTokenCodec creates a codec bound to secret. The key is copied, so later
// changes to the caller's slice have no effect.
func NewTokenCodec(secret []byte, issuer string, options ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningKey
	}

	codec := &TokenCodec{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		now:    time.Now,
	}
	for _, option := range options {
		option(codec)
	}

	return codec, nil
}

// Issuer returns the iss value stamped on every token.
func (codec *TokenCodec) Issuer() string {
	return codec.issuer
}

// Encode builds and signs a token for subject. issuedAt is truncated to whole
// seconds so that exp is exactly issuedAt + validity on the wire.
func (codec *TokenCodec) Encode(subject string, role Role, issuedAt time.Time, validity time.Duration) (string, error) {
	issuedAt = issuedAt.Truncate(time.Second)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validity)),
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies the signature over the transmitted header and payload,
// then the issuer and expiry, and returns the claims.
//
// Every failure is a [*TokenError].
func (codec *TokenCodec) Decode(tokenString string) (*Claims, error) {
	claims := &tokenClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, codec.keyFunc,
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(codec.issuer),
		jwt.WithTimeFunc(codec.now),
	)
	if err != nil {
		return nil, &TokenError{Reason: classify(err), Err: err}
	}

	if claims.Subject == "" {
		return nil, &TokenError{Reason: ReasonClaims, Err: errors.New("missing subject")}
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, &TokenError{Reason: ReasonClaims, Err: err}
	}

	decoded := &Claims{
		Subject:   claims.Subject,
		Role:      role,
		Issuer:    claims.Issuer,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}

	return decoded, nil
}

// keyFunc accepts HS256 only; HS384/HS512 and "none" are refused.
func (codec *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("%w: %v", errUnsupportedAlgorithm, token.Header["alg"])
	}
	return codec.secret, nil
}

func classify(err error) TokenFailure {
	switch {
	case errors.Is(err, errUnsupportedAlgorithm), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonAlgorithm
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonClaims
	}
}
