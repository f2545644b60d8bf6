// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/cinema/internal/platform/constants"
	"github.com/taibuivan/cinema/internal/platform/ctxutil"
	"github.com/taibuivan/cinema/internal/platform/metrics"
	"github.com/taibuivan/cinema/internal/platform/sec"
)

// TokenDecoder verifies a raw token and returns its claims.
//
// [*sec.TokenCodec] is the production implementation.
type TokenDecoder interface {
	Decode(token string) (*sec.Claims, error)
}

// IdentityResolver looks the token subject up in the live account store.
//
// It returns [sec.ErrUnknownIdentity] or [sec.ErrAccountDisabled] when the
// account can no longer authenticate.
type IdentityResolver interface {
	ResolveIdentity(context context.Context, claims *sec.Claims) (*sec.Identity, error)
}

// GateOutcome labels the terminal state reached by the authentication gate.
type GateOutcome string

const (
	OutcomeAuthenticated   GateOutcome = "authenticated"
	OutcomeNoHeader        GateOutcome = "anonymous_no_header"
	OutcomeWrongScheme     GateOutcome = "anonymous_wrong_scheme"
	OutcomeInvalidToken    GateOutcome = "anonymous_invalid_token"
	OutcomeUnknownIdentity GateOutcome = "anonymous_unknown_identity"
	OutcomeAccountDisabled GateOutcome = "anonymous_account_disabled"
	OutcomeResolveFailed   GateOutcome = "anonymous_resolve_failed"
)

// bearerScheme is matched case-insensitively.
const bearerScheme = "Bearer"

// # Authentication Gate

// Gate turns an Authorization header into an optional [*sec.Identity].
//
// The gate never rejects a request. Every failure ends in the anonymous
// state and the access decision is left to [RequireRole].
type Gate struct {
	decoder  TokenDecoder
	resolver IdentityResolver
	metrics  *metrics.Metrics
}

// NewGate builds a gate. A nil resolver trusts the token claims alone.
func NewGate(decoder TokenDecoder, resolver IdentityResolver, recorder *metrics.Metrics) *Gate {
	return &Gate{decoder: decoder, resolver: resolver, metrics: recorder}
}

/*
Identify runs the gate state machine for one Authorization header value.

Parameters:
  - context: context.Context (bounds the account lookup)
  - header: string (raw Authorization header, possibly empty)

Returns:
  - *sec.Identity: The caller, or nil when anonymous
  - GateOutcome: The terminal state reached
*/
func (gate *Gate) Identify(context context.Context, header string) (*sec.Identity, GateOutcome) {
	identity, outcome := gate.identify(context, header)
	gate.metrics.RecordGate(string(outcome))
	return identity, outcome
}

func (gate *Gate) identify(context context.Context, header string) (*sec.Identity, GateOutcome) {
	logger := ctxutil.GetLogger(context)

	// 1. NoHeader
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, OutcomeNoHeader
	}

	// 2. WrongScheme
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return nil, OutcomeWrongScheme
	}

	// 3. DecodeFails
	token = strings.TrimSpace(token)
	claims, err := gate.decoder.Decode(token)
	if err != nil {
		var tokenErr *sec.TokenError
		reason := "unknown"
		if errors.As(err, &tokenErr) {
			reason = tokenErr.Reason.String()
		}
		logger.DebugContext(context, "auth_gate_token_rejected", slog.String("reason", reason))
		return nil, OutcomeInvalidToken
	}

	// 4. IdentityResolved
	if gate.resolver == nil {
		return &sec.Identity{Subject: claims.Subject, Role: claims.Role}, OutcomeAuthenticated
	}

	identity, err := gate.resolver.ResolveIdentity(context, claims)
	switch {
	case err == nil:
		return identity, OutcomeAuthenticated
	case errors.Is(err, sec.ErrUnknownIdentity):
		logger.InfoContext(context, "auth_gate_unknown_subject", slog.String("subject", claims.Subject))
		return nil, OutcomeUnknownIdentity
	case errors.Is(err, sec.ErrAccountDisabled):
		logger.InfoContext(context, "auth_gate_account_disabled", slog.String("subject", claims.Subject))
		return nil, OutcomeAccountDisabled
	default:
		logger.WarnContext(context, "auth_gate_resolve_failed",
			slog.String("subject", claims.Subject),
			slog.Any("error", err),
		)
		return nil, OutcomeResolveFailed
	}
}

// Handler attaches the resolved identity to the request context.
func (gate *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity, _ := gate.Identify(request.Context(), request.Header.Get(constants.HeaderAuthorization))
		if identity == nil {
			next.ServeHTTP(writer, request)
			return
		}

		ctx := ctxutil.WithIdentity(request.Context(), identity)
		ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("subject", identity.Subject)))
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. Absent header, non-bearer scheme or undecodable token: continue as anonymous.
//  2. Decoded token: resolve the subject against the account store.
//  3. Unknown, disabled or unreachable account: continue as anonymous.
//  4. Otherwise inject [*sec.Identity] into the request context.
func Authenticate(decoder TokenDecoder, resolver IdentityResolver, recorder *metrics.Metrics) func(http.Handler) http.Handler {
	return NewGate(decoder, resolver, recorder).Handler
}
