// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

// Package auth extracts the signed-in user's identity from the platform
// session token. The token is issued and verified by the backend; the client
// only reads its claims, so parsing here is deliberately unverified.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmptyToken means no session token was supplied.
	ErrEmptyToken = errors.New("empty session token")

	// ErrTokenExpired means the token's exp claim is in the past.
	ErrTokenExpired = errors.New("session token expired")

	// ErrMissingSubject means the token carries no sub claim.
	ErrMissingSubject = errors.New("session token has no subject")
)

// Identity is the client-side view of the signed-in user.
type Identity struct {
	// UserID is the sub claim of the session token.
	UserID string

	// ExpiresAt is the exp claim, zero when the token never expires.
	ExpiresAt time.Time
}

// Expired reports whether the identity's token has passed its expiry.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// ParseIdentity reads the user identity out of a session token without
// verifying the signature. Signature verification is the backend's job; a
// forged token gains nothing locally and is rejected on the first request.
func ParseIdentity(tokenString string) (Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Identity{}, ErrEmptyToken
	}

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return Identity{}, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, ErrMissingSubject
	}

	identity := Identity{UserID: sub}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Identity{}, fmt.Errorf("read token expiry: %w", err)
	}
	if exp != nil {
		identity.ExpiresAt = exp.Time
		if identity.Expired(time.Now()) {
			return identity, ErrTokenExpired
		}
	}

	return identity, nil
}
