// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/danielhkuo/ballot-ledger/models"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// SignIdentity creates an HMAC-based token binding an identity to the
// server's salt. This is deterministic and verifiable.
func SignIdentity(identity models.Identity, salt string) string {
	return encode(string(identity)) + "." + signature(string(identity), salt)
}

// VerifyToken checks a token produced by SignIdentity and returns the
// identity it carries.
func VerifyToken(token, salt string) (models.Identity, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return "", ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) == 0 {
		return "", ErrInvalidToken
	}
	expected := signature(string(raw), salt)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidSignature
	}
	return models.Identity(raw), nil
}

func signature(identity, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(identity))
	sum := h.Sum(nil)
	// Use URL-safe base64 without padding for cleaner tokens
	return base64.RawURLEncoding.EncodeToString(sum)
}

// identities may contain '.', so they are encoded before joining
func encode(identity string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(identity))
}
