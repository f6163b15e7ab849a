// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth is the ledger's identity source.

# Identity Tokens

A caller proves its identity with a token issued by whoever holds the
server's identity salt:

	token := auth.SignIdentity("0xA11CE", salt)
	identity, err := auth.VerifyToken(token, salt)

A token is the URL-safe base64 identity, a dot, and the URL-safe base64
HMAC-SHA256 of the identity under the salt. Tokens are deterministic, so
the same identity and salt always produce the same token, and validation
needs no storage.

The admin is an ordinary identity that matches the configured
ADMIN_IDENTITY; the ledger decides what it may do.
*/
package auth
