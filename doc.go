// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Ballot Ledger API server.

Ballot Ledger keeps elections, their candidates, and a one-vote-per-identity
vote log. A single admin identity manages elections and candidates; any
identity may vote once per election while it is open.

# Commands

	ballot-ledger serve   [flags]             Start the HTTP server
	ballot-ledger migrate [flags]             Create the schema and exit
	ballot-ledger token   [flags] <identity>  Print an identity token

# Configuration

Flags take precedence over the environment, which takes precedence over the
YAML file given by -c (or CONFIG_FILE). A .env file is loaded if present.

Required settings:

  - ADMIN_IDENTITY (--admin): Identity allowed to manage elections
  - IDENTITY_SALT (--identity-salt): Secret for identity token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or bolt (default: sqlite)
  - DATABASE_URL (-d): Connection string or file path, required for postgres

# Architecture

  - ledger: Elections, candidates, votes and their rules
  - db: SQL and bbolt stores behind ledger.Store
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, caller identity
  - models: Request/response and domain types
  - auth: Identity token signing and verification
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
