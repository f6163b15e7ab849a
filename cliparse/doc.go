// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres or bolt (default: sqlite)
  - DatabaseURL: connection string or file path (required for postgres)
  - AdminIdentity: the single identity allowed to manage elections (required)
  - IdentitySalt: secret for identity token HMAC (required)
  - Args: positional arguments left after flags

# CLI Flags

	-p              Server port
	-t              Database type
	-d              Database URL
	-admin          Admin identity
	-identity-salt  Identity token salt
	-c              YAML config file
	-env-file       Environment file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_TYPE   → -t
	DATABASE_URL    → -d
	ADMIN_IDENTITY  → -admin
	IDENTITY_SALT   → -identity-salt
	CONFIG_FILE     → -c

The env file is loaded first and never overrides variables already set in
the process environment.

# Config File

Any field can also come from a YAML file:

	port: 8080
	database_type: bolt
	database_url: /var/lib/ballot-ledger/ledger.bolt
	admin_identity: "0xA11CE"
	identity_salt: change-me

Precedence: flags, environment, config file, defaults.
*/
package cliparse
