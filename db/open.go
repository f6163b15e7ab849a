// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballot-ledger/ledger"
)

// Database types accepted by Open.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeBolt     = "bolt"
)

// OpenSQL connects to a SQL database and verifies the connection.
func OpenSQL(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite:
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported SQL database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	// SQLite allows a single writer, and every connection to an in-memory
	// database is a separate database.
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

// Open returns the ledger store for dbType, with its schema in place.
func Open(dbType, url string) (ledger.Store, error) {
	if dbType == TypeBolt {
		return OpenBolt(url)
	}

	conn, err := OpenSQL(dbType, url)
	if err != nil {
		return nil, err
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return NewSQLStore(conn), nil
}
