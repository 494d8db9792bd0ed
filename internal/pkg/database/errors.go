package database

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgTooManyConnections = "53300"
	pgUniqueViolation    = "23505"

	mysqlTooManyConnections     = 1040
	mysqlUserTooManyConnections = 1203
	mysqlDuplicateEntry         = 1062
)

// IsPoolExhausted reports whether the server refused a connection because its
// connection limit was reached.
func IsPoolExhausted(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgTooManyConnections
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlTooManyConnections || myErr.Number == mysqlUserTooManyConnections
	}

	// Refused during the handshake, before a typed error exists.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "too many connections") || strings.Contains(msg, "too many clients")
}

// UniqueViolation reports whether err is a unique-key violation and, when the
// driver exposes it, the name of the violated constraint.
func UniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		// Duplicate entry 'x' for key 'table.constraint'
		msg := myErr.Message
		if i := strings.LastIndex(msg, "for key '"); i >= 0 {
			key := strings.TrimSuffix(msg[i+len("for key '"):], "'")
			if j := strings.LastIndex(key, "."); j >= 0 {
				key = key[j+1:]
			}
			return key, true
		}
		return "", true
	}

	return "", false
}
