package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// Statements splits the embedded schema into individual statements.  The
// driver runs without multiStatements, so each CREATE is sent on its own.
// Lines starting with "--" are comments.
func Statements() []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(schemaSQL, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			out = append(out, stmt)
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

// Migrate creates every table that does not exist yet.  All statements are
// CREATE TABLE IF NOT EXISTS so running it against a live database is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// Tables lists the application tables in dependency order, children last.
// The seed tool truncates them in reverse.
var Tables = []string{
	"users",
	"refresh_tokens",
	"airlines",
	"airports",
	"aircrafts",
	"seats",
	"flight_templates",
	"prices",
	"flights",
	"discounts",
	"passengers",
	"reservations",
	"reservation_seats",
	"invoices",
	"seat_holds",
}
