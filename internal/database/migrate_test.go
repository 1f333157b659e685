package database

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
)

func TestStatementsCoverEveryTable(t *testing.T) {
	stmts := Statements()
	require.Len(t, stmts, len(Tables))
	for i, table := range Tables {
		assert.True(t, strings.HasPrefix(stmts[i], "CREATE TABLE IF NOT EXISTS "+table+" ("),
			"statement %d should create %s", i, table)
		assert.False(t, strings.HasSuffix(stmts[i], ";"))
	}
}

func TestReservationSeatsAreUniquePerFlight(t *testing.T) {
	for _, stmt := range Statements() {
		if strings.Contains(stmt, "TABLE IF NOT EXISTS reservation_seats") {
			assert.Contains(t, stmt, "UNIQUE KEY uq_reservation_seats_flight_seat (flight_id, seat_id)")
			return
		}
	}
	t.Fatal("reservation_seats not found")
}

func TestMigrateStopsOnFirstError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS refresh_tokens")).
		WillReturnError(assert.AnError)

	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLConfig(t *testing.T) {
	cfg := config.Config{DBUser: "root", DBHost: "db", DBPort: "3306", DBName: "skylink"}
	dsn := MySQLConfig(cfg).FormatDSN()
	assert.True(t, strings.HasPrefix(dsn, "root@tcp(db:3306)/skylink?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	cfg.DBPass = "pw"
	assert.True(t, strings.HasPrefix(MySQLConfig(cfg).FormatDSN(), "root:pw@tcp(db:3306)/"))
}
