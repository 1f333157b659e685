package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceHoldsSeatTakenByOtherUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seat_holds WHERE flight_id = ? AND expires_at <= UTC_TIMESTAMP()")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seat_holds WHERE user_id = ? AND flight_id = ?")).
		WithArgs(uint64(3), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seat_holds")).
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectRollback()

	err := NewSeatHoldRepo(db).Replace(context.Background(), 3, 5, []uint64{101}, time.Now().Add(5*time.Minute))
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRandomTokenFitsHoldColumn(t *testing.T) {
	tok, err := randomToken(16)
	require.NoError(t, err)
	assert.Len(t, tok, 32)
}

func TestPurgeExpiredHolds(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seat_holds WHERE expires_at <= UTC_TIMESTAMP()")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewSeatHoldRepo(db).PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
