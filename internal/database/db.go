package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
)

// Pool limits.  A booking commit holds its connection for the whole
// transaction.
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open connects to the MySQL database named by cfg and pings it.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	connector, err := mysql.NewConnector(MySQLConfig(cfg))
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s@%s: %w", cfg.DBUser, net.JoinHostPort(cfg.DBHost, cfg.DBPort), err)
	}
	return db, nil
}

// MySQLConfig maps the DB_* settings onto a driver config.  Flight
// timestamps are stored as airport local time; Loc stays UTC so the
// driver never shifts them.
func MySQLConfig(cfg config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc
}
