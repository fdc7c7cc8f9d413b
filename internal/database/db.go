// Package database opens the MySQL pool and owns the schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/adora-ads/adora-api/internal/config"
)

// pingAttempts covers a database container that starts after the API.
const pingAttempts = 5

// DSN builds the driver DSN for cfg. Times are parsed into time.Time and
// kept in UTC; booking dates and timestamps are always written in UTC.
// RowsAffected reports matched rows, so an update that changes nothing is
// not mistaken for a missing row.
func DSN(cfg config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Open connects to MySQL, sizes the pool and waits until the server
// answers a ping.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	backoff := 500 * time.Millisecond
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt == pingAttempts {
			_ = db.Close()
			return nil, fmt.Errorf("ping %s: %w", cfg.DBHost, err)
		}
		log.Printf("database: ping failed (attempt %d/%d): %v", attempt, pingAttempts, err)
		time.Sleep(backoff)
		backoff *= 2
	}
}
