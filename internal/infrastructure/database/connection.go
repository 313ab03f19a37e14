// Package database opens MySQL/TiDB connections from configuration and loads table
// metadata from INFORMATION_SCHEMA.
package database

import (
	"crypto/tls"
	"database/sql"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/nexuscrm/persistence/internal/config"
)

const tlsConfigName = "tidb"

var tlsOnce sync.Once // Ensure TLS config is registered only once

// Open opens and pings a connection pool for cfg.
// sql.DB is already safe for concurrent use; callers share the returned pool.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// MaxIdleConns matches MaxOpenConns so pooled connections are not churned
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(3 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// BuildDSN returns cfg.DSN when set, otherwise a MySQL DSN built from the host settings.
// Remote hosts get TLS; localhost does not.
func BuildDSN(cfg config.DBConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Host == "" {
		return "", fmt.Errorf("no database host configured")
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}

	if isRemoteHost(cfg.Host) {
		tlsOnce.Do(func() {
			if err := mysql.RegisterTLSConfig(tlsConfigName, &tls.Config{
				MinVersion: tls.VersionTLS12,
				ServerName: cfg.Host,
			}); err != nil {
				// can't return from sync.Once
				log.Printf("Failed to register TLS config: %v\n", err)
			}
		})
		mc.TLSConfig = tlsConfigName
	}

	return mc.FormatDSN(), nil
}

func isRemoteHost(host string) bool {
	return host != "" && host != "127.0.0.1" && host != "localhost"
}
