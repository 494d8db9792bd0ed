package database

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewMySQLDB opens the legacy MySQL store through gorm.
func NewMySQLDB(dsn string, opts PoolOptions) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get mysql handle: %w", err)
	}

	maxConns := 25
	if opts.MaxConns > 0 {
		maxConns = int(opts.MaxConns)
	}
	minConns := 5
	if opts.MinConns > 0 && int(opts.MinConns) <= maxConns {
		minConns = int(opts.MinConns)
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(minConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	slog.Info("Connected to MySQL", "max_conns", maxConns)
	return db, nil
}

// MySQLDSN builds a go-sql-driver DSN with the options the repositories rely on.
// Credentials are escaped by the driver, so any password is accepted.
func MySQLDSN(user, password, host string, port int, name string) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}
