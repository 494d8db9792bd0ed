// Package bootstrap builds the logger and storage shared by the api server and cdmactl.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cdma-ap/cmsnr-directory/internal/config"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
	"github.com/cdma-ap/cmsnr-directory/internal/repository/mysql"
	"github.com/cdma-ap/cmsnr-directory/internal/repository/postgresql"
	"github.com/go-chi/httplog/v3"
)

const (
	AppName = "cmsnr-directory"
	Version = "v1.0.0"
)

// NewLogger returns a JSON logger whose attributes follow the ECS schema.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!cfg.IsDevelopment())
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", AppName),
		slog.String("version", Version),
		slog.String("env", cfg.App.Env),
	)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Stores is the repository set for one database connection.
type Stores struct {
	Entries    directory.EntryRepository
	Staff      master.StaffRepository
	Candidates birthday.CandidateRepository
	Tx         directory.TxRunner

	// Exec runs a schema script against the connection.
	Exec  func(ctx context.Context, sql string) error
	Close func()
}

// OpenStores connects to the configured driver and builds its repositories.
func OpenStores(cfg *config.Config) (*Stores, error) {
	opts := database.PoolOptions{MaxConns: cfg.Database.MaxConns, MinConns: cfg.Database.MinConns}

	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := database.NewMySQLDB(cfg.DatabaseURL(), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mysql: %w", err)
		}
		return &Stores{
			Entries:    mysql.NewDirectoryRepository(db),
			Staff:      mysql.NewStaffRepository(db),
			Candidates: mysql.NewCandidateRepository(db),
			Tx:         mysql.NewTxRunner(db),
			Exec:       func(ctx context.Context, sql string) error { return db.WithContext(ctx).Exec(sql).Error },
			Close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &Stores{
			Entries:    postgresql.NewDirectoryRepository(db),
			Staff:      postgresql.NewStaffRepository(db),
			Candidates: postgresql.NewCandidateRepository(db),
			Tx:         postgresql.NewTxRunner(db),
			Exec: func(ctx context.Context, sql string) error {
				_, err := db.Exec(ctx, sql)
				return err
			},
			Close: db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
