package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
	"github.com/cdma-ap/cmsnr-directory/migrations"
)

// TestDatabaseSetup holds the connection shared by the repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// It returns nil, nil when the variable is unset.
func NewTestDatabase() (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PoolOptions{MaxConns: 5, MinConns: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	files, err := migrations.Load("postgres")
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, f := range files {
		if _, err := db.Exec(context.Background(), f.SQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", f.Name, err)
		}
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes every row from the tables under test.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"commissioner_directory",
		"master_staff",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
