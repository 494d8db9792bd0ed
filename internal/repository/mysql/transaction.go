package mysql

import (
	"context"
	"fmt"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
	"gorm.io/gorm"
)

type txKey struct{}

// getDB returns the transaction carried by ctx, or db.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type txRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) directory.TxRunner {
	return &txRunner{db: db}
}

// RunInTx implements directory.TxRunner.
func (r *txRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func wrapErr(err error) error {
	if database.IsPoolExhausted(err) {
		return fmt.Errorf("%w: %v", staff.ErrPoolExhausted, err)
	}
	return err
}
