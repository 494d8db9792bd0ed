package postgresql

import (
	"fmt"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
)

// wrapErr tags connection-limit failures with staff.ErrPoolExhausted.
func wrapErr(err error) error {
	if database.IsPoolExhausted(err) {
		return fmt.Errorf("%w: %v", staff.ErrPoolExhausted, err)
	}
	return err
}
