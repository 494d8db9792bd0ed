package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/google/uuid"
)

// Summary reports one import run. In a dry run Inserted and Updated are
// what an apply would have done.
type Summary struct {
	RunID    string    `json:"run_id"`
	Applied  bool      `json:"applied"`
	Rows     int       `json:"rows"`
	Inserted int       `json:"inserted"`
	Updated  int       `json:"updated"`
	Invalid  []Invalid `json:"invalid"`
}

type Importer struct {
	repo     directory.EntryRepository
	txRunner directory.TxRunner
}

func New(repo directory.EntryRepository, txRunner directory.TxRunner) *Importer {
	return &Importer{repo: repo, txRunner: txRunner}
}

// Run upserts rows on cfms_id in one transaction when apply is set.
func (im *Importer) Run(ctx context.Context, rows [][]string, apply bool) (Summary, error) {
	entries, invalid := ParseRows(rows)
	summary := Summary{
		RunID:   uuid.NewString(),
		Applied: apply,
		Rows:    len(entries) + len(invalid),
		Invalid: invalid,
	}
	if summary.Invalid == nil {
		summary.Invalid = []Invalid{}
	}
	log := slog.With("run_id", summary.RunID, "apply", apply)

	if !apply {
		for _, e := range entries {
			_, err := im.repo.GetByCFMSID(ctx, e.CFMSID)
			switch {
			case err == nil:
				summary.Updated++
			case errors.Is(err, directory.ErrEntryNotFound):
				summary.Inserted++
			default:
				return summary, fmt.Errorf("check cfms_id %s: %w", e.CFMSID, err)
			}
		}
		log.Info("Seed dry run complete", "inserted", summary.Inserted, "updated", summary.Updated, "invalid", len(invalid))
		return summary, nil
	}

	err := im.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		inserted, updated := 0, 0
		for _, e := range entries {
			isNew, err := im.repo.Upsert(ctx, e)
			if err != nil {
				return fmt.Errorf("upsert cfms_id %s: %w", e.CFMSID, err)
			}
			if isNew {
				inserted++
			} else {
				updated++
			}
		}
		summary.Inserted, summary.Updated = inserted, updated
		return nil
	})
	if err != nil {
		log.Error("Seed import rolled back", "error", err)
		return summary, err
	}

	log.Info("Seed import complete", "inserted", summary.Inserted, "updated", summary.Updated, "invalid", len(invalid))
	return summary, nil
}
