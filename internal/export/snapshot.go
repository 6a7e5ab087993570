package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

const exportPageSize = 500

// Snapshot writes the full bill set as a JSON file for the statically hosted
// variant of the app.
type Snapshot struct {
	repository ports.BillRepository
	logger     *slog.Logger
}

// NewSnapshot wires the repository.
func NewSnapshot(repo ports.BillRepository, log *slog.Logger) *Snapshot {
	return &Snapshot{repository: repo, logger: log}
}

// Write dumps every bill with its agencies to path. The file is written to a
// temp sibling first and renamed into place so readers never see a torn file.
func (s *Snapshot) Write(ctx context.Context, path string) error {
	bills, err := s.collect(ctx)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(bills, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("snapshot written", "path", path, "bills", len(bills))
	}
	return nil
}

func (s *Snapshot) collect(ctx context.Context) ([]domain.Bill, error) {
	all := []domain.Bill{}
	page := 1
	for {
		bills, total, err := s.repository.ListBills(ctx, domain.BillFilter{Page: page, PageSize: exportPageSize})
		if err != nil {
			return nil, fmt.Errorf("list bills page %d: %w", page, err)
		}

		all = append(all, bills...)
		if len(bills) == 0 || len(all) >= total {
			return all, nil
		}
		page++
	}
}
