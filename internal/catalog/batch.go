package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Batch groups the label writes of one page in a single transaction.
// Nothing reaches the database file until Commit.
type Batch struct {
	tx    *sql.Tx
	store *Store
	count int
	done  bool
}

// BeginBatch opens a transaction for a page of label updates.
func (s *Store) BeginBatch(ctx context.Context) (*Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin label batch: %w", err)
	}
	return &Batch{tx: tx, store: s}, nil
}

// SetLabel updates path to label. Unknown paths are a no-op.
func (b *Batch) SetLabel(ctx context.Context, path, label string) error {
	if b.done {
		return fmt.Errorf("set label on finished batch")
	}
	if _, err := b.tx.ExecContext(ctx, "UPDATE images SET label = ? WHERE path = ?", label, path); err != nil {
		return classify(err, "update label")
	}
	b.count++
	b.store.logger.Debug(component, fmt.Sprintf("setting %s to %s", path, label), nil)
	return nil
}

// Len returns the number of updates issued so far.
func (b *Batch) Len() int {
	return b.count
}

// Commit persists every update in the batch.
func (b *Batch) Commit() error {
	if b.done {
		return nil
	}
	b.done = true
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit label batch: %w", err)
	}
	return nil
}

// Rollback discards every update in the batch. Safe after Commit.
func (b *Batch) Rollback() error {
	if b.done {
		return nil
	}
	b.done = true
	if err := b.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback label batch: %w", err)
	}
	return nil
}
