package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
)

// HistoryLedger defines the persistence contract for the append-only status
// history. There is no update and no delete: entries are immutable once
// written, and they survive the soft-deletion of their parcel.
type HistoryLedger interface {
	// Append persists one ledger entry.
	Append(ctx context.Context, entry *parcel.HistoryEntry) error

	// AppendAll persists a batch of ledger entries in order.
	AppendAll(ctx context.Context, entries []*parcel.HistoryEntry) error

	// ListByParcel retrieves the full history of a parcel ordered by creation
	// time ascending, ties broken by insertion order.
	ListByParcel(ctx context.Context, parcelID kernel.UUID) ([]*parcel.HistoryEntry, error)
}
