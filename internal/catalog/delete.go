package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/odyssey-erp/catalog/internal/shared"
)

// DeletePhase is the state of the delete confirmation workflow.
type DeletePhase string

const (
	DeleteIdle           DeletePhase = "idle"
	DeleteConfirmPending DeletePhase = "confirm_pending"
	DeleteDeleting       DeletePhase = "deleting"
	DeleteSucceeded      DeletePhase = "succeeded"
	DeleteFailed         DeletePhase = "failed"
)

// DeleteState is a snapshot of the delete workflow.
type DeleteState struct {
	Phase    DeletePhase
	Target   *Product
	GateOpen bool
	Deleting bool
}

// deleteFlow holds the transitions of one delete attempt. It is not safe for
// concurrent use; the controller serialises access.
type deleteFlow struct {
	phase    DeletePhase
	target   *Product
	gateOpen bool
}

func newDeleteFlow() deleteFlow {
	return deleteFlow{phase: DeleteIdle}
}

func (f *deleteFlow) deleting() bool {
	return f.phase == DeleteDeleting
}

func (f *deleteFlow) request(p Product) error {
	if f.deleting() {
		return ErrDeleteInFlight
	}
	target := p
	f.target = &target
	f.gateOpen = true
	f.phase = DeleteConfirmPending
	return nil
}

func (f *deleteFlow) cancel() error {
	if f.deleting() {
		return ErrDeleteInFlight
	}
	if !f.gateOpen {
		return ErrNoPendingDelete
	}
	f.target = nil
	f.gateOpen = false
	f.phase = DeleteIdle
	return nil
}

// begin moves an open confirmation into Deleting and returns the target.
// A failed attempt keeps the gate open so it can be confirmed again.
func (f *deleteFlow) begin() (Product, error) {
	if f.deleting() {
		return Product{}, ErrDeleteInFlight
	}
	if !f.gateOpen || f.target == nil {
		return Product{}, ErrNoPendingDelete
	}
	f.phase = DeleteDeleting
	return *f.target, nil
}

func (f *deleteFlow) succeed() {
	f.phase = DeleteSucceeded
	f.target = nil
	f.gateOpen = false
}

func (f *deleteFlow) fail() {
	f.phase = DeleteFailed
}

func (f *deleteFlow) snapshot() DeleteState {
	state := DeleteState{
		Phase:    f.phase,
		GateOpen: f.gateOpen,
		Deleting: f.deleting(),
	}
	if f.target != nil {
		target := *f.target
		state.Target = &target
	}
	return state
}

// Deleter performs the remote side effects of a confirmed delete.
type Deleter struct {
	records RecordStore
	blobs   BlobStore
	logger  *slog.Logger
	metrics Metrics
}

// NewDeleter builds a Deleter. blobs may be nil when images are not stored.
func NewDeleter(records RecordStore, blobs BlobStore, logger *slog.Logger, metrics Metrics) *Deleter {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Deleter{records: records, blobs: blobs, logger: logger, metrics: metrics}
}

// Remove deletes the product image, then the product row. Only the row
// deletion decides the result: an image that cannot be removed is logged and
// left behind. Targets that are already gone count as removed.
func (d *Deleter) Remove(ctx context.Context, p Product) error {
	if d.records == nil {
		return fmt.Errorf("catalog: delete: record store not configured")
	}
	if key, ok := p.ImageKey(); ok && d.blobs != nil {
		err := d.blobs.Delete(ctx, key)
		d.metrics.ObserveAssetDelete(err)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			d.logger.Debug("product image already absent",
				slog.String("product_id", p.ID.String()),
				slog.String("key", key),
			)
		case err != nil:
			d.logger.Warn("delete product image",
				slog.String("product_id", p.ID.String()),
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}
	err := d.records.Delete(ctx, p.ID)
	d.metrics.ObserveRecordDelete(err)
	if errors.Is(err, ErrProductNotFound) {
		d.logger.Warn("product already deleted", slog.String("product_id", p.ID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog: delete %s: %w", p.ID, err)
	}
	return nil
}
