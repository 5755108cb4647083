package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/odyssey-erp/catalog/internal/shared"
)

const (
	msgFetchFailed  = "Failed to fetch products"
	msgDeleted      = "Product deleted successfully!"
	msgDeleteFailed = "Failed to delete product"
)

// Deps groups the collaborators of a Controller.
type Deps struct {
	Records  RecordStore
	Blobs    BlobStore
	Fetcher  *Fetcher
	Notifier Notifier
	Logger   *slog.Logger
	Metrics  Metrics
}

// State is an immutable snapshot of a Controller.
type State struct {
	Loading     bool
	FetchFailed bool
	Total       int
	Search      string
	PageSize    PageSize
	Visible     VisibleSet
	Delete      DeleteState
	View        *DetailView
}

// Controller owns the in-memory catalog of one mount: the collection, the
// search and page size selectors, the delete workflow and the detail view.
type Controller struct {
	fetcher  *Fetcher
	deleter  *Deleter
	notifier Notifier
	logger   *slog.Logger
	metrics  Metrics

	mountOnce sync.Once

	mu          sync.Mutex
	loading     bool
	fetchFailed bool
	products    []Product
	search      string
	pageSize    PageSize
	del         deleteFlow
	view        viewState
}

// NewController builds a Controller. It reports Loading until Mount settles.
func NewController(deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var notifier Notifier = nopNotifier{}
	if deps.Notifier != nil {
		notifier = deps.Notifier
	}
	var metrics Metrics = nopMetrics{}
	if deps.Metrics != nil {
		metrics = deps.Metrics
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(deps.Records)
	}
	return &Controller{
		fetcher:  fetcher,
		deleter:  NewDeleter(deps.Records, deps.Blobs, logger, metrics),
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		loading:  true,
		products: []Product{},
		pageSize: DefaultPageSize,
		del:      newDeleteFlow(),
	}
}

// Mount loads the catalog. Only the first call fetches; later calls return
// once that fetch has settled. A failed fetch leaves an empty catalog and is
// not retried.
func (c *Controller) Mount(ctx context.Context) {
	c.mountOnce.Do(func() {
		products, err := c.fetcher.Fetch(ctx)
		c.metrics.ObserveFetch(len(products), err)

		c.mu.Lock()
		c.loading = false
		if err != nil {
			c.fetchFailed = true
			c.products = []Product{}
		} else {
			c.products = products
		}
		c.mu.Unlock()

		if err != nil {
			c.logger.Error("fetch products", slog.Any("error", err))
			c.notifier.Notify(ctx, shared.Failure(msgFetchFailed))
			return
		}
		c.logger.Debug("products loaded", slog.Int("count", len(products)))
	})
}

// SetSearch updates the search term.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// SetPageSize updates the truncation length.
func (c *Controller) SetPageSize(size PageSize) error {
	if !size.Valid() {
		return ErrInvalidPageSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = size
	return nil
}

// Products returns a copy of the full collection.
func (c *Controller) Products() []Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Visible returns the rows to render for the current selectors.
func (c *Controller) Visible() VisibleSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Visible(c.products, c.search, c.pageSize)
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Loading:     c.loading,
		FetchFailed: c.fetchFailed,
		Total:       len(c.products),
		Search:      c.search,
		PageSize:    c.pageSize,
		Visible:     Visible(c.products, c.search, c.pageSize),
		Delete:      c.del.snapshot(),
		View:        c.view.snapshot(),
	}
}

// RequestDelete opens the confirmation for the product with id.
func (c *Controller) RequestDelete(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.find(id)
	if !ok {
		return ErrProductNotFound
	}
	return c.del.request(p)
}

// CancelDelete closes the confirmation without touching the stores.
func (c *Controller) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.del.cancel()
}

// ConfirmDelete runs the delete workflow for the pending target and returns
// its terminal phase. Store failures are reported through the notifier and
// the returned phase; the error is only set when there is nothing to confirm
// or a delete is already running.
//
// The store calls are detached from ctx cancellation: once issued, a delete
// runs to completion.
func (c *Controller) ConfirmDelete(ctx context.Context) (DeletePhase, error) {
	c.mu.Lock()
	target, err := c.del.begin()
	if err != nil {
		phase := c.del.phase
		c.mu.Unlock()
		return phase, err
	}
	c.mu.Unlock()

	removeErr := c.deleter.Remove(context.WithoutCancel(ctx), target)

	c.mu.Lock()
	if removeErr != nil {
		c.del.fail()
		c.mu.Unlock()
		c.logger.Error("delete product",
			slog.String("product_id", target.ID.String()),
			slog.Any("error", removeErr),
		)
		c.notifier.Notify(ctx, shared.Failure(msgDeleteFailed))
		return DeleteFailed, nil
	}
	c.products = without(c.products, target.ID)
	if c.view.target != nil && c.view.target.ID == target.ID {
		c.view.hide()
	}
	c.del.succeed()
	c.mu.Unlock()

	c.logger.Info("product deleted", slog.String("product_id", target.ID.String()))
	c.notifier.Notify(ctx, shared.Success(msgDeleted))
	return DeleteSucceeded, nil
}

// OpenView shows the detail view for the product with id.
func (c *Controller) OpenView(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.find(id)
	if !ok {
		return ErrProductNotFound
	}
	c.view.show(p)
	return nil
}

// CloseView hides the detail view.
func (c *Controller) CloseView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.hide()
}

func (c *Controller) find(id uuid.UUID) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// without returns a new slice so snapshots handed out earlier stay intact.
func without(products []Product, id uuid.UUID) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
