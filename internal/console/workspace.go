// Package console holds the per-session state of the admin console: one workspace
// per signed-in admin, with a screen per entity and the mutations that change them.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bloomadmin/internal/debounce"
	"bloomadmin/internal/domain"
	"bloomadmin/internal/listview"
	"bloomadmin/internal/log"
	"bloomadmin/internal/notify"
	"bloomadmin/internal/store"
	"bloomadmin/internal/validate"
)

var (
	// ErrBusy rejects a mutation on a record that already has one in flight.
	ErrBusy = errors.New("console: a change to this record is already in progress")
	// ErrClosed is returned by a workspace after Close.
	ErrClosed = errors.New("console: workspace closed")
)

// Backend is the part of the shop API the console uses.
type Backend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.ProductPayload) error
	UpdateProduct(ctx context.Context, id int64, p domain.ProductPayload) error
	DeleteProduct(ctx context.Context, id int64) error

	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, p domain.UserPayload) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, p domain.UserPayload) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListNotifications(ctx context.Context) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
}

// Options size a workspace.
type Options struct {
	PageSize    int
	SearchDelay time.Duration
	// RefetchTimeout bounds the product reload triggered by a push.
	RefetchTimeout time.Duration
}

// MarkAllBatch is how many notifications are marked read concurrently.
const MarkAllBatch = 10

// Workspace is everything one admin session sees.
type Workspace struct {
	ID    string
	Admin domain.User

	Products  *Screen[domain.Product]
	Inventory *Screen[domain.Product]
	Orders    *Screen[domain.Order]
	Users     *Screen[domain.User]

	Notes     *notify.Buffer
	notesMu   sync.Mutex
	notesView listview.State
	notesOnce bool

	backend Backend
	opts    Options
	refetch *debounce.Debouncer

	mu       sync.Mutex
	inflight map[string]bool
	lastSeen time.Time
	closed   bool
}

// NewWorkspace builds an empty workspace; nothing is fetched until a screen opens.
func NewWorkspace(id string, admin domain.User, b Backend, opts Options) *Workspace {
	if opts.PageSize < 1 {
		opts.PageSize = listview.DefaultPageSize
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = 300 * time.Millisecond
	}
	if opts.RefetchTimeout <= 0 {
		opts.RefetchTimeout = 10 * time.Second
	}
	products := store.New(b.ListProducts, productID)
	w := &Workspace{
		ID:        id,
		Admin:     admin,
		Products:  newScreen("products", products, ProductSpec, opts.PageSize, opts.SearchDelay),
		Inventory: newScreen("inventory", products, ProductSpec, opts.PageSize, opts.SearchDelay),
		Orders:    newScreen("orders", store.New(b.ListOrders, orderID), OrderSpec, opts.PageSize, opts.SearchDelay),
		Users:     newScreen("users", store.New(b.ListUsers, userID), UserSpec, opts.PageSize, opts.SearchDelay),
		Notes:     notify.NewBuffer(),
		notesView: listview.NewState(opts.PageSize),
		backend:   b,
		opts:      opts,
		refetch:   debounce.New(opts.SearchDelay),
		inflight:  map[string]bool{},
		lastSeen:  time.Now(),
	}
	return w
}

// Touch records activity for the idle sweep.
func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = now
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Close cancels pending searches and refetches. Later mutations fail with ErrClosed.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.refetch.Stop()
	w.Products.close()
	w.Inventory.close()
	w.Orders.close()
	w.Users.close()
}

func (w *Workspace) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// begin claims the in-flight slot for key. The returned func releases it.
func (w *Workspace) begin(key string) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if w.inflight[key] {
		return nil, ErrBusy
	}
	w.inflight[key] = true
	return func() {
		w.mu.Lock()
		delete(w.inflight, key)
		w.mu.Unlock()
	}, nil
}

func recordKey(entity string, id any) string { return fmt.Sprintf("%s:%v", entity, id) }

// InFlight reports whether a mutation on the record is running.
func (w *Workspace) InFlight(entity string, id any) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inflight[recordKey(entity, id)]
}

// Notify takes a pushed notification. A push about a product schedules a product reload
// so the product screens are recomputed from fresh data.
func (w *Workspace) Notify(n domain.Notification) {
	if w.Closed() {
		return
	}
	w.Notes.Push(n)
	if n.ProductID == nil {
		return
	}
	w.refetch.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.RefetchTimeout)
		defer cancel()
		if err := w.Products.Reload(ctx); err != nil {
			log.Error(nil, "console.push.refetch.fail", err, map[string]any{"workspace": w.ID, "product_id": *n.ProductID})
		}
	})
}

// errs collects validation failures into validate.Errors, or nil.
func errs(v any, extra validate.Errors) error {
	out := validate.Errors{}
	if err := validate.Struct(v); err != nil {
		var ve validate.Errors
		if !errors.As(err, &ve) {
			return err
		}
		for k, m := range ve {
			out[k] = m
		}
	}
	for k, m := range extra {
		out[k] = m
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
