package console

import (
	"context"
	"sync"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/validate"
)

// Products: the backend computes fields such as the image URL, so every successful
// write is followed by a full reload.

func (w *Workspace) CreateProduct(ctx context.Context, p domain.ProductPayload) error {
	if err := errs(p, nil); err != nil {
		return err
	}
	done, err := w.begin(recordKey("product", 0))
	if err != nil {
		return err
	}
	defer done()
	if err := w.backend.CreateProduct(ctx, p); err != nil {
		return err
	}
	w.reloadProducts(ctx)
	return nil
}

// UpdateProduct sends p for product id. Without a new image the product's current image
// is re-submitted so the backend keeps it.
func (w *Workspace) UpdateProduct(ctx context.Context, id int64, p domain.ProductPayload) error {
	if err := errs(p, nil); err != nil {
		return err
	}
	done, err := w.begin(recordKey("product", id))
	if err != nil {
		return err
	}
	defer done()
	if !p.Image.Replaces() && !p.Image.Keeps() {
		if cur, ok := w.Products.Store.Find(id); ok {
			p.Image = domain.KeepImage(cur.ImageURL)
		}
	}
	if err := w.backend.UpdateProduct(ctx, id, p); err != nil {
		return err
	}
	w.reloadProducts(ctx)
	return nil
}

// DeleteProduct removes product id. Nothing happens unless confirmed.
func (w *Workspace) DeleteProduct(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return nil
	}
	done, err := w.begin(recordKey("product", id))
	if err != nil {
		return err
	}
	defer done()
	if err := w.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	w.reloadProducts(ctx)
	return nil
}

// reloadProducts refreshes the shared product store. The write already succeeded, so a
// failed reload only leaves the screens empty until the next load.
func (w *Workspace) reloadProducts(ctx context.Context) {
	_ = w.Products.Reload(ctx)
}

// Orders: the status is patched locally once the backend accepts it.

func (w *Workspace) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return validate.Errors{"status": "must be one of Pending, Delivered, Cancelled/Returned"}
	}
	done, err := w.begin(recordKey("order", id))
	if err != nil {
		return err
	}
	defer done()
	if err := w.backend.UpdateOrderStatus(ctx, id, st); err != nil {
		return err
	}
	w.Orders.Store.Update(id, func(o domain.Order) domain.Order {
		o.Status = st
		return o
	})
	return nil
}

// Users: the backend's response is applied to the store directly.

func passwordErrors(p domain.UserPayload, required bool) validate.Errors {
	switch {
	case required && (!p.Password.Set || p.Password.Value == ""):
		return validate.Errors{"password": "is required"}
	case p.Password.Set && p.Password.Value != "" && !validate.Password(p.Password.Value):
		return validate.Errors{"password": "must be 6 to 72 characters"}
	}
	return nil
}

// CreateUser adds the created record at the front of the list and returns to page 1.
func (w *Workspace) CreateUser(ctx context.Context, p domain.UserPayload) (domain.User, error) {
	p = p.Normalize()
	if err := errs(p, passwordErrors(p, true)); err != nil {
		return domain.User{}, err
	}
	done, err := w.begin(recordKey("user", 0))
	if err != nil {
		return domain.User{}, err
	}
	defer done()
	u, err := w.backend.CreateUser(ctx, p)
	if err != nil {
		return domain.User{}, err
	}
	w.Users.Store.Upsert(u)
	w.Users.SetPage(1)
	return u, nil
}

// UpdateUser replaces the record with the backend's version.
func (w *Workspace) UpdateUser(ctx context.Context, id int64, p domain.UserPayload) (domain.User, error) {
	p = p.Normalize()
	if err := errs(p, passwordErrors(p, false)); err != nil {
		return domain.User{}, err
	}
	done, err := w.begin(recordKey("user", id))
	if err != nil {
		return domain.User{}, err
	}
	defer done()
	u, err := w.backend.UpdateUser(ctx, id, p)
	if err != nil {
		return domain.User{}, err
	}
	if u.ID == 0 {
		u.ID = id
	}
	w.Users.Store.Upsert(u)
	return u, nil
}

// DeleteUser removes the record once the backend has deleted it. Nothing happens unless confirmed.
func (w *Workspace) DeleteUser(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return nil
	}
	done, err := w.begin(recordKey("user", id))
	if err != nil {
		return err
	}
	defer done()
	if err := w.backend.DeleteUser(ctx, id); err != nil {
		return err
	}
	w.Users.Store.Remove(id)
	return nil
}

// Notifications.

// OpenNotifications fetches the list the first time the screen is shown.
func (w *Workspace) OpenNotifications(ctx context.Context) error {
	w.notesMu.Lock()
	loaded := w.notesOnce
	w.notesMu.Unlock()
	if loaded {
		return nil
	}
	return w.ReloadNotifications(ctx)
}

// ReloadNotifications replaces the buffer with the backend's list. On failure the
// buffer is emptied.
func (w *Workspace) ReloadNotifications(ctx context.Context) error {
	list, err := w.backend.ListNotifications(ctx)
	w.notesMu.Lock()
	w.notesOnce = true
	w.notesMu.Unlock()
	if err != nil {
		w.Notes.Reset(nil)
		return err
	}
	w.Notes.Reset(list)
	return nil
}

func (w *Workspace) MarkNotificationRead(ctx context.Context, id string) error {
	done, err := w.begin(recordKey("notification", id))
	if err != nil {
		return err
	}
	defer done()
	if err := w.backend.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	w.Notes.MarkRead(id)
	return nil
}

// MarkAllNotificationsRead marks every unread notification, MarkAllBatch at a time.
// Entries the backend accepted are marked locally even when others fail; the first
// failure is returned and stops later batches.
func (w *Workspace) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	done, err := w.begin(recordKey("notification", "all"))
	if err != nil {
		return 0, err
	}
	defer done()

	ids := w.Notes.UnreadIDs()
	marked := 0
	for start := 0; start < len(ids); start += MarkAllBatch {
		batch := ids[start:min(start+MarkAllBatch, len(ids))]
		results := make([]error, len(batch))
		var wg sync.WaitGroup
		for i, id := range batch {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = w.backend.MarkNotificationRead(ctx, id)
			}()
		}
		wg.Wait()

		var first error
		for i, id := range batch {
			if results[i] != nil {
				if first == nil {
					first = results[i]
				}
				continue
			}
			w.Notes.MarkRead(id)
			marked++
		}
		if first != nil {
			return marked, first
		}
	}
	return marked, nil
}

func (w *Workspace) DeleteNotification(ctx context.Context, id string) error {
	done, err := w.begin(recordKey("notification", id))
	if err != nil {
		return err
	}
	defer done()
	if err := w.backend.DeleteNotification(ctx, id); err != nil {
		return err
	}
	w.Notes.Remove(id)
	return nil
}
