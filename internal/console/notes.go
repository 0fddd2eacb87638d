package console

import (
	"bloomadmin/internal/domain"
	"bloomadmin/internal/listview"
	"bloomadmin/internal/notify"
)

// NotesQuery changes the notifications view. Empty fields leave the current value.
type NotesQuery struct {
	Filter string
	Search *string
	Page   int
}

// NotificationsView applies q and derives the visible page of notifications.
func (w *Workspace) NotificationsView(q NotesQuery) listview.Page[domain.Notification] {
	items := w.Notes.Items()
	w.notesMu.Lock()
	defer w.notesMu.Unlock()
	if q.Filter != "" {
		w.notesView.SetFilter(q.Filter)
	}
	if q.Search != nil {
		w.notesView.SetSearch(*q.Search)
	}
	if q.Page > 0 {
		w.notesView.SetPage(q.Page)
	}
	p := listview.Derive(items, notify.Spec, w.notesView.Query())
	w.notesView.Page = p.Page
	return p
}

func (w *Workspace) NotesState() listview.State {
	w.notesMu.Lock()
	defer w.notesMu.Unlock()
	return w.notesView
}
