package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/mutation"
	"github.com/study-upc/studyclient/internal/client/notify"
)

var ErrPageOutOfRange = errors.New("page out of range")

type readSnapshot struct {
	prev        models.Notification
	found       bool
	decremented bool
}

type readAllSnapshot struct {
	page    collection.Snapshot[models.Notification]
	cleared int64
}

type deleteSnapshot struct {
	removal     collection.Removal[models.Notification]
	found       bool
	decremented bool
}

// NotificationService owns the notification page and the unread counter.
// Mark-read, mark-all-read and delete are applied optimistically.
type NotificationService struct {
	api   NotificationAPI
	store *collection.Store[models.Notification]
	load  *collection.Loader[models.Notification]
	now   func() time.Time

	mu     sync.Mutex
	unread int64

	markRead *mutation.Coordinator[int64, struct{}, readSnapshot]
	markAll  *mutation.Coordinator[struct{}, struct{}, readAllSnapshot]
	remove   *mutation.Coordinator[int64, struct{}, deleteSnapshot]
}

func NewNotificationService(api NotificationAPI, n notify.Notifier, pageSize int) *NotificationService {
	if n == nil {
		n = notify.Discard{}
	}
	store := collection.NewStore[models.Notification](pageSize)
	s := &NotificationService{
		api:   api,
		store: store,
		load:  collection.NewLoader(store, api.ListNotifications),
		now:   time.Now,
	}

	s.markRead = mutation.New(mutation.Options[int64, struct{}, readSnapshot]{
		Apply:    s.applyRead,
		Rollback: s.rollbackRead,
		Call: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, api.MarkNotificationRead(ctx, id)
		},
		OnSuccess: func(_ struct{}, id int64) {
			// Not on the loaded page, so Apply could not tell whether it was
			// unread. The backend confirmed it is read now.
			if !s.store.Contains(id) {
				s.addUnread(-1)
			}
		},
		ErrorMessage: "Could not mark the notification as read",
	}, n)

	s.markAll = mutation.New(mutation.Options[struct{}, struct{}, readAllSnapshot]{
		Apply:    s.applyReadAll,
		Rollback: s.rollbackReadAll,
		Call: func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, api.MarkAllNotificationsRead(ctx)
		},
		SuccessMessage: "All notifications marked as read",
		ErrorMessage:   "Could not mark notifications as read",
	}, n)

	s.remove = mutation.New(mutation.Options[int64, struct{}, deleteSnapshot]{
		Apply:    s.applyDelete,
		Rollback: s.rollbackDelete,
		Call: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, api.DeleteNotification(ctx, id)
		},
		SuccessMessage: "Notification deleted",
		ErrorMessage:   "Could not delete the notification",
	}, n)

	return s
}

func (s *NotificationService) Store() *collection.Store[models.Notification] { return s.store }
func (s *NotificationService) Loading() bool                                 { return s.load.Loading() }

func (s *NotificationService) Fetch(ctx context.Context, q collection.Query) error {
	return s.load.Load(ctx, q)
}

func (s *NotificationService) Reload(ctx context.Context) error {
	return s.load.Reload(ctx)
}

// FetchPage moves to page n of the current query.
func (s *NotificationService) FetchPage(ctx context.Context, n int) error {
	q, ok := s.store.PageQuery(n)
	if !ok {
		return ErrPageOutOfRange
	}
	return s.load.Load(ctx, q)
}

// FilterStatus reloads the first page showing only notifications with the
// given status; "" shows all.
func (s *NotificationService) FilterStatus(ctx context.Context, status models.NotificationStatus) error {
	return s.load.Load(ctx, s.store.Query().WithFilter("status", string(status)))
}

func (s *NotificationService) UnreadCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *NotificationService) RefreshUnreadCount(ctx context.Context) (int64, error) {
	n, err := s.api.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.unread = max(n, 0)
	s.mu.Unlock()
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	_, err := s.markRead.Mutate(ctx, id)
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	_, err := s.markAll.Mutate(ctx, struct{}{})
	return err
}

func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	_, err := s.remove.Mutate(ctx, id)
	return err
}

func (s *NotificationService) Reset() {
	s.load.Invalidate()
	s.store.Reset()
	s.mu.Lock()
	s.unread = 0
	s.mu.Unlock()
}

func (s *NotificationService) applyRead(id int64) readSnapshot {
	readAt := s.now()
	prev, ok := s.store.Update(id, func(n models.Notification) models.Notification {
		n.Status = models.NotificationRead
		if n.ReadAt == nil {
			n.ReadAt = &readAt
		}
		return n
	})
	snap := readSnapshot{prev: prev, found: ok}
	if ok && prev.Unread() {
		snap.decremented = s.addUnread(-1)
	}
	return snap
}

func (s *NotificationService) rollbackRead(id int64, snap readSnapshot) {
	if !snap.found {
		return
	}
	s.store.Update(id, func(models.Notification) models.Notification { return snap.prev })
	if snap.decremented {
		s.addUnread(1)
	}
}

func (s *NotificationService) applyReadAll(struct{}) readAllSnapshot {
	snap := readAllSnapshot{page: s.store.Snapshot()}
	readAt := s.now()
	s.store.UpdateAll(func(n models.Notification) models.Notification {
		if n.Unread() {
			n.Status = models.NotificationRead
			n.ReadAt = &readAt
		}
		return n
	})

	s.mu.Lock()
	snap.cleared = s.unread
	s.unread = 0
	s.mu.Unlock()
	return snap
}

func (s *NotificationService) rollbackReadAll(_ struct{}, snap readAllSnapshot) {
	s.store.Restore(snap.page)
	s.addUnread(snap.cleared)
}

func (s *NotificationService) applyDelete(id int64) deleteSnapshot {
	r, ok := s.store.Detach(id)
	snap := deleteSnapshot{removal: r, found: ok}
	if ok && r.Entity.Unread() {
		snap.decremented = s.addUnread(-1)
	}
	return snap
}

func (s *NotificationService) rollbackDelete(_ int64, snap deleteSnapshot) {
	if !snap.found {
		return
	}
	s.store.Reattach(snap.removal)
	if snap.decremented {
		s.addUnread(1)
	}
}

// addUnread changes the counter by delta without letting it go negative. It
// reports whether the counter changed.
func (s *NotificationService) addUnread(delta int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := max(s.unread+delta, 0)
	changed := next != s.unread
	s.unread = next
	return changed
}
