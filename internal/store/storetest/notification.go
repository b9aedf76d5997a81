package storetest

import (
	"context"
	"slices"
	"sync"
	"time"

	"giventake/pkg/types"
)

type Notifications struct {
	faults
	mu   sync.Mutex
	rows []*types.Notification
}

func (r *Notifications) Create(ctx context.Context, notifications ...*types.Notification) error {
	if err := r.hit("Create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	at := now()
	for _, n := range notifications {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = at
		}
		r.rows = append(r.rows, clone(n))
	}
	return nil
}

func (r *Notifications) Notifications(ctx context.Context, filter types.NotificationFilter) ([]*types.Notification, error) {
	if err := r.hit("Notifications"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.Notification{}
	for _, n := range r.rows {
		switch {
		case filter.ID != "" && n.ID != filter.ID,
			filter.Type != "" && n.Type != filter.Type,
			filter.UserType != "" && n.UserType != filter.UserType,
			filter.RecipientID != "" && n.RecipientID != filter.RecipientID,
			filter.Status != "" && n.Status != filter.Status:
			continue
		}
		out = append(out, clone(n))
	}
	return newestFirst(out, func(n *types.Notification) time.Time { return n.CreatedAt }), nil
}

func (r *Notifications) MarkRead(ctx context.Context, notificationIDs []string) (int64, error) {
	if err := r.hit("MarkRead"); err != nil {
		return 0, err
	}
	return r.markRead(func(n *types.Notification) bool { return slices.Contains(notificationIDs, n.ID) }), nil
}

func (r *Notifications) MarkReadByRecipient(ctx context.Context, recipientID string) (int64, error) {
	if err := r.hit("MarkReadByRecipient"); err != nil {
		return 0, err
	}
	return r.markRead(func(n *types.Notification) bool {
		return n.RecipientID == recipientID && n.Status == types.NotificationStatusUnread
	}), nil
}

func (r *Notifications) markRead(match func(*types.Notification) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if match(n) {
			n.Status = types.NotificationStatusRead
			count++
		}
	}
	return count
}

// All returns every stored notification in insertion order.
func (r *Notifications) All() []*types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.Notification, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, clone(n))
	}
	return out
}
