package reconcile

import (
	"context"
	"sync"

	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/models"
	"github.com/avalune/wisp/internal/storage/memos"
)

// memoCache is the in-memory view of the persisted memos, loaded once per
// session. deriveUser consults it so a user record carries its memo however
// the record got merged.
type memoCache struct {
	mu     sync.RWMutex
	byUser map[string]string
}

func newMemoCache() *memoCache {
	return &memoCache{byUser: make(map[string]string)}
}

func (m *memoCache) get(userID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	memo, ok := m.byUser[userID]
	return memo, ok
}

func (m *memoCache) put(userID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[userID] = text
}

func (m *memoCache) delete(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byUser, userID)
}

func (m *memoCache) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser = make(map[string]string)
}

// AttachMemos wires the persisted memo store into the session lifecycle:
// on LOGIN every memo is loaded and merged onto the cached user records, the
// same way remote payloads are merged. Call before Register's LOGIN event can
// fire.
func (r *Reconciler) AttachMemos(repo memos.Repository) {
	r.subs = append(r.subs, r.bus.On(eventbus.Login, func(any) {
		ctx := context.Background()
		all, err := repo.List(ctx)
		if err != nil {
			r.log.Error(ctx, "loading memos", "err", err)
			return
		}
		for _, memo := range all {
			r.memos.put(memo.UserID, memo.Text)
			r.state.Users.Update(memo.UserID, func(u *models.User) {
				u.Derived.Memo = memo.Text
			})
		}
		r.log.Info(ctx, "memos loaded", "count", len(all))
	}))
}

// SetMemo persists a memo and applies it to the cached record immediately.
func (r *Reconciler) SetMemo(ctx context.Context, repo memos.Repository, userID, text string) error {
	if text == "" {
		if err := repo.Delete(ctx, userID); err != nil {
			return err
		}
		r.memos.delete(userID)
	} else {
		if err := repo.Set(ctx, &memos.Memo{UserID: userID, Text: text}); err != nil {
			return err
		}
		r.memos.put(userID, text)
	}
	r.state.Users.Update(userID, func(u *models.User) { u.Derived.Memo = text })
	r.state.Session.Update(func(cu *models.CurrentUser) {
		if cu.ID == userID {
			cu.Derived.Memo = text
		}
	})
	return nil
}
