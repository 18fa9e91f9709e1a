package userstore

import (
	"context"
	"sync"
)

// Records serializes read-modify-write cycles on a Store per user, so a
// reminder stamp and a location update for the same user never overwrite
// each other.
type Records struct {
	store Store

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewRecords(store Store) *Records {
	return &Records{
		store: store,
		locks: make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the user's lock and returns its release func. Callers
// holding the lock use Store directly.
func (r *Records) Lock(userID int64) func() {
	r.mu.Lock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (r *Records) Store() Store {
	return r.store
}

func (r *Records) Load(ctx context.Context, userID int64) Record {
	unlock := r.Lock(userID)
	defer unlock()

	return r.store.Load(ctx, userID)
}

// Update applies fn to the stored record and saves the result.
func (r *Records) Update(ctx context.Context, userID int64, fn func(*Record)) (Record, error) {
	unlock := r.Lock(userID)
	defer unlock()

	record := r.store.Load(ctx, userID)
	fn(&record)

	if err := r.store.Save(ctx, userID, record); err != nil {
		return record, err
	}
	return record, nil
}

func (r *Records) ListNotifiable(ctx context.Context) ([]StoredUser, error) {
	return r.store.ListNotifiable(ctx)
}
