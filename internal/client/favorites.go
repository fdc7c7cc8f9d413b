package client

import (
	"sort"
	"sync"

	"github.com/adora-ads/adora-api/internal/model"
)

// Favorites is the in-memory set of saved space ids. It is never persisted
// and only a signed-in session may change it.
type Favorites struct {
	session *Session

	mu  sync.Mutex
	ids map[string]struct{}
}

func NewFavorites(s *Session) *Favorites {
	return &Favorites{session: s, ids: make(map[string]struct{})}
}

// Toggle adds spaceID to the set or removes it, returning whether it is now
// a favorite. Without a signed-in session the set is left unchanged and
// NoticeLoginToFavorite is returned.
func (f *Favorites) Toggle(spaceID string) (bool, error) {
	if !f.session.Authenticated() {
		return false, NoticeLoginToFavorite
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[spaceID]; ok {
		delete(f.ids, spaceID)
		return false, nil
	}
	f.ids[spaceID] = struct{}{}
	return true, nil
}

// Has reports whether spaceID is a favorite.
func (f *Favorites) Has(spaceID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[spaceID]
	return ok
}

// List returns the favorite ids in sorted order.
func (f *Favorites) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ContactOwner returns the notice shown when a user asks to contact the
// owner of space. It requires a signed-in session.
func ContactOwner(s *Session, space model.AdvertisingSpace) (*Notice, error) {
	if !s.Authenticated() {
		return nil, NoticeLoginToContact
	}
	name := "the owner"
	if space.Owner != nil && space.Owner.DisplayName() != "" {
		name = space.Owner.DisplayName()
	}
	return &Notice{Title: "Contact Owner", Message: "Contacting " + name}, nil
}
