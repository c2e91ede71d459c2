package client

import (
	"sync"

	"github.com/gather/server/internal/models"
)

// AuthState is the session a client currently holds; a zero value means
// logged out
type AuthState struct {
	Token string
	User  *models.User
}

// Authenticated reports whether the state carries a token
func (s AuthState) Authenticated() bool {
	return s.Token != ""
}

type subscriber struct {
	id int
	fn func(AuthState)
}

// AuthStore holds the current session and tells subscribers about every
// change. Listeners run synchronously in subscription order, outside the lock.
type AuthStore struct {
	mu          sync.Mutex
	state       AuthState
	subscribers []subscriber
	nextID      int
}

// NewAuthStore creates an empty store
func NewAuthStore() *AuthStore {
	return &AuthStore{}
}

// Current returns the session
func (s *AuthStore) Current() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the session and notifies subscribers
func (s *AuthStore) Set(token string, user *models.User) {
	s.update(AuthState{Token: token, User: user})
}

// SetUser keeps the token and swaps the user, e.g. after a profile edit
func (s *AuthStore) SetUser(user *models.User) {
	s.mu.Lock()
	state := AuthState{Token: s.state.Token, User: user}
	s.mu.Unlock()
	s.update(state)
}

// Clear logs out
func (s *AuthStore) Clear() {
	s.update(AuthState{})
}

func (s *AuthStore) update(state AuthState) {
	s.mu.Lock()
	s.state = state
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}

// Subscribe registers fn for future changes. The returned function removes it
// and is safe to call more than once.
func (s *AuthStore) Subscribe(fn func(AuthState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}
