package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"neuroaccess/internal/onboarding/models"
	"neuroaccess/pkg/platform/sentinel"
)

// InMemoryLoginStore keeps login history per user name, newest first.
type InMemoryLoginStore struct {
	mu     sync.RWMutex
	logins map[string][]models.BrokerAccountLogin
}

func NewInMemoryLoginStore() *InMemoryLoginStore {
	return &InMemoryLoginStore{logins: make(map[string][]models.BrokerAccountLogin)}
}

// Record appends a login event.
func (s *InMemoryLoginStore) Record(_ context.Context, login models.BrokerAccountLogin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.logins[login.UserName], login)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	s.logins[login.UserName] = list
	return nil
}

// LastLogin returns the most recent login for an exact user name match.
func (s *InMemoryLoginStore) LastLogin(_ context.Context, userName string) (*models.BrokerAccountLogin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.logins[userName]
	if len(list) == 0 {
		return nil, sentinel.ErrNotFound
	}
	login := list[0]
	if login.RemoteEndpoint != nil {
		endpoint := *login.RemoteEndpoint
		login.RemoteEndpoint = &endpoint
	}
	return &login, nil
}

// InMemoryAccountStore keeps broker accounts keyed by user name.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]models.BrokerAccount
	updates  int
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{accounts: make(map[string]models.BrokerAccount)}
}

// Save inserts or replaces an account. Used for seeding; the authenticator
// never creates accounts.
func (s *InMemoryAccountStore) Save(_ context.Context, account models.BrokerAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.UserName] = account
	return nil
}

func (s *InMemoryAccountStore) FindByUserName(_ context.Context, userName string) (*models.BrokerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if account, ok := s.accounts[userName]; ok {
		return &account, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryAccountStore) UpdateEMail(_ context.Context, userName, email string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userName]
	if !ok {
		return sentinel.ErrNotFound
	}
	account.EMail = email
	account.UpdatedAt = now
	s.accounts[userName] = account
	s.updates++
	return nil
}

// Updates returns how many email updates were applied.
func (s *InMemoryAccountStore) Updates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updates
}
