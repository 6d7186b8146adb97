// internal/legacy/store.go
package legacy

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/models"
)

// Store persists registry entries. List returns entries in insertion order;
// names are unique ignoring case.
type Store interface {
	List(ctx context.Context) ([]models.LegacyBusiness, error)
	GetByName(ctx context.Context, name string) (*models.LegacyBusiness, error)
	Create(ctx context.Context, b *models.LegacyBusiness) error
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func notFound(name string) error {
	err := apperrors.NewBusinessNotFoundError("business_name: " + name)
	err.Message = "Business '" + name + "' not found in legacy registry"
	return err
}

// ==========================
// Memory
// ==========================

type MemoryStore struct {
	mu         sync.RWMutex
	businesses []models.LegacyBusiness
	index      map[string]int
}

// NewMemoryStore returns a store holding seed in order. Duplicate names after
// the first are dropped.
func NewMemoryStore(seed ...models.LegacyBusiness) *MemoryStore {
	s := &MemoryStore{index: make(map[string]int, len(seed))}
	for i := range seed {
		b := seed[i]
		_ = s.Create(context.Background(), &b)
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]models.LegacyBusiness, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LegacyBusiness, len(s.businesses))
	copy(out, s.businesses)
	return out, nil
}

func (s *MemoryStore) GetByName(_ context.Context, name string) (*models.LegacyBusiness, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[nameKey(name)]
	if !ok {
		return nil, notFound(name)
	}
	b := s.businesses[i]
	return &b, nil
}

func (s *MemoryStore) Create(_ context.Context, b *models.LegacyBusiness) error {
	key := nameKey(b.BusinessName)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.index[key]; exists {
		return apperrors.NewDuplicateBusinessError(b.BusinessName)
	}
	s.index[key] = len(s.businesses)
	s.businesses = append(s.businesses, *b)
	return nil
}
