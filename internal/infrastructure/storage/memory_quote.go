package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

const quotesKey = "quotes"

type memoryQuoteRepository struct {
	mu     sync.RWMutex
	quotes []entity.Quote // eng yangisi birinchi
	kv     repository.KVStore
}

// NewMemoryQuoteRepository takliflarni xotirada saqlovchi repository.
// Boshlang'ich holat kv dan o'qiladi; kv nil bo'lsa saqlashsiz ishlaydi.
func NewMemoryQuoteRepository(ctx context.Context, kv repository.KVStore) (repository.QuoteRepository, error) {
	repo := &memoryQuoteRepository{kv: kv}

	if kv == nil {
		return repo, nil
	}

	raw, err := kv.Get(ctx, quotesKey)
	if err != nil {
		return nil, fmt.Errorf("takliflarni o'qib bo'lmadi: %w", err)
	}
	if raw == nil {
		return repo, nil
	}

	if err := json.Unmarshal(raw, &repo.quotes); err != nil {
		return nil, fmt.Errorf("takliflar ma'lumotlari buzilgan: %w", err)
	}
	return repo, nil
}

func (m *memoryQuoteRepository) persist(ctx context.Context) {
	if m.kv == nil {
		return
	}
	raw, err := json.Marshal(m.quotes)
	if err != nil {
		log.Printf("Takliflarni marshal qilib bo'lmadi: %v", err)
		return
	}
	if err := m.kv.Set(ctx, quotesKey, raw); err != nil {
		log.Printf("Takliflarni saqlab bo'lmadi: %v", err)
	}
}

func (m *memoryQuoteRepository) snapshot() []entity.Quote {
	out := make([]entity.Quote, len(m.quotes))
	copy(out, m.quotes)
	return out
}

// GetAll barcha takliflarni olish
func (m *memoryQuoteRepository) GetAll(ctx context.Context) ([]entity.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshot(), nil
}

// GetByID ID bo'yicha taklifni olish
func (m *memoryQuoteRepository) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, quote := range m.quotes {
		if quote.ID == id {
			q := quote
			return &q, nil
		}
	}
	return nil, nil
}

// Add yangi taklifni ro'yxat boshiga qo'shish
func (m *memoryQuoteRepository) Add(ctx context.Context, quote entity.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]entity.Quote, 0, len(m.quotes)+1)
	next = append(next, quote)
	next = append(next, m.quotes...)
	m.quotes = next
	m.persist(ctx)
	return nil
}

// Delete taklifni o'chirish
func (m *memoryQuoteRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]entity.Quote, 0, len(m.quotes))
	for _, quote := range m.quotes {
		if quote.ID != id {
			next = append(next, quote)
		}
	}
	m.quotes = next
	m.persist(ctx)
	return nil
}

// SearchByCustomer mijoz nomi bo'yicha qidirish
func (m *memoryQuoteRepository) SearchByCustomer(ctx context.Context, query string) ([]entity.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return m.snapshot(), nil
	}

	var results []entity.Quote
	for _, quote := range m.quotes {
		if strings.Contains(strings.ToLower(quote.CustomerName), query) {
			results = append(results, quote)
		}
	}
	return results, nil
}

// ReplaceAll barcha takliflarni almashtirish
func (m *memoryQuoteRepository) ReplaceAll(ctx context.Context, quotes []entity.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]entity.Quote, len(quotes))
	copy(next, quotes)
	m.quotes = next
	m.persist(ctx)
	return nil
}

// Clear barcha takliflarni o'chirish
func (m *memoryQuoteRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.quotes = nil
	m.persist(ctx)
	return nil
}
