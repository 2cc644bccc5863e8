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

const productsKey = "products"

type memoryProductRepository struct {
	mu       sync.RWMutex
	products []entity.Product // kiritilgan tartibda
	kv       repository.KVStore
}

// NewMemoryProductRepository katalogni xotirada saqlovchi repository.
// Boshlang'ich holat kv dan o'qiladi; kalit umuman bo'lmasa boshlang'ich
// katalog o'rnatiladi. kv nil bo'lsa saqlashsiz ishlaydi (testlar uchun).
func NewMemoryProductRepository(ctx context.Context, kv repository.KVStore) (repository.ProductRepository, error) {
	repo := &memoryProductRepository{kv: kv}

	if kv == nil {
		return repo, nil
	}

	raw, err := kv.Get(ctx, productsKey)
	if err != nil {
		return nil, fmt.Errorf("katalogni o'qib bo'lmadi: %w", err)
	}
	if raw == nil {
		repo.products = entity.DefaultProducts()
		repo.persist(ctx)
		return repo, nil
	}

	if err := json.Unmarshal(raw, &repo.products); err != nil {
		return nil, fmt.Errorf("katalog ma'lumotlari buzilgan: %w", err)
	}
	return repo, nil
}

// persist joriy ro'yxatni kv ga yozish; xato faqat log qilinadi
func (m *memoryProductRepository) persist(ctx context.Context) {
	if m.kv == nil {
		return
	}
	raw, err := json.Marshal(m.products)
	if err != nil {
		log.Printf("Katalogni marshal qilib bo'lmadi: %v", err)
		return
	}
	if err := m.kv.Set(ctx, productsKey, raw); err != nil {
		log.Printf("Katalogni saqlab bo'lmadi: %v", err)
	}
}

// snapshot ro'yxat nusxasini olish; mutatsiyalar nusxada bajariladi va
// keyin ro'yxat butunligicha almashtiriladi
func (m *memoryProductRepository) snapshot() []entity.Product {
	out := make([]entity.Product, len(m.products))
	copy(out, m.products)
	return out
}

// GetAll barcha mahsulotlarni olish
func (m *memoryProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshot(), nil
}

// GetByID ID bo'yicha mahsulotni olish
func (m *memoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, product := range m.products {
		if product.ID == id {
			p := product
			return &p, nil
		}
	}
	return nil, nil
}

// Add yangi mahsulot qo'shish
func (m *memoryProductRepository) Add(ctx context.Context, product entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = append(m.snapshot(), product)
	m.persist(ctx)
	return nil
}

// AddMany ko'p mahsulotlarni qo'shish (bitta yozish bilan)
func (m *memoryProductRepository) AddMany(ctx context.Context, products []entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = append(m.snapshot(), products...)
	m.persist(ctx)
	return nil
}

// Delete mahsulotni o'chirish
func (m *memoryProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]entity.Product, 0, len(m.products))
	for _, product := range m.products {
		if product.ID != id {
			next = append(next, product)
		}
	}
	m.products = next
	m.persist(ctx)
	return nil
}

// AdjustStock qoldiqni qo'lda o'zgartirish; natija noldan pastga tushmaydi
func (m *memoryProductRepository) AdjustStock(ctx context.Context, id string, delta float64) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.snapshot()
	for i := range next {
		if next[i].ID == id {
			stock := next[i].CurrentStock + delta
			if stock < 0 {
				stock = 0
			}
			next[i].CurrentStock = stock
			m.products = next
			m.persist(ctx)
			p := next[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product not found: %s", id)
}

// ApplyStockDelta taklif yaratish/o'chirishdagi qoldiq o'zgarishi.
// Chegarasiz - qoldiq manfiy bo'lishi mumkin. Mahsulot topilmasa
// hech narsa qilinmaydi.
func (m *memoryProductRepository) ApplyStockDelta(ctx context.Context, id string, delta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.snapshot()
	for i := range next {
		if next[i].ID == id {
			next[i].CurrentStock += delta
			m.products = next
			m.persist(ctx)
			return nil
		}
	}
	return nil
}

// Search nom bo'yicha qidirish
func (m *memoryProductRepository) Search(ctx context.Context, query string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return m.snapshot(), nil
	}

	var results []entity.Product
	for _, product := range m.products {
		if strings.Contains(strings.ToLower(product.Name), query) {
			results = append(results, product)
		}
	}
	return results, nil
}

// ReplaceAll butun katalogni almashtirish
func (m *memoryProductRepository) ReplaceAll(ctx context.Context, products []entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]entity.Product, len(products))
	copy(next, products)
	m.products = next
	m.persist(ctx)
	return nil
}
