package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

// CatalogUseCase mahsulot katalogi bilan ishlash
type CatalogUseCase interface {
	// AddProduct yangi mahsulot qo'shish
	AddProduct(ctx context.Context, product entity.Product) (*entity.Product, error)

	// DeleteProduct mahsulotni katalogdan o'chirish
	DeleteProduct(ctx context.Context, id string) error

	// AdjustStock qoldiqni qo'lda o'zgartirish (0 dan pastga tushmaydi)
	AdjustStock(ctx context.Context, id string, delta float64) (*entity.Product, error)

	// Get ID bo'yicha mahsulotni olish
	Get(ctx context.Context, id string) (*entity.Product, error)

	// List barcha mahsulotlar
	List(ctx context.Context) ([]entity.Product, error)

	// Search nom bo'yicha qidirish
	Search(ctx context.Context, query string) ([]entity.Product, error)

	// ImportExcel Excel fayldan mahsulotlarni o'qib katalogga qo'shish
	ImportExcel(ctx context.Context, data []byte, filename string) (int, error)
}

type catalogUseCase struct {
	productRepo repository.ProductRepository
	parser      repository.ExcelParser
}

// NewCatalogUseCase yangi CatalogUseCase yaratish
func NewCatalogUseCase(productRepo repository.ProductRepository, parser repository.ExcelParser) CatalogUseCase {
	return &catalogUseCase{
		productRepo: productRepo,
		parser:      parser,
	}
}

// AddProduct yangi mahsulot qo'shish
func (u *catalogUseCase) AddProduct(ctx context.Context, product entity.Product) (*entity.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, fmt.Errorf("mahsulot nomi bo'sh bo'lmasligi kerak")
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.BaseUnit == "" {
		product.BaseUnit = "كيلو"
	}
	if product.Category == "" {
		product.Category = "عام"
	}

	if err := u.productRepo.Add(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}
	return &product, nil
}

// DeleteProduct mahsulotni katalogdan o'chirish
func (u *catalogUseCase) DeleteProduct(ctx context.Context, id string) error {
	return u.productRepo.Delete(ctx, id)
}

// AdjustStock qoldiqni qo'lda o'zgartirish
func (u *catalogUseCase) AdjustStock(ctx context.Context, id string, delta float64) (*entity.Product, error) {
	return u.productRepo.AdjustStock(ctx, id, delta)
}

// Get ID bo'yicha mahsulotni olish
func (u *catalogUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	return u.productRepo.GetByID(ctx, id)
}

// List barcha mahsulotlar
func (u *catalogUseCase) List(ctx context.Context) ([]entity.Product, error) {
	return u.productRepo.GetAll(ctx)
}

// Search nom bo'yicha qidirish
func (u *catalogUseCase) Search(ctx context.Context, query string) ([]entity.Product, error) {
	return u.productRepo.Search(ctx, query)
}

// ImportExcel Excel fayldan mahsulotlarni o'qish va katalogga qo'shish
func (u *catalogUseCase) ImportExcel(ctx context.Context, data []byte, filename string) (int, error) {
	products, err := u.parser.ParseProductsFromBytes(ctx, data, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse excel: %w", err)
	}
	if len(products) == 0 {
		return 0, fmt.Errorf("faylda mahsulot topilmadi")
	}
	if err := u.productRepo.AddMany(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to save products: %w", err)
	}
	return len(products), nil
}
