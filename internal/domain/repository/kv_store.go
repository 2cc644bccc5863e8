package repository

import "context"

// KVStore kalit-qiymat ko'rinishidagi saqlash qatlami. Har bir kalit ostida
// JSON massiv yotadi; yozish har bir mutatsiyadan keyin to'liq almashtirish
// bilan bajariladi.
type KVStore interface {
	// Get kalit qiymatini olish; kalit bo'lmasa (nil, nil) qaytadi
	Get(ctx context.Context, key string) ([]byte, error)

	// Set kalit qiymatini to'liq almashtirish
	Set(ctx context.Context, key string, value []byte) error

	// Close saqlashni yopish
	Close() error
}
