package entity

// SubUnit mahsulotning qo'shimcha o'lchov birligi (masalan, 1 qop = 50 kg)
type SubUnit struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"` // 1 birlik = Factor ta asosiy birlik
}

// Product mahsulot kartasi
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	BaseUnit      string    `json:"baseUnit"`
	PurchasePrice float64   `json:"purchasePrice"`
	SalePrice     float64   `json:"salePrice"`
	Category      string    `json:"category"`
	Units         []SubUnit `json:"units"`
	CurrentStock  float64   `json:"currentStock"` // asosiy birlikdagi qoldiq
}

// ResolveUnit tanlangan birlik uchun koeffitsient va bir birlik narxini aniqlash.
// Asosiy birlik bo'lsa factor = 1; birliklar ro'yxatidan birinchi mos kelgani
// olinadi; topilmasa asosiy birlik deb qaraladi (xato qaytarilmaydi).
func (p *Product) ResolveUnit(unitName string) (factor, pricePerUnit float64) {
	if unitName == p.BaseUnit {
		return 1, p.SalePrice
	}
	for _, u := range p.Units {
		if u.Name == unitName {
			return u.Factor, p.SalePrice * u.Factor
		}
	}
	return 1, p.SalePrice
}

// ToBaseQuantity tanlangan birlikdagi miqdorni asosiy birlikka o'tkazish
func ToBaseQuantity(quantity, factor float64) float64 {
	return quantity * factor
}
