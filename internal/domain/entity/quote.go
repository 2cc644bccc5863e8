package entity

import "time"

// QuoteItem narx taklifidagi bitta qator.
// Factor va PricePerUnit qator yaratilgan paytdagi qiymatlar - keyinchalik
// mahsulot kartasi o'zgarsa ham qayta hisoblanmaydi.
type QuoteItem struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"productId"`
	Quantity     float64 `json:"quantity"` // tanlangan birlikda
	UnitName     string  `json:"unitName"`
	Factor       float64 `json:"factor"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

// Quote mijoz uchun narx taklifi
type Quote struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Date         time.Time   `json:"date"`
	Items        []QuoteItem `json:"items"`
}

// TotalPrice taklifning umumiy summasi
func (q *Quote) TotalPrice() float64 {
	var total float64
	for _, item := range q.Items {
		total += item.Quantity * item.PricePerUnit
	}
	return total
}
