package entity

// DefaultProducts birinchi ishga tushirishda o'rnatiladigan boshlang'ich
// katalog. Ma'lumotlar savdo hujjatlaridagi asl ko'rinishida saqlanadi.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:            "1",
			Name:          "عدس",
			BaseUnit:      "كيلو",
			PurchasePrice: 40,
			SalePrice:     50,
			Category:      "بقوليات",
			Units:         []SubUnit{{Name: "شوال", Factor: 50}},
			CurrentStock:  0,
		},
		{
			ID:            "2",
			Name:          "لوبيا",
			BaseUnit:      "كيلو",
			PurchasePrice: 60,
			SalePrice:     75,
			Category:      "بقوليات",
			Units:         []SubUnit{{Name: "شوال", Factor: 40}},
			CurrentStock:  0,
		},
	}
}
