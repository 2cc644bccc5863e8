package entity

// StockRow AI tahlil qilgan ombor hisobotining bitta qatori
type StockRow struct {
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	UnitName    string  `json:"unitName"`

	// MatchedProductID katalog bilan moslashtirilgandan keyin to'ldiriladi;
	// bo'sh bo'lsa qator hisobga olinmaydi
	MatchedProductID string `json:"-"`
}
