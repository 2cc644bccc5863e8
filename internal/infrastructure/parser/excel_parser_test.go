package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildCatalogFile(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseProductsFromBytes(t *testing.T) {
	data := buildCatalogFile(t, [][]interface{}{
		{"Nomi", "Kategoriya", "Asosiy birlik", "Olish narxi", "Sotish narxi", "Qoldiq", "Birliklar"},
		{"عدس احمر", "بقوليات", "كيلو", "3", "3.5", "120", "شوال:50; كيس:25"},
		{"لوبيا", "", "", "", "4,000", "40", ""},
	})

	p := NewExcelParser()
	products, err := p.ParseProductsFromBytes(context.Background(), data, "katalog.xlsx")
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "عدس احمر", first.Name)
	assert.Equal(t, "بقوليات", first.Category)
	assert.Equal(t, "كيلو", first.BaseUnit)
	assert.Equal(t, 3.0, first.PurchasePrice)
	assert.Equal(t, 3.5, first.SalePrice)
	assert.Equal(t, 120.0, first.CurrentStock)
	require.Len(t, first.Units, 2)
	assert.Equal(t, "شوال", first.Units[0].Name)
	assert.Equal(t, 50.0, first.Units[0].Factor)

	// Bo'sh kataklar uchun default qiymatlar
	second := products[1]
	assert.Equal(t, "عام", second.Category)
	assert.Equal(t, "كيلو", second.BaseUnit)
	assert.Equal(t, 4000.0, second.SalePrice)
	assert.Empty(t, second.Units)
}

func TestParseProductsFromBytes_EnglishHeaders(t *testing.T) {
	data := buildCatalogFile(t, [][]interface{}{
		{"Name", "Category", "Unit", "Sale price", "Stock"},
		{"Red Lentils", "Beans", "kg", "3.5", "10"},
	})

	p := NewExcelParser()
	products, err := p.ParseProductsFromBytes(context.Background(), data, "catalog.xlsx")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Red Lentils", products[0].Name)
	assert.Equal(t, "kg", products[0].BaseUnit)
	assert.Equal(t, 3.5, products[0].SalePrice)
}

func TestParseProductsFromBytes_SkipsEmptyRows(t *testing.T) {
	data := buildCatalogFile(t, [][]interface{}{
		{"Nomi", "Sotish narxi"},
		{"", ""},
		{"عدس", "3.5"},
	})

	p := NewExcelParser()
	products, err := p.ParseProductsFromBytes(context.Background(), data, "katalog.xlsx")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestParseProductsFromBytes_NoNameColumn(t *testing.T) {
	data := buildCatalogFile(t, [][]interface{}{
		{"Narx", "Qoldiq"},
		{"3.5", "10"},
	})

	p := NewExcelParser()
	_, err := p.ParseProductsFromBytes(context.Background(), data, "katalog.xlsx")
	assert.Error(t, err)
}

func TestParseProductsFromBytes_InvalidFile(t *testing.T) {
	p := NewExcelParser()
	_, err := p.ParseProductsFromBytes(context.Background(), []byte("bu excel emas"), "katalog.xlsx")
	assert.Error(t, err)
}

func TestParseSubUnits(t *testing.T) {
	units := parseSubUnits("شوال:50; كيس:25, qop:10")
	require.Len(t, units, 3)
	assert.Equal(t, 50.0, units[0].Factor)
	assert.Equal(t, "qop", units[2].Name)

	assert.Empty(t, parseSubUnits("notog'ri format"))
	assert.Empty(t, parseSubUnits("nom:-5"))
}
