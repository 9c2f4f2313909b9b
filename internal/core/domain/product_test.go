package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_Validate(t *testing.T) {
	valid := Product{Name: "Keyboard", Category: "peripherals", SKU: "KB-1", Price: decimal.RequireFromString("0.01")}
	assert.NoError(t, valid.Validate())

	cheap := valid
	cheap.Price = decimal.RequireFromString("0.009")
	assert.ErrorIs(t, cheap.Validate(), ErrInvalidRequest)

	negative := valid
	negative.StockQuantity = -1
	assert.ErrorIs(t, negative.Validate(), ErrInvalidRequest)

	noSKU := valid
	noSKU.SKU = "  "
	assert.ErrorIs(t, noSKU.Validate(), ErrInvalidRequest)

	subCent := valid
	subCent.Price = decimal.RequireFromString("1.005")
	assert.ErrorIs(t, subCent.Validate(), ErrInvalidRequest)

	trailingZeros := valid
	trailingZeros.Price = decimal.RequireFromString("1.500")
	assert.NoError(t, trailingZeros.Validate())

	overstocked := valid
	overstocked.StockQuantity = MaxQuantity + 1
	assert.ErrorIs(t, overstocked.Validate(), ErrInvalidRequest)
}
