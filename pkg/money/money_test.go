package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-tracker/pkg/money"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"40":         "40.00",
		"999.999":    "1,000.00",
		"1234.5":     "1,234.50",
		"1000000":    "1,000,000.00",
		"-2500.25":   "-2,500.25",
		"123456.789": "123,456.79",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.Format(decimal.RequireFromString(in)), in)
	}
}

func TestFormatWithSymbol(t *testing.T) {
	assert.Equal(t, "$1,234.50", money.FormatWithSymbol(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-$3.00", money.FormatWithSymbol(decimal.NewFromInt(-3)))
}
