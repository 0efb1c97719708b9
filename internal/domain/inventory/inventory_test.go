package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// TotalValue
// ──────────────────────────────────────────────────────────────────────────────

func TestTotalValue_Vacio(t *testing.T) {
	assert.True(t, inventory.TotalValue(nil).IsZero())
	assert.True(t, inventory.TotalValue([]entity.Item{}).IsZero())
}

func TestTotalValue_SumaCantidadPorSubtotal(t *testing.T) {
	items := []entity.Item{
		{ID: 1, Name: "A", Quantity: 3, Subtotal: decimal.NewFromInt(10)},
		{ID: 2, Name: "B", Quantity: 2, Subtotal: decimal.NewFromInt(5)},
	}
	assert.True(t, decimal.NewFromInt(40).Equal(inventory.TotalValue(items)))
}

func TestTotalValue_Decimales(t *testing.T) {
	items := []entity.Item{
		{Quantity: 3, Subtotal: decimal.RequireFromString("0.10")},
		{Quantity: 0, Subtotal: decimal.RequireFromString("99.99")},
	}
	assert.Equal(t, "0.30", inventory.TotalValue(items).StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// ParseQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestParseQuantity_Validas(t *testing.T) {
	for raw, want := range map[string]int64{
		"1":          1,
		" 42 ":       42,
		"2147483647": inventory.MaxQuantity,
	} {
		got, err := inventory.ParseQuantity(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseQuantity_Invalidas(t *testing.T) {
	for _, raw := range []string{"", "   ", "0", "-3", "1.5", "abc", "1e3", "2147483648", "99999999999999999999"} {
		_, err := inventory.ParseQuantity(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "entrada %q", raw)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// NextQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestNextQuantity(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		change  entity.ChangeType
		qty     int64
		want    int64
		wantErr error
	}{
		{"add", 5, entity.ChangeAdd, 3, 8, nil},
		{"remove parcial", 5, entity.ChangeRemove, 3, 2, nil},
		{"remove todo", 5, entity.ChangeRemove, 5, 0, nil},
		{"remove de más", 5, entity.ChangeRemove, 6, 0, domain.ErrInsufficientStock},
		{"add desborda", inventory.MaxQuantity, entity.ChangeAdd, 1, 0, domain.ErrInvalidQuantity},
		{"cantidad cero", 5, entity.ChangeAdd, 0, 0, domain.ErrInvalidQuantity},
		{"acción desconocida", 5, entity.ChangeType(0), 1, 0, domain.ErrInvalidAction},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.NextQuantity(tc.current, tc.change, tc.qty)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
