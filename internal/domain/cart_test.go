package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesByItemID(t *testing.T) {
	var c Cart
	c.Add(CartLine{ItemID: "1", Name: "Brake pads", UnitPrice: 85, Quantity: 1}, 0)
	got := c.Add(CartLine{ItemID: "1", Name: "Brake pads", UnitPrice: 85, Quantity: 1}, 0)

	require.Len(t, c, 1)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 2, c[0].Quantity)
}

func TestCart_AddClampsToCap(t *testing.T) {
	tests := []struct {
		name       string
		existing   *CartLine
		add        CartLine
		defaultMax int
		want       int
	}{
		{"default cap 99", &CartLine{ItemID: "a", Quantity: 98}, CartLine{ItemID: "a", Quantity: 5}, 0, 99},
		{"configured default", &CartLine{ItemID: "a", Quantity: 8}, CartLine{ItemID: "a", Quantity: 5}, 10, 10},
		{"line max wins", &CartLine{ItemID: "a", Quantity: 2, MaxQuantity: 3}, CartLine{ItemID: "a", Quantity: 5}, 0, 3},
		{"new line over cap", nil, CartLine{ItemID: "a", Quantity: 500}, 0, 99},
		{"new line zero quantity means one", nil, CartLine{ItemID: "a"}, 0, 1},
		{"negative add means one", &CartLine{ItemID: "a", Quantity: 4}, CartLine{ItemID: "a", Quantity: -3}, 0, 5},
		{"huge add stops at cap", &CartLine{ItemID: "a", Quantity: 5}, CartLine{ItemID: "a", Quantity: math.MaxInt}, 0, 99},
		{"huge add on a capped line", &CartLine{ItemID: "a", Quantity: 1, MaxQuantity: 2}, CartLine{ItemID: "a", Quantity: math.MaxInt}, 0, 2},
		{"huge new line", nil, CartLine{ItemID: "a", Quantity: math.MaxInt}, 0, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cart
			if tt.existing != nil {
				c = Cart{*tt.existing}
			}
			got := c.Add(tt.add, tt.defaultMax)
			assert.Equal(t, tt.want, got.Quantity)
			assert.Len(t, c, 1)
		})
	}
}

func TestCart_SetQuantityNeverBelowOne(t *testing.T) {
	c := Cart{{ItemID: "a", Quantity: 4}}

	for _, q := range []int{0, -1, -100} {
		got, ok := c.SetQuantity("a", q, 0)
		require.True(t, ok)
		assert.Equal(t, 1, got.Quantity)
	}

	got, ok := c.SetQuantity("a", 1000, 0)
	require.True(t, ok)
	assert.Equal(t, 99, got.Quantity)

	_, ok = c.SetQuantity("missing", 3, 0)
	assert.False(t, ok)
}

func TestCart_RemoveAndClearToEmpty(t *testing.T) {
	c := Cart{{ItemID: "a", Quantity: 1}, {ItemID: "b", Quantity: 1}, {ItemID: "c", Quantity: 1}}

	assert.True(t, c.Remove("b"))
	assert.False(t, c.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, []string{c[0].ItemID, c[1].ItemID})
}

func TestCart_Normalize(t *testing.T) {
	raw := Cart{
		{ItemID: "a", Quantity: 2},
		{ItemID: "", Quantity: 1},
		{ItemID: "a", Quantity: 3},
		{ItemID: "b", Quantity: 0},
	}
	got := raw.Normalize(0)

	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Quantity)
	assert.Equal(t, 1, got[1].Quantity)
}

func TestCart_Totals(t *testing.T) {
	c := Cart{
		{ItemID: "a", UnitPrice: 85, OriginalPrice: 100, Quantity: 2},
		{ItemID: "b", UnitPrice: 10, Quantity: 3},
	}
	got := c.Totals()

	assert.Equal(t, CartTotals{Lines: 2, Items: 5, Subtotal: 200, Savings: 30}, got)
}
