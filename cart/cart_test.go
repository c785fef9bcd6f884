package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID string, price string, qty int) Line {
	return Line{
		ProductID: productID,
		Name:      "Product " + productID,
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "10.00", 2))
	c.AddItem(line("p1", "10.00", 3))
	c.AddItem(line("p2", "5.50", 1))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 6, c.TotalItems())
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "10.00", 0))
	c.AddItem(line("p2", "10.00", -3))
	assert.Empty(t, c.Lines())
}

func TestRemoveItem(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "10.00", 1))
	c.AddItem(line("p2", "4.00", 2))

	c.RemoveItem("p1")
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)

	// Removing an absent product is a no-op.
	c.RemoveItem("p9")
	assert.Len(t, c.Lines(), 1)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "10.00", 2))

	c.UpdateQuantity("p1", 7)
	assert.Equal(t, 7, c.TotalItems())

	// Zero or negative removes the line.
	c.UpdateQuantity("p1", 0)
	assert.Empty(t, c.Lines())

	c.AddItem(line("p1", "10.00", 2))
	c.UpdateQuantity("p1", -1)
	assert.Empty(t, c.Lines())
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "10.00", 2))
	c.AddItem(line("p2", "3.00", 1))
	c.Clear()
	assert.Empty(t, c.Lines())
	assert.Equal(t, 0, c.TotalItems())
	assert.True(t, c.TotalPrice().IsZero())
}

func TestTotalsRecomputed(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "10.00", 2))
	c.AddItem(line("p2", "5.50", 3))

	assert.Equal(t, 5, c.TotalItems())
	assert.True(t, c.TotalPrice().Equal(decimal.RequireFromString("36.50")),
		"got %s", c.TotalPrice())

	// Totals follow every mutation, no caching.
	c.UpdateQuantity("p2", 1)
	assert.True(t, c.TotalPrice().Equal(decimal.RequireFromString("25.50")),
		"got %s", c.TotalPrice())
}
