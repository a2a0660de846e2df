package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopart/models"
)

func testProduct(id string, price float64) models.Product {
	return models.Product{ID: id, Name: "part " + id, Price: price}
}

func TestAdd_MergesLinesForSameProduct(t *testing.T) {
	l := NewLedger()
	p := testProduct("1", 89.99)

	l.Add(p, 2)
	line := l.Add(p, 3)

	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 5, l.Count())
}

func TestAdd_ReturnsAffectedLine(t *testing.T) {
	l := NewLedger()

	line := l.Add(testProduct("1", 10), 2)

	assert.Equal(t, "1", line.Product.ID)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 20.0, line.Subtotal())
}

func TestAdjust_ClampsAtOne(t *testing.T) {
	l := NewLedger()
	l.Add(testProduct("1", 10), 1)

	ok := l.Adjust("1", -1)

	require.True(t, ok)
	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity, "decrement below 1 leaves the line at 1")
}

func TestAdjust_MissingLine(t *testing.T) {
	l := NewLedger()

	assert.False(t, l.Adjust("ghost", 1))
}

func TestRemove_MissingIDIsNoop(t *testing.T) {
	l := NewLedger()
	l.Add(testProduct("1", 10), 2)
	l.Add(testProduct("2", 5), 1)

	l.Remove("ghost")

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 25.0, l.Total())
}

func TestTotal(t *testing.T) {
	l := NewLedger()

	assert.Equal(t, 0.0, l.Total())

	l.Add(testProduct("1", 10), 2)
	l.Add(testProduct("2", 5), 1)

	assert.Equal(t, 25.0, l.Total())
}

func TestItems_InsertionOrderStable(t *testing.T) {
	l := NewLedger()
	l.Add(testProduct("b", 1), 1)
	l.Add(testProduct("a", 1), 1)
	l.Add(testProduct("c", 1), 1)
	l.Add(testProduct("a", 1), 1)

	items := l.Items()

	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].Product.ID)
	assert.Equal(t, "a", items[1].Product.ID)
	assert.Equal(t, "c", items[2].Product.ID)
}

func TestRemoveThenClear(t *testing.T) {
	l := NewLedger()
	l.Add(testProduct("1", 10), 2)
	l.Add(testProduct("2", 5), 1)

	l.Remove("1")
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 5.0, l.Total())

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Count())
	assert.Empty(t, l.Items())
}
