// Package cart implements the per-session cart ledger.
package cart

import "autopart/models"

// Ledger holds cart lines keyed by product ID, at most one line per
// product. Insertion order is tracked so listings are stable across
// reads. The ledger enforces no upper quantity bound; the 10-unit cap on
// the product detail screen is a UI suggestion only.
type Ledger struct {
	lines map[string]*models.CartLine
	order []string
}

func NewLedger() *Ledger {
	return &Ledger{lines: make(map[string]*models.CartLine)}
}

// Add puts quantity units of the product in the cart, merging into an
// existing line for the same product. It returns the affected line so the
// caller can show the just-added confirmation.
func (l *Ledger) Add(p models.Product, quantity int) models.CartLine {
	if quantity < 1 {
		quantity = 1
	}
	if line, ok := l.lines[p.ID]; ok {
		line.Quantity += quantity
		return *line
	}
	line := &models.CartLine{Product: p, Quantity: quantity}
	l.lines[p.ID] = line
	l.order = append(l.order, p.ID)
	return *line
}

// Adjust changes an existing line's quantity by delta. A decrement that
// would drop the quantity below 1 leaves the line at 1; removal is only
// ever explicit. Returns false if no line exists for the ID.
func (l *Ledger) Adjust(id string, delta int) bool {
	line, ok := l.lines[id]
	if !ok {
		return false
	}
	if line.Quantity+delta < 1 {
		return true
	}
	line.Quantity += delta
	return true
}

// Remove deletes the line for the ID. Removing an absent ID is a no-op.
func (l *Ledger) Remove(id string) {
	if _, ok := l.lines[id]; !ok {
		return
	}
	delete(l.lines, id)
	for i, existing := range l.order {
		if existing == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Items returns the cart lines in insertion order.
func (l *Ledger) Items() []models.CartLine {
	items := make([]models.CartLine, 0, len(l.order))
	for _, id := range l.order {
		items = append(items, *l.lines[id])
	}
	return items
}

// Total is the sum of price times quantity over all lines, recomputed on
// every call. Rounding happens only at presentation time.
func (l *Ledger) Total() float64 {
	var total float64
	for _, line := range l.lines {
		total += line.Subtotal()
	}
	return total
}

// Count is the total number of units across all lines.
func (l *Ledger) Count() int {
	var count int
	for _, line := range l.lines {
		count += line.Quantity
	}
	return count
}

// Len is the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Clear empties the cart.
func (l *Ledger) Clear() {
	l.lines = make(map[string]*models.CartLine)
	l.order = nil
}
