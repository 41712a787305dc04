package models

// ApplySale decrements stock for a sale of qty units, clamping to what is
// available: with stock=3 and qty=5 the result is stock=0, sold+=3. The
// truncation is silent; callers that need a hard failure must check
// availability before calling (the cart paths do).
func ApplySale(stock, sold, qty int) (newStock, newSold int) {
	if qty <= 0 {
		return stock, sold
	}
	applied := qty
	if stock < qty {
		applied = stock
	}
	return stock - applied, sold + applied
}

// ApplyRestock adds qty units back to stock. Sold count is unaffected.
func ApplyRestock(stock, qty int) int {
	if qty <= 0 {
		return stock
	}
	return stock + qty
}

// ReverseSale undoes a sale of qty units on cancellation: stock is restored
// in full and sold is decremented, floored at zero so an inconsistent double
// reversal cannot drive it negative.
func ReverseSale(stock, sold, qty int) (newStock, newSold int) {
	if qty <= 0 {
		return stock, sold
	}
	newSold = sold - qty
	if newSold < 0 {
		newSold = 0
	}
	return stock + qty, newSold
}

// orderTransitions lists the permitted status changes. Completed and
// Cancelled are terminal.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusInTransit, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusInTransit, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusInTransit:  {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Re-asserting the current status is allowed (callers treat it as
// a no-op) except on a cancelled order, which rejects all updates.
func CanTransition(from, to string) bool {
	if from == to {
		return from != OrderStatusCancelled
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StockEffect is the inventory side effect of a status transition.
type StockEffect int

const (
	StockNoop StockEffect = iota
	StockApply
	StockReverse
)

// TransitionEffect returns the side effects of moving an order to a status,
// given whether its sale has already been applied to stock: the inventory
// effect, the new value of the applied flag, and whether the payment must be
// cancelled. Completion applies the sale at most once per order, so
// re-completing an order whose checkout already decremented stock is a noop.
// Cancellation reverses the sale only when it was applied, and always
// cancels the payment.
func TransitionEffect(to string, stockApplied bool) (effect StockEffect, applied bool, cancelPayment bool) {
	switch to {
	case OrderStatusCompleted:
		if stockApplied {
			return StockNoop, true, false
		}
		return StockApply, true, false
	case OrderStatusCancelled:
		if stockApplied {
			return StockReverse, false, true
		}
		return StockNoop, false, true
	default:
		return StockNoop, stockApplied, false
	}
}
