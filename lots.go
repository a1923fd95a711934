package ledger

// lot is a single purchase of a security, used for FIFO cost basis.
type lot struct {
	Day      Date
	Quantity Quantity
	Cost     Money // total cost of the lot in the main currency
}

type lots []lot

// costOfSelling returns the cost of selling a quantity of shares, oldest
// lots first.
func (l lots) costOfSelling(toSell Quantity) Money {
	var cost Money
	for _, current := range l {
		if current.Quantity.GreaterThan(toSell) {
			// Partial sale from this lot.
			return sum(cost, current.Cost.Mul(toSell).Div(current.Quantity))
		}
		cost = sum(cost, current.Cost)
		toSell = toSell.Sub(current.Quantity)
	}
	return cost
}

// sell reduces the lots by a quantity to sell, oldest lots first.
func (l lots) sell(toSell Quantity) lots {
	var remaining lots
	for _, current := range l {
		if toSell.IsZero() {
			remaining = append(remaining, current)
			continue
		}
		if current.Quantity.GreaterThan(toSell) {
			soldCost := current.Cost.Mul(toSell).Div(current.Quantity)
			remaining = append(remaining, lot{
				Day:      current.Day,
				Quantity: current.Quantity.Sub(toSell),
				Cost:     sub(current.Cost, soldCost),
			})
			toSell = Q(0)
		} else {
			toSell = toSell.Sub(current.Quantity)
		}
	}
	return remaining
}

// sum and sub combine amounts known by construction to share a currency;
// the empty currency stays neutral.
func sum(a, b Money) Money {
	cur := a.cur
	if cur == "" {
		cur = b.cur
	}
	return Money{value: a.value.Add(b.value), cur: cur}
}

func sub(a, b Money) Money {
	cur := a.cur
	if cur == "" {
		cur = b.cur
	}
	return Money{value: a.value.Sub(b.value), cur: cur}
}
