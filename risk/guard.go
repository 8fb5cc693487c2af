package risk

// Guard validates an order before it is sent. deltaQty is signed:
// positive buys, negative sells.
type Guard interface {
	PreOrder(ticker string, position, deltaQty int) error
}

// MultiGuard runs guards in order and stops at the first error.
type MultiGuard struct {
	Guards []Guard
}

func (m MultiGuard) PreOrder(ticker string, position, deltaQty int) error {
	for _, g := range m.Guards {
		if g == nil {
			continue
		}
		if err := g.PreOrder(ticker, position, deltaQty); err != nil {
			return err
		}
	}
	return nil
}
