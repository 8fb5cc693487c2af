package strategy

import (
	"errors"
	"fmt"

	"rit-maker-go/market"
	"rit-maker-go/risk"
)

// Level is one rung of the quote ladder: a price offset from the base
// price and the order size posted there. Offsets must be distinct and
// strictly increasing so no two rungs collide on price.
type Level struct {
	Offset float64 `yaml:"offset"`
	Size   int     `yaml:"size"`
}

// GeneratorConfig declares the ladder shape once; new tickers are
// configuration, not code.
type GeneratorConfig struct {
	Ladder []Level
	// FlattenSlice is the per-order size used when unwinding a
	// position in FLATTEN state.
	FlattenSlice int
	// SkewFactor scales down order size on the inventory-increasing
	// side while in SKEW state. Must be in (0, 1].
	SkewFactor float64
}

func (c GeneratorConfig) validate() error {
	if len(c.Ladder) == 0 {
		return errors.New("ladder must have at least one level")
	}
	prev := -1.0
	for i, lv := range c.Ladder {
		if lv.Offset < 0 {
			return fmt.Errorf("ladder[%d] offset must be >= 0", i)
		}
		if lv.Offset <= prev {
			return fmt.Errorf("ladder offsets must be strictly increasing at [%d]", i)
		}
		if lv.Size <= 0 {
			return fmt.Errorf("ladder[%d] size must be > 0", i)
		}
		prev = lv.Offset
	}
	if c.FlattenSlice <= 0 {
		return errors.New("flattenSlice must be > 0")
	}
	if c.SkewFactor <= 0 || c.SkewFactor > 1 {
		return errors.New("skewFactor must be in (0, 1]")
	}
	return nil
}

// Generator turns liquidity and risk inputs into a ladder of target
// quotes. Generate is a pure function of its arguments.
type Generator struct {
	cfg GeneratorConfig
}

func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Generate builds this tick's target quotes around last, the last trade
// price. spread is the current accumulator value added to every rung's
// offset; cushion biases the base price multiplicatively on the side
// where counterparty liquidity is stronger.
func (g *Generator) Generate(ticker string, last, spread, cushion float64, state risk.State, position int) []TargetQuote {
	if last <= 0 {
		return nil
	}
	switch state {
	case risk.StateFlatten:
		return g.unwindLadder(ticker, last, spread, position)
	case risk.StateReverseBlock:
		return g.reflatten(ticker, position)
	default:
		return g.twoSidedLadder(ticker, last, spread, cushion, state, position)
	}
}

func (g *Generator) twoSidedLadder(ticker string, last, spread, cushion float64, state risk.State, position int) []TargetQuote {
	baseBuy, baseSell := last, last
	if cushion >= 0 {
		baseBuy = market.ApplyCushion(last, cushion)
	} else {
		baseSell = market.ApplyCushion(last, cushion)
	}

	quotes := make([]TargetQuote, 0, 2*len(g.cfg.Ladder))
	for _, lv := range g.cfg.Ladder {
		buyQty, sellQty := lv.Size, lv.Size
		if state == risk.StateSkew {
			// Shrink the side that would grow the position.
			if position > 0 {
				buyQty = int(float64(lv.Size) * g.cfg.SkewFactor)
			} else if position < 0 {
				sellQty = int(float64(lv.Size) * g.cfg.SkewFactor)
			}
		}
		off := spread + lv.Offset
		if p := baseBuy - off; buyQty > 0 && p > 0 {
			quotes = append(quotes, TargetQuote{
				Ticker: ticker, Side: SideBuy, Type: TypeLimit, Price: p, Quantity: buyQty,
			})
		}
		if p := baseSell + off; sellQty > 0 && p > 0 {
			quotes = append(quotes, TargetQuote{
				Ticker: ticker, Side: SideSell, Type: TypeLimit, Price: p, Quantity: sellQty,
			})
		}
	}
	return quotes
}

// unwindLadder quotes only the side that reduces the position, priced
// through the last trade so the orders actually trade. Whatever does
// not fit on the ladder rolls over to the next tick.
func (g *Generator) unwindLadder(ticker string, last, spread float64, position int) []TargetQuote {
	if position == 0 {
		return nil
	}
	side := SideSell
	if position < 0 {
		side = SideBuy
	}
	remaining := position
	if remaining < 0 {
		remaining = -remaining
	}

	quotes := make([]TargetQuote, 0, len(g.cfg.Ladder))
	for _, lv := range g.cfg.Ladder {
		if remaining <= 0 {
			break
		}
		qty := g.cfg.FlattenSlice
		if qty > remaining {
			qty = remaining
		}
		off := spread + lv.Offset
		price := last - off
		if side == SideBuy {
			price = last + off
		}
		if price <= 0 {
			continue
		}
		quotes = append(quotes, TargetQuote{
			Ticker: ticker, Side: side, Type: TypeLimit, Price: price, Quantity: qty,
		})
		remaining -= qty
	}
	return quotes
}

// reflatten submits a single market order back toward zero after an
// unwind overshot through it.
func (g *Generator) reflatten(ticker string, position int) []TargetQuote {
	if position == 0 {
		return nil
	}
	side := SideSell
	qty := position
	if position < 0 {
		side = SideBuy
		qty = -position
	}
	return []TargetQuote{{Ticker: ticker, Side: side, Type: TypeMarket, Quantity: qty}}
}
