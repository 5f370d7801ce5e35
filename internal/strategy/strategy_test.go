package strategy

import (
	"context"
	"testing"

	"smart100/internal/domain"
)

// stubStrategy is a minimal Strategy implementation used in registry tests.
type stubStrategy struct {
	id string
}

func (s *stubStrategy) ID() string                    { return s.id }
func (s *stubStrategy) Name() string                  { return s.id }
func (s *stubStrategy) Parameters() []domain.ParamDef { return nil }
func (s *stubStrategy) NewSession() Session           { return &stubSession{} }

type stubSession struct{}

func (s *stubSession) Execute(_ context.Context, _ *Context) (domain.Signal, error) {
	return domain.Hold(), nil
}
func (s *stubSession) Close() error { return nil }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	s := &stubStrategy{id: "test-strategy"}

	r.Register(s)

	got, ok := r.Get("test-strategy")
	if !ok {
		t.Fatal("Get returned false for registered strategy")
	}
	if got.ID() != "test-strategy" {
		t.Errorf("Get returned strategy with ID() = %q, want %q", got.ID(), "test-strategy")
	}
}

func TestRegistryGet_NotFound(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("nonexistent")
	if ok {
		t.Error("Get returned true for unregistered strategy")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubStrategy{id: "beta"})
	r.Register(&stubStrategy{id: "alpha"})

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List returned %d strategies, want 2", len(list))
	}
	// List returns strategies sorted by ID.
	if list[0].ID() != "alpha" || list[1].ID() != "beta" {
		t.Errorf("List IDs = [%s %s], want [alpha beta]", list[0].ID(), list[1].ID())
	}
}

func TestContextSnapshotIsolation(t *testing.T) {
	orig := &Context{
		Symbol:       "AAPL",
		Bars:         []domain.Bar{{Close: 100}},
		CurrentIndex: 0,
		Portfolio:    domain.Portfolio{Cash: 1000},
		Trades:       []domain.Trade{{Action: domain.TradeActionBuy, Price: 100}},
		Params:       domain.Params{"period": 10.0},
	}

	snap := orig.Snapshot()
	snap.Portfolio.Cash = 0
	snap.Trades[0].Price = 999
	snap.Params["period"] = 99.0

	if orig.Portfolio.Cash != 1000 {
		t.Errorf("Portfolio.Cash = %v after snapshot mutation, want 1000", orig.Portfolio.Cash)
	}
	if orig.Trades[0].Price != 100 {
		t.Errorf("Trades[0].Price = %v after snapshot mutation, want 100", orig.Trades[0].Price)
	}
	if orig.Params.Number("period", 0) != 10 {
		t.Errorf("Params[period] = %v after snapshot mutation, want 10", orig.Params.Number("period", 0))
	}
}

func TestContextClosesUpTo(t *testing.T) {
	c := &Context{
		Bars: []domain.Bar{
			{Close: 1}, {Close: 2}, {Close: 3}, {Close: 4},
		},
		CurrentIndex: 2,
	}
	got := c.ClosesUpTo()
	if len(got) != 3 {
		t.Fatalf("ClosesUpTo returned %d prices, want 3", len(got))
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("ClosesUpTo = %v, want [1 2 3]", got)
	}
}
