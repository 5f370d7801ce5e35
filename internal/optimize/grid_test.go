package optimize

import (
	"log/slog"
	"reflect"
	"testing"

	"smart100/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func testGrid() *Grid { return NewGrid(0, slog.New(slog.DiscardHandler)) }

func TestCombinationsNoOptimizableParams(t *testing.T) {
	defs := []domain.ParamDef{
		{Name: "period", Type: domain.ParamNumber, Default: 14.0},
		{Name: "mode", Type: domain.ParamString, Default: "fast"},
	}

	got := testGrid().Combinations(defs)
	if len(got) != 1 {
		t.Fatalf("combinations = %d, want 1 (all defaults)", len(got))
	}
	want := domain.Params{"period": 14.0, "mode": "fast"}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("combo = %v, want %v", got[0], want)
	}
}

func TestCombinationsSingleAxis(t *testing.T) {
	defs := []domain.ParamDef{
		{Name: "period", Type: domain.ParamNumber, Default: 14.0,
			Min: fptr(10), Max: fptr(30), Step: fptr(10)},
	}

	got := testGrid().Combinations(defs)
	want := []float64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("combinations = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if v := got[i]["period"]; v != w {
			t.Errorf("combo[%d][period] = %v, want %v", i, v, w)
		}
	}
}

func TestCombinationsAlwaysIncludesMax(t *testing.T) {
	// Step overshoots: 10, 17, 24 then max 25 is still appended.
	defs := []domain.ParamDef{
		{Name: "period", Type: domain.ParamNumber, Default: 10.0,
			Min: fptr(10), Max: fptr(25), Step: fptr(7)},
	}

	got := testGrid().Combinations(defs)
	want := []float64{10, 17, 24, 25}
	if len(got) != len(want) {
		t.Fatalf("combinations = %d, want %d", len(got), len(want))
	}
	last := got[len(got)-1]["period"]
	if last != 25.0 {
		t.Errorf("last value = %v, want exact max 25", last)
	}
}

func TestCombinationsCartesianOrder(t *testing.T) {
	defs := []domain.ParamDef{
		{Name: "a", Type: domain.ParamNumber, Default: 1.0,
			Min: fptr(1), Max: fptr(2), Step: fptr(1)},
		{Name: "b", Type: domain.ParamNumber, Default: 10.0,
			Min: fptr(10), Max: fptr(30), Step: fptr(10)},
	}

	got := testGrid().Combinations(defs)
	if len(got) != 6 {
		t.Fatalf("combinations = %d, want 6", len(got))
	}
	// Last axis varies fastest.
	wantPairs := [][2]float64{
		{1, 10}, {1, 20}, {1, 30},
		{2, 10}, {2, 20}, {2, 30},
	}
	for i, wp := range wantPairs {
		if got[i]["a"] != wp[0] || got[i]["b"] != wp[1] {
			t.Errorf("combo[%d] = (a=%v, b=%v), want (%v, %v)",
				i, got[i]["a"], got[i]["b"], wp[0], wp[1])
		}
	}
}

func TestCombinationsInvalidBoundsHeldAtDefault(t *testing.T) {
	defs := []domain.ParamDef{
		{Name: "good", Type: domain.ParamNumber, Default: 1.0,
			Min: fptr(1), Max: fptr(3), Step: fptr(1)},
		{Name: "badStep", Type: domain.ParamNumber, Default: 7.0,
			Min: fptr(1), Max: fptr(3), Step: fptr(0)},
		{Name: "inverted", Type: domain.ParamNumber, Default: 9.0,
			Min: fptr(5), Max: fptr(1), Step: fptr(1)},
	}

	got := testGrid().Combinations(defs)
	if len(got) != 3 {
		t.Fatalf("combinations = %d, want 3 (only the valid axis varies)", len(got))
	}
	for i, combo := range got {
		if combo["badStep"] != 7.0 {
			t.Errorf("combo[%d][badStep] = %v, want default 7", i, combo["badStep"])
		}
		if combo["inverted"] != 9.0 {
			t.Errorf("combo[%d][inverted] = %v, want default 9", i, combo["inverted"])
		}
	}
}

func TestCombinationsMinEqualsMax(t *testing.T) {
	defs := []domain.ParamDef{
		{Name: "period", Type: domain.ParamNumber, Default: 5.0,
			Min: fptr(5), Max: fptr(5), Step: fptr(1)},
	}

	got := testGrid().Combinations(defs)
	if len(got) != 1 {
		t.Fatalf("combinations = %d, want 1", len(got))
	}
	if got[0]["period"] != 5.0 {
		t.Errorf("combo[0][period] = %v, want 5", got[0]["period"])
	}
}

func TestCombinationsAreIsolated(t *testing.T) {
	defs := []domain.ParamDef{
		{Name: "period", Type: domain.ParamNumber, Default: 1.0,
			Min: fptr(1), Max: fptr(2), Step: fptr(1)},
		{Name: "amount", Type: domain.ParamNumber, Default: 1.0},
	}

	got := testGrid().Combinations(defs)
	got[0]["amount"] = 99.0
	if got[1]["amount"] == 99.0 {
		t.Error("combinations share a map; each combo must be an independent clone")
	}
}
