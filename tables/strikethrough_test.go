package tables

import (
	"testing"

	"github.com/tsawler/rulegrid/model"
)

func hline(y, x1, x2 float64) model.Line {
	return model.Line{Start: model.Point{X: x1, Y: y}, End: model.Point{X: x2, Y: y}}
}

func vline(x, y1, y2 float64) model.Line {
	return model.Line{Start: model.Point{X: x, Y: y1}, End: model.Point{X: x, Y: y2}}
}

// struckTable is a two-row, one-column table with six strike-through
// rulings eight units apart inside its upper row.
func struckTable() []model.Line {
	lines := []model.Line{
		hline(0, 0, 100), hline(100, 0, 100), hline(200, 0, 100),
		vline(0, 0, 200), vline(100, 0, 200),
	}
	for y := 130.0; y <= 170; y += 8 {
		lines = append(lines, hline(y, 20, 80))
	}
	return lines
}

func TestRemoveStrikeThroughs(t *testing.T) {
	kept, removed := RemoveStrikeThroughs(struckTable(), 0, 2)

	if removed != 6 {
		t.Fatalf("removed %d rulings, want 6", removed)
	}
	if len(kept) != 5 {
		t.Fatalf("kept %d lines, want 5", len(kept))
	}
	for _, l := range kept {
		if !l.IsVertical() && l.Start.Y != 0 && l.Start.Y != 100 && l.Start.Y != 200 {
			t.Errorf("strike-through ruling %+v survived", l)
		}
	}
}

func TestRemoveStrikeThroughsRotated(t *testing.T) {
	// the same table turned a quarter: text runs along X
	var rotated []model.Line
	for _, l := range struckTable() {
		a := model.Point{X: l.Start.Y, Y: l.Start.X}
		b := model.Point{X: l.End.Y, Y: l.End.X}
		line, _ := model.NewAxisLine(a, b)
		rotated = append(rotated, line)
	}

	if _, removed := RemoveStrikeThroughs(rotated, 90, 2); removed != 6 {
		t.Errorf("rotation 90 removed %d, want 6", removed)
	}
	if _, removed := RemoveStrikeThroughs(rotated, 0, 2); removed != 0 {
		t.Errorf("rotation 0 removed %d from a rotated page, want 0", removed)
	}
}

func TestRemoveStrikeThroughsLeavesRegularTables(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.Line
	}{
		{"empty", nil},
		{"single ruling", []model.Line{hline(10, 0, 10)}},
		{"wide row spacing", []model.Line{
			hline(0, 0, 50), hline(20, 0, 50), hline(40, 0, 50), hline(60, 0, 50),
			hline(80, 0, 50), hline(100, 0, 50), hline(120, 0, 50),
		}},
		{"short run of tight rulings", []model.Line{
			hline(0, 0, 50), hline(100, 0, 50), hline(108, 0, 50), hline(116, 0, 50),
			hline(124, 0, 50), hline(200, 0, 50),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed := RemoveStrikeThroughs(tt.lines, 0, 2)
			if removed != 0 || len(kept) != len(tt.lines) {
				t.Errorf("removed %d of %d lines, want none", removed, len(tt.lines))
			}
		})
	}
}

func TestRemoveStrikeThroughsKeepsOutermost(t *testing.T) {
	// every gap is tight, so only the borders survive
	var lines []model.Line
	for y := 0.0; y <= 56; y += 8 {
		lines = append(lines, hline(y, 0, 100))
	}

	kept, removed := RemoveStrikeThroughs(lines, 0, 2)
	if removed != 6 {
		t.Fatalf("removed %d, want 6", removed)
	}
	if kept[0].Start.Y != 0 || kept[1].Start.Y != 56 {
		t.Errorf("kept %+v, want the rulings at 0 and 56", kept)
	}
}

func TestRemoveStrikeThroughsIgnoresShortPerpendicular(t *testing.T) {
	tick := vline(50, 140, 141)
	lines := append(struckTable(), tick)

	kept, removed := RemoveStrikeThroughs(lines, 0, 2)

	if removed != 6 {
		t.Fatalf("removed %d rulings, want 6", removed)
	}
	found := false
	for _, l := range kept {
		if l == tick {
			found = true
		}
	}
	if !found {
		t.Error("short vertical ruling was removed")
	}
}

func TestNearlyEqual(t *testing.T) {
	tests := []struct {
		x1, x2, diff, variance float64
		want                   bool
	}{
		{5, 5, 0, 0, true},
		{5, 6, 0, 2, true},
		{5, 7, 0, 2, false},
		{0, 8, 8, 0.5, true},
		{0, 8.6, 8, 0.5, false},
	}

	for _, tt := range tests {
		if got := nearlyEqual(tt.x1, tt.x2, tt.diff, tt.variance); got != tt.want {
			t.Errorf("nearlyEqual(%v, %v, %v, %v) = %v, want %v", tt.x1, tt.x2, tt.diff, tt.variance, got, tt.want)
		}
	}
}
