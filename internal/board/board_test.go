package board

import (
	"errors"
	"testing"
)

func TestEqualReflexiveAndSymmetric(t *testing.T) {
	a := MustFromRows([][]int{{0, 1, 0}, {1, 1, 1}})
	b := MustFromRows([][]int{{0, 1, 0}, {1, 1, 1}})

	if !Equal(a, a) {
		t.Fatal("board must equal itself")
	}
	if !Equal(a, b) || !Equal(b, a) {
		t.Fatal("identical boards must compare equal in both directions")
	}
}

func TestEqualDetectsDifferences(t *testing.T) {
	base := MustFromRows([][]int{{0, 1}, {1, 0}})
	cases := map[string]Board{
		"single cell":  MustFromRows([][]int{{0, 1}, {1, 1}}),
		"extra row":    MustFromRows([][]int{{0, 1}, {1, 0}, {0, 0}}),
		"extra column": MustFromRows([][]int{{0, 1, 0}, {1, 0, 0}}),
		"transposed":   MustFromRows([][]int{{0, 1, 1, 0}}),
	}
	for name, other := range cases {
		if Equal(base, other) || Equal(other, base) {
			t.Fatalf("%s: boards should differ", name)
		}
	}
}

func TestSerializeCanonical(t *testing.T) {
	b := MustFromRows([][]int{{0, 1, 0}, {1, 1, 1}, {0, 1, 0}})
	if got := Serialize(b); got != "010|111|010" {
		t.Fatalf("Serialize = %q", got)
	}
	if b.String() != Serialize(b) {
		t.Fatal("String must match Serialize")
	}
}

func TestSerializeInjectiveOverCorpus(t *testing.T) {
	corpus := []Board{
		MustFromRows([][]int{{0}}),
		MustFromRows([][]int{{1}}),
		MustFromRows([][]int{{0, 0}}),
		MustFromRows([][]int{{0}, {0}}),
		MustFromRows([][]int{{1, 1}, {1, 1}}),
		MustFromRows([][]int{{1, 1, 1, 1}}),
		MustFromRows([][]int{{1}, {1}, {1}, {1}}),
		MustFromRows([][]int{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}}),
		MustFromRows([][]int{{0, 0, 0}, {1, 1, 1}, {0, 0, 0}}),
		MustFromRows([][]int{{0, 0, 0, 1, 1, 1, 0, 0, 0}}),
	}
	seen := map[string]int{}
	for i, b := range corpus {
		key := Serialize(b)
		if j, ok := seen[key]; ok {
			t.Fatalf("boards %d and %d collide on %q", j, i, key)
		}
		seen[key] = i
	}
}

func TestFromRowsRejectsInvalidInput(t *testing.T) {
	cases := map[string]struct {
		rows   [][]int
		reason string
	}{
		"nil":         {nil, "board must have at least one row"},
		"empty":       {[][]int{}, "board must have at least one row"},
		"ragged":      {[][]int{{0, 1}, {1}}, "all rows must have the same number of columns"},
		"empty row":   {[][]int{{}}, "board rows must have at least one column"},
		"bad value":   {[][]int{{0, 2}}, `invalid cell value "2" at Rows[0][1]; only 0 or 1 are allowed`},
		"negative":    {[][]int{{-1}}, `invalid cell value "-1" at Rows[0][0]; only 0 or 1 are allowed`},
	}
	for name, tc := range cases {
		_, err := FromRows(tc.rows)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
		if err.Error() != tc.reason {
			t.Fatalf("%s: reason = %q, want %q", name, err.Error(), tc.reason)
		}
	}
}

func TestBoardAccessorsReturnCopies(t *testing.T) {
	b := MustFromRows([][]int{{1, 0}, {0, 1}})
	rows := b.ToRows()
	rows[0][0] = 0
	cells := b.Cells()
	cells[3] = 0

	if !b.Alive(0, 0) || !b.Alive(1, 1) {
		t.Fatal("mutating copies must not change the board")
	}
	if b.Population() != 2 {
		t.Fatalf("Population = %d, want 2", b.Population())
	}
	if b.At(-1, 0) != Dead || b.At(0, 5) != Dead {
		t.Fatal("cells outside the grid must read as dead")
	}
}

func TestJSONRoundTripValidates(t *testing.T) {
	b := MustFromRows([][]int{{0, 1}, {1, 0}})
	data, err := b.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[[0,1],[1,0]]" {
		t.Fatalf("MarshalJSON = %s", data)
	}

	var decoded Board
	if err := decoded.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	if !Equal(b, decoded) {
		t.Fatal("decoded board differs")
	}

	if err := decoded.UnmarshalJSON([]byte("[[0,1],[1]]")); !errors.Is(err, ErrValidation) {
		t.Fatalf("ragged JSON should fail validation, got %v", err)
	}
}

func TestRandomDeterministic(t *testing.T) {
	a, err := Random(8, 12, 0.4, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Random(8, 12, 0.4, 7)
	if !Equal(a, b) {
		t.Fatal("same seed must produce the same board")
	}
	if a.Rows() != 8 || a.Cols() != 12 {
		t.Fatalf("dimensions = %dx%d", a.Rows(), a.Cols())
	}

	empty, _ := Random(3, 3, 0, 1)
	if empty.Population() != 0 {
		t.Fatal("density 0 must produce an empty board")
	}
	full, _ := Random(3, 3, 1, 1)
	if full.Population() != 9 {
		t.Fatal("density 1 must produce a full board")
	}

	if _, err := Random(0, 3, 0.5, 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero rows should fail, got %v", err)
	}
}
