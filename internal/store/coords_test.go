package store

import (
	"testing"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

func TestEncodeCoords(t *testing.T) {
	set := walkgen.NewCoordSet()
	set.Add(walkgen.Coord{X: 1, Y: 0})
	set.Add(walkgen.Coord{X: 0, Y: 0})
	set.Add(walkgen.Coord{X: -2, Y: 1})

	// Sorted row-major: y ascending, then x ascending
	want := "0,0 1,0 -2,1"
	if got := EncodeCoords(set); got != want {
		t.Errorf("EncodeCoords() = %q, want %q", got, want)
	}
}

func TestEncodeCoords_Empty(t *testing.T) {
	if got := EncodeCoords(walkgen.NewCoordSet()); got != "" {
		t.Errorf("EncodeCoords(empty) = %q, want empty string", got)
	}
}

func TestDecodeCoords(t *testing.T) {
	set, err := DecodeCoords("0,0 1,0 -2,1")
	if err != nil {
		t.Fatalf("DecodeCoords() failed: %v", err)
	}

	if set.Len() != 3 {
		t.Errorf("Decoded set has %d cells, want 3", set.Len())
	}

	for _, c := range []walkgen.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: -2, Y: 1}} {
		if !set.Contains(c) {
			t.Errorf("Decoded set missing %v", c)
		}
	}
}

func TestDecodeCoords_Empty(t *testing.T) {
	set, err := DecodeCoords("")
	if err != nil {
		t.Fatalf("DecodeCoords(\"\") failed: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("DecodeCoords(\"\") has %d cells, want 0", set.Len())
	}
}

func TestDecodeCoords_RoundTrip(t *testing.T) {
	original := walkgen.NewCoordSet()
	for _, c := range []walkgen.Coord{
		{X: 0, Y: 0}, {X: 5, Y: -3}, {X: -10, Y: 7}, {X: 1, Y: 1},
	} {
		original.Add(c)
	}

	decoded, err := DecodeCoords(EncodeCoords(original))
	if err != nil {
		t.Fatalf("Round trip failed: %v", err)
	}

	if decoded.Len() != original.Len() {
		t.Fatalf("Round trip size = %d, want %d", decoded.Len(), original.Len())
	}
	for _, c := range original.Sorted() {
		if !decoded.Contains(c) {
			t.Errorf("Round trip lost %v", c)
		}
	}
}

func TestDecodeCoords_Malformed(t *testing.T) {
	tests := []string{
		"1",         // no comma
		"1,2,3",     // too many parts
		"a,b",       // not integers
		"1,2 bad",   // valid pair then junk
		"1, 2",      // space splits the pair
	}
	for _, input := range tests {
		if _, err := DecodeCoords(input); err == nil {
			t.Errorf("DecodeCoords(%q) should fail", input)
		}
	}
}
