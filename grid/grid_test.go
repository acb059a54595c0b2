package grid

import (
	"math"
	"testing"
)

func TestFromWorldFloors(t *testing.T) {
	cases := []struct {
		name string
		in   Vec3
		want Coord
	}{
		{"positive interior", Vec3{X: 1.9, Y: 0.2, Z: 3.5}, Coord{X: 1, Y: 0, Z: 3}},
		{"negative interior", Vec3{X: -0.1, Y: -1.9, Z: -3.0}, Coord{X: -1, Y: -2, Z: -3}},
		{"cell corner", Vec3{X: 2.0, Y: 2.0, Z: 2.0}, Coord{X: 2, Y: 2, Z: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromWorld(tc.in); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCenterRoundTrip(t *testing.T) {
	c := Coord{X: -4, Y: 7, Z: 0}
	if got := FromWorld(c.Center()); got != c {
		t.Fatalf("expected the center to map back to %v, got %v", c, got)
	}
}

func TestKey(t *testing.T) {
	if got := (Coord{X: -1, Y: 64, Z: 300}).Key(); got != "-1,64,300" {
		t.Fatalf("expected key %q, got %q", "-1,64,300", got)
	}
}

func TestOffset(t *testing.T) {
	if got := (Coord{X: 1, Y: 2, Z: 3}).Offset(-1, 0, 4); got != (Coord{X: 0, Y: 2, Z: 7}) {
		t.Fatalf("expected {0 2 7}, got %v", got)
	}
}

func TestInRange(t *testing.T) {
	if !(Coord{X: MaxCoord, Y: -MaxCoord, Z: 0}).InRange() {
		t.Fatalf("expected the boundary coordinate to be in range")
	}
	if (Coord{X: MaxCoord + 1}).InRange() {
		t.Fatalf("expected a coordinate past the boundary to be out of range")
	}
}

func TestManhattan(t *testing.T) {
	a := Coord{X: 1, Y: 2, Z: 3}
	b := Coord{X: -1, Y: 5, Z: 3}
	if got := Manhattan(a, b); got != 5 {
		t.Fatalf("expected distance 5, got %v", got)
	}
	if got := Manhattan(a, a); got != 0 {
		t.Fatalf("expected zero distance to self, got %v", got)
	}
}

func TestFinite(t *testing.T) {
	if !Finite(Vec3{X: 1, Y: -2, Z: 0.5}) {
		t.Fatalf("expected an ordinary vector to be finite")
	}
	if Finite(Vec3{X: math.NaN()}) {
		t.Fatalf("expected NaN to be rejected")
	}
	if Finite(Vec3{Z: math.Inf(-1)}) {
		t.Fatalf("expected -Inf to be rejected")
	}
}
