package blitz2d

import "testing"

func TestNewRect(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	want := Rect{X0: 10, Y0: 20, X1: 40, Y1: 60}
	if r != want {
		t.Errorf("NewRect = %+v, want %+v", r, want)
	}
	if r.Width() != 30 || r.Height() != 40 {
		t.Errorf("size = %gx%g, want 30x40", r.Width(), r.Height())
	}
}

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"zero width", Rect{X0: 5, Y0: 0, X1: 5, Y1: 10}, true},
		{"inverted", Rect{X0: 10, Y0: 0, X1: 0, Y1: 10}, true},
		{"valid", Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := Rect{X0: 5, Y0: 5, X1: 15, Y1: 15}
	want := Rect{X0: 5, Y0: 5, X1: 10, Y1: 10}
	if got := a.Intersect(b); got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}

	c := Rect{X0: 20, Y0: 20, X1: 30, Y1: 30}
	if got := a.Intersect(c); !got.IsEmpty() {
		t.Errorf("disjoint rects should intersect empty, got %+v", got)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := Rect{X0: 5, Y0: -5, X1: 15, Y1: 5}
	want := Rect{X0: 0, Y0: -5, X1: 15, Y1: 10}
	if got := a.Union(b); got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("union with empty = %+v, want %+v", got, a)
	}
}

func TestPointOps(t *testing.T) {
	p := Pt(1, 2).Add(Pt(3, 4))
	if p != Pt(4, 6) {
		t.Errorf("Add = %+v", p)
	}
	q := Pt(5, 5).Sub(Pt(2, 3))
	if q != Pt(3, 2) {
		t.Errorf("Sub = %+v", q)
	}
}
