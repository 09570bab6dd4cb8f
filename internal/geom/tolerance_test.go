package geom

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	p := NewPoint(0, 0)
	q := NewPoint(3, 4)

	if d := p.Distance(q); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := p.Distance(p); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
}

func TestNear_Absolute(t *testing.T) {
	if !Near(1.0, 1.0+1e-9, 0.02, 1e-6) {
		t.Error("values within absolute tolerance should be near")
	}
	if !Near(0, 1e-7, 0.02, 1e-6) {
		t.Error("small values within absolute tolerance should be near")
	}
}

func TestNear_Relative(t *testing.T) {
	// 100 vs 101 is a 1% difference
	if !Near(100, 101, 0.02, 1e-6) {
		t.Error("1%% difference should pass a 2%% relative tolerance")
	}
	if Near(100, 103, 0.02, 1e-6) {
		t.Error("3%% difference should fail a 2%% relative tolerance")
	}
}

func TestNear_NearZero(t *testing.T) {
	// Both values below absTol but far apart relatively: the absTol guard in
	// the denominator must keep the result defined.
	if Near(2e-6, -2e-6, 0.02, 1e-6) {
		t.Error("opposite-signed values outside absolute tolerance should not be near")
	}
}

func TestVertexAngle_RightAngle(t *testing.T) {
	a := VertexAngle(NewPoint(1, 0), NewPoint(0, 0), NewPoint(0, 1))
	if math.Abs(a-90) > 1e-9 {
		t.Errorf("VertexAngle = %v, want 90", a)
	}
}

func TestVertexAngle_Straight(t *testing.T) {
	a := VertexAngle(NewPoint(-1, 0), NewPoint(0, 0), NewPoint(1, 0))
	if math.Abs(a-180) > 1e-9 {
		t.Errorf("VertexAngle = %v, want 180", a)
	}
}

func TestVertexAngle_DegenerateRay(t *testing.T) {
	// prev coincides with vertex: the zero-length ray must not produce NaN
	a := VertexAngle(NewPoint(0, 0), NewPoint(0, 0), NewPoint(1, 0))
	if math.IsNaN(a) {
		t.Error("degenerate ray produced NaN")
	}
	if a < 0 || a > 180 {
		t.Errorf("VertexAngle = %v, want within [0,180]", a)
	}
}

func TestToleranceNormalize(t *testing.T) {
	var zero Tolerance
	tol := zero.Normalize()
	if tol != DefaultTolerance() {
		t.Errorf("Normalize of zero value = %+v, want defaults", tol)
	}

	custom := Tolerance{Pos: 0.5, AngleDeg: 2, RelLen: 0.1, MinSide: 1}
	if got := custom.Normalize(); got != custom {
		t.Errorf("Normalize changed explicit values: %+v", got)
	}
}
