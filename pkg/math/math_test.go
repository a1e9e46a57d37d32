package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestVec3Cross(t *testing.T) {
	got := Right.Cross(Up)
	if got != Forward {
		t.Errorf("Right.Cross(Up) = %v, want %v", got, Forward)
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", Vec3{0, 5, 0}, Vec3{0, 1, 0}},
		{"diagonal", Vec3{3, 0, 4}, Vec3{0.6, 0, 0.8}},
		{"zero", Vec3{}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if !got.ApproxEqual(tt.want, 0.0001) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVec3Lerp(t *testing.T) {
	got := Vec3{0, 0, 0}.Lerp(Vec3{10, -4, 2}, 0.5)
	want := Vec3{5, -2, 1}
	if got != want {
		t.Errorf("Lerp() = %v, want %v", got, want)
	}
}

func TestSignedAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float32
	}{
		{"clockwise", Right, Forward, -90},
		{"counter clockwise", Forward, Right, 90},
		{"opposite", Right, Right.Negate(), 180},
		{"same", Up, Up, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedAngle(tt.a, tt.b, Up)
			if abs(got-tt.want) > 0.01 {
				t.Errorf("SignedAngle(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestInverseLerp(t *testing.T) {
	tests := []struct {
		a, b, x, want float32
	}{
		{0, 180, 90, 0.5},
		{0, 180, -10, 0},
		{0, 180, 200, 1},
		{1, 1, 5, 0},
	}
	for _, tt := range tests {
		if got := InverseLerp(tt.a, tt.b, tt.x); abs(got-tt.want) > 0.0001 {
			t.Errorf("InverseLerp(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.x, got, tt.want)
		}
	}
}

func TestQuadBezier(t *testing.T) {
	p0 := Vec3{0, 0, 0}
	p1 := Vec3{1, 1, 0}
	p2 := Vec3{2, 0, 0}

	if got := QuadBezier(p0, p1, p2, 0); got != p0 {
		t.Errorf("QuadBezier(t=0) = %v, want %v", got, p0)
	}
	if got := QuadBezier(p0, p1, p2, 1); got != p2 {
		t.Errorf("QuadBezier(t=1) = %v, want %v", got, p2)
	}
	mid := QuadBezier(p0, p1, p2, 0.5)
	if !mid.ApproxEqual(Vec3{1, 0.5, 0}, 0.0001) {
		t.Errorf("QuadBezier(t=0.5) = %v, want (1, 0.5, 0)", mid)
	}
	tan := QuadBezierTangent(p0, p1, p2, 0.5)
	if !tan.ApproxEqual(Vec3{2, 0, 0}, 0.0001) {
		t.Errorf("QuadBezierTangent(t=0.5) = %v, want (2, 0, 0)", tan)
	}
}

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()
	length := math32.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if abs(length-1) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(Up, math32.Pi/2)
	got := q.Rotate(Forward)
	if !got.ApproxEqual(Right, 0.0001) {
		t.Errorf("Rotate(Forward) = %v, want %v", got, Right)
	}
}

func TestQuatLookRotation(t *testing.T) {
	tests := []struct {
		name    string
		forward Vec3
	}{
		{"forward", Forward},
		{"right", Right},
		{"diagonal", Vec3{1, 2, -3}},
		{"back", Forward.Negate()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatLookRotation(tt.forward, Up)
			f := tt.forward.Normalize()
			if got := q.Rotate(Forward); !got.ApproxEqual(f, 0.001) {
				t.Errorf("LookRotation(%v).Rotate(Forward) = %v, want %v", tt.forward, got, f)
			}
			if up := q.Rotate(Up); up.Dot(Up) <= 0 {
				t.Errorf("LookRotation(%v) up = %v, should lean toward +Y", tt.forward, up)
			}
		})
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Up, math32.Pi/2)

	if r := q1.Slerp(q2, 0); abs(r.W-q1.W) > 0.001 {
		t.Errorf("Slerp at t=0 should equal q1, got %v", r)
	}
	if r := q1.Slerp(q2, 1); abs(r.W-q2.W) > 0.001 {
		t.Errorf("Slerp at t=1 should equal q2, got %v", r)
	}
	// 45 degrees halfway
	if r := q1.Slerp(q2, 0.5); abs(r.W-math32.Cos(math32.Pi/8)) > 0.01 {
		t.Errorf("Slerp at t=0.5: W = %v, want %v", r.W, math32.Cos(math32.Pi/8))
	}
	if r := q1.Slerp(q2, 3); abs(r.W-q2.W) > 0.001 {
		t.Errorf("Slerp should clamp t, got %v", r)
	}
}

func TestQuatToMat4(t *testing.T) {
	m := QuatIdentity().ToMat4()
	identity := Identity()
	for i := 0; i < 16; i++ {
		if abs(m[i]-identity[i]) > 0.0001 {
			t.Errorf("Identity quat element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I = %v, want %v", result, m)
	}
}

func TestTransformVec3(t *testing.T) {
	got := Translate(5, 10, 15).TransformVec3(Vec3{1, 1, 1})
	want := Vec3{6, 11, 16}
	if got != want {
		t.Errorf("TransformVec3() = %v, want %v", got, want)
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, Up)
	got := m.TransformVec3(Vec3{})
	if !got.ApproxEqual(Vec3{0, 0, -5}, 0.001) {
		t.Errorf("LookAt origin in view space = %v, want (0, 0, -5)", got)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math32.Pi/2, 1, 0.1, 100)
	if abs(m[0]-1) > 0.001 || abs(m[5]-1) > 0.001 {
		t.Errorf("Perspective(90deg) scale = (%v, %v), want (1, 1)", m[0], m[5])
	}
	if m[11] != -1 {
		t.Errorf("Perspective m[11] = %v, want -1", m[11])
	}
}

func TestInverse(t *testing.T) {
	view := LookAt(Vec3{3, 4, 5}, Vec3{}, Up)
	proj := Perspective(math32.Pi/3, 1.5, 0.1, 100)
	m := proj.Mul(view)

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse() ok = false")
	}
	got := m.Mul(inv)
	want := Identity()
	for i := range want {
		if abs(got[i]-want[i]) > 1e-3 {
			t.Fatalf("m * m^-1 [%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, ok := (Mat4{}).Inverse(); ok {
		t.Error("zero matrix Inverse() ok = true")
	}
}

func TestMulVec4Project(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.MulVec4(Vec4{1, 1, 1, 1}).Project()
	if !got.ApproxEqual(Vec3{2, 3, 4}, 1e-6) {
		t.Errorf("MulVec4().Project() = %v, want (2, 3, 4)", got)
	}
}
