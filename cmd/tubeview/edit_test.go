package main

import (
	"testing"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

func TestAppendPosition(t *testing.T) {
	tests := []struct {
		name   string
		points []pmath.Vec3
		want   pmath.Vec3
	}{
		{"along last segment", []pmath.Vec3{{}, {X: 2}}, pmath.Vec3{X: 2.5}},
		{"coincident tail", []pmath.Vec3{{X: 1}, {X: 1}}, pmath.Vec3{X: 1, Z: 0.5}},
		{"single point", []pmath.Vec3{{Y: 1}}, pmath.Vec3{Y: 1, Z: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := appendPosition(tt.points, 0.5); !got.ApproxEqual(tt.want, 1e-6) {
				t.Errorf("appendPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsertPosition(t *testing.T) {
	points := []pmath.Vec3{{}, {X: 2}, {X: 2, Z: 2}}

	at, pos := insertPosition(points, 0, 1)
	if at != 1 || !pos.ApproxEqual(pmath.Vec3{X: 1}, 1e-6) {
		t.Errorf("insertPosition(0) = %d, %v, want 1, (1, 0, 0)", at, pos)
	}

	at, pos = insertPosition(points, 2, 1)
	if at != 3 || !pos.ApproxEqual(pmath.Vec3{X: 2, Z: 3}, 1e-6) {
		t.Errorf("insertPosition(last) = %d, %v, want 3, (2, 0, 3)", at, pos)
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		i, delta, n, want int
	}{
		{0, 1, 3, 1},
		{2, 1, 3, 0},
		{0, -1, 3, 2},
		{1, -5, 3, 2},
		{0, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := wrapIndex(tt.i, tt.delta, tt.n); got != tt.want {
			t.Errorf("wrapIndex(%d, %d, %d) = %d, want %d", tt.i, tt.delta, tt.n, got, tt.want)
		}
	}
}
