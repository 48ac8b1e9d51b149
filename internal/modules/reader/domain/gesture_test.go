package domain_test

import (
	"testing"

	"folio/internal/modules/reader/domain"
)

var cfg = domain.GestureConfig{EdgeRatio: 0.12, CommitRatio: 0.25}

func TestGestureStartsOnlyInEdgeZones(t *testing.T) {
	t.Parallel()
	cases := []struct {
		x    float64
		want domain.Direction
		ok   bool
	}{
		{x: 990, want: domain.DirectionNext, ok: true},
		{x: 881, want: domain.DirectionNext, ok: true},
		{x: 5, want: domain.DirectionPrev, ok: true},
		{x: 120, want: domain.DirectionPrev, ok: true},
		{x: 500, ok: false},
		{x: 1200, ok: false},
	}
	for _, tc := range cases {
		var g domain.GestureState
		if got := g.Begin(tc.x, 1000, cfg); got != tc.ok {
			t.Fatalf("x=%v: expected begin=%v, got %v", tc.x, tc.ok, got)
		}
		if tc.ok && g.Direction != tc.want {
			t.Fatalf("x=%v: expected %v, got %v", tc.x, tc.want, g.Direction)
		}
		if !tc.ok && g != (domain.GestureState{}) {
			t.Fatalf("x=%v: state should stay zero, got %+v", tc.x, g)
		}
	}
}

func TestGestureOffsetIsClampedToDirection(t *testing.T) {
	t.Parallel()
	var next domain.GestureState
	next.Begin(950, 1000, cfg)
	next.Move(1000)
	if next.Offset != 0 {
		t.Fatalf("next drag must not go positive, got %v", next.Offset)
	}
	next.Move(700)
	if next.Offset != -250 {
		t.Fatalf("expected -250, got %v", next.Offset)
	}

	var prev domain.GestureState
	prev.Begin(50, 1000, cfg)
	prev.Move(0)
	if prev.Offset != 0 {
		t.Fatalf("prev drag must not go negative, got %v", prev.Offset)
	}
	prev.Move(400)
	if prev.Offset != 350 {
		t.Fatalf("expected 350, got %v", prev.Offset)
	}
}

func TestGestureReleaseCommitsBeyondThreshold(t *testing.T) {
	t.Parallel()
	var g domain.GestureState
	g.Begin(950, 1000, cfg)
	g.Move(650)
	if dir := g.Release(cfg); dir != domain.DirectionNext {
		t.Fatalf("expected commit next, got %v", dir)
	}
	if g != (domain.GestureState{}) {
		t.Fatalf("expected zero state after commit, got %+v", g)
	}

	g.Begin(950, 1000, cfg)
	g.Move(700) // exactly 25%: not beyond
	if dir := g.Release(cfg); dir != domain.DirectionNone {
		t.Fatalf("expected cancel at threshold, got %v", dir)
	}
	if g != (domain.GestureState{}) {
		t.Fatalf("expected zero state after cancel, got %+v", g)
	}

	if dir := g.Release(cfg); dir != domain.DirectionNone {
		t.Fatalf("release while idle should do nothing, got %v", dir)
	}
}

func TestGestureBeginIgnoredWhileDragging(t *testing.T) {
	t.Parallel()
	var g domain.GestureState
	g.Begin(20, 1000, cfg)
	if g.Begin(990, 1000, cfg) {
		t.Fatalf("second begin should be ignored")
	}
	if g.Direction != domain.DirectionPrev {
		t.Fatalf("direction changed mid drag: %v", g.Direction)
	}
}
