package sim

import (
	"fmt"
	"testing"
)

// drawKind names one method of RandomSource.
type drawKind string

const (
	drawExp   drawKind = "exp"
	drawFloat drawKind = "float"
	drawInt   drawKind = "int"
)

// draw is one scripted random value. For drawInt, v is the returned integer.
type draw struct {
	kind drawKind
	v    float64
}

func expDraw(v float64) draw   { return draw{kind: drawExp, v: v} }
func floatDraw(v float64) draw { return draw{kind: drawFloat, v: v} }
func intDraw(v int) draw       { return draw{kind: drawInt, v: float64(v)} }

// scriptedSource replays a fixed sequence of draws and fails the test if the engine
// asks for a different kind of draw than scripted, or for more draws than scripted.
// This pins both the values and the order in which the engine consumes them.
type scriptedSource struct {
	t     testing.TB
	draws []draw
	pos   int
	ints  []int // n arguments passed to Intn, in call order
}

func newScriptedSource(t testing.TB, draws ...draw) *scriptedSource {
	return &scriptedSource{t: t, draws: draws}
}

func (s *scriptedSource) next(kind drawKind) float64 {
	s.t.Helper()
	if s.pos >= len(s.draws) {
		s.t.Fatalf("scriptedSource: draw %d (%s) requested but only %d scripted", s.pos, kind, len(s.draws))
	}
	d := s.draws[s.pos]
	if d.kind != kind {
		s.t.Fatalf("scriptedSource: draw %d requested %s, scripted %s", s.pos, kind, d.kind)
	}
	s.pos++
	return d.v
}

func (s *scriptedSource) Float64() float64    { return s.next(drawFloat) }
func (s *scriptedSource) ExpFloat64() float64 { return s.next(drawExp) }
func (s *scriptedSource) Intn(n int) int {
	v := int(s.next(drawInt))
	s.ints = append(s.ints, n)
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scriptedSource: Intn(%d) scripted out-of-range value %d", n, v))
	}
	return v
}

// remaining returns the number of unconsumed scripted draws.
func (s *scriptedSource) remaining() int {
	return len(s.draws) - s.pos
}

// referenceConfig is the deterministic-seed scenario configuration.
func referenceConfig(regime Regime) Config {
	return NewConfig(regime, 1.0, 10, 0.1, 0.05, 0.5, 0.3)
}

// totalPopulation sums the population of a clone slice.
func totalPopulation(clones []Clone) int {
	n := 0
	for _, c := range clones {
		n += c.Population
	}
	return n
}
