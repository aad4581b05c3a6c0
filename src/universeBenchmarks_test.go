package main

import (
	"context"
	"lifegrid/src/universe"
	"testing"
	"time"
)

const (
	width = 200
)

func newUniverseOptions(engine string) *universe.Options {
	o := universe.DefaultUniverseOptions
	o.Size = width
	o.Engine = engine
	return &o
}

func universeStep(u universe.Universe, b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		_ = u.SettleTemplate("sample")
		b.StartTimer()
		if err := u.RequestSingleStep(); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Step(b *testing.B) {
	for _, e := range universe.EngineNames() {
		b.Run(e, func(b *testing.B) {
			u, err := universe.NewBaseUniverse(newUniverseOptions(e))
			if err != nil {
				b.Fatal(err)
			}
			universeStep(u, b)
		})
	}
}

func TestRunHeadless(t *testing.T) {
	o := newUniverseOptions("base")
	o.Size = 32
	o.Interval = time.Millisecond
	o.MaxSteps = 5
	u, err := universe.NewBaseUniverse(o)
	if err != nil {
		t.Fatal(err)
	}
	_ = u.SettleTemplate("glider")
	if err := runHeadless(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	st := u.Status()
	if st.IterationNum != 5 || st.RunningMode != universe.RunningStatePaused {
		t.Fatalf("status after headless run %+v", st)
	}
}
