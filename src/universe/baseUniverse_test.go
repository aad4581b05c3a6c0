package universe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingViewer struct {
	mu       sync.Mutex
	u        Universe
	statuses []Status
}

func (r *recordingViewer) Refresh(st Status) {
	r.mu.Lock()
	r.statuses = append(r.statuses, st)
	r.mu.Unlock()
}

func (r *recordingViewer) Register(u Universe) {
	r.u = u
}

func (r *recordingViewer) last() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses[len(r.statuses)-1]
}

func newUniverseOptions() *Options {
	o := DefaultUniverseOptions
	o.Interval = time.Millisecond
	return &o
}

func newTestUniverse(t *testing.T) *BaseUniverse {
	t.Helper()
	u, err := NewBaseUniverse(newUniverseOptions())
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestNewBaseUniverseDefaults(t *testing.T) {
	u, err := NewBaseUniverse(nil)
	if err != nil {
		t.Fatal(err)
	}
	o := u.Options()
	if o.Size != DefSize || o.Interval != DefTickInterval || o.FrameInterval != DefFrameInterval {
		t.Fatalf("unexpected options %+v", o)
	}
	s := u.RequestSnapshot()
	if s.Width != DefSize || s.Height != DefSize || s.LiveCells() != 0 {
		t.Fatalf("initial grid %dx%d with %d live cells", s.Width, s.Height, s.LiveCells())
	}
	if st := u.Status(); st.RunningMode != RunningStatePaused {
		t.Fatalf("initial mode %v", st.RunningMode)
	}
}

func TestNewBaseUniverseUnknownEngine(t *testing.T) {
	o := newUniverseOptions()
	o.Engine = "gpu"
	if _, err := NewBaseUniverse(o); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("error = %v", err)
	}
}

func TestRequestSetAlive(t *testing.T) {
	u := newTestUniverse(t)
	v := &recordingViewer{}
	u.RegisterViewer(v)
	if v.u != u {
		t.Fatal("viewer is not registered")
	}
	if err := u.RequestSetAlive(2, 3); err != nil {
		t.Fatal(err)
	}
	if !u.RequestSnapshot().Alive(2, 3) {
		t.Fatal("cell is not alive")
	}
	if st := v.last(); st.LiveCells != 1 {
		t.Fatalf("viewer got %d live cells", st.LiveCells)
	}

	before := u.RequestSnapshot()
	for _, c := range [][2]int{{-1, 0}, {DefSize, 0}} {
		if err := u.RequestSetAlive(c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("RequestSetAlive(%d,%d) error = %v", c[0], c[1], err)
		}
	}
	if !u.RequestSnapshot().Equal(before) {
		t.Fatal("out of bounds request changed the grid")
	}
}

func TestRequestClockCommands(t *testing.T) {
	u := newTestUniverse(t)
	if err := u.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}
	if err := u.RequestSingleStep(); err != nil {
		t.Fatal(err)
	}
	assertLive(t, u.RequestSnapshot(), [][]int{{2, 1}, {2, 2}, {2, 3}})

	if m := u.RequestToggleRun(); m != RunningStateRunning {
		t.Fatalf("toggle gave %v", m)
	}
	if err := u.RequestSingleStep(); !errors.Is(err, ErrInvalidInState) {
		t.Fatalf("single step while running: %v", err)
	}
	u.RequestPause()
	if st := u.Status(); st.RunningMode != RunningStatePaused || st.IterationNum != 1 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestTemplates(t *testing.T) {
	u := newTestUniverse(t)
	names := []string{}
	for _, tmpl := range u.Templates() {
		names = append(names, tmpl.Name)
	}
	if len(names) != len(builtinTemplates) || names[0] != "blinker" {
		t.Fatalf("templates %v", names)
	}

	u.AddTemplate(Template{"edge", "", [][]int{{0, 0}, {DefSize, 0}, {-1, 3}, {5}}})
	if err := u.SettleTemplate("edge"); err != nil {
		t.Fatal(err)
	}
	assertLive(t, u.RequestSnapshot(), [][]int{{0, 0}})

	if err := u.SettleTemplate("gun"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("error = %v", err)
	}
}

func TestBlockTemplateIsStable(t *testing.T) {
	u := newTestUniverse(t)
	_ = u.SettleTemplate("block")
	before := u.RequestSnapshot()
	_ = u.RequestSingleStep()
	if !u.RequestSnapshot().Equal(before) {
		t.Fatal("block changed")
	}
	if st := u.Status(); st.Changed {
		t.Fatal("status reports a change")
	}
}

func TestSettleWithRandomData(t *testing.T) {
	u := newTestUniverse(t)
	u.SettleWithRandomData(7)
	a := u.RequestSnapshot()
	if a.LiveCells() == 0 {
		t.Fatal("no live cells")
	}
	u.Clear()
	u.SettleWithRandomData(7)
	if !u.RequestSnapshot().Equal(a) {
		t.Fatal("the same seed produced different grids")
	}
}

func TestClear(t *testing.T) {
	u := newTestUniverse(t)
	_ = u.SettleTemplate("glider")
	_ = u.RequestSingleStep()
	u.RequestToggleRun()
	u.Clear()
	st := u.Status()
	if st.IterationNum != 0 || st.LiveCells != 0 || st.RunningMode != RunningStatePaused {
		t.Fatalf("status after clear %+v", st)
	}
}

func TestUniverseRun(t *testing.T) {
	o := newUniverseOptions()
	o.Engine = "multithreaded"
	o.Size = 64
	u, err := NewBaseUniverse(o)
	if err != nil {
		t.Fatal(err)
	}
	_ = u.SettleTemplate("glider")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- u.Run(ctx) }()

	u.RequestToggleRun()
	waitFor(t, func() bool { return u.Status().IterationNum >= 4 })
	u.RequestPause()
	if n := u.RequestSnapshot().LiveCells(); n != 5 {
		t.Fatalf("glider has %d cells", n)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
