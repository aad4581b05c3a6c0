package universe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrInvalidInState = errors.New("operation is not allowed in the current running state")

//Clock owns the run/pause flag and advances the Grid one generation per tick while running
//stepMu serializes the generations with the transitions to Paused,
//the state lock is held only to read or write the flag and the counters, never during a computation
type Clock struct {
	grid     *Grid
	engine   Engine
	interval time.Duration
	notify   func(st Status)
	stepMu   sync.Mutex
	state    struct {
		Status
		sync.Mutex
	}
}

//NewClock creates the paused clock
//notify (optional) is called after every running state change and every committed generation,
//it's called from the goroutine which caused the change and must not block
func NewClock(g *Grid, e Engine, interval time.Duration, notify func(st Status)) *Clock {
	if e == nil {
		e = NextGeneration
	}
	if interval <= 0 {
		interval = DefTickInterval
	}
	c := &Clock{grid: g, engine: e, interval: interval, notify: notify}
	c.state.RunningMode = RunningStatePaused
	return c
}

//Interval returns the interval between ticks
func (c *Clock) Interval() time.Duration {
	return c.interval
}

//Status returns the clock status at the moment
//the generation number and the live cells are taken from the grid together, so they always match
func (c *Clock) Status() Status {
	c.state.Lock()
	defer c.state.Unlock()
	st := c.state.Status
	st.IterationNum, st.LiveCells, st.Changed = c.grid.stats()
	return st
}

//RunningMode returns the current running state
func (c *Clock) RunningMode() RunningState {
	c.state.Lock()
	defer c.state.Unlock()
	return c.state.RunningMode
}

//ToggleRun switches Paused <-> Running and returns the new state
//switching to Paused waits for the generation in progress, so no tick commits after it returns
func (c *Clock) ToggleRun() RunningState {
	c.stepMu.Lock()
	c.state.Lock()
	to := RunningStateRunning
	if c.state.RunningMode == RunningStateRunning {
		to = RunningStatePaused
	}
	c.state.RunningMode = to
	c.state.Unlock()
	c.stepMu.Unlock()
	c.refresh()
	return to
}

//Start switches the clock to Running, does nothing if it's running already
func (c *Clock) Start() {
	c.switchRunningState(RunningStateRunning)
}

//Pause switches the clock to Paused, does nothing if it's paused already
//it waits for the generation in progress
func (c *Clock) Pause() {
	c.stepMu.Lock()
	changed := c.setRunningMode(RunningStatePaused)
	c.stepMu.Unlock()
	if changed {
		c.refresh()
	}
}

//SingleStep computes and commits exactly one generation
//allowed only while paused, returns ErrInvalidInState otherwise
func (c *Clock) SingleStep() error {
	c.stepMu.Lock()
	if c.RunningMode() != RunningStatePaused {
		c.stepMu.Unlock()
		return fmt.Errorf("%w: single step while %v", ErrInvalidInState, RunningStateRunning)
	}
	c.step()
	c.stepMu.Unlock()
	c.refresh()
	return nil
}

//Tick commits one generation if the clock is running, returns true if it did
func (c *Clock) Tick() bool {
	c.stepMu.Lock()
	if c.RunningMode() != RunningStateRunning {
		c.stepMu.Unlock()
		return false
	}
	c.step()
	c.stepMu.Unlock()
	c.refresh()
	return true
}

//Reset pauses the clock and resets all counters
func (c *Clock) Reset() {
	c.stepMu.Lock()
	c.state.Lock()
	c.state.Status = Status{RunningMode: RunningStatePaused}
	c.grid.resetGeneration()
	c.state.Unlock()
	c.stepMu.Unlock()
	c.refresh()
}

//Run ticks every interval until ctx is done
//a generation is always committed entirely inside Tick, so the cancellation never interrupts a commit
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Tick()
		}
	}
}

//step does the new generation calculation for the entire grid
//must be called with stepMu locked
func (c *Clock) step() {
	start := time.Now()
	if err := c.grid.advance(c.engine); err != nil {
		//the engine broke the dimensions contract, this is a bug
		panic(err)
	}
	c.state.Lock()
	c.state.IterationTime = time.Since(start)
	c.state.Unlock()
}

//switchRunningState switches the clock to the RunningState
func (c *Clock) switchRunningState(to RunningState) {
	if c.setRunningMode(to) {
		c.refresh()
	}
}

//setRunningMode returns false if the clock is in the RunningState already
func (c *Clock) setRunningMode(to RunningState) bool {
	c.state.Lock()
	defer c.state.Unlock()
	if c.state.RunningMode == to {
		return false
	}
	c.state.RunningMode = to
	return true
}

//refresh passes the status to the notify callback
func (c *Clock) refresh() {
	if c.notify != nil {
		c.notify(c.Status())
	}
}
