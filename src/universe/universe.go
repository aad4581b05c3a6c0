package universe

import (
	"context"
	"time"
)

//Universe is the only way the presentation layer reaches the simulation:
//cell commands and clock commands go in, snapshots and statuses go out
type Universe interface {
	RequestSetAlive(x int, y int) error
	RequestSnapshot() Area
	RequestToggleRun() RunningState
	RequestPause()
	RequestSingleStep() error

	Status() Status
	Options() Options
	AddTemplate(tmpl Template)
	Templates() []Template
	SettleTemplate(name string) error
	SettleWithRandomData(seed int64)
	Clear()
	RegisterViewer(v Viewer)
	Run(ctx context.Context) error
}

//Options represents the Universe's configurable options
type Options struct {
	Size          int
	Interval      time.Duration
	FrameInterval time.Duration
	MaxSteps      int
	Engine        string
	Workers       int
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	Changed       bool //the last generation differs from the previous one
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh(st Status)
	Register(u Universe)
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//RunningState is the clock running status at the concrete moment
type RunningState int

//default options
const (
	DefSize          = 16
	DefTickInterval  = time.Millisecond * 300
	DefFrameInterval = time.Millisecond * 16
	DefMaxSteps      = 1000
	DefEngine        = "base"
)

const (
	RunningStatePaused RunningState = iota
	RunningStateRunning
)

func (s RunningState) String() string {
	switch s {
	case RunningStatePaused:
		return "paused"
	case RunningStateRunning:
		return "running"
	}
	return "unknown"
}

var DefaultUniverseOptions = Options{
	Size:          DefSize,
	Interval:      DefTickInterval,
	FrameInterval: DefFrameInterval,
	MaxSteps:      DefMaxSteps,
	Engine:        DefEngine,
	Workers:       DefWorkers,
}
