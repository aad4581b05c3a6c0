package universe

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrUnknownEngine   = errors.New("unknown engine")
)

var engines = map[string]func(o Options) Engine{
	"base": func(o Options) Engine {
		return NextGeneration
	},
	"multithreaded": func(o Options) Engine {
		return NewMultithreadedEngine(o.Workers)
	},
}

//builtinTemplates are added to every new universe
var builtinTemplates = []Template{
	{"block", "still life 2x2", [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}},
	{"blinker", "period 2 oscillator", [][]int{{1, 2}, {2, 2}, {3, 2}}},
	{"glider", "moves one cell diagonally every 4 generations", [][]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}},
	{"sample", "the test sample with 3 stable patterns", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}

//EngineNames returns the sorted names of the available engines
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for k := range engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//BuiltinTemplateNames returns the sorted names of the templates every universe starts with
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtinTemplates))
	for _, t := range builtinTemplates {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

//BaseUniverse implements Universe interface
//it owns the Grid and the Clock and forwards the presentation layer requests to them
type BaseUniverse struct {
	options   Options
	grid      *Grid
	clock     *Clock
	mu        sync.Mutex
	views     []Viewer
	templates map[string]Template
}

//NewBaseUniverse creates the BaseUniverse instance, the clock is paused and the grid is all-dead
func NewBaseUniverse(o *Options) (*BaseUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if opts.Size < 0 {
		opts.Size = 0
	}
	if opts.Interval <= 0 {
		opts.Interval = DefTickInterval
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefFrameInterval
	}
	if opts.Engine == "" {
		opts.Engine = DefEngine
	}
	newEngine, ok := engines[opts.Engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}

	u := BaseUniverse{
		options:   opts,
		grid:      NewGrid(opts.Size),
		templates: map[string]Template{},
	}
	u.clock = NewClock(u.grid, newEngine(opts), opts.Interval, u.refreshView)
	for _, tmpl := range builtinTemplates {
		u.AddTemplate(tmpl)
	}
	return &u, nil
}

//RequestSetAlive settles the cell at x, y
func (u *BaseUniverse) RequestSetAlive(x int, y int) error {
	if err := u.grid.Set(x, y, true); err != nil {
		return err
	}
	u.refreshView(u.Status())
	return nil
}

//RequestSnapshot returns the copy of the grid to render
func (u *BaseUniverse) RequestSnapshot() Area {
	return u.grid.Snapshot()
}

//RequestToggleRun switches the simulation between running and paused
func (u *BaseUniverse) RequestToggleRun() RunningState {
	return u.clock.ToggleRun()
}

//RequestPause pauses the simulation
func (u *BaseUniverse) RequestPause() {
	u.clock.Pause()
}

//RequestSingleStep does one simulation step, allowed only while paused
func (u *BaseUniverse) RequestSingleStep() error {
	return u.clock.SingleStep()
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	return u.clock.Status()
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.mu.Lock()
	u.templates[tmpl.Name] = tmpl
	u.mu.Unlock()
}

//Templates returns the registered templates sorted by name
func (u *BaseUniverse) Templates() []Template {
	u.mu.Lock()
	defer u.mu.Unlock()
	res := make([]Template, 0, len(u.templates))
	for _, tmpl := range u.templates {
		res = append(res, tmpl)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

//SettleTemplate populates the universe with the seeding template
//the template cells are added to the live cells, cells outside the grid are skipped
func (u *BaseUniverse) SettleTemplate(name string) error {
	u.mu.Lock()
	tmpl, ok := u.templates[name]
	u.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	u.settle(tmpl.Coordinates)
	return nil
}

//SettleWithRandomData replaces the grid with random data
func (u *BaseUniverse) SettleWithRandomData(seed int64) {
	r := rand.New(rand.NewSource(seed))
	a := NewArea(u.options.Size, u.options.Size)
	for i := 0; i < a.Width*a.Height; i++ {
		a.Entities[r.Intn(a.Height)][r.Intn(a.Width)] = true
	}
	u.replace(a)
}

//Clear kills all cells, pauses the simulation and resets all counters
func (u *BaseUniverse) Clear() {
	u.clock.Pause()
	u.replace(NewArea(u.options.Size, u.options.Size))
	u.clock.Reset()
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.mu.Lock()
	u.views = append(u.views, v)
	u.mu.Unlock()
	v.Register(u)
}

//Run runs the tick loop until ctx is done
func (u *BaseUniverse) Run(ctx context.Context) error {
	return u.clock.Run(ctx)
}

//settle places live cells at the coordinates under one grid lock
func (u *BaseUniverse) settle(vc [][]int) {
	u.grid.apply(func(a Area) {
		for _, v := range vc {
			if len(v) < 2 || !a.contains(v[0], v[1]) {
				continue
			}
			a.Entities[v[1]][v[0]] = true
		}
	})
	u.refreshView(u.Status())
}

func (u *BaseUniverse) replace(a Area) {
	if err := u.grid.Replace(a); err != nil {
		//the area is built from the grid's own dimensions
		panic(err)
	}
	u.refreshView(u.Status())
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView(st Status) {
	u.mu.Lock()
	views := make([]Viewer, len(u.views))
	copy(views, u.views)
	u.mu.Unlock()
	for _, v := range views {
		v.Refresh(st)
	}
}
