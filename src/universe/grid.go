package universe

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
	ErrDimensionMismatch = errors.New("area dimensions mismatch")
)

//how many times advance computes a generation outside the lock before it gives up and computes under the lock
const optimisticAdvanceAttempts = 3

//Grid is the single source of truth for the cells state
//all accessors are safe to call from the tick goroutine and the UI goroutine at the same time
type Grid struct {
	mu         sync.RWMutex
	area       Area
	version    uint64 //incremented on every write
	generation int    //committed generations since the last resetGeneration
	changed    bool   //the last committed generation differs from the previous one
}

//NewGrid creates the all-dead square grid size x size
func NewGrid(size int) *Grid {
	return &Grid{area: createArea(size, size)}
}

//Size returns the grid dimension
func (g *Grid) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.area.Width
}

//Set sets the cell at x, y
func (g *Grid) Set(x int, y int, alive bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.area.contains(x, y) {
		return outOfBounds(x, y, g.area)
	}
	g.area.Entities[y][x] = Cell(alive)
	g.version++
	return nil
}

//Get returns the cell state at x, y
func (g *Grid) Get(x int, y int) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.area.contains(x, y) {
		return false, outOfBounds(x, y, g.area)
	}
	return bool(g.area.Entities[y][x]), nil
}

//Snapshot returns the independent copy of the whole grid
func (g *Grid) Snapshot() Area {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.area.Clone()
}

//Replace swaps the entire grid contents at once
//the grid keeps its own copy, so the caller may reuse a
func (g *Grid) Replace(a Area) error {
	if !a.wellFormed() {
		return fmt.Errorf("%w: malformed %vx%v area with %v rows", ErrDimensionMismatch, a.Width, a.Height, len(a.Entities))
	}
	c := a.Clone()
	g.mu.Lock()
	defer g.mu.Unlock()
	if c.Width != g.area.Width || c.Height != g.area.Height {
		return fmt.Errorf("%w: got %vx%v, grid is %vx%v", ErrDimensionMismatch, c.Width, c.Height, g.area.Width, g.area.Height)
	}
	g.area = c
	g.version++
	return nil
}

//advance computes the next generation and commits it
//the generation is computed from a copy without holding the lock,
//it's committed only if nothing was written to the grid meanwhile, otherwise it's computed again from the new state.
//So an edit made during the computation is never overwritten, and readers are blocked only for the swap.
//After optimisticAdvanceAttempts conflicts the generation is computed under the write lock.
func (g *Grid) advance(next Engine) error {
	for i := 0; i < optimisticAdvanceAttempts; i++ {
		g.mu.RLock()
		src, version := g.area.Clone(), g.version
		g.mu.RUnlock()

		a := next(src)
		if err := g.checkGeneration(a, src); err != nil {
			return err
		}

		g.mu.Lock()
		if g.version == version {
			g.commit(a)
			g.mu.Unlock()
			return nil
		}
		g.mu.Unlock()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	a := next(g.area.Clone())
	if err := g.checkGeneration(a, g.area); err != nil {
		return err
	}
	g.commit(a)
	return nil
}

//checkGeneration verifies the engine output has the dimensions of its input
func (g *Grid) checkGeneration(a Area, src Area) error {
	if a.Width != src.Width || a.Height != src.Height || !a.wellFormed() {
		return fmt.Errorf("%w: engine returned %vx%v, grid is %vx%v", ErrDimensionMismatch, a.Width, a.Height, src.Width, src.Height)
	}
	return nil
}

//commit must be called with the write lock held
func (g *Grid) commit(a Area) {
	g.changed = !a.Equal(g.area)
	g.area = a
	g.version++
	g.generation++
}

//apply runs fn on the live area while holding the write lock
func (g *Grid) apply(fn func(a Area)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.area)
	g.version++
}

//stats returns the generation counter with the live cells of that very generation
func (g *Grid) stats() (generation int, liveCells int, changed bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation, g.area.LiveCells(), g.changed
}

//resetGeneration zeroes the generation counter
func (g *Grid) resetGeneration() {
	g.mu.Lock()
	g.generation = 0
	g.changed = false
	g.mu.Unlock()
}

func outOfBounds(x int, y int, a Area) error {
	return fmt.Errorf("%w: (%v,%v) outside %vx%v", ErrOutOfBounds, x, y, a.Width, a.Height)
}
