package view

import (
	"fmt"
	"io"
	"lifegrid/src/universe"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
)

//ConsoleOut is the headless viewer
//it prints the progress and pauses the universe when the simulation is finished:
//maxSteps generations done, nothing changed or no live cells left
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	maxSteps  int
	startTime time.Time
	mu        sync.Mutex
	done      chan struct{}
	finish    sync.Once
}

func NewConsoleOut(w io.Writer, maxSteps int) *ConsoleOut {
	return &ConsoleOut{w: w, maxSteps: maxSteps, done: make(chan struct{})}
}

//Done is closed when the simulation is finished
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) Refresh(st universe.Status) {
	if st.IterationNum == 0 {
		return
	}
	if (c.maxSteps > 0 && st.IterationNum >= c.maxSteps) || !st.Changed || st.LiveCells == 0 {
		finished := false
		c.finish.Do(func() {
			c.mu.Lock()
			totalTime := time.Since(c.startTime).Round(time.Millisecond)
			resultData := map[string]interface{}{
				"Last generation": st.IterationNum,
				"Total time":      totalTime,
				"Live cells":      st.LiveCells,
			}
			_, _ = fmt.Fprintln(c.w, "\n"+aurora.Bold("Finished:").String())
			c.printHashData(resultData)
			c.mu.Unlock()
			finished = true
		})
		if finished {
			close(c.done)
			//Pause calls Refresh again, the finish is already done at this point
			c.u.RequestPause()
		}
		return
	}
	if st.RunningMode == universe.RunningStateRunning && st.IterationNum%10 == 0 {
		c.mu.Lock()
		_, _ = fmt.Fprintf(c.w, "  Generations done: %v\n", st.IterationNum)
		c.mu.Unlock()
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, aurora.Bold("Running configuration:").String())
	c.printHashData(map[string]interface{}{
		"Dimension":      fmt.Sprintf("%v x %v", o.Size, o.Size),
		"Interval":       o.Interval,
		"Max iterations": fmt.Sprintf("%v steps", o.MaxSteps),
		"Engine":         o.Engine,
	})
}

func (c *ConsoleOut) Start() {
	c.mu.Lock()
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
	c.mu.Unlock()
}

//printHashData prints the map sorted by keys, must be called with mu locked
func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
