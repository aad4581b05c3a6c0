package universe

import (
	"golang.org/x/sync/errgroup"
)

/*
	Engine with multithreaded computation algorithm
	the area is split into the row bands each of which is computed by an individual goroutine
	every goroutine writes only its own rows of the output buffer
*/

const (
	DefWorkers          = 10 //default workers
	DefMinRowsPerWorker = 3  //minimum rows for one worker
)

//workArea describes the rows band for the worker
type workArea struct {
	y1 int
	y2 int
}

//NewMultithreadedEngine creates the Engine running up to workers goroutines per generation
func NewMultithreadedEngine(workers int) Engine {
	if workers <= 0 {
		workers = DefWorkers
	}
	return func(a Area) Area {
		next := createArea(a.Width, a.Height)
		var g errgroup.Group
		for _, wa := range splitRows(a.Height, workers) {
			wa := wa
			g.Go(func() error {
				calcArea(a, next, wa)
				return nil
			})
		}
		_ = g.Wait()
		return next
	}
}

//splitRows splits height rows to the bands, one band per worker
func splitRows(height int, workers int) []workArea {
	linesPerWorker := height / workers
	if linesPerWorker < DefMinRowsPerWorker {
		linesPerWorker = DefMinRowsPerWorker
	} else if linesPerWorker*workers < height {
		linesPerWorker++
	}
	workAreas := make([]workArea, 0, workers)
	for y1 := 0; y1 < height; y1 += linesPerWorker {
		y2 := y1 + linesPerWorker - 1
		if y2 > height-1 {
			y2 = height - 1
		}
		workAreas = append(workAreas, workArea{y1, y2})
	}
	return workAreas
}

//calcArea calculates new states for the cells inside workArea
func calcArea(src Area, dst Area, wa workArea) {
	for y := wa.y1; y <= wa.y2; y++ {
		for x := 0; x < src.Width; x++ {
			dst.Entities[y][x] = Cell(cellNextState(src, x, y))
		}
	}
}
