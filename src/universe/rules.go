package universe

//Engine computes the next generation from the area
//an Engine must not modify its input and must return a new area with the same dimensions
type Engine func(a Area) Area

//NextGeneration is the single-threaded engine
//walking the area and calculating the next state for each cell into the new buffer
func NextGeneration(a Area) Area {
	next := createArea(a.Width, a.Height)
	for y := range a.Entities {
		for x := range a.Entities[y] {
			next.Entities[y][x] = Cell(cellNextState(a, x, y))
		}
	}
	return next
}

//countLiveNeighbours counts the live cells around x, y
//cells outside the area don't count, there is no wraparound
func countLiveNeighbours(a Area, x int, y int) int {
	n := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			if a.Alive(x+i, y+j) {
				n++
			}
		}
	}
	return n
}

//cellNextState calculates the next state for the cell
func cellNextState(a Area, x int, y int) (live bool) {
	liveNeighbours := countLiveNeighbours(a, x, y)

	if liveNeighbours < 2 {
		//underpopulation
		return false
	} else if liveNeighbours > 3 {
		//overpopulation
		return false
	} else if liveNeighbours == 3 {
		//survival or reproduction
		return true
	} else if liveNeighbours == 2 && a.Entities[y][x] {
		//survival
		return true
	}

	return false
}
