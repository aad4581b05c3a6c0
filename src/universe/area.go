package universe

type Cell bool

//Area is a rectangular matrix of cells addressed as Entities[y][x]
//an Area returned by Grid.Snapshot or an Engine is owned by the caller and shares nothing with the Grid
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell
}

//NewArea allocates an all-dead area
func NewArea(width int, height int) Area {
	return createArea(width, height)
}

//Alive reports the cell state at x, y, coordinates outside the area are dead
func (a Area) Alive(x int, y int) bool {
	if !a.contains(x, y) {
		return false
	}
	return bool(a.Entities[y][x])
}

//LiveCells calculates the count of live cells
func (a Area) LiveCells() int {
	liveCells := 0
	for y := range a.Entities {
		for _, e := range a.Entities[y] {
			if e {
				liveCells++
			}
		}
	}
	return liveCells
}

//Equal reports whether both areas have the same dimensions and cell states
//a malformed area is never equal to anything
func (a Area) Equal(b Area) bool {
	if a.Width != b.Width || a.Height != b.Height || !a.wellFormed() || !b.wellFormed() {
		return false
	}
	for y := range a.Entities {
		for x := range a.Entities[y] {
			if a.Entities[y][x] != b.Entities[y][x] {
				return false
			}
		}
	}
	return true
}

//Clone returns a deep copy of the area
//the copy is always well formed, extra rows and columns are dropped, missing ones are dead
func (a Area) Clone() Area {
	c := createArea(a.Width, a.Height)
	for y := 0; y < c.Height && y < len(a.Entities); y++ {
		copy(c.Entities[y], a.Entities[y])
	}
	return c
}

//wellFormed reports whether Entities has exactly Height rows of Width cells
func (a Area) wellFormed() bool {
	if a.Width < 0 || a.Height < 0 || len(a.Entities) != a.Height {
		return false
	}
	for _, row := range a.Entities {
		if len(row) != a.Width {
			return false
		}
	}
	return true
}

func (a Area) contains(x int, y int) bool {
	return x >= 0 && y >= 0 && x < a.Width && y < a.Height
}

//createArea allocates the new area backed by the single slice
func createArea(width int, height int) Area {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	b := make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}
