package nano

import (
	"fmt"
	"strings"
)

var cellGlyphs = map[Cell]byte{
	Empty:    '.',
	Nano:     'n',
	Wall:     '#',
	Block:    'B',
	Splitter: 'S',
	Goal:     'G',
}

// String draws the board one row per line, top row first.
func (s *State) String() string {
	var sb strings.Builder
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			g, ok := cellGlyphs[s.Cell(x, y)]
			if !ok {
				g = '?'
			}
			sb.WriteByte(g)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads rows drawn with the glyphs used by String into the
// coordinate lists of a level. Only '#', 'G' and 'n' are meaningful; every
// other glyph is treated as empty. Rows must share one width.
func ParseBoard(rows []string) (width, height int, walls, goals, nanos []Point, err error) {
	height = len(rows)
	for y, row := range rows {
		if y == 0 {
			width = len(row)
		} else if len(row) != width {
			return 0, 0, nil, nil, nil, fmt.Errorf("row %d has width %d, want %d", y, len(row), width)
		}
		for x := 0; x < len(row); x++ {
			p := Point{X: x, Y: y}
			switch row[x] {
			case '#':
				walls = append(walls, p)
			case 'G':
				goals = append(goals, p)
			case 'n':
				nanos = append(nanos, p)
			}
		}
	}
	return width, height, walls, goals, nanos, nil
}
