package nano

var (
	vonNeumannOffsets = []Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	mooreOffsets      = []Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Neighborhood returns the relative offsets nano grows along: the four
// orthogonal neighbors, followed by the diagonals when diagonal is set.
func Neighborhood(diagonal bool) []Point {
	if diagonal {
		return append([]Point(nil), mooreOffsets...)
	}
	return append([]Point(nil), vonNeumannOffsets...)
}

func offsetsFor(r Rules) []Point {
	if r.DiagonalGrowth {
		return mooreOffsets
	}
	return vonNeumannOffsets
}

// growable reports whether nano may spread into c. Walls, blocks and
// splitters stop growth; goals are absorbed and count as a breach.
func growable(c Cell) bool {
	return c == Empty || c == Goal
}

// growthTargets scans the current grid and returns every cell that the next
// growth phase converts, deduplicated, in row-major discovery order.
func growthTargets(s *State) []Point {
	offsets := offsetsFor(s.Rules)
	seen := make([]bool, len(s.Grid.Cells()))
	targets := []Point{}
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if s.Cell(x, y) != Nano {
				continue
			}
			for _, d := range offsets {
				nx, ny := x+d.X, y+d.Y
				if !s.InBounds(nx, ny) || !growable(s.Cell(nx, ny)) {
					continue
				}
				idx := s.Grid.Index(nx, ny)
				if seen[idx] {
					continue
				}
				seen[idx] = true
				targets = append(targets, Point{X: nx, Y: ny})
			}
		}
	}
	return targets
}

// PredictGrowthCells returns the cells the next growth phase would convert
// if the grid stays as it is. It shares target selection with RunGrowthPhase.
func PredictGrowthCells(s *State) PointSet {
	return NewPointSet(growthTargets(s)...)
}

// RunGrowthPhase spreads nano into every eligible neighbor at once. Targets
// come from the grid before growth, so a freshly converted cell does not
// spread again in the same phase.
func RunGrowthPhase(s *State) *State {
	next := s.Clone()
	grow(next)
	return next
}

func grow(s *State) {
	targets := growthTargets(s)
	grid := s.Grid.Clone()
	for _, p := range targets {
		grid.Set(p.X, p.Y, uint8(Nano))
	}
	s.Grid = grid
	s.GrowthTargets = targets
}

// TickCooldowns lowers every cooldown by one, never below zero.
func TickCooldowns(s *State) *State {
	next := s.Clone()
	tickCooldowns(next)
	return next
}

func tickCooldowns(s *State) {
	for t, v := range s.Cooldowns {
		s.Cooldowns[t] = max(v-1, 0)
	}
}
