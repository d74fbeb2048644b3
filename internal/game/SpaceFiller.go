package game

// floodFill marks every cell reachable from start through cells accepted by
// open. The start cell is always marked.
func floodFill(width, height int, start Cell, open func(Cell) bool) [][]bool {
	reachable := make([][]bool, height)
	for i := range reachable {
		reachable[i] = make([]bool, width)
	}
	if start.X < 0 || start.Y < 0 || start.X >= width || start.Y >= height {
		return reachable
	}

	q := []Cell{start}
	reachable[start.Y][start.X] = true
	for len(q) > 0 {
		c := q[0]
		q = q[1:]
		for _, d := range moveOrder {
			n := c.Step(d)
			if n.X < 0 || n.Y < 0 || n.X >= width || n.Y >= height {
				continue
			}
			if reachable[n.Y][n.X] || !open(n) {
				continue
			}
			reachable[n.Y][n.X] = true
			q = append(q, n)
		}
	}
	return reachable
}

// DistanceMap holds BFS step counts from a target piece; -1 marks cells the
// target cannot reach.
type DistanceMap [][]int

func (dm DistanceMap) At(c Cell) int {
	if c.Y < 0 || c.Y >= len(dm) || c.X < 0 || c.X >= len(dm[c.Y]) {
		return -1
	}
	return dm[c.Y][c.X]
}

// distanceMapFrom walks the topology links, so walls never need checking.
func distanceMapFrom(t *Topology, target *Piece) DistanceMap {
	dist := make(DistanceMap, t.Height)
	for y := range dist {
		dist[y] = make([]int, t.Width)
		for x := range dist[y] {
			dist[y][x] = -1
		}
	}
	if target == nil {
		return dist
	}

	q := []*Piece{target}
	dist[target.Y][target.X] = 0
	for len(q) > 0 {
		p := q[0]
		q = q[1:]
		for _, d := range moveOrder {
			n := p.Neighbor(d)
			if n == nil || dist[n.Y][n.X] != -1 {
				continue
			}
			dist[n.Y][n.X] = dist[p.Y][p.X] + 1
			q = append(q, n)
		}
	}
	return dist
}
