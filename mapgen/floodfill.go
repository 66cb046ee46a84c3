package mapgen

// 4-connected neighbourhood; diagonals never count as connections
var neighbours = [4]Coord{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// CountReachable counts open tiles reachable from start, start included.
// Returns 0 if start is out of bounds or an obstacle
func CountReachable(obstacles ObstacleMap, start Coord) int {
	if !obstacles.InBounds(start) || obstacles.At(start) {
		return 0
	}

	h, w := len(obstacles), len(obstacles[0])
	visited := make([][]bool, h)
	for y := range visited {
		visited[y] = make([]bool, w)
	}

	queue := []Coord{start}
	visited[start.Y][start.X] = true
	count := 1

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, d := range neighbours {
			n := Coord{curr.X + d.X, curr.Y + d.Y}
			if n.X < 0 || n.X >= w || n.Y < 0 || n.Y >= h {
				continue
			}
			if visited[n.Y][n.X] || obstacles[n.Y][n.X] {
				continue
			}
			visited[n.Y][n.X] = true
			queue = append(queue, n)
			count++
		}
	}
	return count
}

// IsFullyAccessible reports whether every open tile is reachable from center,
// given obstacleCount obstacles currently marked
func IsFullyAccessible(obstacles ObstacleMap, center Coord, obstacleCount int) bool {
	if len(obstacles) == 0 {
		return false
	}
	total := len(obstacles) * len(obstacles[0])
	return CountReachable(obstacles, center) == total-obstacleCount
}
