package main

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/lixenwraith/arx-infinitum/game"
	"github.com/lixenwraith/arx-infinitum/mapgen"
	"github.com/lixenwraith/arx-infinitum/status"
)

// drawMap prints m two columns per tile. spawns are marked S
func drawMap(w io.Writer, m *mapgen.Map, spawns []mapgen.Coord) {
	marked := make(map[mapgen.Coord]bool, len(spawns))
	for _, c := range spawns {
		marked[c] = true
	}

	var sb strings.Builder
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			c := mapgen.Coord{X: x, Y: y}
			switch {
			case m.IsObstacle(c):
				sb.WriteString("██")
			case marked[c]:
				sb.WriteString("S ")
			case c == m.Center():
				sb.WriteString("+ ")
			default:
				sb.WriteString("· ")
			}
		}
		sb.WriteByte('\n')
	}
	io.WriteString(w, sb.String())
}

func printSummary(w io.Writer, n int, m *mapgen.Map) {
	spec := m.Spec()
	fmt.Fprintf(w, "\n=== MAP %d ===\n", n)
	fmt.Fprintf(w, "Size: %dx%d  Density: %.2f  Seed: %d\n", spec.Width, spec.Height, spec.ObstacleDensity, spec.Seed)
	fmt.Fprintf(w, "Obstacles: %d/%d (%d rejected, fill %.0f%%)\n",
		m.ObstacleCount(), m.Target(), m.Rejected(), m.FillRatio()*100)
}

func printReport(w io.Writer, r game.Report) {
	fmt.Fprintf(w, "\n=== SIMULATION ===\n")
	fmt.Fprintf(w, "Elapsed: %v  Wave: %d  Finished: %v  Died: %v\n", r.Elapsed, r.Wave, r.Finished, r.Died)
	fmt.Fprintf(w, "Waves started/cleared: %d/%d\n", r.WavesStarted, r.WavesCleared)
	fmt.Fprintf(w, "Enemies spawned/killed: %d/%d (%d while camping)\n", r.Spawned, r.Killed, r.CampingSpawns)
	fmt.Fprintf(w, "Score: %d\n", r.Score)
}

// printMetrics lists every registered metric, ints before floats
func printMetrics(w io.Writer, reg *status.Registry) {
	if reg.TotalCount() == 0 {
		return
	}
	var lines []string
	reg.Ints.Range(func(key string, v *atomic.Int64) {
		lines = append(lines, fmt.Sprintf("  %-30s %d", key, v.Load()))
	})
	reg.Floats.Range(func(key string, v *status.AtomicFloat) {
		lines = append(lines, fmt.Sprintf("  %-30s %.3f", key, v.Get()))
	})
	fmt.Fprintf(w, "\n=== METRICS ===\n%s\n", strings.Join(lines, "\n"))
}
