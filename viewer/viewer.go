// Package viewer draws generated maps on a terminal screen
package viewer

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/arx-infinitum/mapgen"
)

// Each tile is drawn two cells wide so the map keeps a square aspect
const cellWidth = 2

const (
	glyphObstacle = '█'
	glyphOpen     = '·'
	glyphCenter   = '+'
	glyphSpawn    = 'S'
)

var (
	styleOpen   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 90, 90))
	styleCenter = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMark   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// DrawMap renders m with its top-left tile at (x0, y0). marks override tile glyphs
func DrawMap(s tcell.Screen, m *mapgen.Map, x0, y0 int, marks map[mapgen.Coord]rune) {
	colours := make(map[mapgen.Coord]tcell.Style, m.ObstacleCount())
	for _, o := range m.Obstacles() {
		r, g, b := o.Colour.RGB255()
		colours[o.Coord] = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}

	center := m.Center()
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			c := mapgen.Coord{X: x, Y: y}
			ch, style := glyphOpen, styleOpen
			switch {
			case m.IsObstacle(c):
				ch, style = glyphObstacle, colours[c]
			case c == center:
				ch, style = glyphCenter, styleCenter
			}
			if mark, ok := marks[c]; ok {
				ch, style = mark, styleMark
			}

			sx := x0 + x*cellWidth
			s.SetContent(sx, y0+y, ch, nil, style)
			fill := ' '
			if ch == glyphObstacle {
				fill = glyphObstacle
			}
			s.SetContent(sx+1, y0+y, fill, nil, style)
		}
	}
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Viewer steps through a list of map specs on one screen
type Viewer struct {
	screen tcell.Screen
	gen    *mapgen.Generator
	specs  []mapgen.Spec

	index  int
	marks  map[mapgen.Coord]rune
	status string
}

// New creates a viewer; call Load before Draw
func New(screen tcell.Screen, gen *mapgen.Generator, specs []mapgen.Spec) *Viewer {
	return &Viewer{
		screen: screen,
		gen:    gen,
		specs:  specs,
		marks:  make(map[mapgen.Coord]rune),
	}
}

// Load generates map i and clears marks
func (v *Viewer) Load(i int) error {
	if i < 0 || i >= len(v.specs) {
		return fmt.Errorf("map %d out of range [1, %d]", i+1, len(v.specs))
	}
	m, err := v.gen.Generate(v.specs[i])
	if err != nil {
		return fmt.Errorf("map %d: %w", i+1, err)
	}
	v.index = i
	clear(v.marks)
	v.status = fmt.Sprintf("map %d/%d  %dx%d seed %d  obstacles %d/%d (%d rejected)",
		i+1, len(v.specs), m.Width(), m.Height(), m.Spec().Seed, m.ObstacleCount(), m.Target(), m.Rejected())
	return nil
}

func (v *Viewer) Index() int                   { return v.index }
func (v *Viewer) Marks() map[mapgen.Coord]rune { return v.marks }
func (v *Viewer) Status() string               { return v.status }

// HandleEvent applies one input event and reports whether to quit
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC {
		return true
	}
	if key.Key() != tcell.KeyRune {
		return false
	}

	var err error
	switch key.Rune() {
	case 'q':
		return true
	case 'n':
		if v.index+1 < len(v.specs) {
			err = v.Load(v.index + 1)
		}
	case 'p':
		if v.index > 0 {
			err = v.Load(v.index - 1)
		}
	case 's':
		var c mapgen.Coord
		if c, err = v.gen.DrawOpenTile(); err == nil {
			v.marks[c] = glyphSpawn
		}
	case 'c':
		clear(v.marks)
	}
	if err != nil {
		log.Printf("Viewer: %v", err)
		v.status = err.Error()
	}
	return false
}

// Draw renders the current map and status line
func (v *Viewer) Draw() {
	v.screen.Clear()
	if m := v.gen.Current(); m != nil {
		DrawMap(v.screen, m, 1, 1, v.marks)
	}
	_, h := v.screen.Size()
	drawText(v.screen, 0, h-1, v.status+"  [n]ext [p]rev [s]pawn [c]lear [q]uit", styleStatus)
	v.screen.Show()
}

// Run draws and handles events until quit
func (v *Viewer) Run() {
	for {
		v.Draw()
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			v.screen.Sync()
			continue
		}
		if v.HandleEvent(ev) {
			return
		}
	}
}
