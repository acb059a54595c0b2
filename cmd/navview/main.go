// Command navview renders a horizontal slice of a world document in the
// terminal with the current search result overlaid. It exists for eyeballing
// evaluator behaviour: move the start and goal markers, re-run the search,
// and watch which cells the route threads through.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	engine "blockpath/engine"
	"blockpath/engine/blocks"
	"blockpath/engine/grid"
	"blockpath/engine/worlddef"
)

var materialGlyphs = map[string]rune{
	"air":         ' ',
	"stone":       '#',
	"dirt":        '#',
	"grass":       '#',
	"sand":        '#',
	"gravel":      '#',
	"bedrock":     '#',
	"water":       '~',
	"lava":        '!',
	"leaves":      '%',
	"tall_grass":  ',',
	"wooden_door": '+',
	"glass":       '=',
	"ladder":      'H',
	"fire":        '!',
	"fence":       '|',
}

type viewer struct {
	screen tcell.Screen
	eng    *engine.Engine
	world  *worlddef.World

	slice int
	start grid.Coord
	goal  grid.Coord

	route  map[grid.Coord]bool
	status string
}

func main() {
	var (
		worldPath = flag.String("world", "world.yaml", "world document to render")
		sliceY    = flag.Int("y", 0, "initial Y slice")
		sx        = flag.Int("sx", 0, "start X")
		sy        = flag.Int("sy", 0, "start Y")
		sz        = flag.Int("sz", 0, "start Z")
		gx        = flag.Int("gx", 0, "goal X")
		gy        = flag.Int("gy", 0, "goal Y")
		gz        = flag.Int("gz", 0, "goal Z")
	)
	flag.Parse()

	world, err := worlddef.Load(*worldPath)
	if err != nil {
		log.Fatalf("navview: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("navview: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("navview: %v", err)
	}
	defer screen.Fini()

	v := &viewer{
		screen: screen,
		eng:    engine.New(engine.DefaultConfig()),
		world:  world,
		slice:  *sliceY,
		start:  grid.Coord{X: *sx, Y: *sy, Z: *sz},
		goal:   grid.Coord{X: *gx, Y: *gy, Z: *gz},
		status: "press r to search, arrows to move goal, tab to swap, q to quit",
	}
	v.run()
}

func (v *viewer) run() {
	for {
		v.draw()
		switch event := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.handleKey(event) {
				return
			}
		}
	}
}

// handleKey returns false when the viewer should exit.
func (v *viewer) handleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.goal.Z--
	case tcell.KeyDown:
		v.goal.Z++
	case tcell.KeyLeft:
		v.goal.X--
	case tcell.KeyRight:
		v.goal.X++
	case tcell.KeyPgUp:
		v.slice++
	case tcell.KeyPgDn:
		v.slice--
	case tcell.KeyTab:
		v.start, v.goal = v.goal, v.start
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			return false
		case 'r':
			v.search()
		case '<':
			v.goal.Y--
		case '>':
			v.goal.Y++
		}
	}
	return true
}

func (v *viewer) search() {
	evaluator := v.eng.NewGroundEvaluator(v.world.Query(), true, false)
	path, ok := v.eng.FindPath(v.start.Center(), v.goal.Center(), evaluator)
	v.route = make(map[grid.Coord]bool)
	if !ok {
		v.status = "no path"
		return
	}
	waypoints := path.Waypoints()
	for _, wp := range waypoints {
		v.route[grid.FromWorld(wp)] = true
	}
	stats := v.eng.CacheStats()
	v.status = fmt.Sprintf("%d waypoints, cache %d/%d", len(waypoints), stats.Size, stats.Capacity)
}

func (v *viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()

	min, max, ok := v.world.Bounds()
	if !ok {
		drawText(v.screen, 0, 0, tcell.StyleDefault, "empty world")
		v.screen.Show()
		return
	}

	// Center the slice in the viewport; row 0 is reserved for the header.
	offsetX := (width - (max.X - min.X + 1)) / 2
	offsetY := (height - 1 - (max.Z - min.Z + 1)) / 2
	if offsetX < 0 {
		offsetX = 0
	}
	if offsetY < 1 {
		offsetY = 1
	}

	for x := min.X; x <= max.X; x++ {
		for z := min.Z; z <= max.Z; z++ {
			col := offsetX + x - min.X
			row := offsetY + z - min.Z
			if col >= width || row >= height {
				continue
			}
			cell := grid.Coord{X: x, Y: v.slice, Z: z}
			glyph, style := v.glyphAt(cell)
			v.screen.SetContent(col, row, glyph, nil, style)
		}
	}

	header := fmt.Sprintf("%s  y=%d  start=%s goal=%s  %s",
		v.world.Name(), v.slice, v.start.Key(), v.goal.Key(), v.status)
	drawText(v.screen, 0, 0, tcell.StyleDefault.Foreground(tcell.ColorYellow), header)
	v.screen.Show()
}

func (v *viewer) glyphAt(cell grid.Coord) (rune, tcell.Style) {
	switch {
	case cell == v.start:
		return 'S', tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	case cell == v.goal:
		return 'G', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	case v.route[cell]:
		return '*', tcell.StyleDefault.Foreground(tcell.ColorAqua)
	}

	name := blocks.Lookup(v.world.At(cell.X, cell.Y, cell.Z)).Name
	glyph, ok := materialGlyphs[name]
	if !ok {
		glyph = '?'
	}
	style := tcell.StyleDefault
	switch name {
	case "water":
		style = style.Foreground(tcell.ColorBlue)
	case "lava", "fire":
		style = style.Foreground(tcell.ColorRed)
	case "grass", "leaves", "tall_grass":
		style = style.Foreground(tcell.ColorGreen)
	}
	return glyph, style
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
