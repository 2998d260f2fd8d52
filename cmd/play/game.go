// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/calc"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

const (
	originX = 2
	originY = 2
	cellW   = 3
)

type game struct {
	lab    *matchlab.Lab
	screen tcell.Screen
	snd    *sound
	id     int
	seed   int64

	sess     *matchlab.Session
	shapes   *grid.ShapeRegistry
	holding  bool
	hint     *calc.Move
	swaps    int
	cleared  int
	lastWarn string
}

func newGame(lab *matchlab.Lab, screen tcell.Screen, snd *sound, id int, seed int64) (*game, error) {
	g := &game{lab: lab, screen: screen, snd: snd, id: id}
	if err := g.restart(seed); err != nil {
		return nil, err
	}
	return g, nil
}

// restart 以新 seed 開一局
func (g *game) restart(seed int64) error {
	listener := grid.ListenerFunc(func(e grid.Event) {
		if e.Kind == grid.Cleared {
			g.cleared++
			g.snd.clear(e.PieceKind.IsSpecial())
		}
	})
	sess, err := g.lab.NewSession(g.id, seed, matchlab.WithPaced(), matchlab.WithSessionListener(listener))
	if err != nil && !errors.Is(err, errs.ErrCascadeCap) {
		return err
	}
	g.sess, g.seed = sess, seed
	g.shapes = grid.NewShapeRegistry(sess.Setting().Shapes)
	g.holding, g.hint, g.swaps, g.cleared, g.lastWarn = false, nil, 0, 0, ""
	return nil
}

func (g *game) loop() error {
	events := make(chan tcell.Event, 16)
	go func() {
		// Fini 之後 PollEvent 回傳 nil
		for ev := g.screen.PollEvent(); ev != nil; ev = g.screen.PollEvent() {
			events <- ev
		}
	}()

	ticker := time.NewTicker(g.sess.Setting().FillPace())
	defer ticker.Stop()

	g.draw()
	for {
		select {
		case ev := <-events:
			done, err := g.handle(ev)
			if err != nil || done {
				return err
			}
		case <-ticker.C:
			if g.sess.State() != board.Resolving {
				continue
			}
			if _, err := g.sess.Tick(); err != nil {
				g.warn(err)
			}
		}
		g.draw()
	}
}

func (g *game) handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return true, nil
		case ev.Rune() == 'h':
			g.toggleHint()
		case ev.Rune() == 'r':
			seed, err := matchlab.RandomSeed()
			if err != nil {
				return false, err
			}
			return false, g.restart(seed)
		}
	case *tcell.EventMouse:
		g.mouse(ev)
	}
	return false, nil
}

// mouse 左鍵按下 -> Press，按住移動 -> Enter，放開 -> Release
func (g *game) mouse(ev *tcell.EventMouse) {
	mx, my := ev.Position()
	x, y, inside := toCell(mx, my)
	down := ev.Buttons()&tcell.Button1 != 0
	switch {
	case down && !g.holding:
		if !inside {
			return
		}
		g.holding = true
		if _, err := g.sess.Press(x, y); err != nil {
			g.warn(err)
		}
	case down && g.holding:
		if !inside {
			return
		}
		if _, err := g.sess.Enter(x, y); err != nil {
			g.warn(err)
		}
	case !down && g.holding:
		g.holding = false
		ok, err := g.sess.Release()
		if err != nil {
			g.warn(err)
		}
		if ok {
			g.swaps++
			g.hint = nil
		}
	}
}

func (g *game) toggleHint() {
	if g.hint != nil {
		g.hint = nil
		return
	}
	if hints := g.sess.Hints(); len(hints) > 0 {
		g.hint = &hints[0]
	}
}

func (g *game) warn(err error) {
	g.lastWarn = err.Error()
}

func toCell(mx, my int) (int, int, bool) {
	if mx < originX || my < originY {
		return 0, 0, false
	}
	return (mx - originX) / cellW, my - originY, true
}

func (g *game) draw() {
	s := g.screen
	s.Clear()
	snap := g.sess.Snapshot()
	bs := g.sess.Setting()

	for y := 0; y < snap.Rows; y++ {
		for x := 0; x < snap.Columns; x++ {
			c, _ := snap.At(x, y)
			glyph, st := g.cellStyle(c)
			if g.hinted(x, y) {
				st = st.Reverse(true)
			}
			sx := originX + x*cellW
			drawText(s, sx, originY+y, st, " "+glyph+" ")
		}
	}

	info := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	line := originY + snap.Rows + 1
	drawText(s, originX, 0, info.Bold(true), fmt.Sprintf("%s  seed:%d", bs.Name, g.seed))
	drawText(s, originX, line, info, fmt.Sprintf("swaps:%d  cleared:%d  state:%s", g.swaps, g.cleared, g.sess.State()))
	drawText(s, originX, line+1, info, "drag to swap  h:hint  r:restart  q:quit")
	if len(g.sess.Hints()) == 0 && g.sess.State() == board.Idle {
		drawText(s, originX, line+2, info.Foreground(tcell.ColorRed), "no moves left, press r")
	} else if g.lastWarn != "" {
		drawText(s, originX, line+2, info.Foreground(tcell.ColorYellow), g.lastWarn)
	}
	s.Show()
}

func (g *game) hinted(x, y int) bool {
	h := g.hint
	return h != nil && ((h.AX == x && h.AY == y) || (h.BX == x && h.BY == y))
}

func (g *game) cellStyle(c grid.Cell) (string, tcell.Style) {
	st := tcell.StyleDefault
	switch c.Kind {
	case spec.Empty:
		return " ", st
	case spec.Obstacle:
		return "#", st.Foreground(tcell.ColorGray)
	}
	glyph := "?"
	if v, ok := g.shapes.Visual(c.Shape); ok {
		glyph = v.Glyph
		if v.Color != "" {
			st = st.Foreground(tcell.GetColor(v.Color))
		}
	}
	switch c.Kind {
	case spec.RowClear:
		glyph = "="
		st = st.Bold(true)
	case spec.ColumnClear:
		glyph = "|"
		st = st.Bold(true)
	}
	return glyph, st
}

func drawText(s tcell.Screen, x, y int, st tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}
