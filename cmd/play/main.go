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
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/demo"
)

// 終端機試玩：滑鼠按住拖曳到相鄰格後放開即交換
func main() {
	board := flag.Int("board", 1, "board id")
	seed := flag.Int64("seed", -1, "int64 seed, negative for random")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	if err := run(*board, *seed, *mute); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(boardID int, seed int64, mute bool) error {
	lab, err := demo.NewQuietLab()
	if err != nil {
		return err
	}
	if seed < 0 {
		if seed, err = matchlab.RandomSeed(); err != nil {
			return err
		}
	}

	snd := newSound()
	if !mute {
		// 沒有音效裝置也能玩
		if err := snd.init(); err != nil {
			fmt.Fprintln(os.Stderr, "audio disabled:", err)
		}
	}
	defer snd.close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	g, err := newGame(lab, screen, snd, boardID, seed)
	if err != nil {
		return err
	}
	return g.loop()
}
