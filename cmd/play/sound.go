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
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// sound 消除音效；未初始化時所有操作皆為 no-op
type sound struct {
	ready atomic.Bool
}

func newSound() *sound { return &sound{} }

func (s *sound) init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.ready.Store(true)
	return nil
}

// clear 一般方塊短高音，特殊方塊低音
func (s *sound) clear(special bool) {
	if !s.ready.Load() {
		return
	}
	freq, dur := 880, 30*time.Millisecond
	if special {
		freq, dur = 220, 120*time.Millisecond
	}
	tone, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(dur), tone))
}

func (s *sound) close() {
	if s.ready.Swap(false) {
		speaker.Clear()
	}
}
