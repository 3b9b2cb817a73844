/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sheet parses free-form chord sheets: chords typed on their own line
// above the lyric they belong to, with optional "[Section]" headers.
package sheet

import (
	"bufio"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"tabmaker/internal/chord"
	applog "tabmaker/internal/log"
	"tabmaker/internal/song"
)

var reSection = regexp.MustCompile(`^\[([^\]]+)\]\s*$`)

// state is the pairing state machine. In stateHolding, held carries the
// placements of a chord line waiting for its lyric.
type state int

const (
	stateIdle state = iota
	stateHolding
)

type pairing struct {
	state state
	held  []song.Placement
	raw   string
	b     *song.Builder
}

// hold replaces any held chord line with a new one. The previous one is flushed
// first; two consecutive chord lines are never merged.
func (p *pairing) hold(placements []song.Placement, raw string) {
	p.flush()
	p.state = stateHolding
	p.held = placements
	p.raw = raw
}

// flush emits a held chord line as chords-only and returns to idle.
func (p *pairing) flush() {
	if p.state != stateHolding {
		return
	}
	chords := make([]string, len(p.held))
	for i, pl := range p.held {
		chords[i] = pl.Chord
	}
	p.b.Append(song.ChordsOnly{Chords: chords, Raw: p.raw})
	p.reset()
}

// text consumes a non-chord, non-blank line.
func (p *pairing) text(line string) {
	if p.state == stateHolding {
		p.b.Append(song.ChordLyric{Lyrics: line, Placements: p.held})
		p.reset()
		return
	}
	p.b.Append(song.Lyric{Text: line})
}

func (p *pairing) reset() {
	p.state = stateIdle
	p.held = nil
	p.raw = ""
}

// Parse converts a free-form chord sheet into a Song. It never fails: any line
// that is not a header, blank or chord line is kept as lyric text.
func Parse(input string) song.Song {
	b := song.NewBuilder()
	p := &pairing{b: b}

	sc := bufio.NewScanner(strings.NewReader(input))
	sc.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")

		if m := reSection.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			p.flush()
			b.StartSection(m[1])
			continue
		}
		if strings.TrimSpace(line) == "" {
			p.flush()
			b.Append(song.Blank{})
			continue
		}
		if placements, ok := ChordLine(line); ok {
			p.hold(placements, line)
			continue
		}
		p.text(line)
	}
	p.flush()

	s := b.Song()
	applog.WithOperation(applog.WithComponent("sheet"), "parse").Debug("parsed sheet",
		slog.Int("lines", n), slog.Int("sections", len(s.Sections)))
	return s
}

// ChordLine reports whether line is a chord line and returns its placements.
// Every token other than bar notation must be a chord and at least one real
// chord must be present; a line of bar signs alone is not a chord line.
func ChordLine(line string) ([]song.Placement, bool) {
	var placements []song.Placement
	for _, tok := range tokens(line) {
		if chord.IsBarToken(tok.text) {
			continue
		}
		if !chord.IsChord(tok.text) {
			return nil, false
		}
		placements = append(placements, song.Placement{Chord: tok.text, Column: tok.col})
	}
	return placements, len(placements) > 0
}

type token struct {
	text string
	col  int
}

// tokens splits line into whitespace-delimited runs with their rune columns.
func tokens(line string) []token {
	var out []token
	start := -1
	var sb strings.Builder
	col := 0
	for _, r := range line {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, token{text: sb.String(), col: start})
				sb.Reset()
				start = -1
			}
		} else {
			if start < 0 {
				start = col
			}
			sb.WriteRune(r)
		}
		col++
	}
	if start >= 0 {
		out = append(out, token{text: sb.String(), col: start})
	}
	return out
}
