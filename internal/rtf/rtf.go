/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package rtf writes songs as Rich Text Format documents in a monospaced font
// so that chord lines stay aligned with their lyrics.
package rtf

import (
	"strings"

	"tabmaker/internal/render"
)

const (
	header      = `{\rtf1\ansi\deff0{\fonttbl{\f0 Courier New;}}\viewkind4\uc1\pard\f0\fs22 `
	footer      = `}`
	titleStyle  = `\pard\plain\qc\b\f0\fs32 `
	bodyStyle   = `\pard\f0\fs22 `
	par         = `\par`
	lineBreak   = `\line `
	boldOn      = `\b `
	boldOff     = `\b0`
	partDivider = "\n"
)

var escaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

// Escape makes text safe to place inside an RTF group.
func Escape(text string) string { return escaper.Replace(text) }

// FromLines writes one paragraph per line. An empty input still yields a
// single empty paragraph.
func FromLines(lines []string) string {
	parts := []string{header}
	for _, l := range lines {
		parts = append(parts, Escape(l)+par)
	}
	if len(lines) == 0 {
		parts = append(parts, par)
	}
	parts = append(parts, footer)
	return strings.Join(parts, partDivider)
}

// FromSegments writes the two-line layout. Leading "Title:" and "Artist:"
// metadata segments become a centered bold header; a chord segment directly
// followed by a lyric segment shares one paragraph with a line break between
// them, chords in bold.
func FromSegments(segs []render.Segment) string {
	w := &writer{parts: []string{header}}

	skip := map[int]bool{}
	var title, artist string
	for i := 0; i < len(segs) && segs[i].Kind == render.KindMetadata; i++ {
		if v, ok := headerValue(segs[i].Text, "title:"); ok {
			title = v
			skip[i] = true
		} else if v, ok := headerValue(segs[i].Text, "artist:"); ok {
			artist = v
			skip[i] = true
		}
	}
	if title != "" || artist != "" {
		for _, v := range []string{title, artist} {
			if v != "" {
				w.add(titleStyle + Escape(v) + par)
			}
		}
		w.add(bodyStyle)
	}

	for i := 0; i < len(segs); i++ {
		if skip[i] {
			continue
		}
		sg := segs[i]
		switch sg.Kind {
		case render.KindBlank:
			w.add(par)
		case render.KindChord:
			chord := boldOn + Escape(sg.Text) + boldOff
			if i+1 < len(segs) && segs[i+1].Kind == render.KindLyric {
				w.add(chord + lineBreak + Escape(segs[i+1].Text))
				w.add(par)
				i++
				continue
			}
			w.add(chord + par)
		default:
			w.add(Escape(sg.Text) + par)
		}
	}

	if len(segs) == 0 {
		w.add(par)
	}
	w.add(footer)
	return strings.Join(w.parts, partDivider)
}

// headerValue reports the trimmed value of a "Key: value" line whose key
// matches prefix case-insensitively. Empty values do not count.
func headerValue(text, prefix string) (string, bool) {
	if len(text) < len(prefix) || !strings.EqualFold(text[:len(prefix)], prefix) {
		return "", false
	}
	v := strings.TrimSpace(text[len(prefix):])
	return v, v != ""
}

// writer collects document parts; they are joined with newlines at the end.
type writer struct {
	parts []string
}

func (w *writer) add(s string) { w.parts = append(w.parts, s) }
