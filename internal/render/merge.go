/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns a song.Song into text: inline "[chord]" lines, plain text,
// and the two-line layout where chords sit on their own line above the lyric.
package render

import (
	"sort"
	"strings"

	"tabmaker/internal/song"
)

// MergeInline writes every placement as "[chord]" into the lyric at its column.
// Placements are applied left to right; a column past the end of the lyric is
// reached by padding with spaces. The lyric text itself is never reordered.
func MergeInline(l song.ChordLyric) string {
	lyric := []rune(l.Lyrics)
	ps := append([]song.Placement(nil), l.Placements...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Column < ps[j].Column })

	var b strings.Builder
	pos := 0 // lyric column reached so far, padding included
	for _, p := range ps {
		col := max(p.Column, 0)
		if end := min(col, len(lyric)); end > pos {
			b.WriteString(string(lyric[pos:end]))
			pos = end
		}
		if col > pos {
			b.WriteString(strings.Repeat(" ", col-pos))
			pos = col
		}
		b.WriteByte('[')
		b.WriteString(p.Chord)
		b.WriteByte(']')
	}
	if pos < len(lyric) {
		b.WriteString(string(lyric[pos:]))
	}
	return b.String()
}
