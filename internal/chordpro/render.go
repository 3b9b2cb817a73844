/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package chordpro

import (
	"strings"

	"tabmaker/internal/render"
	"tabmaker/internal/song"
)

// Render writes s as ChordPro text. Priority metadata keys become "{key: value}",
// any other key "{meta: key value}" with whitespace in the key replaced by "_"
// so the name stays one word. Named sections open with "{comment: name}"
// and are separated from the previous output by one blank line unless a blank
// line is already there. The result always ends with a newline.
func Render(s song.Song) string {
	var lines []string
	for _, e := range song.OrderedMetadata(s) {
		if song.IsPriorityKey(e.Key) {
			lines = append(lines, "{"+e.Key+": "+e.Value+"}")
		} else {
			lines = append(lines, metaLine(e.Key, e.Value))
		}
	}

	for i, sec := range s.Sections {
		body := section(sec)
		if i > 0 && len(body) > 0 && len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, body...)
	}

	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func metaLine(key, value string) string {
	name := strings.Join(strings.Fields(key), "_")
	if value == "" {
		return "{" + metaDirective + ": " + name + "}"
	}
	return "{" + metaDirective + ": " + name + " " + value + "}"
}

func section(sec song.Section) []string {
	var out []string
	if sec.Name != "" {
		out = append(out, "{comment: "+sec.Name+"}")
	}
	for _, l := range sec.Lines {
		switch v := l.(type) {
		case song.Blank:
			out = append(out, "")
		case song.ChordLyric:
			out = append(out, render.MergeInline(v))
		case song.Lyric:
			out = append(out, v.Text)
		case song.ChordsOnly:
			out = append(out, chordsOnly(v))
		default:
			song.Unreachable(l)
		}
	}
	return out
}

func chordsOnly(l song.ChordsOnly) string {
	parts := make([]string, len(l.Chords))
	for i, c := range l.Chords {
		parts[i] = "[" + c + "]"
	}
	return strings.Join(parts, " ")
}
