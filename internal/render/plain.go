/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import "tabmaker/internal/song"

// PlainLines renders s as plain text with chords merged inline into lyrics.
// Metadata is written first as "Display Key: value", followed by a blank line.
func PlainLines(s song.Song) []string {
	var out []string
	for _, e := range song.OrderedMetadata(s) {
		out = append(out, song.DisplayKey(e.Key)+": "+e.Value)
	}
	if len(out) > 0 {
		out = append(out, "")
	}
	for i, sec := range s.Sections {
		if sec.Name != "" {
			out = append(out, sec.Name)
		}
		for _, l := range sec.Lines {
			switch v := l.(type) {
			case song.Blank:
				out = append(out, "")
			case song.ChordLyric:
				out = append(out, MergeInline(v))
			case song.Lyric:
				out = append(out, v.Text)
			case song.ChordsOnly:
				out = append(out, chordsText(v))
			default:
				song.Unreachable(l)
			}
		}
		if i != len(s.Sections)-1 {
			out = append(out, "")
		}
	}
	return out
}
