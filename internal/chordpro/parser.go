/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package chordpro reads and writes the explicit ChordPro-style markup:
// "{key: value}" directive lines and "[chord]" annotations inline in lyrics.
package chordpro

import (
	"bufio"
	"log/slog"
	"regexp"
	"strings"

	applog "tabmaker/internal/log"
	"tabmaker/internal/song"
)

var reDirective = regexp.MustCompile(`^\{([^:]+):\s*(.*?)\s*\}$`)

// sectionDirectives open a new named section.
var sectionDirectives = map[string]struct{}{
	"comment":        {},
	"comment_italic": {},
	"comment_box":    {},
	"c":              {},
	"ci":             {},
	"cb":             {},
}

// metaDirective carries a free-form "name value" pair, as written by Render for
// keys outside song.PriorityKeys.
const metaDirective = "meta"

// Parse converts ChordPro text into a Song. Unknown directives are kept as
// lyric text (their value, without braces); nothing in the input is an error.
func Parse(input string) song.Song {
	b := song.NewBuilder()

	sc := bufio.NewScanner(strings.NewReader(input))
	sc.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	n := 0
	for sc.Scan() {
		n++
		raw := sc.Text()
		text := raw
		if m := reDirective.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
			key := strings.ToLower(strings.TrimSpace(m[1]))
			value := m[2]
			if _, ok := sectionDirectives[key]; ok {
				b.StartSection(value)
				continue
			}
			if song.IsPriorityKey(key) {
				b.SetMeta(key, value)
				continue
			}
			if key == metaDirective {
				if name, val, ok := splitMeta(value); ok {
					b.SetMeta(name, val)
					continue
				}
			}
			text = value
		}
		if strings.TrimSpace(text) == "" {
			b.Append(song.Blank{})
			continue
		}
		b.Append(ParseLine(text))
	}

	s := b.Song()
	applog.WithOperation(applog.WithComponent("chordpro"), "parse").Debug("parsed chordpro",
		slog.Int("lines", n), slog.Int("sections", len(s.Sections)), slog.Int("metadata", len(s.Metadata)))
	return s
}

// splitMeta splits "name value" on the first run of whitespace. A lone name
// is a key with an empty value.
func splitMeta(v string) (string, string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", "", false
	}
	i := strings.IndexAny(v, " \t")
	if i < 0 {
		return v, "", true
	}
	return v[:i], strings.TrimSpace(v[i:]), true
}

// ParseLine extracts "[chord]" annotations from a lyric line. Each chord is
// anchored at the rune column it precedes in the remaining text. An unmatched
// "[" stays in the text; "[]" is dropped.
func ParseLine(line string) song.Line {
	var placements []song.Placement
	var lyric strings.Builder
	col := 0
	rest := line
	for rest != "" {
		i := strings.IndexByte(rest, '[')
		if i < 0 {
			lyric.WriteString(rest)
			break
		}
		j := strings.IndexByte(rest[i+1:], ']')
		if j < 0 {
			lyric.WriteString(rest)
			break
		}
		before := rest[:i]
		lyric.WriteString(before)
		col += runeCount(before)
		if name := strings.TrimSpace(rest[i+1 : i+1+j]); name != "" {
			placements = append(placements, song.Placement{Chord: name, Column: col})
		}
		rest = rest[i+j+2:]
	}
	if len(placements) == 0 {
		return song.Lyric{Text: lyric.String()}
	}
	return song.ChordLyric{Lyrics: lyric.String(), Placements: placements}
}

func runeCount(s string) int { return len([]rune(s)) }
