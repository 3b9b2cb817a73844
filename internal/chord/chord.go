/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package chord classifies whitespace-delimited tokens by their lexical shape.
// It does not validate harmony; "C#sus2(add9)/G" and "Bb+-7" are both chords as far
// as this package is concerned. The scanner is greedy and never backtracks.
package chord

import "strings"

// NoChord is the marker used in sheets for bars without a chord.
const NoChord = "N.C."

// barTokens are bar and repeat signs commonly found on chord lines.
var barTokens = map[string]struct{}{
	"|":   {},
	"||":  {},
	"|:":  {},
	":|":  {},
	"||:": {},
	"::":  {},
}

// keywords are tried in order; "mMaj" must precede "m".
var keywords = []string{"mMaj", "sus", "maj", "min", "dim", "aug", "add", "m"}

// IsBarToken reports whether token is bar/repeat notation.
func IsBarToken(token string) bool {
	_, ok := barTokens[token]
	return ok
}

// IsChord reports whether token looks like a chord symbol.
// Bar tokens and the no-chord marker count as chords.
func IsChord(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	if strings.EqualFold(token, NoChord) {
		return true
	}
	if IsBarToken(token) {
		return true
	}
	if !isNote(token[0]) {
		return false
	}

	i := 1
	n := len(token)
	if i < n && isAccidental(token[i]) {
		i++
	}

	for i < n {
		c := token[i]
		switch {
		case isDigit(c):
			for i < n && isDigit(token[i]) {
				i++
			}
		case c == '+' || c == '-' || isAccidental(c):
			i++
		case c == '/':
			i++
			if i >= n || !isNote(token[i]) {
				return false
			}
			i++
			if i < n && isAccidental(token[i]) {
				i++
			}
		case c == '(':
			end := strings.IndexByte(token[i+1:], ')')
			if end < 0 {
				return false
			}
			i += end + 2
		default:
			kw := matchKeyword(token[i:])
			if kw == 0 {
				return false
			}
			i += kw
		}
	}
	return true
}

func matchKeyword(s string) int {
	for _, kw := range keywords {
		if strings.HasPrefix(s, kw) {
			return len(kw)
		}
	}
	return 0
}

func isNote(c byte) bool       { return c >= 'A' && c <= 'G' }
func isAccidental(c byte) bool { return c == '#' || c == 'b' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
