/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"strings"

	"tabmaker/internal/chordpro"
	"tabmaker/internal/render"
	"tabmaker/internal/rtf"
	"tabmaker/internal/song"
	"tabmaker/internal/songjson"
)

// Format names an output format.
type Format string

const (
	FormatChordPro Format = "chordpro"
	FormatText     Format = "text"
	FormatTwoLine  Format = "twoline"
	FormatRTF      Format = "rtf"
	FormatRTFPlain Format = "rtf-plain"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// Formats lists every output format in a stable order.
var Formats = []Format{FormatChordPro, FormatText, FormatTwoLine, FormatRTF, FormatRTFPlain, FormatJSON, FormatPDF}

var extensions = map[Format]string{
	FormatChordPro: ".cho",
	FormatText:     ".txt",
	FormatTwoLine:  ".chords.txt",
	FormatRTF:      ".rtf",
	FormatRTFPlain: ".plain.rtf",
	FormatJSON:     ".json",
	FormatPDF:      ".pdf",
}

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := extensions[f]; !ok {
		return "", fmt.Errorf("unknown output format %q", s)
	}
	return f, nil
}

// Extension is the file extension written for f, including the dot.
func (f Format) Extension() string { return extensions[f] }

// Encode renders s in format f. pdf is used only by FormatPDF.
func Encode(s song.Song, f Format, pdf PDFOptions) ([]byte, error) {
	switch f {
	case FormatChordPro:
		return []byte(chordpro.Render(s)), nil
	case FormatText:
		return joinLines(render.PlainLines(s)), nil
	case FormatTwoLine:
		return joinLines(render.TwoLineText(s)), nil
	case FormatRTF:
		return []byte(rtf.FromSegments(render.Segments(s))), nil
	case FormatRTFPlain:
		return []byte(rtf.FromLines(render.PlainLines(s))), nil
	case FormatJSON:
		return songjson.Marshal(s)
	case FormatPDF:
		var buf bytes.Buffer
		if err := WriteSongPDF(&buf, s, pdf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}

// joinLines writes one line per entry, each terminated by a newline.
func joinLines(lines []string) []byte {
	var b bytes.Buffer
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.Bytes()
}
