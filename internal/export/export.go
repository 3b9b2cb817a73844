/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes songs to document formats and runs batch exports of a
// whole songbook according to a preset.
package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned by exporters that were left out of this binary.
var ErrUnavailable = errors.New("export format not available in this build")

// Color is an RGB colour.
type Color struct {
	R, G, B uint8
}

// ParseColor reads "#rrggbb" or "rrggbb". An empty string is black.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return Color{}, nil
	}
	var c Color
	if len(s) != 6 {
		return c, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// PDFOptions controls PDF export. Units are points.
type PDFOptions struct {
	PageSize   string  // A3, A4, A5, Letter or Legal; empty means A4
	FontSize   float64 // body font size; 0 means 11
	Margin     float64 // page margin; 0 means 36
	ChordColor Color
}

var pageSizes = map[string]string{
	"a3":     "A3",
	"a4":     "A4",
	"a5":     "A5",
	"letter": "Letter",
	"legal":  "Legal",
}

func (o PDFOptions) withDefaults() (PDFOptions, error) {
	size := strings.ToLower(strings.TrimSpace(o.PageSize))
	if size == "" {
		size = "a4"
	}
	name, ok := pageSizes[size]
	if !ok {
		return o, fmt.Errorf("unknown page size %q", o.PageSize)
	}
	o.PageSize = name
	if o.FontSize <= 0 {
		o.FontSize = 11
	}
	if o.Margin <= 0 {
		o.Margin = 36
	}
	return o, nil
}

// headerText is "Title - Artist", or whichever of the two is set.
func headerText(meta map[string]string) string {
	title, artist := meta["title"], meta["artist"]
	switch {
	case title != "" && artist != "":
		return title + " - " + artist
	case title != "":
		return title
	default:
		return artist
	}
}
