/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabmaker/internal/song"
)

func sampleSong() song.Song {
	return song.Song{
		Metadata: map[string]string{"title": "Grüße", "artist": "Ann", "key": "G"},
		Sections: []song.Section{{Name: "Verse", HasName: true, Lines: []song.Line{
			song.ChordLyric{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 6}}},
			song.Blank{},
			song.Lyric{Text: "la {la}"},
		}}},
	}
}

func TestBatchExport_SharePreset(t *testing.T) {
	out := t.TempDir()
	items := []Item{{Name: "one", Song: sampleSong()}, {Name: "sub/two", Song: sampleSong()}}
	paths, err := BatchExport(items, BatchOptions{Preset: PresetShare, OutDir: out})
	if err != nil {
		t.Fatalf("batch export share: %v", err)
	}
	checks := []string{
		filepath.Join(out, "chordpro", "one.cho"),
		filepath.Join(out, "json", "one.json"),
		filepath.Join(out, "chordpro", "sub", "two.cho"),
		filepath.Join(out, "json", "sub", "two.json"),
	}
	if len(paths) != len(checks) {
		t.Fatalf("expected %d paths, got %v", len(checks), paths)
	}
	for _, p := range checks {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("empty file: %s", p)
		}
	}
	b, _ := os.ReadFile(checks[0])
	if !strings.Contains(string(b), "[C]Hello [G]world") {
		t.Fatalf("unexpected chordpro output:\n%s", b)
	}
}

func TestBatchExport_FormatsOverridePreset(t *testing.T) {
	out := t.TempDir()
	paths, err := BatchExport([]Item{{Name: "x", Song: sampleSong()}}, BatchOptions{Preset: PresetShare, Formats: []Format{FormatRTF}, OutDir: out})
	if err != nil {
		t.Fatalf("batch export: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(out, "rtf", "x.rtf") {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestBatchExport_Errors(t *testing.T) {
	if _, err := BatchExport(nil, BatchOptions{Preset: PresetShare}); err == nil {
		t.Fatalf("expected error for missing out dir")
	}
	if _, err := BatchExport(nil, BatchOptions{Preset: "web", OutDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestBatchExport_DuplicateNamesRejected(t *testing.T) {
	out := t.TempDir()
	items := []Item{{Name: "song", Song: sampleSong()}, {Name: "./Song", Song: sampleSong()}}
	paths, err := BatchExport(items, BatchOptions{Preset: PresetShare, OutDir: out})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("nothing should be written, got %v", paths)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Fatalf("output dir not empty: %v", entries)
	}
}
