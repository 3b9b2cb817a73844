/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "tabmaker/internal/log"
	"tabmaker/internal/render"
	"tabmaker/internal/song"
)

// IndexStats summarizes one IndexDir run.
type IndexStats struct {
	Indexed int
	Skipped int
}

type songRow struct {
	path     string
	format   Format
	title    string
	artist   string
	key      string
	modified string
	body     string
}

// IndexDir walks root, parses every song file it recognizes and replaces the
// index content with the result. Hidden directories are not entered. Files
// that fail to decode are logged and counted as skipped.
func IndexDir(ctx context.Context, root string) (IndexStats, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_dir").With(slog.String("root", root))
	var st IndexStats

	rows := make([]songRow, 0, 64)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		f, ok := FormatForPath(path)
		if !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		s, err := Decode(f, data)
		if err != nil {
			l.Warn("skipping song", slog.String("path", path), slog.Any("err", err))
			st.Skipped++
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		mod := ""
		if info, ierr := d.Info(); ierr == nil {
			mod = info.ModTime().UTC().Format(time.RFC3339)
		}
		rows = append(rows, songRow{
			path:     filepath.ToSlash(rel),
			format:   f,
			title:    s.Metadata["title"],
			artist:   s.Metadata["artist"],
			key:      s.Metadata["key"],
			modified: mod,
			body:     searchText(s),
		})
		return nil
	})
	if err != nil {
		return st, fmt.Errorf("walk songbook: %w", err)
	}

	db, err := InitOrOpenIndex(root)
	if err != nil {
		return st, err
	}
	defer db.Close()
	if err := replaceSongs(ctx, db, rows); err != nil {
		return st, err
	}
	st.Indexed = len(rows)
	l.Info("songbook indexed", slog.Int("indexed", st.Indexed), slog.Int("skipped", st.Skipped))
	return st, nil
}

// searchText is the lyric text of s: section names and lyrics, one per line,
// without chords.
func searchText(s song.Song) string {
	var lines []string
	for _, sg := range render.Segments(s) {
		if sg.Kind == render.KindLyric || sg.Kind == render.KindSection {
			if t := strings.TrimSpace(sg.Text); t != "" {
				lines = append(lines, t)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func replaceSongs(ctx context.Context, db *sql.DB, rows []songRow) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM songs;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear songs: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO songs(path, format, title, artist, song_key, modified, body) VALUES(?,?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		if _, err := ins.ExecContext(ctx, r.path, string(r.format), r.title, r.artist, r.key, r.modified, r.body); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert song %s: %w", r.path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	// best effort; a fragmented FTS index still answers queries
	_, _ = db.ExecContext(ctx, `INSERT INTO fts_songs(fts_songs) VALUES('optimize')`)
	return nil
}
