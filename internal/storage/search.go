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
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes a songbook search.
// Text uses SQLite FTS5 syntax (terms, quoted phrases, AND/OR/NOT) over title,
// artist and lyrics. Artist matches a substring, Key matches exactly; both
// ignore case. Limit defaults to 100.
type SearchQuery struct {
	Text   string
	Artist string
	Key    string
	Limit  int
	Offset int
}

// SearchResult is one matching song. Snippet marks matched lyric terms with
// « » and is empty when Text is empty.
type SearchResult struct {
	ID      int64
	Path    string
	Format  Format
	Title   string
	Artist  string
	Key     string
	Snippet string
}

// Search queries the index of the songbook at root.
// Without Text it lists the songs matching the filters ordered by title.
func Search(ctx context.Context, root string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("songbook root is required")
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	cols := "s.id, s.path, s.format, s.title, s.artist, s.song_key"
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT " + cols + ", snippet(fts_songs, 2, '«', '»', '…', 10)\n")
		sb.WriteString("FROM fts_songs JOIN songs s ON fts_songs.rowid = s.id\n")
		sb.WriteString("WHERE fts_songs MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT " + cols + ", ''\n")
		sb.WriteString("FROM songs s\nWHERE 1=1\n")
	}
	if a := strings.ToLower(strings.TrimSpace(q.Artist)); a != "" {
		sb.WriteString(" AND lower(s.artist) LIKE ?\n")
		args = append(args, likeContains(a))
	}
	if k := strings.TrimSpace(q.Key); k != "" {
		sb.WriteString(" AND s.song_key = ? COLLATE NOCASE\n")
		args = append(args, k)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	if useFTS {
		sb.WriteString("ORDER BY bm25(fts_songs), s.path\n")
	} else {
		sb.WriteString("ORDER BY lower(s.title), s.path\n")
	}
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var format string
		var sn sql.NullString
		if err := rows.Scan(&r.ID, &r.Path, &format, &r.Title, &r.Artist, &r.Key, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Format = Format(format)
		r.Snippet = sn.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func likeContains(s string) string { return "%" + s + "%" }
