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
	"os"
	"testing"
	"time"
)

func TestIndexInitCreatesWALAndSchema(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" && mode != "WAL" {
		t.Fatalf("expected WAL mode, got %s", mode)
	}
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('meta','version','songs','fts_songs')").Scan(&cnt); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if cnt != 4 {
		t.Fatalf("expected 4 tables, got %d", cnt)
	}
	var schema int
	if err := db.QueryRowContext(ctx, "SELECT schema FROM version WHERE id=1").Scan(&schema); err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("expected schema %d, got %d", schemaVersion, schema)
	}

	// triggers keep the FTS index in sync
	if _, err := db.ExecContext(ctx, `INSERT INTO songs(path, format, title, modified, body) VALUES('x.cho','chordpro','Ode','2025-01-01T00:00:00Z','hello world');`); err != nil {
		t.Fatalf("insert song: %v", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fts_songs WHERE fts_songs MATCH 'hello'").Scan(&cnt); err != nil {
		t.Fatalf("fts query: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected FTS to find inserted song, got %d", cnt)
	}
	if _, err := db.ExecContext(ctx, `UPDATE songs SET body='goodbye' WHERE path='x.cho'`); err != nil {
		t.Fatalf("update song: %v", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fts_songs WHERE fts_songs MATCH 'hello'").Scan(&cnt); err != nil {
		t.Fatalf("fts query after update: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("stale FTS entry after update: %d", cnt)
	}
}

func TestInitOrOpenIndexRequiresRoot(t *testing.T) {
	if _, err := InitOrOpenIndex("  "); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
