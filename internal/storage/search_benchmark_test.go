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
	"testing"
)

func BenchmarkSearchFTS(b *testing.B) {
	root := writeSongbook(b)
	ctx := context.Background()
	if _, err := IndexDir(ctx, root); err != nil {
		b.Fatalf("IndexDir: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Search(ctx, root, SearchQuery{Text: "hello"}); err != nil {
			b.Fatalf("Search: %v", err)
		}
	}
}

func BenchmarkIndexDir(b *testing.B) {
	root := writeSongbook(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := IndexDir(ctx, root); err != nil {
			b.Fatalf("IndexDir: %v", err)
		}
	}
}
