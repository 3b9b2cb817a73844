/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package song

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidMetadata is returned for metadata overrides that cannot be applied.
var ErrInvalidMetadata = errors.New("invalid metadata")

// PriorityKeys lists the metadata keys rendered first, in this order.
var PriorityKeys = []string{
	"title",
	"subtitle",
	"artist",
	"album",
	"composer",
	"year",
	"key",
	"tempo",
	"capo",
}

// IsPriorityKey reports whether key is one of PriorityKeys.
func IsPriorityKey(key string) bool {
	for _, k := range PriorityKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Entry is one metadata key/value pair.
type Entry struct {
	Key   string
	Value string
}

// OrderedMetadata returns the song metadata with PriorityKeys first.
// Remaining keys follow sorted by name so output is reproducible.
func OrderedMetadata(s Song) []Entry {
	out := make([]Entry, 0, len(s.Metadata))
	for _, k := range PriorityKeys {
		if v, ok := s.Metadata[k]; ok {
			out = append(out, Entry{Key: k, Value: v})
		}
	}
	var rest []string
	for k := range s.Metadata {
		if !IsPriorityKey(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, Entry{Key: k, Value: s.Metadata[k]})
	}
	return out
}

// SetMeta stores value under the lower-cased key. Last write wins.
func (s *Song) SetMeta(key, value string) error {
	if s.Metadata == nil {
		s.Metadata = map[string]string{}
	}
	return setMeta(s.Metadata, key, value)
}

func setMeta(m map[string]string, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return fmt.Errorf("%w: key may not be empty", ErrInvalidMetadata)
	}
	m[key] = value
	return nil
}

// ParseMetaOverride splits a "key=value" override. Both sides are trimmed.
func ParseMetaOverride(item string) (string, string, error) {
	key, value, ok := strings.Cut(item, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: values must use key=value format: %q", ErrInvalidMetadata, item)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("%w: key may not be empty", ErrInvalidMetadata)
	}
	return key, strings.TrimSpace(value), nil
}

// ApplyOverrides parses every "key=value" item and merges it into the song.
// Nothing is applied if any item is malformed.
func (s *Song) ApplyOverrides(items []string) error {
	parsed := make([]Entry, 0, len(items))
	for _, it := range items {
		k, v, err := ParseMetaOverride(it)
		if err != nil {
			return err
		}
		parsed = append(parsed, Entry{Key: k, Value: v})
	}
	for _, e := range parsed {
		if err := s.SetMeta(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// DisplayKey turns a metadata key into a label: "tempo_bpm" becomes "Tempo Bpm".
func DisplayKey(key string) string {
	// Casers carry state, so one is built per call.
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
}
