/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package song

// Builder assembles a Song section by section. Both parsers use it so the
// rule "a section is stored only when it has a name or a line" lives in one place.
type Builder struct {
	sections []Section
	current  Section
	metadata map[string]string
}

// NewBuilder starts with an anonymous current section.
func NewBuilder() *Builder {
	return &Builder{metadata: map[string]string{}}
}

// StartSection closes the current section and opens a named one.
func (b *Builder) StartSection(name string) {
	b.closeCurrent()
	b.current = Section{Name: name, HasName: true}
}

// StartAnonymous closes the current section and opens an unnamed one.
func (b *Builder) StartAnonymous() {
	b.closeCurrent()
}

// Append adds a line to the current section.
func (b *Builder) Append(l Line) {
	b.current.Lines = append(b.current.Lines, l)
}

// SetMeta stores a metadata value; see Song.SetMeta.
func (b *Builder) SetMeta(key, value string) {
	_ = setMeta(b.metadata, key, value)
}

// Song closes the current section and returns the result.
// The builder must not be used afterwards.
func (b *Builder) Song() Song {
	b.closeCurrent()
	return Song{Sections: b.sections, Metadata: b.metadata}
}

func (b *Builder) closeCurrent() {
	if !b.current.Empty() {
		b.sections = append(b.sections, b.current)
	}
	b.current = Section{}
}
