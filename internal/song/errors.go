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
)

// ErrUnknownLineKind marks a Line value outside the closed variant set.
var ErrUnknownLineKind = errors.New("unknown song line kind")

// Unreachable panics for a Line no renderer knows about. Renderers call it in the
// default branch of their type switch; reaching it means the model invariant broke.
func Unreachable(l Line) {
	panic(fmt.Errorf("%w: %T", ErrUnknownLineKind, l))
}
