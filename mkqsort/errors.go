// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package mkqsort

import (
	"errors"
	"fmt"
)

// ErrCancelled is wrapped and returned whenever SortState.CheckInterrupt
// reports a cancellation.
var ErrCancelled = errors.New("mkqsort: sort cancelled")

func wrapInterrupt(depth int, err error) error {
	return fmt.Errorf("mkqsort: depth %d: %w (%v)", depth, ErrCancelled, err)
}

func wrapCollaborator(depth int, err error) error {
	return fmt.Errorf("mkqsort: depth %d: duplicate handler: %w", depth, err)
}
