/*
Copyright © 2018 the rossconv authors.
This file is part of rossconv.

rossconv is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

rossconv is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with rossconv.  If not, see <http://www.gnu.org/licenses/>.
*/

package rossconv

import "fmt"

// ParseError reports a malformed or truncated grid file. Line is the
// 1-based number of the offending line and Block names the labelled block
// being read when the failure occurred. A nil Err means the stream ended
// before the block was complete.
type ParseError struct {
	File  string
	Line  int
	Block string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rossconv: %s: line %d: block %q is incomplete", e.File, e.Line, e.Block)
	}
	return fmt.Sprintf("rossconv: %s: line %d: block %q: %v", e.File, e.Line, e.Block, e.Err)
}

// IncompleteRecordError reports a boundary-condition file that ended before
// the expected number of records were read.
type IncompleteRecordError struct {
	File string
	Want int
	Got  int
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("rossconv: %s: expected %d records but found %d", e.File, e.Want, e.Got)
}
