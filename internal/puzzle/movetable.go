// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

// moveTable[loc] lists the grid positions the blank at loc can swap
// with, in a fixed order (up, down, left, right, skipping positions
// off the grid).
var moveTable [TileCount][]int8

func init() {
	for loc := 0; loc < TileCount; loc++ {
		row, col := loc/GridSize, loc%GridSize
		var moves []int8

		if row > 0 {
			moves = append(moves, int8(loc-GridSize))
		}
		if row < GridSize-1 {
			moves = append(moves, int8(loc+GridSize))
		}
		if col > 0 {
			moves = append(moves, int8(loc-1))
		}
		if col < GridSize-1 {
			moves = append(moves, int8(loc+1))
		}

		moveTable[loc] = moves
	}
}

// MoveCount returns the number of legal moves from blank position loc.
func MoveCount(loc int8) int {
	return len(moveTable[loc])
}

// GetMoves returns the grid positions reachable from blank position
// loc, in the table's canonical order.
func GetMoves(loc int8) []int8 {
	return moveTable[loc]
}

// reverseIndex returns the index j such that GetMoves(to)[j] == from,
// i.e. the move that would undo a blank move from `from` to `to`. It
// always exists because the move relation is symmetric on the grid.
func reverseIndex(from, to int8) int {
	for j, m := range moveTable[to] {
		if m == from {
			return j
		}
	}

	panic("puzzle: move relation is not symmetric")
}
