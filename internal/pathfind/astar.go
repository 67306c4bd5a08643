// Package pathfind implements A* search over a 4-connected grid.
// Expansion is deterministic: ties on f-score break by insertion order,
// so identical inputs always produce the identical path.
package pathfind

import (
	"container/heap"

	"github.com/agrodyn/fieldsim/internal/world"
)

type node struct {
	fScore int
	order  int
	pos    world.Position
	path   []world.Position
}

type openSet []*node

func (o openSet) Len() int { return len(o) }

func (o openSet) Less(i, j int) bool {
	if o[i].fScore != o[j].fScore {
		return o[i].fScore < o[j].fScore
	}
	return o[i].order < o[j].order
}

func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *openSet) Push(x any) { *o = append(*o, x.(*node)) }

func (o *openSet) Pop() any {
	old := *o
	n := old[len(old)-1]
	*o = old[:len(old)-1]
	return n
}

// Manhattan returns the Manhattan distance between two positions.
func Manhattan(a, b world.Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Neighbors returns the in-bounds 4-connected neighbors of pos.
func Neighbors(pos world.Position, width, height int) []world.Position {
	deltas := [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	out := make([]world.Position, 0, 4)
	for _, d := range deltas {
		n := world.Position{X: pos.X + d[0], Y: pos.Y + d[1]}
		if n.X >= 0 && n.X < width && n.Y >= 0 && n.Y < height {
			out = append(out, n)
		}
	}
	return out
}

// FindPath returns the shortest path from start to goal inclusive of both
// endpoints, or nil when no path exists. start == goal yields [start].
func FindPath(start, goal world.Position, width, height int, obstacles map[world.Position]bool) []world.Position {
	if obstacles[start] || obstacles[goal] {
		return nil
	}
	if start == goal {
		return []world.Position{start}
	}

	counter := 0
	open := &openSet{{fScore: 0, order: counter, pos: start, path: []world.Position{start}}}
	heap.Init(open)

	closed := make(map[world.Position]bool)
	gScores := map[world.Position]int{start: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if closed[current.pos] {
			continue
		}
		if current.pos == goal {
			return current.path
		}
		closed[current.pos] = true
		currentG := gScores[current.pos]

		for _, neighbor := range Neighbors(current.pos, width, height) {
			if obstacles[neighbor] || closed[neighbor] {
				continue
			}
			tentativeG := currentG + 1
			if best, seen := gScores[neighbor]; seen && tentativeG >= best {
				continue
			}
			gScores[neighbor] = tentativeG
			counter++
			path := make([]world.Position, len(current.path), len(current.path)+1)
			copy(path, current.path)
			heap.Push(open, &node{
				fScore: tentativeG + Manhattan(neighbor, goal),
				order:  counter,
				pos:    neighbor,
				path:   append(path, neighbor),
			})
		}
	}
	return nil
}

// HasPath reports whether any route exists between start and goal.
func HasPath(start, goal world.Position, width, height int, obstacles map[world.Position]bool) bool {
	return len(FindPath(start, goal, width, height, obstacles)) > 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
