// Package graph builds and validates the dependency graph formed by
// conditional questions referencing their parents.
//
// Edges run child -> parent. Every traversal is iterative and guarded by a
// visited set so that even malformed (cyclic) input terminates in O(V+E).
package graph

import (
	"sort"

	"github.com/audite/formgraph/internal/models"
)

// Graph is an indexed view over one question set's dependency structure.
type Graph struct {
	questions []models.Question
	byID      map[int]*models.Question
	children  map[int][]int // parent id -> child ids, ordered by (Order, ID)

	levels map[int]int // lazily computed by Levels
	cycles [][]int     // lazily computed by Cycles
}

// New indexes the given questions. Malformed input (duplicate ids, dangling
// parents, cycles) is accepted; Validate reports the problems.
func New(questions []models.Question) *Graph {
	g := &Graph{
		questions: questions,
		byID:      make(map[int]*models.Question, len(questions)),
		children:  make(map[int][]int),
	}

	for i := range questions {
		q := &questions[i]
		// First occurrence wins on duplicate ids; Validate flags the duplicate.
		if _, exists := g.byID[q.ID]; !exists {
			g.byID[q.ID] = q
		}
	}

	for i := range questions {
		q := &questions[i]
		if q.IsConditional() {
			g.children[q.ParentID] = append(g.children[q.ParentID], q.ID)
		}
	}

	for parent := range g.children {
		ids := g.children[parent]
		sort.Slice(ids, func(a, b int) bool {
			qa, qb := g.byID[ids[a]], g.byID[ids[b]]
			if qa == nil || qb == nil {
				return ids[a] < ids[b]
			}
			if qa.Order != qb.Order {
				return qa.Order < qb.Order
			}
			return qa.ID < qb.ID
		})
	}

	return g
}

// Question returns the question with the given id, or nil.
func (g *Graph) Question(id int) *models.Question {
	return g.byID[id]
}

// Questions returns the underlying question slice in input order.
func (g *Graph) Questions() []models.Question {
	return g.questions
}

// Traversal colors for cycle detection, after the classic DFS marking.
const (
	white = 0 // not visited
	gray  = 1 // on the current parent chain
	black = 2 // fully resolved
)

// Cycles returns every dependency cycle as an ordered list of question ids.
// Each question has at most one parent, so cycles are found by walking
// parent chains with color marking; each node is visited at most once
// across all walks.
func (g *Graph) Cycles() [][]int {
	if g.cycles != nil {
		return g.cycles
	}

	colors := make(map[int]int, len(g.questions))
	cycles := [][]int{}

	for i := range g.questions {
		start := g.questions[i].ID
		if colors[start] != white {
			continue
		}

		// Walk the parent chain from start, recording position of each
		// node on the chain so a revisit yields the full cycle path.
		chain := []int{}
		position := make(map[int]int)
		node := start

		for {
			if pos, onChain := position[node]; onChain {
				cycle := append([]int{}, chain[pos:]...)
				cycles = append(cycles, cycle)
				break
			}
			if colors[node] != white {
				break // chain merges into an already-resolved subgraph
			}

			position[node] = len(chain)
			chain = append(chain, node)
			colors[node] = gray

			q := g.byID[node]
			if q == nil || !q.IsConditional() {
				break
			}
			node = q.ParentID
			if _, exists := g.byID[node]; !exists {
				break // dangling parent, reported by Validate
			}
		}

		for _, id := range chain {
			colors[id] = black
		}
	}

	g.cycles = cycles
	return cycles
}

// HasCycle reports whether any dependency cycle exists.
func (g *Graph) HasCycle() bool {
	return len(g.Cycles()) > 0
}

// Levels computes each question's dependency depth: roots are level 0, a
// conditional question sits one level below its parent. Questions whose
// parent chain is broken (cycle or dangling reference) get level -1 and
// are treated as permanently hidden by the resolver.
func (g *Graph) Levels() map[int]int {
	if g.levels != nil {
		return g.levels
	}

	levels := make(map[int]int, len(g.questions))

	// base sentinel: the chain's last node sits at base+1. A root resolves
	// the chain with base -1 (so the root itself lands on level 0); a chain
	// that hits a cycle or dangling parent is broken and everything on it
	// stays undefined.
	const broken = -2

	for i := range g.questions {
		id := g.questions[i].ID
		if _, done := levels[id]; done {
			continue
		}

		chain := []int{}
		onChain := make(map[int]bool)
		node := id
		base := broken

		for {
			if onChain[node] {
				base = broken // cycle
				break
			}
			if lvl, done := levels[node]; done {
				if lvl >= 0 {
					base = lvl
				} else {
					base = broken
				}
				break
			}

			q := g.byID[node]
			if q == nil {
				base = broken // dangling parent
				break
			}

			onChain[node] = true
			chain = append(chain, node)

			if !q.IsConditional() {
				base = -1
				break
			}
			node = q.ParentID
		}

		dist := 1
		for idx := len(chain) - 1; idx >= 0; idx-- {
			if base == broken {
				levels[chain[idx]] = -1
			} else {
				levels[chain[idx]] = base + dist
			}
			dist++
		}
	}

	g.levels = levels
	return levels
}
