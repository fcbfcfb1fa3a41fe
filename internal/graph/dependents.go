package graph

import "github.com/audite/formgraph/internal/models"

// DirectDependents returns the questions whose visibility depends directly
// on the given question, ordered by (Order, ID).
func (g *Graph) DirectDependents(questionID int) []*models.Question {
	ids := g.children[questionID]
	out := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		if q := g.byID[id]; q != nil {
			out = append(out, q)
		}
	}
	return out
}

// TransitiveDependents returns every question that depends directly or
// transitively on the given question, in breadth-first order. The enqueued
// set guards against revisits so malformed (cyclic) input cannot loop.
func (g *Graph) TransitiveDependents(questionID int) []*models.Question {
	var out []*models.Question

	queue := append([]int{}, g.children[questionID]...)
	enqueued := make(map[int]bool, len(queue))
	enqueued[questionID] = true
	for _, id := range queue {
		enqueued[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		q := g.byID[id]
		if q == nil {
			continue
		}
		out = append(out, q)

		for _, child := range g.children[id] {
			if !enqueued[child] {
				enqueued[child] = true
				queue = append(queue, child)
			}
		}
	}

	return out
}

// DirectDependents is the package-level convenience form used by callers
// that have no Graph at hand.
func DirectDependents(questionID int, questions []models.Question) []*models.Question {
	return New(questions).DirectDependents(questionID)
}

// TransitiveDependents is the package-level convenience form used by
// callers that have no Graph at hand.
func TransitiveDependents(questionID int, questions []models.Question) []*models.Question {
	return New(questions).TransitiveDependents(questionID)
}
