package domain

import (
	"context"
	"errors"
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Stage is a named unit of pipeline work with typed dependency edges.
// A stage runs only after every stage it depends on has completed.
type Stage struct {
	Name      string
	DependsOn []string
	Run       func(ctx context.Context) error
}

// Graph represents the dependency graph of pipeline stages.
type Graph struct {
	stages         map[string]Stage
	executionOrder []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		stages: make(map[string]Stage),
	}
}

// AddStage adds a stage to the graph.
// It returns an error if a stage with the same name already exists.
func (g *Graph) AddStage(s Stage) error {
	if _, exists := g.stages[s.Name]; exists {
		return errors.Join(ErrStageAlreadyExists, zerr.With(zerr.New("duplicate stage name"), "stage", s.Name))
	}
	g.stages[s.Name] = s
	return nil
}

// Validate checks for cycles and dangling edges using a topological sort.
// It populates the execution order if successful.
func (g *Graph) Validate() error {
	g.executionOrder = make([]string, 0, len(g.stages))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		stage, exists := g.stages[u]
		if !exists {
			return errors.Join(ErrMissingDependency, zerr.With(zerr.New("edge references unknown stage"), "dependency", u))
		}

		for _, dep := range stage.DependsOn {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// Visit in sorted name order so disconnected components always end up
	// in the same execution order across runs.
	names := make([]string, 0, len(g.stages))
	for name := range g.stages {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []string, dep string) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i] + " -> "
	}
	cyclePath += dep
	return errors.Join(ErrCycleDetected, zerr.With(zerr.New("stage graph is not acyclic"), "cycle", cyclePath))
}

// Walk returns an iterator that yields stages in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Stage] {
	return func(yield func(Stage) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.stages[name]) {
				return
			}
		}
	}
}
