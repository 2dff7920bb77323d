package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/reactsim/internal/models"
	"github.com/san-kum/reactsim/internal/optim"
	"github.com/san-kum/reactsim/internal/sim"
)

// ObjectiveFactory builds an objective over tf for fixed model and horizon.
type ObjectiveFactory func(params models.Params, tend, dt float64) optim.Objective

type Registry struct {
	objectives map[string]ObjectiveFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		objectives: make(map[string]ObjectiveFactory),
	}

	r.objectives["final"] = func(p models.Params, tend, dt float64) optim.Objective {
		return sim.EndV(p, tend, dt)
	}
	r.objectives["max"] = func(p models.Params, tend, dt float64) optim.Objective {
		return sim.MaxV(p, tend, dt)
	}

	return r
}

func (r *Registry) GetObjective(name string) (ObjectiveFactory, error) {
	fn, ok := r.objectives[name]
	if !ok {
		return nil, fmt.Errorf("unknown objective: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListObjectives() []string {
	names := make([]string, 0, len(r.objectives))
	for name := range r.objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
