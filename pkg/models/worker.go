package models

import (
	"context"
	"fmt"
	"sort"

	"github.com/meethub/meethub-server/pkg/dbmodels"
)

// WorkerService is the capability contract every recording backend adapter
// satisfies. Failures surface as *RecordingStartError / *RecordingStopError,
// never as a generic error.
type WorkerService interface {
	StartRecording(ctx context.Context, recording *dbmodels.Recording) (jobRef string, err error)
	StopRecording(ctx context.Context, recording *dbmodels.Recording) error
}

// WorkerRegistry maps a recording mode to its backend adapter. It is built
// once at startup; lookups never inspect types at runtime.
type WorkerRegistry struct {
	workers map[string]WorkerService
}

func NewWorkerRegistry() *WorkerRegistry {
	return &WorkerRegistry{
		workers: make(map[string]WorkerService),
	}
}

func (r *WorkerRegistry) Register(mode string, w WorkerService) {
	r.workers[mode] = w
}

func (r *WorkerRegistry) Get(mode string) (WorkerService, error) {
	w, ok := r.workers[mode]
	if !ok {
		return nil, fmt.Errorf("no worker backend registered for mode %q", mode)
	}
	return w, nil
}

func (r *WorkerRegistry) Has(mode string) bool {
	_, ok := r.workers[mode]
	return ok
}

// Modes returns the registered recording modes, sorted for stable output.
func (r *WorkerRegistry) Modes() []string {
	modes := make([]string, 0, len(r.workers))
	for mode := range r.workers {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}
