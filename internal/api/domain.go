package api

import (
	"fmt"

	"github.com/JaimeStill/tribunal/internal/audit"
	"github.com/JaimeStill/tribunal/internal/config"
	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/deliberation"
	"github.com/JaimeStill/tribunal/internal/precedents"
	"github.com/JaimeStill/tribunal/internal/status"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Audit        audit.System
	Precedents   precedents.System
	Deliberation deliberation.System
	Status       status.System
	Pool         *critics.Pool
}

// NewDomain creates all domain systems from the API runtime. The critic pool
// and governance profile are built once at startup and shared for the life of
// the process.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	profile, err := cfg.Profiles.Load()
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	pool, err := cfg.Critics.Build()
	if err != nil {
		return nil, fmt.Errorf("build critic pool: %w", err)
	}

	auditSystem := audit.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	precedentsSystem := precedents.New(
		runtime.Database.Connection(),
		auditSystem,
		runtime.Mirror,
		cfg.Fallback.Build(),
		runtime.Logger,
		runtime.Pagination,
	)

	deliberationSystem, err := deliberation.New(
		cfg.Deliberation,
		pool,
		profile,
		precedentsSystem,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build coordinator: %w", err)
	}

	statusSystem := status.New(
		runtime.Database,
		auditSystem,
		precedentsSystem,
		pool,
		runtime.Mirror,
		runtime.Logger,
	)

	return &Domain{
		Audit:        auditSystem,
		Precedents:   precedentsSystem,
		Deliberation: deliberationSystem,
		Status:       statusSystem,
		Pool:         pool,
	}, nil
}
