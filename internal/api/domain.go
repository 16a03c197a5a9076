package api

import (
	"github.com/JaimeStill/docqa/internal/operations"
)

// Domain holds the domain systems shared by the console surfaces.
type Domain struct {
	Operations operations.System
}

// NewDomain creates all domain systems from the API runtime. Exchanges run
// under the lifecycle context, so shutdown aborts anything still in flight.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Operations: operations.New(
			runtime.Lifecycle.Context(),
			runtime.Service,
			runtime.Session,
			runtime.Logger,
		),
	}
}

// Start registers domain systems with the lifecycle coordinator.
func (d *Domain) Start(runtime *Runtime) error {
	return d.Operations.Start(runtime.Lifecycle)
}
