package commands

import (
	"errors"

	"freight/internal/pkg/guard"
)

var ErrProcessExpirationsCommandIsNotConstructed = errors.New(
	"ProcessExpirationsCommand must be created via NewProcessExpirationsCommand constructor",
)

// ProcessExpirationsCommand triggers one expiration monitor tick over all
// unmatched pending orders.
//
// Example:
//
//	cmd := NewProcessExpirationsCommand()
//	handler := NewProcessExpirationsCommandHandler(uowFactory, sender, time.Hour)
//
//	// Run periodically from the job scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Expiration scan finished with failures: %v", err)
//	}
type ProcessExpirationsCommand struct {
	guard guard.ConstructorGuard
}

// NewProcessExpirationsCommand creates a command to run one monitor tick.
// This is a parameterless command that processes all eligible orders.
func NewProcessExpirationsCommand() ProcessExpirationsCommand {
	return ProcessExpirationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessExpirationsCommandIsNotConstructed if validation fails.
func (c *ProcessExpirationsCommand) Validate() error {
	return c.guard.Validate(ErrProcessExpirationsCommandIsNotConstructed)
}
