// Package guard provides the ConstructorGuard pattern used by value objects,
// aggregates, and commands to detect zero-value instances that bypassed their
// constructor. Embedding a ConstructorGuard and checking it in Validate()
// ensures domain objects are always created through a validating factory
// function.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error
// is supplied for a zero-value guard.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// constructor. The zero value fails validation, so any struct embedding a
// guard can detect direct instantiation.
//
// Example:
//
//	type Waypoint struct {
//	    street string
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewWaypoint(street string) (Waypoint, error) {
//	    if street == "" {
//	        return Waypoint{}, errors.New("street is required")
//	    }
//	    return Waypoint{street: street, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (w Waypoint) Validate() error {
//	    return w.guard.Validate(ErrWaypointIsNotConstructed)
//	}
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil when the guard was created via NewConstructorGuard.
// For a zero-value guard it returns notConstructed, or
// ErrDefaultConstructorGuard when notConstructed is nil.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.constructed {
		return nil
	}
	if notConstructed == nil {
		return ErrDefaultConstructorGuard
	}
	return notConstructed
}
