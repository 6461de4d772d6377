package scheduling

import "fmt"

// Scope selects how broadly a series mutation applies.
type Scope int

const (
	// ScopeThisOnly mutates exactly the targeted occurrence.
	ScopeThisOnly Scope = iota
	// ScopeThisAndFuture mutates the target and every occurrence in the same
	// series starting at or after the target's start instant.
	ScopeThisAndFuture
	// ScopeAll mutates every occurrence in the series regardless of time.
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeThisOnly:
		return "this_only"
	case ScopeThisAndFuture:
		return "this_and_future"
	case ScopeAll:
		return "all"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// ParseScope maps the wire representation to a Scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "this_only", "":
		return ScopeThisOnly, nil
	case "this_and_future":
		return ScopeThisAndFuture, nil
	case "all":
		return ScopeAll, nil
	}
	return 0, fmt.Errorf("unknown scope %q: %w", s, ErrInvalidInput)
}
