package symbolic

import "errors"

var (
	// ErrUnsupported marks an expression shape a solver or analysis cannot handle.
	ErrUnsupported = errors.New("unsupported expression")
	// ErrNoSolution marks a search that finished without finding an answer.
	ErrNoSolution = errors.New("no solution found")
	// ErrLimitUnknown marks a limit no strategy could determine.
	ErrLimitUnknown = errors.New("limit could not be determined")
)
