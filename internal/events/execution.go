package events

import "time"

// ExecutionStart is emitted before a selection set is evaluated against its
// root object.
type ExecutionStart struct {
	OperationName string
	OperationType string
	RootType      string
}

// ExecutionFinish is emitted after evaluation completes.
type ExecutionFinish struct {
	OperationName string
	OperationType string
	RootType      string
	Errors        []error
	Duration      time.Duration
}

// FieldResolved is emitted after a field resolver returns, before its value
// is completed.
type FieldResolved struct {
	ObjectType string
	Field      string
	Path       string
	Start      time.Time
	Duration   time.Duration
	Err        error
}
