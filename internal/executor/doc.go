// Package executor evaluates GraphQL selection sets against application
// objects and completes the resolved values into a response tree.
//
// # Overview
//
// Evaluation of a selection set against an object of a known object type
// proceeds in two steps:
//   - Field collection: the selection set is flattened into an ordered map from
//     response key (alias or field name) to the field nodes selected under it.
//     Fragment spreads are looked up in the document; fragments and inline
//     fragments contribute only when their type condition applies to the object
//     type (same type, an implemented interface or a containing union).
//     @skip and @include are honored.
//   - Key evaluation: for every key, in collection order, arguments are coerced,
//     the field is resolved through the Runtime, and the raw value is completed
//     according to the field's declared type with the merged sub-selections of
//     all nodes under the key.
//
// # Preparation
//
// ExecuteRequest performs request-level preparation before evaluation:
//  1. Chooses the operation (by name or by uniqueness when unnamed).
//  2. Chooses the root type: query or mutation. Subscriptions are rejected.
//  3. Coerces variables against the operation's variable definitions.
//
// Failures here produce a result with no data and a single REQUEST_ERROR.
// Evaluate skips preparation and runs a selection set against any object
// with a caller-supplied ExecutionContext.
//
// # Value Completion
//
// Completion follows the declared type:
//   - Future: a deferred value is awaited first, once per completion step.
//   - Non-Null: complete the inner type. A null inner result is a
//     NON_NULL_VIOLATION.
//   - Null: nil results (including typed nils) produce GraphQL null.
//   - List: complete each element with index-aware paths; order and length
//     are preserved.
//   - Leaf (Scalar/Enum): defer to Runtime.SerializeLeafValue.
//   - Abstract (Interface/Union): defer to Runtime.ResolveType, check that the
//     result is a possible object type, then complete as an object.
//   - Object: evaluate the merged sub-selection set against the value.
//
// # Errors and Partial Success
//
// Errors are accumulated as located GraphQL errors (message, path and
// extensions.code). A failure of a nullable field or list element sets that
// position to null and execution continues with its siblings. A failure in a
// Non-Null position propagates to the nearest nullable ancestor; when it
// reaches the root the result has no data. Each failure is recorded once, at
// the path where it happened.
//
// # Concurrency
//
// By default keys and list elements complete sequentially. WithMaxConcurrency
// lets sibling completions and list elements run on a bounded errgroup.
// Resolvers of one selection set are still invoked in collection order and
// the response order never changes.
package executor
