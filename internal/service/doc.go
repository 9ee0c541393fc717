// Package service contains the application use cases: creating, editing,
// completing and listing a user's tasks, and registering and authenticating
// users.
//
// Every task operation takes a Caller, the identity resolved once per request
// at the HTTP boundary, and passes it through RequireUser before anything
// touches storage. Services depend only on the interfaces in internal/store
// and internal/events, never on a concrete database.
//
// Error handling:
//   - domain.ErrUnauthenticated when the caller has no identity
//   - domain validation errors (errors.Is(err, domain.ErrValidation)) for bad input
//   - TaskServiceError wrapping anything unexpected from storage
//
// A mutation that matches no row owned by the caller is a silent success, so
// a task owned by someone else cannot be told apart from a missing one.
package service
