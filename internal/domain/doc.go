// Package domain contains the core business entities, value objects, and
// domain logic of the application: tasks, their ownership-scoped query
// predicates, calendar days for My Day scheduling, and user accounts.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
