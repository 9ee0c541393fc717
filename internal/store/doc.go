// Package store defines the persistence contracts for users and tasks.
// Implementations live under internal/platform; services depend only on
// these interfaces so that storage can be swapped or faked in tests.
package store
