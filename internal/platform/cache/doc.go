// Package cache provides a Redis-backed read-through cache for per-user task
// counts. Entries are evicted whenever a task event for the user is emitted
// and otherwise expire after a TTL.
package cache
