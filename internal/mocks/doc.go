// Package mocks provides shared test doubles for the store, auth and events
// interfaces.
//
// Two styles are offered. Function-field mocks (MockJWTService,
// MockPasswordVerifier, MockUserStore) fall back to simple defaults and can be
// overridden per test. MemoryTaskStore is a working in-memory store that
// enforces the same ownership rules as the PostgreSQL implementation, so
// service and handler tests can assert on real state instead of call
// expectations.
//
//	tasks := mocks.NewMemoryTaskStore()
//	id := tasks.Seed(domain.Task{UserID: owner, Title: "Buy milk"})
package mocks
