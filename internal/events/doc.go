// Package events carries task change notifications from the services to
// interested components such as the counts cache, without the services knowing
// who listens.
package events
