package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TaskStatus names a page-level filter over a user's tasks.
type TaskStatus string

// Supported task statuses.
const (
	StatusAll        TaskStatus = "all"
	StatusIncomplete TaskStatus = "incomplete"
	StatusCompleted  TaskStatus = "completed"
	StatusImportant  TaskStatus = "important"
	StatusMyDay      TaskStatus = "my_day"
)

// ParseTaskStatus converts a query-string value into a TaskStatus.
// An empty string selects StatusIncomplete, the default task view.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case "":
		return StatusIncomplete, nil
	case StatusAll, StatusIncomplete, StatusCompleted, StatusImportant, StatusMyDay:
		return TaskStatus(s), nil
	default:
		return "", NewValidationError("status", fmt.Sprintf("has unknown value %q", s), ErrInvalidFormat)
	}
}

// TaskField identifies a task attribute a predicate can constrain.
type TaskField string

// Filterable task fields.
const (
	FieldUserID         TaskField = "userId"
	FieldIsComplete     TaskField = "isComplete"
	FieldIsImportant    TaskField = "isImportant"
	FieldAddedToMyDayAt TaskField = "addedToMyDayAt"
)

// Condition is an equality test on one field. A query is the AND of its
// conditions.
type Condition struct {
	Field TaskField
	Value any
}

// TaskQuery selects a user's tasks by status. Today anchors StatusMyDay.
type TaskQuery struct {
	UserID uuid.UUID
	Status TaskStatus
	Today  Day
}

// Conditions returns the conjunction for q. The owner condition is always
// first, so no translation of a query can drop it.
func (q TaskQuery) Conditions() []Condition {
	conds := []Condition{{Field: FieldUserID, Value: q.UserID}}
	return append(conds, StatusConditions(q.Status, q.Today)...)
}

// StatusConditions returns the status part of a predicate without the owner
// condition. Stores use it to build per-status aggregates in one statement.
func StatusConditions(status TaskStatus, today Day) []Condition {
	incomplete := Condition{Field: FieldIsComplete, Value: false}

	switch status {
	case StatusIncomplete:
		return []Condition{incomplete}
	case StatusCompleted:
		return []Condition{{Field: FieldIsComplete, Value: true}}
	case StatusImportant:
		return []Condition{{Field: FieldIsImportant, Value: true}, incomplete}
	case StatusMyDay:
		// Exact match on today for both the list and the badge, so tasks
		// scheduled for a later day are not counted yet.
		return []Condition{{Field: FieldAddedToMyDayAt, Value: today}, incomplete}
	default:
		return nil
	}
}

// Validate checks that the query can be executed safely.
func (q TaskQuery) Validate() error {
	if q.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}
	if _, err := ParseTaskStatus(string(q.Status)); err != nil {
		return err
	}
	if q.Status == StatusMyDay && !q.Today.Valid() {
		return NewValidationError("today", "is not a calendar day", ErrInvalidFormat)
	}
	return nil
}

// Matches evaluates q against an in-memory task.
func (q TaskQuery) Matches(t *Task) bool {
	for _, c := range q.Conditions() {
		if !c.Matches(t) {
			return false
		}
	}
	return true
}

// Matches evaluates a single condition against t.
func (c Condition) Matches(t *Task) bool {
	switch c.Field {
	case FieldUserID:
		return t.UserID == c.Value
	case FieldIsComplete:
		return t.IsComplete == c.Value
	case FieldIsImportant:
		return t.IsImportant == c.Value
	case FieldAddedToMyDayAt:
		day, ok := c.Value.(Day)
		return ok && t.ScheduledFor(day)
	default:
		return false
	}
}

// TaskCounts are the sidebar badges shown on every page.
type TaskCounts struct {
	MyDay     int `json:"myDay"`
	Important int `json:"important"`
	Tasks     int `json:"tasks"`
}

// CountStatuses lists the statuses behind each TaskCounts field.
var CountStatuses = []TaskStatus{StatusMyDay, StatusImportant, StatusIncomplete}
