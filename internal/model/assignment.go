package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedAssignment is returned when an assignment's type and target
// columns do not describe exactly one hierarchy target.
var ErrMalformedAssignment = errors.New("malformed assignment")

type AssignmentType string

const (
	AssignmentCustomer AssignmentType = "Customer"
	AssignmentSite     AssignmentType = "Site"
	AssignmentPlayer   AssignmentType = "Player"
)

// ParseAssignmentType is case-insensitive.
func ParseAssignmentType(s string) (AssignmentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return AssignmentCustomer, nil
	case "site":
		return AssignmentSite, nil
	case "player":
		return AssignmentPlayer, nil
	}
	return "", fmt.Errorf("%w: unknown assignment type %q", ErrMalformedAssignment, s)
}

// Specificity ranks assignment types for tie-breaks: Player > Site > Customer.
// Unknown types rank below all of them.
func (t AssignmentType) Specificity() int {
	switch t {
	case AssignmentPlayer:
		return 3
	case AssignmentSite:
		return 2
	case AssignmentCustomer:
		return 1
	}
	return 0
}

// Target is one node of the Customer/Site/Player hierarchy. Its fields are
// unexported so a Target can only be built through the constructors below,
// which always carry exactly one id for exactly one type. The zero Target is
// invalid and matches nothing.
type Target struct {
	kind AssignmentType
	id   int
}

func CustomerTarget(customerID int) Target { return Target{kind: AssignmentCustomer, id: customerID} }
func SiteTarget(siteID int) Target         { return Target{kind: AssignmentSite, id: siteID} }
func PlayerTarget(playerID int) Target     { return Target{kind: AssignmentPlayer, id: playerID} }

func (t Target) Type() AssignmentType { return t.kind }
func (t Target) ID() int              { return t.id }

func (t Target) Valid() bool {
	return t.kind.Specificity() > 0 && t.id > 0
}

func (t Target) String() string {
	if !t.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%s(%d)", t.kind, t.id)
}

// Columns spreads the target over the three nullable storage columns.
func (t Target) Columns() (customerID, siteID, playerID *int) {
	id := t.id
	switch t.kind {
	case AssignmentCustomer:
		customerID = &id
	case AssignmentSite:
		siteID = &id
	case AssignmentPlayer:
		playerID = &id
	}
	return
}

// TargetFromColumns decodes the storage or request form of an assignment. It
// fails unless the column matching kind is set and the other two are nil.
func TargetFromColumns(kind string, customerID, siteID, playerID *int) (Target, error) {
	t, err := ParseAssignmentType(kind)
	if err != nil {
		return Target{}, err
	}

	var want *int
	var others []*int
	switch t {
	case AssignmentCustomer:
		want, others = customerID, []*int{siteID, playerID}
	case AssignmentSite:
		want, others = siteID, []*int{customerID, playerID}
	case AssignmentPlayer:
		want, others = playerID, []*int{customerID, siteID}
	}
	if want == nil {
		return Target{}, fmt.Errorf("%w: %s assignment requires target_%s_id", ErrMalformedAssignment, t, strings.ToLower(string(t)))
	}
	for _, o := range others {
		if o != nil {
			return Target{}, fmt.Errorf("%w: %s assignment must set exactly one target", ErrMalformedAssignment, t)
		}
	}
	if *want <= 0 {
		return Target{}, fmt.Errorf("%w: target id must be positive", ErrMalformedAssignment)
	}
	return Target{kind: t, id: *want}, nil
}

type targetJSON struct {
	Type AssignmentType `json:"type"`
	ID   int            `json:"id"`
}

func (t Target) MarshalJSON() ([]byte, error) {
	return json.Marshal(targetJSON{Type: t.kind, ID: t.id})
}

// UnmarshalJSON keeps an empty type as the zero Target so malformed rows
// survive a cache round trip and are still rejected by the matcher.
func (t *Target) UnmarshalJSON(b []byte) error {
	var raw targetJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Type == "" {
		*t = Target{}
		return nil
	}
	kind, err := ParseAssignmentType(string(raw.Type))
	if err != nil {
		return err
	}
	*t = Target{kind: kind, id: raw.ID}
	return nil
}

// ScheduleAssignment scopes a schedule to one hierarchy target.
type ScheduleAssignment struct {
	ID         int       `json:"assignment_id"`
	ScheduleID int       `json:"schedule_id"`
	Target     Target    `json:"target"`
	CreatedAt  time.Time `json:"created_at"`
}
