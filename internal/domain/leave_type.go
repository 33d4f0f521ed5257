package domain

import (
	"fmt"
	"strings"
)

// LeaveType is the closed set of leave categories. Ledger partitions are
// keyed by (user, LeaveType).
type LeaveType string

const (
	LeaveTypeCompensatory LeaveType = "COMPENSATORY"
	LeaveTypeAnnual       LeaveType = "ANNUAL"
	LeaveTypeSick         LeaveType = "SICK"
	LeaveTypePersonal     LeaveType = "PERSONAL"
)

var leaveTypeNames = map[LeaveType]string{
	LeaveTypeCompensatory: "Compensatory leave",
	LeaveTypeAnnual:       "Annual leave",
	LeaveTypeSick:         "Sick leave",
	LeaveTypePersonal:     "Personal leave",
}

// AllLeaveTypes returns every member in display order.
func AllLeaveTypes() []LeaveType {
	return []LeaveType{
		LeaveTypeCompensatory,
		LeaveTypeAnnual,
		LeaveTypeSick,
		LeaveTypePersonal,
	}
}

func (t LeaveType) Valid() bool {
	_, ok := leaveTypeNames[t]
	return ok
}

func (t LeaveType) DisplayName() string {
	return leaveTypeNames[t]
}

// ParseLeaveType accepts any letter case and surrounding spaces.
func ParseLeaveType(s string) (LeaveType, error) {
	t := LeaveType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown leave type %q", s)
	}
	return t, nil
}
