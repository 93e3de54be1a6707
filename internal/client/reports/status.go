package reports

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/timex"
)

// StatusKind classifies a subscription against today.
type StatusKind string

const (
	StatusActive  StatusKind = "active"
	StatusOverdue StatusKind = "overdue"
	StatusUnknown StatusKind = "unknown"
	StatusError   StatusKind = "error"
)

// Status is the computed loan status of a subscription.
type Status struct {
	Kind StatusKind
	Text string
	// HasDueDate is false for subscriptions without a return date.
	HasDueDate    bool
	DaysRemaining int
	DaysOverdue   int
}

// ComputeStatus compares the return_date of sub with today in whole
// calendar days. The due day itself still counts as active.
func ComputeStatus(sub client.Record, today time.Time) Status {
	due, blank, err := sub.Date("return_date")
	switch {
	case blank:
		return Status{Kind: StatusActive, Text: "Active (no due date)"}
	case err != nil:
		return Status{Kind: StatusUnknown, Text: "Unknown"}
	}

	days := timex.DaysBetween(today, due)
	if days >= 0 {
		return Status{
			Kind:          StatusActive,
			Text:          fmt.Sprintf("Active (%d days left)", days),
			HasDueDate:    true,
			DaysRemaining: days,
		}
	}
	return Status{
		Kind:        StatusOverdue,
		Text:        fmt.Sprintf("Overdue (+%d days)", -days),
		HasDueDate:  true,
		DaysOverdue: -days,
	}
}
