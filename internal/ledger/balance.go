package ledger

import (
	"go-leave/internal/domain"

	"github.com/shopspring/decimal"
)

type PartitionBalance struct {
	Total     decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
}

// Report holds one balance per leave type. Every known type is present.
type Report map[domain.LeaveType]PartitionBalance

// Aggregate reduces entries into per-type balances. Non-negative amounts add
// to Total, negative amounts add their magnitude to Used. The result does not
// depend on the order of entries.
func Aggregate(entries []Entry) Report {
	report := make(Report, len(domain.AllLeaveTypes()))
	for _, lt := range domain.AllLeaveTypes() {
		report[lt] = PartitionBalance{Total: decimal.Zero, Used: decimal.Zero}
	}

	for _, e := range entries {
		p := report[e.LeaveType]
		if e.Amount.Sign() >= 0 {
			p.Total = p.Total.Add(e.Amount)
		} else {
			p.Used = p.Used.Add(e.Amount.Abs())
		}
		report[e.LeaveType] = p
	}

	for lt, p := range report {
		p.Remaining = p.Total.Sub(p.Used)
		report[lt] = p
	}

	return report
}
