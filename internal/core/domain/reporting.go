package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceMode selects which accounts a balance report includes.
type BalanceMode string

const (
	BalanceAll        BalanceMode = "all"
	BalanceReceivable BalanceMode = "receivable"
	BalancePayable    BalanceMode = "payable"
	BalanceNonZero    BalanceMode = "non_zero"
)

func (m BalanceMode) IsValid() bool {
	switch m {
	case BalanceAll, BalanceReceivable, BalancePayable, BalanceNonZero:
		return true
	}
	return false
}

// ParseBalanceMode validates a raw balance mode.
func ParseBalanceMode(raw string) (BalanceMode, error) {
	return parseEnum("balance mode", raw, BalanceMode.IsValid)
}

// BalanceReportFilter narrows the account balance report. MinBalance applies
// to the absolute balance.
type BalanceReportFilter struct {
	Mode       BalanceMode
	Kind       *AccountKind
	MinBalance *decimal.Decimal
}

// AccountBalanceRow is one account in the balance report.
type AccountBalanceRow struct {
	AccountID   int64           `json:"accountID"`
	Name        string          `json:"name"`
	Kind        AccountKind     `json:"kind"`
	Phone       string          `json:"phone"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
}

// BalanceReport lists account balances with totals.
type BalanceReport struct {
	Rows            []AccountBalanceRow `json:"rows"`
	TotalReceivable decimal.Decimal     `json:"totalReceivable"`
	TotalPayable    decimal.Decimal     `json:"totalPayable"` // positive magnitude
	Net             decimal.Decimal     `json:"net"`
}

// NewBalanceReport totals the rows.
func NewBalanceReport(rows []AccountBalanceRow) BalanceReport {
	rep := BalanceReport{Rows: rows, TotalReceivable: decimal.Zero, TotalPayable: decimal.Zero, Net: decimal.Zero}
	if rep.Rows == nil {
		rep.Rows = []AccountBalanceRow{}
	}
	for _, r := range rows {
		if r.Balance.IsPositive() {
			rep.TotalReceivable = rep.TotalReceivable.Add(r.Balance)
		} else {
			rep.TotalPayable = rep.TotalPayable.Add(r.Balance.Abs())
		}
		rep.Net = rep.Net.Add(r.Balance)
	}
	return rep
}

// StatusBreakdown is one status row of the instrument report.
type StatusBreakdown struct {
	Status InstrumentStatus `json:"status"`
	AmountCount
}

// DirectionBreakdown is one direction row of the instrument report.
type DirectionBreakdown struct {
	Direction Direction `json:"direction"`
	AmountCount
}

// InstrumentReport covers instruments due within a range.
type InstrumentReport struct {
	Range       DateRange            `json:"range"`
	ByStatus    []StatusBreakdown    `json:"byStatus"`
	ByDirection []DirectionBreakdown `json:"byDirection"`
	Instruments []Instrument         `json:"instruments"`
}

// NewInstrumentReport groups the instruments by status and direction in a
// stable order.
func NewInstrumentReport(rng DateRange, instruments []Instrument) InstrumentReport {
	statuses := []InstrumentStatus{StatusPending, StatusCashed, StatusEndorsed, StatusReturned, StatusCancelled}
	byStatus := map[InstrumentStatus]*AmountCount{}
	byDir := map[Direction]*AmountCount{Incoming: {}, Outgoing: {}}
	for _, s := range statuses {
		byStatus[s] = &AmountCount{}
	}
	for _, i := range instruments {
		if ac, ok := byStatus[i.Status]; ok {
			ac.Add(i.Amount)
		}
		if ac, ok := byDir[i.Direction]; ok {
			ac.Add(i.Amount)
		}
	}
	rep := InstrumentReport{Range: rng, Instruments: instruments}
	if rep.Instruments == nil {
		rep.Instruments = []Instrument{}
	}
	for _, s := range statuses {
		rep.ByStatus = append(rep.ByStatus, StatusBreakdown{Status: s, AmountCount: *byStatus[s]})
	}
	for _, d := range []Direction{Incoming, Outgoing} {
		rep.ByDirection = append(rep.ByDirection, DirectionBreakdown{Direction: d, AmountCount: *byDir[d]})
	}
	return rep
}

// AgingBuckets spreads pending remaining amounts by days past due.
type AgingBuckets struct {
	Current    AmountCount `json:"current"`
	Days1To30  AmountCount `json:"days1To30"`
	Days31To60 AmountCount `json:"days31To60"`
	Days61To90 AmountCount `json:"days61To90"`
	Over90     AmountCount `json:"over90"`
}

// Total sums every bucket.
func (b AgingBuckets) Total() decimal.Decimal {
	return b.Current.Total.Add(b.Days1To30.Total).Add(b.Days31To60.Total).Add(b.Days61To90.Total).Add(b.Over90.Total)
}

func (b *AgingBuckets) add(daysPastDue int, amount decimal.Decimal) {
	switch {
	case daysPastDue <= 0:
		b.Current.Add(amount)
	case daysPastDue <= 30:
		b.Days1To30.Add(amount)
	case daysPastDue <= 60:
		b.Days31To60.Add(amount)
	case daysPastDue <= 90:
		b.Days61To90.Add(amount)
	default:
		b.Over90.Add(amount)
	}
}

// AgingReport is the pending-instrument aging per direction.
type AgingReport struct {
	AsOf     time.Time    `json:"asOf"`
	Incoming AgingBuckets `json:"incoming"`
	Outgoing AgingBuckets `json:"outgoing"`
}

// BuildAging ages pending instruments against asOf.
func BuildAging(instruments []Instrument, asOf time.Time) AgingReport {
	asOf = DateOf(asOf)
	rep := AgingReport{AsOf: asOf}
	for _, i := range instruments {
		if i.Status != StatusPending {
			continue
		}
		days := int(asOf.Sub(DateOf(i.DueDate)).Hours() / 24)
		if i.Direction == Incoming {
			rep.Incoming.add(days, i.Remaining())
		} else {
			rep.Outgoing.add(days, i.Remaining())
		}
	}
	return rep
}

// CashFlowReport is the drawer activity over a range.
type CashFlowReport struct {
	Range      DateRange        `json:"range"`
	Period     BucketPeriod     `json:"period"`
	Totals     CashTotals       `json:"totals"`
	ByCategory []CategoryTotal  `json:"byCategory"`
	Series     []CashFlowBucket `json:"series"`
}

// DashboardStats is the landing-page snapshot.
type DashboardStats struct {
	Drawer          DrawerBalance     `json:"drawer"`
	TotalReceivable decimal.Decimal   `json:"totalReceivable"`
	TotalPayable    decimal.Decimal   `json:"totalPayable"`
	ActiveAccounts  int               `json:"activeAccounts"`
	Instruments     InstrumentSummary `json:"instruments"`
	Reminders       ReminderSummary   `json:"reminders"`
	PendingTasksDue int               `json:"pendingTasksDue"`
}
