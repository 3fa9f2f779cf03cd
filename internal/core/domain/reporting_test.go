package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildAging(t *testing.T) {
	asOf := date(2024, 4, 30)
	mk := func(dir domain.Direction, due string, amount, paid string) domain.Instrument {
		i := pendingInstrument(dir, amount, paid)
		d, err := time.Parse(time.DateOnly, due)
		if err != nil {
			t.Fatal(err)
		}
		i.DueDate = d
		return i
	}
	cashed := mk(domain.Incoming, "2024-01-01", "999", "999")
	cashed.Status = domain.StatusCashed

	rep := domain.BuildAging([]domain.Instrument{
		mk(domain.Incoming, "2024-05-10", "100", "0"), // current
		mk(domain.Incoming, "2024-04-30", "50", "0"),  // due today, current
		mk(domain.Incoming, "2024-04-29", "10", "0"),  // 1 day
		mk(domain.Incoming, "2024-03-31", "20", "5"),  // 30 days
		mk(domain.Incoming, "2024-03-30", "30", "0"),  // 31 days
		mk(domain.Incoming, "2024-01-31", "40", "0"),  // 90 days
		mk(domain.Incoming, "2024-01-30", "60", "0"),  // 91 days
		mk(domain.Outgoing, "2024-04-01", "70", "0"),  // 29 days
		cashed,
	}, asOf)

	assert.True(t, dec("150").Equal(rep.Incoming.Current.Total))
	assert.Equal(t, 2, rep.Incoming.Days1To30.Count)
	assert.True(t, dec("25").Equal(rep.Incoming.Days1To30.Total))
	assert.True(t, dec("30").Equal(rep.Incoming.Days31To60.Total))
	assert.True(t, dec("40").Equal(rep.Incoming.Days61To90.Total))
	assert.True(t, dec("60").Equal(rep.Incoming.Over90.Total))
	assert.True(t, dec("305").Equal(rep.Incoming.Total()))
	assert.True(t, dec("70").Equal(rep.Outgoing.Days1To30.Total))
}

func TestNewBalanceReport(t *testing.T) {
	rep := domain.NewBalanceReport([]domain.AccountBalanceRow{
		{AccountID: 1, Balance: dec("300")},
		{AccountID: 2, Balance: dec("-120")},
		{AccountID: 3, Balance: dec("0")},
	})
	assert.True(t, dec("300").Equal(rep.TotalReceivable))
	assert.True(t, dec("120").Equal(rep.TotalPayable))
	assert.True(t, dec("180").Equal(rep.Net))
}

func TestNewInstrumentReport(t *testing.T) {
	a := pendingInstrument(domain.Incoming, "100", "0")
	b := pendingInstrument(domain.Outgoing, "40", "0")
	b.Status = domain.StatusCancelled

	rep := domain.NewInstrumentReport(domain.DateRange{}, []domain.Instrument{a, b})
	assert.Len(t, rep.ByStatus, 5)
	assert.Equal(t, domain.StatusPending, rep.ByStatus[0].Status)
	assert.Equal(t, 1, rep.ByStatus[0].Count)
	assert.True(t, dec("40").Equal(rep.ByStatus[4].Total))
	assert.Equal(t, domain.Outgoing, rep.ByDirection[1].Direction)
	assert.True(t, dec("40").Equal(rep.ByDirection[1].Total))
}
