package timeseries

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/barcadehq/arcade-tracker/internal/domain"
)

const (
	TypeCash   = "cash"
	TypeTokens = "tokens"
)

// RevenuePoint is one collection converted to cash, for point-in-time
// plotting. RawAmount keeps the recorded value (token count or currency).
type RevenuePoint struct {
	T         time.Time `json:"t"`
	Amount    float64   `json:"amount"`
	RawAmount float64   `json:"raw_amount"`
	Type      string    `json:"type"`
}

// BucketAmount is one bucket of the distributed revenue series.
type BucketAmount struct {
	T      time.Time `json:"t"`
	Amount float64   `json:"amount"`
}

// BuildRawSeries returns every in-window collection in chronological order,
// converted to cash via tokenValue. No interpolation.
func BuildRawSeries(events []domain.RevenueEvent, w Window, tokenValue float64) []RevenuePoint {
	rate := decimal.NewFromFloat(tokenValue)
	out := []RevenuePoint{}
	for _, ev := range sortedRevenueEvents(events) {
		ts := ev.Timestamp.UTC()
		if ts.Before(w.Start) || !ts.Before(w.End) {
			continue
		}
		cash := decimal.NewFromFloat(ev.Amount)
		typ := TypeCash
		if ev.IsToken {
			cash = cash.Mul(rate)
			typ = TypeTokens
		}
		out = append(out, RevenuePoint{
			T:         ts,
			Amount:    round2(cash),
			RawAmount: ev.Amount,
			Type:      typ,
		})
	}
	return out
}

// BuildBucketedSeries spreads each collection's cash amount uniformly over
// the time since the previous collection, modeling continuous accrual
// between infrequent pickups, and sums the overlap of each accrual interval
// with every bucket. Buckets without contributions stay at zero.
//
// prevTime is the timestamp of the last collection before the window, when
// one exists; pass the zero time otherwise and accrual for the first event
// starts at the window itself. A collection recorded at the same instant as
// its predecessor has no interval to spread over and lands whole in its
// containing bucket. Amounts accumulate as decimals and are rounded only on
// output.
func BuildBucketedSeries(events []domain.RevenueEvent, w Window, g Granularity, tokenValue float64, prevTime time.Time) []BucketAmount {
	if w.Empty() {
		return []BucketAmount{}
	}

	b := NewBucketer(g, w.Start)
	starts := b.Buckets(w)
	acc := make([]decimal.Decimal, len(starts))
	rate := decimal.NewFromFloat(tokenValue)

	prev := w.Start
	if !prevTime.IsZero() && prevTime.UTC().Before(w.Start) {
		prev = prevTime.UTC()
	}

	for _, ev := range sortedRevenueEvents(events) {
		ts := ev.Timestamp.UTC()
		cash := decimal.NewFromFloat(ev.Amount)
		if ev.IsToken {
			cash = cash.Mul(rate)
		}

		elapsed := ts.Sub(prev)
		switch {
		case elapsed <= 0:
			// simultaneous with its predecessor: whole amount into the
			// containing bucket
			if !ts.Before(w.Start) && ts.Before(w.End) {
				if j := bucketIndex(starts, g, ts); j >= 0 {
					acc[j] = acc[j].Add(cash)
				}
			}
		default:
			from, to := prev, ts
			if from.Before(w.Start) {
				from = w.Start
			}
			if to.After(w.End) {
				to = w.End
			}
			if from.Before(to) {
				total := decimal.NewFromInt(int64(elapsed))
				for j, bs := range starts {
					if d := overlap(from, to, bs, bs.Add(g.Width())); d > 0 {
						share := cash.Mul(decimal.NewFromInt(int64(d))).Div(total)
						acc[j] = acc[j].Add(share)
					}
				}
			}
		}
		prev = ts
	}

	out := make([]BucketAmount, len(starts))
	for j, bs := range starts {
		out[j] = BucketAmount{T: bs, Amount: round2(acc[j])}
	}
	return out
}

func bucketIndex(starts []time.Time, g Granularity, t time.Time) int {
	if len(starts) == 0 || t.Before(starts[0]) {
		return -1
	}
	j := int(t.Sub(starts[0]) / g.Width())
	if j >= len(starts) {
		return -1
	}
	return j
}

func sortedRevenueEvents(events []domain.RevenueEvent) []domain.RevenueEvent {
	sorted := append([]domain.RevenueEvent(nil), events...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Timestamp.Before(sorted[b].Timestamp)
	})
	return sorted
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
