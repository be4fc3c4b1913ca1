package cashflow

import (
	"time"

	"OpsLedger/api/constants"
)

// The five fixed aging buckets, in display order.
var bucketLabels = []string{"Current", "1-30 days", "31-60 days", "61-90 days", "90+ days"}

// bucketIndex classifies a days-outstanding figure. Negative values are
// not-yet-due items and land in Current.
func bucketIndex(days int) int {
	switch {
	case days <= 0:
		return 0
	case days <= 30:
		return 1
	case days <= 60:
		return 2
	case days <= 90:
		return 3
	default:
		return 4
	}
}

// daysOutstanding is whole days from the item's reference date to today;
// negative when the date is in the future.
func daysOutstanding(today time.Time, date string) int {
	d, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return 0
	}
	return int(today.Sub(d).Hours() / 24)
}

// BucketAging places every item in exactly one of the five buckets.
// Bucket amounts accumulate remaining balances, not original amounts, so
// partially-paid items only contribute their unpaid remainder; count still
// counts each item once. Items keep their input order within a bucket.
func BucketAging(items []AgingItem, today time.Time) []AgingBucket {
	buckets := make([]AgingBucket, len(bucketLabels))
	for i, label := range bucketLabels {
		buckets[i] = AgingBucket{Label: label, Items: []AgingItem{}}
	}
	for _, item := range items {
		item.DaysOutstanding = daysOutstanding(today, item.Date)
		i := bucketIndex(item.DaysOutstanding)
		buckets[i].Amount += item.RemainingBalance
		buckets[i].Count++
		buckets[i].Items = append(buckets[i].Items, item)
	}
	return buckets
}
