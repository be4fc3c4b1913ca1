package cashflow

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

var agingToday = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) string {
	return agingToday.AddDate(0, 0, -n).Format("2006-01-02")
}

func TestBucketAgingBoundaries(t *testing.T) {
	items := []AgingItem{
		{ID: "a", Date: daysAgo(30), RemainingBalance: 100},
		{ID: "b", Date: daysAgo(31), RemainingBalance: 50},
	}
	buckets := BucketAging(items, agingToday)
	if len(buckets) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(buckets))
	}
	if buckets[1].Label != "1-30 days" || buckets[1].Amount != 100 || buckets[1].Count != 1 {
		t.Fatalf("1-30 bucket = %+v, want amount 100 count 1", buckets[1])
	}
	if buckets[2].Label != "31-60 days" || buckets[2].Amount != 50 || buckets[2].Count != 1 {
		t.Fatalf("31-60 bucket = %+v, want amount 50 count 1", buckets[2])
	}
}

func TestBucketAgingNotYetDueLandsInCurrent(t *testing.T) {
	items := []AgingItem{
		{ID: "future", Date: daysAgo(-14), RemainingBalance: 75},
		{ID: "today", Date: daysAgo(0), RemainingBalance: 25},
	}
	buckets := BucketAging(items, agingToday)
	if buckets[0].Label != "Current" || buckets[0].Count != 2 {
		t.Fatalf("Current bucket = %+v, want both items", buckets[0])
	}
	if buckets[0].Items[0].DaysOutstanding != -14 {
		t.Fatalf("future item days = %d, want -14", buckets[0].Items[0].DaysOutstanding)
	}
}

func TestBucketAgingUsesRemainingBalanceNotAmount(t *testing.T) {
	// $1000 invoice, $400 collected, 10 days old: only $600 ages.
	items := []AgingItem{{
		ID:               "t1",
		Date:             daysAgo(10),
		Amount:           1000,
		TotalPaid:        400,
		RemainingBalance: 600,
		PaymentStatus:    "partial",
	}}
	buckets := BucketAging(items, agingToday)
	if buckets[1].Amount != 600 {
		t.Fatalf("1-30 amount = %v, want 600", buckets[1].Amount)
	}
	if buckets[1].Count != 1 {
		t.Fatalf("1-30 count = %d, want 1 (partial payment still counts once)", buckets[1].Count)
	}
}

func TestBucketAgingPartitionCompleteness(t *testing.T) {
	items := []AgingItem{
		{ID: "1", Date: daysAgo(-5), RemainingBalance: 10.10},
		{ID: "2", Date: daysAgo(1), RemainingBalance: 20.20},
		{ID: "3", Date: daysAgo(45), RemainingBalance: 30.30},
		{ID: "4", Date: daysAgo(61), RemainingBalance: 40.40},
		{ID: "5", Date: daysAgo(90), RemainingBalance: 50.50},
		{ID: "6", Date: daysAgo(91), RemainingBalance: 60.60},
		{ID: "7", Date: daysAgo(400), RemainingBalance: 70.70},
	}
	buckets := BucketAging(items, agingToday)

	var count int
	var amount, want float64
	for _, b := range buckets {
		count += b.Count
		amount += b.Amount
	}
	for _, it := range items {
		want += it.RemainingBalance
	}
	if count != len(items) {
		t.Fatalf("total count = %d, want %d", count, len(items))
	}
	if !almostEqual(amount, want) {
		t.Fatalf("total amount = %v, want %v", amount, want)
	}
	// 90 days is the top of 61-90; 91 starts 90+.
	if buckets[3].Count != 2 || buckets[4].Count != 2 {
		t.Fatalf("61-90 count = %d, 90+ count = %d, want 2 and 2", buckets[3].Count, buckets[4].Count)
	}
}

func TestBucketAgingPreservesInsertionOrder(t *testing.T) {
	items := []AgingItem{
		{ID: "first", Date: daysAgo(5), RemainingBalance: 1},
		{ID: "second", Date: daysAgo(20), RemainingBalance: 2},
		{ID: "third", Date: daysAgo(12), RemainingBalance: 3},
	}
	buckets := BucketAging(items, agingToday)
	got := buckets[1].Items
	if len(got) != 3 || got[0].ID != "first" || got[1].ID != "second" || got[2].ID != "third" {
		t.Fatalf("bucket items out of order: %+v", got)
	}
}
