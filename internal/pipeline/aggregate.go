package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// maxBuckets caps the zero-fill walk so a bad key can never loop forever.
const maxBuckets = 10000

// Bucketer assigns transactions to calendar buckets and steps from one
// bucket key to the next. Keys compare lexicographically in chronological
// order.
type Bucketer struct {
	Key  func(time.Time) string
	Next func(string) string
}

// ByMonth buckets by calendar month ("2024-03").
var ByMonth = Bucketer{
	Key: func(t time.Time) string { return t.Format("2006-01") },
	Next: func(key string) string {
		t, err := time.Parse("2006-01", key)
		if err != nil {
			return key
		}
		return t.AddDate(0, 1, 0).Format("2006-01")
	},
}

// ByDay buckets by calendar day ("2024-03-15").
var ByDay = Bucketer{
	Key: func(t time.Time) string { return t.Format("2006-01-02") },
	Next: func(key string) string {
		t, err := time.Parse("2006-01-02", key)
		if err != nil {
			return key
		}
		return t.AddDate(0, 0, 1).Format("2006-01-02")
	},
}

// GroupFunc partitions transactions before bucketing.
type GroupFunc func(Transaction) string

// ByMainCategory groups by resolved main category.
func ByMainCategory(tx Transaction) string { return tx.MainCategory }

// BySubCategory groups by resolved sub-category.
func BySubCategory(tx Transaction) string { return tx.SubCategory }

// ByCashFlowType groups by cash flow type; rows without one fall under
// Uncategorized.
func ByCashFlowType(tx Transaction) string {
	if tx.CashFlowType == "" {
		return Uncategorized
	}
	return tx.CashFlowType
}

// Aggregate sums transaction amounts per bucket. The result is
// chronologically ascending and includes zero-valued buckets for every
// period between the earliest and latest observed dates, so charts show
// gaps as zeroes rather than omitting them. An empty input yields an empty
// Series. Insensitive to input order and sum-preserving.
func Aggregate(transactions []Transaction, b Bucketer) Series {
	sums := make(map[string]decimal.Decimal, len(transactions))
	for _, tx := range transactions {
		key := b.Key(tx.Date)
		sums[key] = sums[key].Add(tx.Amount)
	}
	return fill(sums, b)
}

// AggregateBy partitions transactions by group key and buckets each group.
// Every group is zero-filled over the same global date range so grouped
// chart series line up.
func AggregateBy(transactions []Transaction, b Bucketer, group GroupFunc) map[string]Series {
	grouped := make(map[string]map[string]decimal.Decimal)
	global := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		key := b.Key(tx.Date)
		global[key] = global[key].Add(tx.Amount)

		g := group(tx)
		if grouped[g] == nil {
			grouped[g] = make(map[string]decimal.Decimal)
		}
		grouped[g][key] = grouped[g][key].Add(tx.Amount)
	}

	first, last, ok := keyRange(global)
	out := make(map[string]Series, len(grouped))
	if !ok {
		return out
	}
	for g, sums := range grouped {
		out[g] = fillRange(sums, b, first, last)
	}
	return out
}

// CountPerBucket counts transactions per bucket, zero-filled like Aggregate.
func CountPerBucket(transactions []Transaction, b Bucketer) Series {
	counts := make(map[string]decimal.Decimal, len(transactions))
	for _, tx := range transactions {
		key := b.Key(tx.Date)
		counts[key] = counts[key].Add(decimal.NewFromInt(1))
	}
	return fill(counts, b)
}

// RunningTotal converts a series into its cumulative sum, preserving bucket
// order. Used for running-balance charts.
func RunningTotal(s Series) Series {
	out := make(Series, 0, len(s))
	total := decimal.Zero
	for _, p := range s {
		total = total.Add(p.Value)
		out = append(out, Point{Bucket: p.Bucket, Value: total})
	}
	return out
}

// Filter returns the transactions matching keep. Input order is preserved.
func Filter(transactions []Transaction, keep func(Transaction) bool) []Transaction {
	var out []Transaction
	for _, tx := range transactions {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func fill(sums map[string]decimal.Decimal, b Bucketer) Series {
	first, last, ok := keyRange(sums)
	if !ok {
		return Series{}
	}
	return fillRange(sums, b, first, last)
}

func fillRange(sums map[string]decimal.Decimal, b Bucketer, first, last string) Series {
	out := make(Series, 0, len(sums))
	key := first
	for i := 0; i < maxBuckets; i++ {
		out = append(out, Point{Bucket: key, Value: sums[key]})
		if key >= last {
			break
		}
		next := b.Next(key)
		if next == key {
			break
		}
		key = next
	}
	return out
}

func keyRange(sums map[string]decimal.Decimal) (first, last string, ok bool) {
	if len(sums) == 0 {
		return "", "", false
	}
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0], keys[len(keys)-1], true
}
