package analytics

import (
	"sort"
	"time"

	"storefront-service/internal/models"
)

// Window keys accepted by Aggregate.
const (
	Window7d  = "7d"
	Window30d = "30d"
	Window90d = "90d"
	WindowAll = "all"
)

// DayBucket is one bar of the revenue-by-day series.
type DayBucket struct {
	Label   string `json:"label"`
	Revenue int64  `json:"revenue"`
}

// ProductRank is one row of the top-products ranking.
type ProductRank struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Summary is the dashboard view model for one analytics window.
type Summary struct {
	WindowKey       string         `json:"window_key"`
	TotalRevenue    int64          `json:"total_revenue"`
	TotalOrders     int            `json:"total_orders"`
	AvgTicket       float64        `json:"avg_ticket"`
	PaidCount       int            `json:"paid_count"`
	PendingCount    int            `json:"pending_count"`
	DeliveredCount  int            `json:"delivered_count"`
	DailyRevenue    []DayBucket    `json:"daily_revenue"`
	MaxDailyRevenue int64          `json:"max_daily_revenue"`
	TopProducts     []ProductRank  `json:"top_products"`
	MaxProductCount int            `json:"max_product_count"`
	StatusCounts    map[string]int `json:"status_counts"`
}

// Aggregator rolls historical orders up into dashboard metrics. All methods
// are pure: identical inputs produce identical outputs, and the reference
// time is an explicit parameter.
type Aggregator struct {
	TopLimit int
	DayLimit int
}

// NewAggregator creates an aggregator with the dashboard defaults: top 5
// products and the last 7 day buckets.
func NewAggregator() *Aggregator {
	return &Aggregator{TopLimit: 5, DayLimit: 7}
}

// Aggregate filters orders by window and computes the full dashboard rollup.
// Empty input yields zero totals and empty series, never an error.
func (a *Aggregator) Aggregate(orders []models.Order, windowKey string, now time.Time) *Summary {
	filtered := filterWindow(orders, windowKey, now)

	s := &Summary{
		WindowKey:    windowKey,
		TotalOrders:  len(filtered),
		DailyRevenue: []DayBucket{},
		TopProducts:  []ProductRank{},
		StatusCounts: map[string]int{},
	}

	for _, o := range filtered {
		s.TotalRevenue += o.TotalAmount
		s.StatusCounts[o.Status]++

		if o.PaymentStatus == models.PaymentStatusPaid {
			s.PaidCount++
		}
		if o.Status == models.OrderStatusNew {
			s.PendingCount++
		}
		if o.Status == models.OrderStatusDelivered {
			s.DeliveredCount++
		}
	}

	if s.TotalOrders > 0 {
		s.AvgTicket = float64(s.TotalRevenue) / float64(s.TotalOrders)
	}

	s.DailyRevenue, s.MaxDailyRevenue = a.dailyRevenue(filtered)
	s.TopProducts, s.MaxProductCount = a.topProducts(filtered)

	return s
}

// filterWindow keeps orders created at or after now minus the window. The
// key's leading digits give the day count; "all" or an unparsable key means
// no filter.
func filterWindow(orders []models.Order, windowKey string, now time.Time) []models.Order {
	days := windowDays(windowKey)
	if days <= 0 {
		return orders
	}

	cutoff := now.AddDate(0, 0, -days)
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !o.CreatedAt.Before(cutoff) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

func windowDays(key string) int {
	days := 0
	for _, r := range key {
		if r < '0' || r > '9' {
			break
		}
		days = days*10 + int(r-'0')
	}
	return days
}

// dailyRevenue groups orders by calendar day label and keeps the last DayLimit
// buckets in order of first occurrence. The ordering follows order iteration,
// not a chronological sort: unsorted input can surface days out of calendar
// order, which is what the dashboard has always rendered.
func (a *Aggregator) dailyRevenue(orders []models.Order) ([]DayBucket, int64) {
	index := map[string]int{}
	buckets := []DayBucket{}

	for _, o := range orders {
		label := o.CreatedAt.Format("2/1")
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, DayBucket{Label: label})
		}
		buckets[i].Revenue += o.TotalAmount
	}

	if len(buckets) > a.DayLimit {
		buckets = buckets[len(buckets)-a.DayLimit:]
	}

	max := int64(1)
	for _, b := range buckets {
		if b.Revenue > max {
			max = b.Revenue
		}
	}
	return buckets, max
}

// topProducts flattens line items across orders, sums quantity per display
// name and returns the TopLimit highest. Ties keep first-encounter order.
func (a *Aggregator) topProducts(orders []models.Order) ([]ProductRank, int) {
	index := map[string]int{}
	ranks := []ProductRank{}

	for _, o := range orders {
		for _, l := range models.NormalizeLines(o.Items) {
			i, ok := index[l.Name]
			if !ok {
				i = len(ranks)
				index[l.Name] = i
				ranks = append(ranks, ProductRank{Name: l.Name})
			}
			ranks[i].Quantity += l.Quantity
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Quantity > ranks[j].Quantity
	})

	if len(ranks) > a.TopLimit {
		ranks = ranks[:a.TopLimit]
	}

	max := 1
	for _, r := range ranks {
		if r.Quantity > max {
			max = r.Quantity
		}
	}
	return ranks, max
}
