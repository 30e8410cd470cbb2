package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItems(t *testing.T, lines []models.OrderLine) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(lines)
	require.NoError(t, err)
	return raw
}

func TestAggregateEmpty(t *testing.T) {
	a := NewAggregator()

	s := a.Aggregate(nil, WindowAll, time.Now())

	assert.Equal(t, int64(0), s.TotalRevenue)
	assert.Equal(t, 0, s.TotalOrders)
	assert.Equal(t, float64(0), s.AvgTicket)
	assert.Empty(t, s.DailyRevenue)
	assert.Empty(t, s.TopProducts)
	assert.Empty(t, s.StatusCounts)
	assert.Equal(t, int64(1), s.MaxDailyRevenue)
	assert.Equal(t, 1, s.MaxProductCount)
}

func TestAggregateTotals(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{TotalAmount: 100, Status: models.OrderStatusNew, PaymentStatus: models.PaymentStatusPending, CreatedAt: now},
		{TotalAmount: 200, Status: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusPaid, CreatedAt: now},
		{TotalAmount: 300, Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid, CreatedAt: now},
	}

	s := a.Aggregate(orders, Window7d, now)

	assert.Equal(t, int64(600), s.TotalRevenue)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, float64(200), s.AvgTicket)
	assert.Equal(t, 2, s.PaidCount)
	assert.Equal(t, 1, s.PendingCount)
	assert.Equal(t, 1, s.DeliveredCount)
}

func TestAggregateWindowFiltering(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{TotalAmount: 100, Status: models.OrderStatusNew, CreatedAt: now},
		{TotalAmount: 200, Status: models.OrderStatusNew, CreatedAt: now.AddDate(0, 0, -10)},
		{TotalAmount: 400, Status: models.OrderStatusNew, CreatedAt: now.AddDate(0, 0, -40)},
	}

	assert.Equal(t, int64(100), a.Aggregate(orders, Window7d, now).TotalRevenue)
	assert.Equal(t, int64(300), a.Aggregate(orders, Window30d, now).TotalRevenue)
	assert.Equal(t, int64(700), a.Aggregate(orders, Window90d, now).TotalRevenue)
	assert.Equal(t, int64(700), a.Aggregate(orders, WindowAll, now).TotalRevenue)
}

func TestAggregateUnparsableWindowMeansNoFilter(t *testing.T) {
	a := NewAggregator()
	now := time.Now()

	orders := []models.Order{
		{TotalAmount: 100, Status: models.OrderStatusNew, CreatedAt: now.AddDate(-1, 0, 0)},
	}

	s := a.Aggregate(orders, "lifetime", now)

	assert.Equal(t, 1, s.TotalOrders)
}

func TestTopProducts(t *testing.T) {
	a := NewAggregator()
	now := time.Now()

	orders := []models.Order{
		{CreatedAt: now, Items: mustItems(t, []models.OrderLine{{Name: "Mango", Quantity: 3}})},
		{CreatedAt: now, Items: mustItems(t, []models.OrderLine{{Name: "Mango", Quantity: 2}, {Name: "Kiwi", Quantity: 1}})},
	}

	s := a.Aggregate(orders, WindowAll, now)

	require.Len(t, s.TopProducts, 2)
	assert.Equal(t, ProductRank{Name: "Mango", Quantity: 5}, s.TopProducts[0])
	assert.Equal(t, ProductRank{Name: "Kiwi", Quantity: 1}, s.TopProducts[1])
	assert.Equal(t, 5, s.MaxProductCount)
}

func TestTopProductsTiesKeepFirstEncounter(t *testing.T) {
	a := NewAggregator()
	now := time.Now()

	orders := []models.Order{
		{CreatedAt: now, Items: mustItems(t, []models.OrderLine{{Name: "Arroz", Quantity: 2}})},
		{CreatedAt: now, Items: mustItems(t, []models.OrderLine{{Name: "Cafe", Quantity: 2}})},
	}

	s := a.Aggregate(orders, WindowAll, now)

	require.Len(t, s.TopProducts, 2)
	assert.Equal(t, "Arroz", s.TopProducts[0].Name)
	assert.Equal(t, "Cafe", s.TopProducts[1].Name)
}

func TestTopProductsLimitAndFallbackName(t *testing.T) {
	a := NewAggregator()
	now := time.Now()

	lines := []models.OrderLine{
		{Name: "A", Quantity: 7},
		{Name: "B", Quantity: 6},
		{Name: "C", Quantity: 5},
		{Name: "D", Quantity: 4},
		{Name: "E", Quantity: 3},
		{Name: "F", Quantity: 2},
	}
	orders := []models.Order{
		{CreatedAt: now, Items: mustItems(t, lines)},
		{CreatedAt: now, Items: json.RawMessage(`[{"quantity":10,"unit_price":1}]`)},
	}

	s := a.Aggregate(orders, WindowAll, now)

	require.Len(t, s.TopProducts, 5)
	assert.Equal(t, models.FallbackItemName, s.TopProducts[0].Name)
	assert.Equal(t, 10, s.TopProducts[0].Quantity)
	assert.Equal(t, "A", s.TopProducts[1].Name)
	assert.Equal(t, "E", s.TopProducts[4].Name)
}

func TestDailyRevenueBuckets(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{TotalAmount: 100, CreatedAt: now},
		{TotalAmount: 50, CreatedAt: now.Add(2 * time.Hour)},
		{TotalAmount: 200, CreatedAt: now.AddDate(0, 0, -1)},
	}

	s := a.Aggregate(orders, WindowAll, now)

	require.Len(t, s.DailyRevenue, 2)
	assert.Equal(t, DayBucket{Label: "10/6", Revenue: 150}, s.DailyRevenue[0])
	assert.Equal(t, DayBucket{Label: "9/6", Revenue: 200}, s.DailyRevenue[1])
	assert.Equal(t, int64(200), s.MaxDailyRevenue)
}

func TestDailyRevenueKeepsFirstOccurrenceOrder(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	// Unsorted input: buckets follow first occurrence, not calendar order.
	orders := []models.Order{
		{TotalAmount: 10, CreatedAt: now},
		{TotalAmount: 20, CreatedAt: now.AddDate(0, 0, -3)},
		{TotalAmount: 30, CreatedAt: now},
	}

	s := a.Aggregate(orders, WindowAll, now)

	require.Len(t, s.DailyRevenue, 2)
	assert.Equal(t, "10/6", s.DailyRevenue[0].Label)
	assert.Equal(t, int64(40), s.DailyRevenue[0].Revenue)
	assert.Equal(t, "7/6", s.DailyRevenue[1].Label)
}

func TestDailyRevenueKeepsLastSevenBuckets(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	orders := make([]models.Order, 0, 10)
	for i := 0; i < 10; i++ {
		orders = append(orders, models.Order{
			TotalAmount: int64(i + 1),
			CreatedAt:   now.AddDate(0, 0, -9+i),
		})
	}

	s := a.Aggregate(orders, WindowAll, now)

	require.Len(t, s.DailyRevenue, 7)
	assert.Equal(t, "24/6", s.DailyRevenue[0].Label)
	assert.Equal(t, "30/6", s.DailyRevenue[6].Label)
}

func TestStatusCountsIncludeUnrecognized(t *testing.T) {
	a := NewAggregator()
	now := time.Now()

	orders := []models.Order{
		{Status: models.OrderStatusNew, CreatedAt: now},
		{Status: models.OrderStatusNew, CreatedAt: now},
		{Status: "en_camino", CreatedAt: now},
		{Status: "", CreatedAt: now},
	}

	s := a.Aggregate(orders, WindowAll, now)

	assert.Equal(t, 2, s.StatusCounts[models.OrderStatusNew])
	assert.Equal(t, 1, s.StatusCounts["en_camino"])
	assert.Equal(t, 1, s.StatusCounts[""])
}

func TestAggregateDeterministic(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{TotalAmount: 100, Status: models.OrderStatusNew, CreatedAt: now,
			Items: mustItems(t, []models.OrderLine{{Name: "Mango", Quantity: 2}})},
		{TotalAmount: 300, Status: models.OrderStatusDelivered, CreatedAt: now.AddDate(0, 0, -2),
			Items: mustItems(t, []models.OrderLine{{Name: "Kiwi", Quantity: 1}})},
	}

	first := a.Aggregate(orders, Window30d, now)
	second := a.Aggregate(orders, Window30d, now)

	assert.Equal(t, first, second)
}
