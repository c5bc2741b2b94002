// Package dashboard computes the building-store overview shown on /dashboard.
package dashboard

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"rakitin/internal/models"
)

// RecentLimit is how many orders the overview lists.
const RecentLimit = 5

type StatusClass int

const (
	StatusOther StatusClass = iota
	StatusNew
	StatusPreparing
)

var statusClasses = map[string]StatusClass{
	"baru":                StatusNew,
	"menunggu":            StatusNew,
	"menunggu konfirmasi": StatusNew,
	"pending":             StatusNew,
	"siap kirim":          StatusPreparing,
	"siap dikirim":        StatusPreparing,
	"disiapkan":           StatusPreparing,
	"sedang disiapkan":    StatusPreparing,
	"diproses":            StatusPreparing,
}

// ClassifyStatus maps a free-text order status onto a counter bucket.
func ClassifyStatus(status string) StatusClass {
	key := strings.Join(strings.Fields(strings.ToLower(status)), " ")
	return statusClasses[key]
}

type Summary struct {
	TotalBarang      int
	TotalStok        int
	PesananBaru      int
	PesananDisiapkan int
	RecentOrders     []models.Order
}

type StockSource interface {
	All(ctx context.Context) ([]models.StockItem, error)
}

type OrderSource interface {
	Recent(ctx context.Context, n int) ([]models.Order, error)
}

type Aggregator struct {
	stock  StockSource
	orders OrderSource
	log    *zap.Logger
}

func NewAggregator(stock StockSource, orders OrderSource, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{stock: stock, orders: orders, log: log}
}

// Summary never fails. A source that errors contributes zero counters.
func (a *Aggregator) Summary(ctx context.Context) Summary {
	s := Summary{RecentOrders: []models.Order{}}

	items, err := a.stock.All(ctx)
	if err != nil {
		a.log.Warn("dashboard stock scan failed", zap.Error(err))
	} else {
		s.TotalBarang = len(items)
		for _, item := range items {
			s.TotalStok += item.Stok.Int()
		}
	}

	orders, err := a.orders.Recent(ctx, RecentLimit)
	if err != nil {
		a.log.Warn("dashboard recent orders unavailable", zap.Error(err))
		return s
	}
	s.RecentOrders = orders
	for _, o := range orders {
		switch ClassifyStatus(o.Status) {
		case StatusNew:
			s.PesananBaru++
		case StatusPreparing:
			s.PesananDisiapkan++
		}
	}
	return s
}
