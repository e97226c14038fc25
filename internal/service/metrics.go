package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	salesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_created_total",
		Help: "Sales committed successfully.",
	})
	purchasesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_purchases_created_total",
		Help: "Purchases committed successfully.",
	})
	returnsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sale_returns_created_total",
		Help: "Sale returns committed successfully.",
	})
	stockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_insufficient_stock_total",
		Help: "Operations rejected for insufficient stock.",
	})
)
