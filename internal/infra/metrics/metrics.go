package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Inbound Telegram updates handled.",
	})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_orders_created_total",
		Help: "Repair orders persisted.",
	})

	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_notify_failures_total",
		Help: "Order notifications that failed to deliver.",
	})

	CatalogRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_catalog_refreshes_total",
		Help: "Full catalog cache rebuilds.",
	})
)
