// Package order Prometheus 业务指标
package order

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ordersCreated 成功创建的订单总数
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pasteleria",
		Name:      "orders_created_total",
		Help:      "Total orders created successfully",
	})

	// ordersRejected 下单被拒总数，按原因分类
	ordersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pasteleria",
		Name:      "orders_rejected_total",
		Help:      "Total order creation attempts rejected",
	}, []string{"reason"})
)
