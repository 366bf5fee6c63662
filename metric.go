package nameserv

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	MetricNameSpace = "nameserv"
)

var (
	registrationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "registration_total",
			Help:      "settled registry mutations by action",
		},
		[]string{"action"},
	)
	refundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "refund_total",
			Help:      "sent refund transfers by reason",
		},
		[]string{"reason"},
	)
	exchangeRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "exchange_rate",
			Help:      "native base units per usd cent",
		},
	)
	pendingReceipts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "pending_receipts",
			Help:      "unrefund receipt rows",
		},
	)
)

func init() {
	prometheus.MustRegister(
		registrationTotal,
		refundTotal,
		exchangeRate,
		pendingReceipts,
	)
}

func metricRegistration(action string) {
	registrationTotal.WithLabelValues(action).Inc()
}

func metricRefund(reason string) {
	refundTotal.WithLabelValues(reason).Inc()
}

func metricExchangeRate(rate *big.Int) {
	rateVal, _ := decimal.NewFromBigInt(rate, 0).Float64()
	exchangeRate.Set(rateVal)
}

func metricPendingReceipts(count int) {
	pendingReceipts.Set(float64(count))
}
