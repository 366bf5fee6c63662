package nameserv

import (
	"github.com/mvxns/nameserv/schema"
)

func (r *Registrar) runJobs() {
	r.scheduler.Every(5).Minute().SingletonMode().Do(r.jobRefreshRate)
	r.scheduler.Every(1).Minute().SingletonMode().Do(r.refundReceipts)
	r.scheduler.Every(1).Minute().SingletonMode().Do(r.jobPendingReceipts)

	r.scheduler.StartAsync()
}

// jobRefreshRate keeps the cached rate warm in the background. An oracle
// failure retains the previous value.
func (r *Registrar) jobRefreshRate() {
	if err := r.FetchExchangeRate(); err != nil {
		log.Warn("background rate refresh failed", "err", err)
	}
}

func (r *Registrar) jobPendingReceipts() {
	receipts, err := r.wdb.GetReceiptsByStatus(schema.UnRefund)
	if err != nil {
		log.Error("count unrefund receipts", "err", err)
		return
	}
	metricPendingReceipts(len(receipts))
}
