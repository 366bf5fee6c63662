package nameserv

import (
	"math/big"

	"github.com/mvxns/nameserv/schema"
)

// refundPayments books every payment component back to the payer. Used when
// a request fails after funds were attached.
func (r *Registrar) refundPayments(payer string, payments []schema.Payment, reason string) {
	for _, p := range payments {
		r.bookReceipt(payer, p.Token, p.Amount, reason)
	}
}

// refundForeign books back every non-native component unconditionally, the
// registry only ever keeps the native token.
func (r *Registrar) refundForeign(payer string, payments []schema.Payment) {
	for _, p := range payments {
		if p.Token == schema.NativeToken {
			continue
		}
		r.bookReceipt(payer, p.Token, p.Amount, schema.ReasonRefund)
	}
}

// settleExcess returns tendered - price to the payer. Callers must have
// enforced tendered >= price already, the subtraction never underflows.
func (r *Registrar) settleExcess(payer string, price, tendered *big.Int) *big.Int {
	excess := new(big.Int).Sub(tendered, price)
	if excess.Sign() > 0 {
		r.bookReceipt(payer, schema.NativeToken, excess.String(), schema.ReasonExcess)
	}
	return excess
}

func (r *Registrar) bookReceipt(payer, token, amount, reason string) {
	if amount == "0" || amount == "" {
		return
	}
	if err := r.wdb.InsertReceipt(schema.Receipt{
		Payer:  payer,
		Token:  token,
		Amount: amount,
		Reason: reason,
		Status: schema.UnRefund,
	}); err != nil {
		log.Error("insert receipt", "err", err, "payer", payer, "amount", amount)
	}
}

// refundReceipts drains unrefund rows through the pay client. A row flips
// to refunded before the transfer goes out and flips back on failure, so a
// crashed transfer is retried but a successful one is never repeated.
func (r *Registrar) refundReceipts() {
	receipts, err := r.wdb.GetReceiptsByStatus(schema.UnRefund)
	if err != nil {
		log.Error("load unrefund receipts", "err", err)
		return
	}
	for _, receipt := range receipts {
		amount, ok := new(big.Int).SetString(receipt.Amount, 10)
		if !ok {
			log.Error("bad receipt amount", "id", receipt.ID, "amount", receipt.Amount)
			continue
		}
		if err := r.wdb.UpdateReceiptStatus(receipt.ID, schema.Refund, nil); err != nil {
			log.Error("flip receipt status", "err", err, "id", receipt.ID)
			continue
		}
		txHash, err := r.pay.Transfer(receipt.Token, amount, receipt.Payer, receipt.Reason)
		if err != nil {
			log.Error("refund transfer failed", "err", err, "id", receipt.ID)
			if err := r.wdb.UpdateReceiptStatus(receipt.ID, schema.UnRefund, nil); err != nil {
				log.Error("restore receipt status", "err", err, "id", receipt.ID)
			}
			continue
		}
		if err := r.wdb.UpdateRefundResult(receipt.ID, txHash, schema.Refund); err != nil {
			log.Error("record refund result", "err", err, "id", receipt.ID)
		}
		metricRefund(receipt.Reason)
	}
}
