package nameserv

import (
	"math/big"

	"github.com/google/uuid"
	"github.com/mvxns/nameserv/schema"
)

// ProcessRegisterSubDomain creates a subdomain entry under the caller's
// primary domain. Pricing is a flat stable-unit fee through the cached
// rate, so the flow shares the two-phase oracle round trip with
// registration.
func (r *Registrar) ProcessRegisterSubDomain(req schema.SubDomainReq) (schema.RespSubDomain, error) {
	corrId, err := r.prepareSubDomain(req)
	if err != nil {
		r.refundPayments(req.Caller, req.Payments, schema.ReasonRefund)
		return schema.RespSubDomain{}, err
	}
	rate, rateErr := r.oracle.LatestPriceFeed(schema.NativeToken, "usd")
	return r.completeSubDomain(corrId, rate, rateErr)
}

func (r *Registrar) prepareSubDomain(req schema.SubDomainReq) (string, error) {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	if err := isNameValid(req.Name, r.cache.GetAllowedTlds()); err != nil {
		return "", err
	}
	labels := splitLabels(req.Name)
	if len(labels) < 3 {
		return "", schema.ErrNameBadLabels
	}
	for _, label := range labels {
		if len(label) == 0 {
			return "", schema.ErrNameZeroLabel
		}
	}
	if req.Address == "" {
		return "", schema.ErrNotAllowed
	}
	if _, err := nativeTendered(req.Payments); err != nil {
		return "", err
	}

	owns, err := r.isOwner(req.Caller, req.Name)
	if err != nil {
		return "", err
	}
	if !owns {
		return "", schema.ErrNotAllowed
	}

	primary, err := primaryDomain(req.Name)
	if err != nil {
		return "", err
	}
	subs, err := r.store.LoadSubDomains(primary)
	if err != nil {
		return "", err
	}
	for _, sub := range subs {
		if sub.Name == req.Name {
			return "", schema.ErrAlreadyExists
		}
	}

	pending := schema.PendingRequest{
		ID:         uuid.NewString(),
		Kind:       schema.PendingSubDomain,
		Caller:     req.Caller,
		Payments:   req.Payments,
		CreatedAt:  r.now(),
		Name:       req.Name,
		SubAddress: req.Address,
	}
	if err := r.store.SavePendingReq(pending); err != nil {
		return "", err
	}
	return pending.ID, nil
}

func (r *Registrar) completeSubDomain(corrId string, rate *big.Int, rateErr error) (schema.RespSubDomain, error) {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	pending, err := r.store.LoadPendingReq(corrId)
	if err != nil {
		return schema.RespSubDomain{}, schema.ErrNotFound
	}
	if err := r.store.DelPendingReq(corrId); err != nil {
		return schema.RespSubDomain{}, err
	}

	if rateErr != nil {
		log.Error("exchange rate fetch failed", "err", rateErr, "name", pending.Name)
		r.refundPayments(pending.Caller, pending.Payments, schema.ReasonRefund)
		return schema.RespSubDomain{}, schema.ErrExternalCall
	}
	r.applyRate(rate)

	resp, err := r.settleSubDomain(pending, rate)
	if err != nil {
		r.refundPayments(pending.Caller, pending.Payments, schema.ReasonRefund)
		return schema.RespSubDomain{}, err
	}
	return resp, nil
}

func (r *Registrar) settleSubDomain(pending schema.PendingRequest, rate *big.Int) (schema.RespSubDomain, error) {
	price, err := subDomainPrice(rate)
	if err != nil {
		return schema.RespSubDomain{}, err
	}
	tendered, err := nativeTendered(pending.Payments)
	if err != nil {
		return schema.RespSubDomain{}, err
	}
	if tendered.Cmp(price) < 0 {
		return schema.RespSubDomain{}, schema.ErrInsufficientFunds
	}

	// ownership and uniqueness may have shifted during the round trip
	owns, err := r.isOwner(pending.Caller, pending.Name)
	if err != nil {
		return schema.RespSubDomain{}, err
	}
	if !owns {
		return schema.RespSubDomain{}, schema.ErrNotAllowed
	}
	primary, err := primaryDomain(pending.Name)
	if err != nil {
		return schema.RespSubDomain{}, err
	}
	subs, err := r.store.LoadSubDomains(primary)
	if err != nil {
		return schema.RespSubDomain{}, err
	}
	for _, sub := range subs {
		if sub.Name == pending.Name {
			return schema.RespSubDomain{}, schema.ErrAlreadyExists
		}
	}

	subs = append(subs, schema.SubDomain{Name: pending.Name, Address: pending.SubAddress})
	if err := r.store.SaveSubDomains(primary, subs); err != nil {
		return schema.RespSubDomain{}, err
	}

	r.refundForeign(pending.Caller, pending.Payments)
	excess := r.settleExcess(pending.Caller, price, tendered)
	if err := r.wdb.InsertOrder(schema.Order{
		DomainName:    pending.Name,
		Caller:        pending.Caller,
		Action:        schema.ActionSubDomain,
		Currency:      schema.NativeToken,
		Fee:           price.String(),
		Tendered:      tendered.String(),
		Excess:        excess.String(),
		PaymentStatus: schema.SuccPayment,
	}); err != nil {
		log.Error("insert order", "err", err, "name", pending.Name)
	}
	metricRegistration(schema.ActionSubDomain)

	return schema.RespSubDomain{
		Name:    pending.Name,
		Address: pending.SubAddress,
		Fee:     price.String(),
		Excess:  excess.String(),
	}, nil
}

// RemoveSubDomain deletes the exact (name, address) pair, owner only.
func (r *Registrar) RemoveSubDomain(name, caller, address string) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	owns, err := r.isOwner(caller, name)
	if err != nil {
		return err
	}
	if !owns {
		return schema.ErrNotAllowed
	}
	primary, err := primaryDomain(name)
	if err != nil {
		return err
	}
	subs, err := r.store.LoadSubDomains(primary)
	if err != nil {
		return err
	}
	for i, sub := range subs {
		if sub.Name == name && sub.Address == address {
			subs = append(subs[:i], subs[i+1:]...)
			return r.store.SaveSubDomains(primary, subs)
		}
	}
	return schema.ErrNotFound
}

// GetSubDomains lists the subdomain entries under a primary name.
func (r *Registrar) GetSubDomains(primaryName string) ([]schema.SubDomain, error) {
	return r.store.LoadSubDomains(primaryName)
}
