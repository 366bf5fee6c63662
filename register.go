package nameserv

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/mvxns/nameserv/schema"
)

// ProcessRegisterOrRenew drives a registration or renewal end to end. The
// flow has two phases around the oracle round trip: prepare validates the
// request and parks it as a pending request, complete applies the fresh
// rate and mutates the registry. Nothing holds the state lock while the
// oracle call is in flight.
func (r *Registrar) ProcessRegisterOrRenew(req schema.RegisterReq) (schema.RespRegister, error) {
	corrId, err := r.prepareRegister(req)
	if err != nil {
		r.refundPayments(req.Caller, req.Payments, schema.ReasonRefund)
		return schema.RespRegister{}, err
	}
	rate, rateErr := r.oracle.LatestPriceFeed(schema.NativeToken, "usd")
	return r.completeRegister(corrId, rate, rateErr)
}

func (r *Registrar) prepareRegister(req schema.RegisterReq) (string, error) {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	if err := isNameValid(req.Name, r.cache.GetAllowedTlds()); err != nil {
		return "", err
	}
	labels := splitLabels(req.Name)
	if len(labels) != 2 {
		return "", schema.ErrNameBadLabels
	}
	for _, label := range labels {
		if len(label) == 0 {
			return "", schema.ErrNameZeroLabel
		}
	}
	// the registrable label itself has to clear the minimum, a short label
	// can not hide behind the separator and top-level label
	if len(labels[0]) <= schema.MinNameLength {
		return "", schema.ErrNameTooShort
	}
	if _, err := durationSeconds(req.Period, req.Unit); err != nil {
		return "", err
	}
	if _, err := nativeTendered(req.Payments); err != nil {
		return "", err
	}
	ok, err := r.canClaim(req.Caller, req.Name, r.now())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", schema.ErrNameNotAvailable
	}

	pending := schema.PendingRequest{
		ID:        uuid.NewString(),
		Kind:      schema.PendingRegister,
		Caller:    req.Caller,
		Payments:  req.Payments,
		CreatedAt: r.now(),
		Name:      req.Name,
		Period:    req.Period,
		Unit:      req.Unit,
		AssignTo:  req.AssignTo,
	}
	if err := r.store.SavePendingReq(pending); err != nil {
		return "", err
	}
	return pending.ID, nil
}

// completeRegister is the continuation invoked with the oracle result. The
// pending request is consumed exactly once; a replayed correlation id gets
// ErrNotFound. A failed rate fetch leaves the previously cached rate
// untouched and fails only this request.
func (r *Registrar) completeRegister(corrId string, rate *big.Int, rateErr error) (schema.RespRegister, error) {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	pending, err := r.store.LoadPendingReq(corrId)
	if err != nil {
		return schema.RespRegister{}, schema.ErrNotFound
	}
	if err := r.store.DelPendingReq(corrId); err != nil {
		return schema.RespRegister{}, err
	}

	if rateErr != nil {
		log.Error("exchange rate fetch failed", "err", rateErr, "name", pending.Name)
		r.refundPayments(pending.Caller, pending.Payments, schema.ReasonRefund)
		return schema.RespRegister{}, schema.ErrExternalCall
	}
	r.applyRate(rate)

	resp, err := r.settleRegister(pending, rate)
	if err != nil {
		reason := schema.ReasonRefund
		if errors.Is(err, errMintFailed) {
			reason = schema.ReasonFailedMint
			err = schema.ErrExternalCall
		}
		r.refundPayments(pending.Caller, pending.Payments, reason)
		return schema.RespRegister{}, err
	}
	return resp, nil
}

// errMintFailed marks a certificate mint rejection inside the settle path
// so the refund carries the right reason.
var errMintFailed = errors.New("mint_failed")

func (r *Registrar) settleRegister(pending schema.PendingRequest, rate *big.Int) (schema.RespRegister, error) {
	secs, err := durationSeconds(pending.Period, pending.Unit)
	if err != nil {
		return schema.RespRegister{}, err
	}
	price, err := rentPrice(r.cache.GetFee(), rate, pending.Name, secs)
	if err != nil {
		return schema.RespRegister{}, err
	}

	// the registry state may have moved while the oracle call was in
	// flight, the claim has to hold now, not just at prepare time
	now := r.now()
	ok, err := r.canClaim(pending.Caller, pending.Name, now)
	if err != nil {
		return schema.RespRegister{}, err
	}
	if !ok {
		return schema.RespRegister{}, schema.ErrNameNotAvailable
	}

	tendered, err := nativeTendered(pending.Payments)
	if err != nil {
		return schema.RespRegister{}, err
	}
	if tendered.Cmp(price) < 0 {
		return schema.RespRegister{}, schema.ErrInsufficientFunds
	}

	target := pending.Caller
	if pending.AssignTo != "" {
		target = pending.AssignTo
	}

	rec, recErr := r.store.LoadDomain(pending.Name)
	exists := recErr == nil
	if recErr != nil && !errors.Is(recErr, schema.ErrNotExist) {
		return schema.RespRegister{}, recErr
	}

	renewal := false
	if exists {
		owns, err := r.holdsCert(pending.Caller, rec.CertNonce)
		if err != nil {
			return schema.RespRegister{}, err
		}
		renewal = owns && now < rec.ExpiresAt+schema.GracePeriod
	}

	action := schema.ActionRegister
	eventType := schema.EventRegistered
	if renewal {
		// extend from the current expiry, not from now
		newExpiry, err := checkedAdd(rec.ExpiresAt, secs)
		if err != nil {
			return schema.RespRegister{}, err
		}
		rec.ExpiresAt = newExpiry
		if pending.AssignTo != "" && pending.AssignTo != pending.Caller {
			if err := r.cert.Transfer(rec.CertNonce, target); err != nil {
				return schema.RespRegister{}, schema.ErrExternalCall
			}
			if err := r.store.SaveOwner(pending.Name, target); err != nil {
				return schema.RespRegister{}, err
			}
		}
		if err := r.store.SaveDomain(rec); err != nil {
			return schema.RespRegister{}, err
		}
		action = schema.ActionRenew
		eventType = schema.EventRenewed
	} else {
		if exists && rec.CertNonce != 0 {
			// reclaim of a lapsed name retires the stale certificate
			if err := r.cert.Burn(rec.CertNonce); err != nil {
				return schema.RespRegister{}, schema.ErrExternalCall
			}
			r.publishEvent(schema.EventExpired, rec.Name, "", rec.ExpiresAt, rec.CertNonce, now)
		}
		expiresAt, err := checkedAdd(now, secs)
		if err != nil {
			return schema.RespRegister{}, err
		}
		royalties, err := r.store.LoadRoyalties()
		if err != nil {
			return schema.RespRegister{}, err
		}
		nonce, err := r.cert.Mint(pending.Name, target, royalties)
		if err != nil {
			log.Error("certificate mint failed", "err", err, "name", pending.Name)
			return schema.RespRegister{}, errMintFailed
		}
		rec = schema.DomainRecord{
			Name:      pending.Name,
			ExpiresAt: expiresAt,
			CertNonce: nonce,
		}
		if err := r.store.SaveDomain(rec); err != nil {
			return schema.RespRegister{}, err
		}
		if err := r.store.SaveOwner(pending.Name, target); err != nil {
			return schema.RespRegister{}, err
		}
		r.assignAddress(pending.Name, pending.Caller, pending.AssignTo)
		// a consumed reservation never outlives its registration
		if _, err := r.store.LoadReservation(pending.Name); err == nil {
			if err := r.store.DelReservation(pending.Name); err != nil {
				return schema.RespRegister{}, err
			}
		}
	}

	// the registry only ever keeps the native token
	r.refundForeign(pending.Caller, pending.Payments)
	excess := r.settleExcess(pending.Caller, price, tendered)
	if err := r.wdb.InsertOrder(schema.Order{
		DomainName:    pending.Name,
		Caller:        pending.Caller,
		Action:        action,
		Currency:      schema.NativeToken,
		Fee:           price.String(),
		Tendered:      tendered.String(),
		Excess:        excess.String(),
		PaymentStatus: schema.SuccPayment,
	}); err != nil {
		log.Error("insert order", "err", err, "name", pending.Name)
	}
	r.publishEvent(eventType, pending.Name, target, rec.ExpiresAt, rec.CertNonce, now)
	metricRegistration(action)

	return schema.RespRegister{
		Name:      pending.Name,
		ExpiresAt: rec.ExpiresAt,
		CertNonce: rec.CertNonce,
		Fee:       price.String(),
		Excess:    excess.String(),
	}, nil
}

// canClaim reports whether caller may take name right now: the caller
// already holds the certificate, or holds a live reservation, or the name
// was never registered, or its grace period has lapsed. An expired
// reservation held by the caller is cleared on sight.
func (r *Registrar) canClaim(caller, name string, now uint64) (bool, error) {
	rec, err := r.store.LoadDomain(name)
	if err != nil && !errors.Is(err, schema.ErrNotExist) {
		return false, err
	}
	exists := err == nil

	if exists {
		owns, err := r.holdsCert(caller, rec.CertNonce)
		if err != nil {
			return false, err
		}
		if owns {
			return true, nil
		}
	}

	if res, err := r.store.LoadReservation(name); err == nil && res.ReservedFor == caller {
		if now <= res.Until {
			return true, nil
		}
		if err := r.store.DelReservation(name); err != nil {
			return false, err
		}
		return false, nil
	}

	if !exists {
		return true, nil
	}
	return now >= rec.ExpiresAt+schema.GracePeriod, nil
}

func (r *Registrar) holdsCert(caller string, nonce uint64) (bool, error) {
	if nonce == 0 {
		return false, nil
	}
	holder, err := r.cert.HolderOf(nonce)
	if err != nil {
		return false, schema.ErrExternalCall
	}
	return holder == caller, nil
}

// isOwner resolves name to its primary domain and checks the caller holds
// that domain's certificate.
func (r *Registrar) isOwner(caller, name string) (bool, error) {
	primary, err := primaryDomain(name)
	if err != nil {
		return false, err
	}
	rec, err := r.store.LoadDomain(primary)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return r.holdsCert(caller, rec.CertNonce)
}

// assignAddress implements the resolution binding rules: assigning to
// yourself binds immediately, assigning to a third party parks an accept
// request, an empty assignee clears the binding.
func (r *Registrar) assignAddress(name, caller, assignTo string) {
	var err error
	switch {
	case assignTo == "":
		err = r.store.DelResolve(name)
	case assignTo == caller:
		err = r.store.SaveResolve(name, assignTo)
	default:
		err = r.store.SaveAcceptRequest(name, assignTo)
	}
	if err != nil {
		log.Error("assign address", "err", err, "name", name, "assignTo", assignTo)
	}
	r.evictResolve(name)
}

func (r *Registrar) applyRate(rate *big.Int) {
	if err := r.wdb.UpdateExchangeRate(rate); err != nil {
		log.Error("persist exchange rate", "err", err)
	}
	r.cache.UpdateRate(rate, int64(r.now()))
	metricExchangeRate(rate)
}

func nativeTendered(payments []schema.Payment) (*big.Int, error) {
	total := new(big.Int)
	for _, p := range payments {
		amount, ok := new(big.Int).SetString(p.Amount, 10)
		if !ok || amount.Sign() < 0 {
			return nil, fmt.Errorf("bad payment amount: %s", p.Amount)
		}
		if p.Token == schema.NativeToken {
			total.Add(total, amount)
		}
	}
	return total, nil
}
