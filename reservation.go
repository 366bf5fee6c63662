package nameserv

import (
	"errors"
	"strings"
	"sync"

	"github.com/mvxns/nameserv/schema"
	"github.com/panjf2000/ants/v2"
)

// SetReservations bulk-writes admin reservations. Writes fan out over a
// worker pool, bulk loads from migration snapshots run to thousands of
// rows.
func (r *Registrar) SetReservations(reservations []schema.Reservation) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	for _, res := range reservations {
		if res.Name == "" || res.ReservedFor == "" {
			return schema.ErrNotAllowed
		}
	}

	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error
	p, _ := ants.NewPoolWithFunc(20, func(i interface{}) {
		defer wg.Done()
		res := i.(schema.Reservation)
		if err := r.store.SaveReservation(res); err != nil {
			log.Error("save reservation", "err", err, "name", res.Name)
			once.Do(func() { firstErr = err })
		}
	})
	defer p.Release()
	for _, res := range reservations {
		wg.Add(1)
		_ = p.Invoke(res)
	}
	wg.Wait()
	return firstErr
}

// ClearReservations bulk-drops reservations by name.
func (r *Registrar) ClearReservations(names []string) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	for _, name := range names {
		if err := r.store.DelReservation(name); err != nil {
			return err
		}
	}
	return nil
}

// SetMigrationStart opens the migration window at the given unix time.
func (r *Registrar) SetMigrationStart(timestamp uint64) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()
	return r.store.SaveMigrationStart(timestamp)
}

// migrationTarget rewrites a legacy name into the current two-label scheme
// under the canonical top-level label.
func (r *Registrar) migrationTarget(legacyName string) (string, error) {
	tlds := r.cache.GetAllowedTlds()
	if len(tlds) == 0 {
		return "", schema.ErrNameBadTld
	}
	label := splitLabels(legacyName)[0]
	if len(label) == 0 {
		return "", schema.ErrNameZeroLabel
	}
	return strings.Join([]string{label, tlds[0]}, schema.LabelSeparator), nil
}

// MigrateDomain converts a legacy reservation into a live registration at
// zero price. The reservation must belong to the caller, the migration
// window must be open and the target name still free. The reservation
// deadline becomes the new expiry.
func (r *Registrar) MigrateDomain(req schema.MigrateReq) (schema.RespRegister, error) {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	now := r.now()
	start, err := r.store.LoadMigrationStart()
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return schema.RespRegister{}, schema.ErrDeadlineExceeded
		}
		return schema.RespRegister{}, err
	}
	deadline, err := checkedAdd(start, schema.MigrationPeriod)
	if err != nil {
		return schema.RespRegister{}, err
	}
	if now < start || now >= deadline {
		return schema.RespRegister{}, schema.ErrDeadlineExceeded
	}

	res, err := r.store.LoadReservation(req.Name)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return schema.RespRegister{}, schema.ErrNotFound
		}
		return schema.RespRegister{}, err
	}
	if res.ReservedFor != req.Caller {
		return schema.RespRegister{}, schema.ErrNotAllowed
	}
	if res.Until < now {
		// a lapsed reservation is as good as absent
		if err := r.store.DelReservation(req.Name); err != nil {
			return schema.RespRegister{}, err
		}
		return schema.RespRegister{}, schema.ErrNotFound
	}

	target, err := r.migrationTarget(req.Name)
	if err != nil {
		return schema.RespRegister{}, err
	}
	if err := isNameValid(target, r.cache.GetAllowedTlds()); err != nil {
		return schema.RespRegister{}, err
	}
	if r.store.IsExistDomain(target) {
		return schema.RespRegister{}, schema.ErrAlreadyExists
	}

	royalties, err := r.store.LoadRoyalties()
	if err != nil {
		return schema.RespRegister{}, err
	}
	nonce, err := r.cert.Mint(target, req.Caller, royalties)
	if err != nil {
		log.Error("certificate mint failed", "err", err, "name", target)
		return schema.RespRegister{}, schema.ErrExternalCall
	}
	rec := schema.DomainRecord{
		Name:      target,
		ExpiresAt: res.Until,
		CertNonce: nonce,
	}
	if err := r.store.SaveDomain(rec); err != nil {
		return schema.RespRegister{}, err
	}
	if err := r.store.SaveOwner(target, req.Caller); err != nil {
		return schema.RespRegister{}, err
	}
	if err := r.store.DelReservation(req.Name); err != nil {
		return schema.RespRegister{}, err
	}

	if err := r.wdb.InsertOrder(schema.Order{
		DomainName:    target,
		Caller:        req.Caller,
		Action:        schema.ActionMigrate,
		Currency:      schema.NativeToken,
		Fee:           "0",
		Tendered:      "0",
		Excess:        "0",
		PaymentStatus: schema.SuccPayment,
	}); err != nil {
		log.Error("insert order", "err", err, "name", target)
	}
	r.publishEvent(schema.EventMigrated, target, req.Caller, rec.ExpiresAt, nonce, now)
	metricRegistration(schema.ActionMigrate)

	return schema.RespRegister{
		Name:      target,
		ExpiresAt: rec.ExpiresAt,
		CertNonce: nonce,
		Fee:       "0",
		Excess:    "0",
	}, nil
}

// GetReservation exposes a reservation for inspection.
func (r *Registrar) GetReservation(name string) (schema.Reservation, error) {
	res, err := r.store.LoadReservation(name)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return schema.Reservation{}, schema.ErrNotFound
		}
		return schema.Reservation{}, err
	}
	return res, nil
}
