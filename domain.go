package nameserv

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mvxns/nameserv/schema"
)

// UpdatePrimaryAddress re-points a name's resolution. Only the certificate
// holder of the primary domain may call it.
func (r *Registrar) UpdatePrimaryAddress(name, caller, assignTo string) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	owns, err := r.isOwner(caller, name)
	if err != nil {
		return err
	}
	if !owns {
		return schema.ErrNotAllowed
	}
	r.assignAddress(name, caller, assignTo)
	return nil
}

// Accept binds a name to the caller when an accept request names them.
func (r *Registrar) Accept(name, caller string) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	requested, err := r.store.LoadAcceptRequest(name)
	if err != nil || requested != caller {
		return schema.ErrNotAllowed
	}
	if err := r.store.SaveResolve(name, caller); err != nil {
		return err
	}
	if err := r.store.DelAcceptRequest(name); err != nil {
		return err
	}
	r.evictResolve(name)
	return nil
}

// RevokeAcceptRequest drops a pending accept request. The owner or the
// requested address may revoke.
func (r *Registrar) RevokeAcceptRequest(name, caller string) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	requested, reqErr := r.store.LoadAcceptRequest(name)
	owns, err := r.isOwner(caller, name)
	if err != nil {
		return err
	}
	if !owns && (reqErr != nil || requested != caller) {
		return schema.ErrNotAllowed
	}
	return r.store.DelAcceptRequest(name)
}

// UpdateKeyValue sets or clears a free-form record under a name. The owner
// or the currently resolved address may write.
func (r *Registrar) UpdateKeyValue(name, caller, key, value string) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	owns, err := r.isOwner(caller, name)
	if err != nil {
		return err
	}
	if !owns {
		resolved, err := r.store.LoadResolve(name)
		if err != nil || resolved != caller {
			return schema.ErrNotAllowed
		}
	}
	if value == "" {
		return r.store.DelKeyValue(name, key)
	}
	return r.store.SaveKeyValue(name, key, value)
}

// UpdateProfile mutates the metadata facets of a record, owner only. Only
// the facets present in the request are touched.
func (r *Registrar) UpdateProfile(name string, req schema.ProfileReq) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	owns, err := r.isOwner(req.Caller, name)
	if err != nil {
		return err
	}
	if !owns {
		return schema.ErrNotAllowed
	}
	rec, err := r.store.LoadDomain(name)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return schema.ErrNotFound
		}
		return err
	}
	if req.Wallets != nil && req.Wallets.Eth != "" && !common.IsHexAddress(req.Wallets.Eth) {
		return schema.ErrNameBadChar
	}
	if req.Profile != nil {
		rec.Profile = req.Profile
	}
	if req.Socials != nil {
		rec.Socials = req.Socials
	}
	if req.Wallets != nil {
		rec.Wallets = req.Wallets
	}
	if req.TextRecord != nil {
		rec.TextRecord = req.TextRecord
	}
	return r.store.SaveDomain(rec)
}

// TransferDomain moves the certificate and ownership of name to newOwner.
func (r *Registrar) TransferDomain(name, caller, newOwner string) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	if newOwner == caller {
		return schema.ErrSelfTransfer
	}
	if newOwner == "" {
		return schema.ErrNotAllowed
	}
	rec, err := r.store.LoadDomain(name)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return schema.ErrNotFound
		}
		return err
	}
	owns, err := r.holdsCert(caller, rec.CertNonce)
	if err != nil {
		return err
	}
	if !owns {
		return schema.ErrNotAllowed
	}
	if err := r.cert.Transfer(rec.CertNonce, newOwner); err != nil {
		return schema.ErrExternalCall
	}
	if err := r.store.SaveOwner(name, newOwner); err != nil {
		return err
	}
	r.publishEvent(schema.EventTransferred, name, newOwner, rec.ExpiresAt, rec.CertNonce, r.now())
	return nil
}

// GetDomain returns the record plus the live resolution state.
func (r *Registrar) GetDomain(name string) (schema.DomainRecord, error) {
	rec, err := r.store.LoadDomain(name)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return schema.DomainRecord{}, schema.ErrNotFound
		}
		return schema.DomainRecord{}, err
	}
	return rec, nil
}

// Resolve answers the primary resolution address of a name, read through
// the local cache.
func (r *Registrar) Resolve(name string) (string, error) {
	if addr, err := r.resolveCache.Cache.Get(name); err == nil {
		return string(addr), nil
	}
	addr, err := r.store.LoadResolve(name)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return "", schema.ErrNotFound
		}
		return "", err
	}
	if err := r.resolveCache.Cache.Set(name, []byte(addr)); err != nil {
		log.Warn("cache resolve", "err", err, "name", name)
	}
	return addr, nil
}

func (r *Registrar) evictResolve(name string) {
	if err := r.resolveCache.Cache.Delete(name); err != nil {
		log.Debug("evict resolve cache", "err", err, "name", name)
	}
}
