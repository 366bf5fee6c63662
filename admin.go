package nameserv

import (
	"github.com/mvxns/nameserv/schema"
)

// UpdatePriceUsd rewrites one bucket of the annual fee schedule.
func (r *Registrar) UpdatePriceUsd(bucket string, annualFee uint64) error {
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	fee := r.cache.GetFee()
	switch bucket {
	case schema.Bucket1:
		fee.OneLetter = annualFee
	case schema.Bucket2:
		fee.TwoLetter = annualFee
	case schema.Bucket3:
		fee.ThreeLetter = annualFee
	case schema.Bucket4:
		fee.FourLetter = annualFee
	case schema.BucketOther:
		fee.Other = annualFee
	default:
		return schema.ErrNotFound
	}
	if err := r.wdb.UpdateRentalFee(fee); err != nil {
		return err
	}
	r.cache.UpdateFee(fee)
	return nil
}

// FetchExchangeRate forces an oracle round trip. A failed fetch keeps the
// previous rate.
func (r *Registrar) FetchExchangeRate() error {
	rate, err := r.oracle.LatestPriceFeed(schema.NativeToken, "usd")
	if err != nil {
		log.Error("exchange rate fetch failed", "err", err)
		return schema.ErrExternalCall
	}
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()
	r.applyRate(rate)
	return nil
}

// SetRoyalties stores the certificate royalty scalar in basis points.
func (r *Registrar) SetRoyalties(royalties uint64) error {
	if royalties > schema.RoyaltiesMax {
		return schema.ErrNotAllowed
	}
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()
	return r.store.SaveRoyalties(royalties)
}

// AddAllowedTld appends a top-level label to the allow-list.
func (r *Registrar) AddAllowedTld(tld string) error {
	if tld == "" {
		return schema.ErrNameZeroLabel
	}
	r.stateLocker.Lock()
	defer r.stateLocker.Unlock()

	tlds, err := r.store.LoadAllowedTlds()
	if err != nil {
		return err
	}
	for _, existing := range tlds {
		if existing == tld {
			return schema.ErrAlreadyExists
		}
	}
	tlds = append(tlds, tld)
	if err := r.store.SaveAllowedTlds(tlds); err != nil {
		return err
	}
	r.cache.UpdateAllowedTlds(tlds)
	return nil
}

func (r *Registrar) GetFees() schema.RespFees {
	fee := r.cache.GetFee()
	return schema.RespFees{
		OneLetter:   fee.OneLetter,
		TwoLetter:   fee.TwoLetter,
		ThreeLetter: fee.ThreeLetter,
		FourLetter:  fee.FourLetter,
		Other:       fee.Other,
	}
}

func (r *Registrar) GetRate() schema.RespRate {
	return schema.RespRate{
		Rate:      r.cache.GetRate().String(),
		UpdatedAt: r.cache.GetRateUpdated(),
	}
}
