package nameserv

import (
	"math/big"
	"sync"

	"github.com/mvxns/nameserv/schema"
)

type Cache struct {
	rate        *big.Int // native base units per usd cent
	rateUpdated int64
	fee         schema.RentalFee
	allowedTlds []string
	lock        sync.RWMutex
}

func NewCache(wdb *Wdb, store *Store) *Cache {
	c := &Cache{rate: big.NewInt(0)}

	fee, err := wdb.GetRentalFee()
	if err != nil {
		panic(err)
	}
	c.UpdateFee(fee)

	rate, err := wdb.GetExchangeRate()
	if err != nil {
		panic(err)
	}
	if rateVal, ok := new(big.Int).SetString(rate.Rate, 10); ok {
		c.UpdateRate(rateVal, rate.UpdatedAt.Unix())
	}

	tlds, err := store.LoadAllowedTlds()
	if err != nil {
		panic(err)
	}
	c.UpdateAllowedTlds(tlds)
	return c
}

func (c *Cache) GetRate() *big.Int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return new(big.Int).Set(c.rate)
}

func (c *Cache) GetRateUpdated() int64 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.rateUpdated
}

func (c *Cache) UpdateRate(rate *big.Int, updated int64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.rate = new(big.Int).Set(rate)
	c.rateUpdated = updated
}

func (c *Cache) GetFee() schema.RentalFee {
	c.lock.RLock()
	defer c.lock.RUnlock()
	fee := c.fee
	return fee
}

func (c *Cache) UpdateFee(fee schema.RentalFee) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.fee = fee
}

func (c *Cache) GetAllowedTlds() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	tlds := make([]string, len(c.allowedTlds))
	copy(tlds, c.allowedTlds)
	return tlds
}

func (c *Cache) UpdateAllowedTlds(tlds []string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.allowedTlds = tlds
}
