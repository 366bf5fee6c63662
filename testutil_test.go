package nameserv

import (
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/mvxns/nameserv/cache"
	"github.com/mvxns/nameserv/schema"
	"github.com/stretchr/testify/assert"
)

type stubOracle struct {
	rate  *big.Int
	err   error
	calls int
}

func (o *stubOracle) LatestPriceFeed(from, to string) (*big.Int, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return new(big.Int).Set(o.rate), nil
}

type stubTransfer struct {
	Token  string
	Amount *big.Int
	To     string
	Memo   string
}

type stubPay struct {
	mu        sync.Mutex
	transfers []stubTransfer
	err       error
}

func (p *stubPay) Transfer(token string, amount *big.Int, to string, memo string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.transfers = append(p.transfers, stubTransfer{Token: token, Amount: new(big.Int).Set(amount), To: to, Memo: memo})
	return "tx-stub", nil
}

type stubCert struct {
	nextNonce   uint64
	holders     map[uint64]string
	burned      []uint64
	mintErr     error
	transferErr error
	holderErr   error
}

func newStubCert() *stubCert {
	return &stubCert{holders: make(map[uint64]string)}
}

func (c *stubCert) Mint(name, owner string, royalties uint64) (uint64, error) {
	if c.mintErr != nil {
		return 0, c.mintErr
	}
	c.nextNonce++
	c.holders[c.nextNonce] = owner
	return c.nextNonce, nil
}

func (c *stubCert) Burn(nonce uint64) error {
	delete(c.holders, nonce)
	c.burned = append(c.burned, nonce)
	return nil
}

func (c *stubCert) Transfer(nonce uint64, newOwner string) error {
	if c.transferErr != nil {
		return c.transferErr
	}
	if _, ok := c.holders[nonce]; !ok {
		return errors.New("unknown nonce")
	}
	c.holders[nonce] = newOwner
	return nil
}

func (c *stubCert) HolderOf(nonce uint64) (string, error) {
	if c.holderErr != nil {
		return "", c.holderErr
	}
	return c.holders[nonce], nil
}

type testEnv struct {
	r      *Registrar
	oracle *stubOracle
	pay    *stubPay
	cert   *stubCert
	clock  *uint64
}

const testEpoch = uint64(1700000000)

func newTestEnv(t *testing.T) *testEnv {
	store, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	wdb := NewSqliteDb(t.TempDir())
	assert.NoError(t, wdb.Migrate())
	t.Cleanup(wdb.Close)

	assert.NoError(t, store.SaveAllowedTlds([]string{"mvx"}))

	resolveCache, err := cache.NewLocalCache(time.Minute)
	assert.NoError(t, err)

	oracle := &stubOracle{rate: big.NewInt(2)}
	pay := &stubPay{}
	cert := newStubCert()
	clock := testEpoch

	r := &Registrar{
		store:        store,
		wdb:          wdb,
		cache:        NewCache(wdb, store),
		resolveCache: resolveCache,
		oracle:       oracle,
		pay:          pay,
		cert:         cert,
		scheduler:    gocron.NewScheduler(time.UTC),
		now:          func() uint64 { return clock },
	}
	env := &testEnv{r: r, oracle: oracle, pay: pay, cert: cert, clock: &clock}
	return env
}

func (e *testEnv) advance(secs uint64) {
	*e.clock += secs
}

func (e *testEnv) payment(amount int64) []schema.Payment {
	return []schema.Payment{{Token: schema.NativeToken, Amount: big.NewInt(amount).String()}}
}

func (e *testEnv) register(t *testing.T, caller, name string, amount int64) schema.RespRegister {
	resp, err := e.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller:   caller,
		Name:     name,
		Period:   1,
		Unit:     schema.UnitYear,
		Payments: e.payment(amount),
	})
	assert.NoError(t, err)
	return resp
}

func (e *testEnv) receiptsByReason(t *testing.T, reason string) []schema.Receipt {
	receipts, err := e.r.wdb.GetReceiptsByStatus(schema.UnRefund)
	assert.NoError(t, err)
	matched := make([]schema.Receipt, 0)
	for _, receipt := range receipts {
		if receipt.Reason == reason {
			matched = append(matched, receipt)
		}
	}
	return matched
}
