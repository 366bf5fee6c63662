package nameserv

import (
	"errors"
	"math/big"
	"testing"

	"github.com/mvxns/nameserv/schema"
	"github.com/stretchr/testify/assert"
)

func TestRegisterFresh(t *testing.T) {
	env := newTestEnv(t)

	// Other bucket (100 cents/year) at rate 2 for a full year
	resp := env.register(t, "erd1alice", "alice.mvx", 250)

	assert.Equal(t, "alice.mvx", resp.Name)
	assert.Equal(t, testEpoch+schema.YearInSeconds, resp.ExpiresAt)
	assert.Equal(t, "200", resp.Fee)
	assert.Equal(t, "50", resp.Excess)
	assert.NotZero(t, resp.CertNonce)

	rec, err := env.r.GetDomain("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, resp.CertNonce, rec.CertNonce)
	assert.Equal(t, "erd1alice", env.cert.holders[resp.CertNonce])

	owner, err := env.r.store.LoadOwner("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "erd1alice", owner)

	// excess booked for the refund job
	excess := env.receiptsByReason(t, schema.ReasonExcess)
	assert.Len(t, excess, 1)
	assert.Equal(t, "50", excess[0].Amount)

	orders, err := env.r.wdb.GetOrdersByName("alice.mvx")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, schema.ActionRegister, orders[0].Action)
	assert.Equal(t, "200", orders[0].Fee)
}

func TestRegisterExactPaymentNoExcess(t *testing.T) {
	env := newTestEnv(t)

	resp := env.register(t, "erd1alice", "alice.mvx", 200)
	assert.Equal(t, "0", resp.Excess)
	assert.Empty(t, env.receiptsByReason(t, schema.ReasonExcess))
}

func TestRegisterInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller:   "erd1alice",
		Name:     "alice.mvx",
		Period:   1,
		Unit:     schema.UnitYear,
		Payments: env.payment(199),
	})
	assert.ErrorIs(t, err, schema.ErrInsufficientFunds)

	// the whole tender goes back
	refunds := env.receiptsByReason(t, schema.ReasonRefund)
	assert.Len(t, refunds, 1)
	assert.Equal(t, "199", refunds[0].Amount)
	assert.False(t, env.r.store.IsExistDomain("alice.mvx"))
}

func TestRegisterInvalidRequests(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name    string
		req     schema.RegisterReq
		wantErr error
	}{
		{"short label", schema.RegisterReq{Caller: "erd1a", Name: "ab.mvx", Period: 1, Unit: schema.UnitYear}, schema.ErrNameTooShort},
		{"three labels", schema.RegisterReq{Caller: "erd1a", Name: "pay.alice.mvx", Period: 1, Unit: schema.UnitYear}, schema.ErrNameBadLabels},
		{"bad tld", schema.RegisterReq{Caller: "erd1a", Name: "alice.com", Period: 1, Unit: schema.UnitYear}, schema.ErrNameBadTld},
		{"zero period", schema.RegisterReq{Caller: "erd1a", Name: "alice.mvx", Period: 0, Unit: schema.UnitYear}, schema.ErrInvalidDuration},
		{"bad unit", schema.RegisterReq{Caller: "erd1a", Name: "alice.mvx", Period: 1, Unit: "decade"}, schema.ErrInvalidDuration},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := env.r.ProcessRegisterOrRenew(c.req)
			assert.ErrorIs(t, err, c.wantErr)
		})
	}
	// validation failures never reach the oracle
	assert.Zero(t, env.oracle.calls)
}

func TestRegisterOracleFailure(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "erd1alice", "alice.mvx", 200)
	assert.Equal(t, "2", env.r.cache.GetRate().String())

	env.oracle.err = errors.New("oracle down")
	_, err := env.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller:   "erd1bob",
		Name:     "bobby.mvx",
		Period:   1,
		Unit:     schema.UnitYear,
		Payments: env.payment(500),
	})
	assert.ErrorIs(t, err, schema.ErrExternalCall)

	// previous rate stays, payment goes back, no registration happened
	assert.Equal(t, "2", env.r.cache.GetRate().String())
	assert.False(t, env.r.store.IsExistDomain("bobby.mvx"))
	refunds := env.receiptsByReason(t, schema.ReasonRefund)
	assert.Len(t, refunds, 1)
	assert.Equal(t, "500", refunds[0].Amount)
}

func TestRenewalExtendsFromCurrentExpiry(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t, "erd1alice", "alice.mvx", 200)

	// renew half a year in, the extension stacks on the old expiry
	env.advance(schema.YearInSeconds / 2)
	second := env.register(t, "erd1alice", "alice.mvx", 200)

	assert.Equal(t, first.ExpiresAt+schema.YearInSeconds, second.ExpiresAt)
	assert.Equal(t, first.CertNonce, second.CertNonce)
	assert.Empty(t, env.cert.burned)

	orders, err := env.r.wdb.GetOrdersByName("alice.mvx")
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, schema.ActionRenew, orders[0].Action)
}

func TestRenewalWithinGrace(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t, "erd1alice", "alice.mvx", 200)

	// expired but still inside the grace period
	env.advance(schema.YearInSeconds + schema.GracePeriod/2)
	second := env.register(t, "erd1alice", "alice.mvx", 200)

	assert.Equal(t, first.ExpiresAt+schema.YearInSeconds, second.ExpiresAt)
	assert.Equal(t, first.CertNonce, second.CertNonce)
}

func TestGraceBlocksStrangers(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "erd1alice", "alice.mvx", 200)

	// bob cannot take the name while the grace period runs
	env.advance(schema.YearInSeconds + schema.GracePeriod - 1)
	_, err := env.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller:   "erd1bob",
		Name:     "alice.mvx",
		Period:   1,
		Unit:     schema.UnitYear,
		Payments: env.payment(200),
	})
	assert.ErrorIs(t, err, schema.ErrNameNotAvailable)
}

func TestReclaimAfterGrace(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t, "erd1alice", "alice.mvx", 200)

	env.advance(schema.YearInSeconds + schema.GracePeriod)
	second := env.register(t, "erd1bob", "alice.mvx", 200)

	// the stale certificate is retired and a fresh one minted for bob
	assert.Contains(t, env.cert.burned, first.CertNonce)
	assert.NotEqual(t, first.CertNonce, second.CertNonce)
	assert.Equal(t, "erd1bob", env.cert.holders[second.CertNonce])
	assert.Equal(t, *env.clock+schema.YearInSeconds, second.ExpiresAt)

	owner, err := env.r.store.LoadOwner("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "erd1bob", owner)
}

func TestRegisterWithAssignee(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller:   "erd1alice",
		Name:     "alice.mvx",
		Period:   1,
		Unit:     schema.UnitYear,
		AssignTo: "erd1bob",
		Payments: env.payment(200),
	})
	assert.NoError(t, err)

	// certificate and ownership land on the assignee
	assert.Equal(t, "erd1bob", env.cert.holders[resp.CertNonce])
	owner, err := env.r.store.LoadOwner("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "erd1bob", owner)

	// resolution waits for the assignee to accept
	requested, err := env.r.store.LoadAcceptRequest("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "erd1bob", requested)
}

func TestRegisterConsumesReservation(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.r.SetReservations([]schema.Reservation{
		{Name: "alice.mvx", ReservedFor: "erd1alice", Until: testEpoch + schema.YearInSeconds},
	}))

	env.register(t, "erd1alice", "alice.mvx", 200)
	_, err := env.r.GetReservation("alice.mvx")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestExpiredReservationLazilyCleared(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "erd1alice", "alice.mvx", 200)
	assert.NoError(t, env.r.SetReservations([]schema.Reservation{
		{Name: "alice.mvx", ReservedFor: "erd1bob", Until: testEpoch + 10},
	}))

	env.advance(100)
	_, err := env.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller:   "erd1bob",
		Name:     "alice.mvx",
		Period:   1,
		Unit:     schema.UnitYear,
		Payments: env.payment(200),
	})
	assert.ErrorIs(t, err, schema.ErrNameNotAvailable)

	// the dead reservation is gone after the claim check touched it
	_, err = env.r.GetReservation("alice.mvx")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestMintFailureRefunds(t *testing.T) {
	env := newTestEnv(t)
	env.cert.mintErr = errors.New("mint rejected")

	_, err := env.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller:   "erd1alice",
		Name:     "alice.mvx",
		Period:   1,
		Unit:     schema.UnitYear,
		Payments: env.payment(250),
	})
	assert.ErrorIs(t, err, schema.ErrExternalCall)
	assert.False(t, env.r.store.IsExistDomain("alice.mvx"))

	refunds := env.receiptsByReason(t, schema.ReasonFailedMint)
	assert.Len(t, refunds, 1)
	assert.Equal(t, "250", refunds[0].Amount)
}

func TestForeignPaymentsAlwaysReturned(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.r.ProcessRegisterOrRenew(schema.RegisterReq{
		Caller: "erd1alice",
		Name:   "alice.mvx",
		Period: 1,
		Unit:   schema.UnitYear,
		Payments: []schema.Payment{
			{Token: schema.NativeToken, Amount: "200"},
			{Token: "USDC-abc123", Amount: "777"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "200", resp.Fee)

	refunds := env.receiptsByReason(t, schema.ReasonRefund)
	assert.Len(t, refunds, 1)
	assert.Equal(t, "USDC-abc123", refunds[0].Token)
	assert.Equal(t, "777", refunds[0].Amount)
}

func TestCompleteRegisterReplay(t *testing.T) {
	env := newTestEnv(t)

	corrId, err := env.r.prepareRegister(schema.RegisterReq{
		Caller:   "erd1alice",
		Name:     "alice.mvx",
		Period:   1,
		Unit:     schema.UnitYear,
		Payments: env.payment(200),
	})
	assert.NoError(t, err)

	_, err = env.r.completeRegister(corrId, big.NewInt(2), nil)
	assert.NoError(t, err)

	// the continuation fires exactly once
	_, err = env.r.completeRegister(corrId, big.NewInt(2), nil)
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestRateAppliedOnRegister(t *testing.T) {
	env := newTestEnv(t)
	env.oracle.rate = big.NewInt(7)

	resp := env.register(t, "erd1alice", "alice.mvx", 700)
	assert.Equal(t, "700", resp.Fee)

	// the cache and db both carry the refreshed rate
	assert.Equal(t, "7", env.r.cache.GetRate().String())
	rate, err := env.r.wdb.GetExchangeRate()
	assert.NoError(t, err)
	assert.Equal(t, "7", rate.Rate)
}
