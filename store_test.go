package nameserv

import (
	"testing"

	"github.com/mvxns/nameserv/schema"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreDomain(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadDomain("alice.mvx")
	assert.ErrorIs(t, err, schema.ErrNotExist)
	assert.False(t, s.IsExistDomain("alice.mvx"))

	rec := schema.DomainRecord{
		Name:      "alice.mvx",
		CertNonce: 7,
		ExpiresAt: testEpoch + schema.YearInSeconds,
	}
	assert.NoError(t, s.SaveDomain(rec))
	got, err := s.LoadDomain("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.True(t, s.IsExistDomain("alice.mvx"))
}

func TestStoreOwnerResolveAccept(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.SaveOwner("alice.mvx", "erd1alice"))
	owner, err := s.LoadOwner("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "erd1alice", owner)

	assert.NoError(t, s.SaveResolve("alice.mvx", "erd1bob"))
	addr, err := s.LoadResolve("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "erd1bob", addr)
	assert.NoError(t, s.DelResolve("alice.mvx"))
	_, err = s.LoadResolve("alice.mvx")
	assert.ErrorIs(t, err, schema.ErrNotExist)
	// deleting again is a no-op
	assert.NoError(t, s.DelResolve("alice.mvx"))

	assert.NoError(t, s.SaveAcceptRequest("alice.mvx", "erd1carol"))
	req, err := s.LoadAcceptRequest("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "erd1carol", req)
	assert.NoError(t, s.DelAcceptRequest("alice.mvx"))
	_, err = s.LoadAcceptRequest("alice.mvx")
	assert.ErrorIs(t, err, schema.ErrNotExist)
}

func TestStoreKeyValues(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.SaveKeyValue("alice.mvx", "avatar", "ipfs://x"))
	assert.NoError(t, s.SaveKeyValue("alice.mvx", "twitter", "@alice"))
	assert.NoError(t, s.SaveKeyValue("bob.mvx", "avatar", "ipfs://y"))

	v, err := s.LoadKeyValue("alice.mvx", "avatar")
	assert.NoError(t, err)
	assert.Equal(t, "ipfs://x", v)

	kvs, err := s.LoadKeyValues("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"avatar": "ipfs://x", "twitter": "@alice"}, kvs)

	assert.NoError(t, s.DelKeyValue("alice.mvx", "avatar"))
	kvs, err = s.LoadKeyValues("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"twitter": "@alice"}, kvs)

	// other names are untouched by the prefix scan
	kvs, err = s.LoadKeyValues("bob.mvx")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"avatar": "ipfs://y"}, kvs)
}

func TestStoreSubDomains(t *testing.T) {
	s := newTestStore(t)

	subs, err := s.LoadSubDomains("alice.mvx")
	assert.NoError(t, err)
	assert.Empty(t, subs)

	want := []schema.SubDomain{
		{Name: "blog.alice.mvx", Address: "erd1alice"},
		{Name: "shop.alice.mvx", Address: "erd1bob"},
	}
	assert.NoError(t, s.SaveSubDomains("alice.mvx", want))
	subs, err = s.LoadSubDomains("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, want, subs)
}

func TestStoreReservation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadReservation("alice")
	assert.ErrorIs(t, err, schema.ErrNotExist)

	res := schema.Reservation{Name: "alice", ReservedFor: "erd1alice", Until: testEpoch}
	assert.NoError(t, s.SaveReservation(res))
	got, err := s.LoadReservation("alice")
	assert.NoError(t, err)
	assert.Equal(t, res, got)

	assert.NoError(t, s.DelReservation("alice"))
	_, err = s.LoadReservation("alice")
	assert.ErrorIs(t, err, schema.ErrNotExist)
}

func TestStorePendingReq(t *testing.T) {
	s := newTestStore(t)

	req := schema.PendingRequest{
		ID:       "corr-1",
		Kind:     schema.PendingRegister,
		Caller:   "erd1alice",
		Name:     "alice.mvx",
		Payments: []schema.Payment{{Token: schema.NativeToken, Amount: "100"}},
	}
	assert.NoError(t, s.SavePendingReq(req))
	got, err := s.LoadPendingReq("corr-1")
	assert.NoError(t, err)
	assert.Equal(t, req, got)

	assert.NoError(t, s.DelPendingReq("corr-1"))
	_, err = s.LoadPendingReq("corr-1")
	assert.ErrorIs(t, err, schema.ErrNotExist)
}

func TestStoreConstants(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadMigrationStart()
	assert.ErrorIs(t, err, schema.ErrNotExist)
	assert.NoError(t, s.SaveMigrationStart(testEpoch))
	start, err := s.LoadMigrationStart()
	assert.NoError(t, err)
	assert.Equal(t, testEpoch, start)

	tlds, err := s.LoadAllowedTlds()
	assert.NoError(t, err)
	assert.Empty(t, tlds)
	assert.NoError(t, s.SaveAllowedTlds([]string{"mvx", "elrond"}))
	tlds, err = s.LoadAllowedTlds()
	assert.NoError(t, err)
	assert.Equal(t, []string{"mvx", "elrond"}, tlds)

	royalties, err := s.LoadRoyalties()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), royalties)
	assert.NoError(t, s.SaveRoyalties(500))
	royalties, err = s.LoadRoyalties()
	assert.NoError(t, err)
	assert.Equal(t, uint64(500), royalties)
}
