package nameserv

import (
	"strings"
	"testing"

	"github.com/mvxns/nameserv/schema"
	"github.com/stretchr/testify/assert"
)

func TestIsNameValid(t *testing.T) {
	tlds := []string{"mvx"}

	cases := []struct {
		name    string
		domain  string
		wantErr error
	}{
		{"simple", "alice.mvx", nil},
		{"digits", "a1b2.mvx", nil},
		{"subdomain depth", "pay.alice.mvx", nil},
		{"too short", "a.b", schema.ErrNameTooShort},
		{"exactly min length", "a.v", schema.ErrNameTooShort},
		{"too long", strings.Repeat("a", 253) + ".mvx", schema.ErrNameTooLong},
		{"max length ok", strings.Repeat("a", 252) + ".mvx", nil},
		{"uppercase", "Alice.mvx", schema.ErrNameBadChar},
		{"underscore", "ali_ce.mvx", schema.ErrNameBadChar},
		{"space", "ali ce.mvx", schema.ErrNameBadChar},
		{"unicode", "ålice.mvx", schema.ErrNameBadChar},
		{"no separator", "alice", schema.ErrNameNoTld},
		{"wrong tld", "alice.com", schema.ErrNameBadTld},
		{"tld case sensitive", "alice.MVX", schema.ErrNameBadChar},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := isNameValid(c.domain, tlds)
			if c.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, c.wantErr)
			}
		})
	}
}

func TestIsNameValidEmptyAllowList(t *testing.T) {
	assert.ErrorIs(t, isNameValid("alice.mvx", nil), schema.ErrNameBadTld)
}

func TestPrimaryDomain(t *testing.T) {
	primary, err := primaryDomain("pay.alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "alice.mvx", primary)

	primary, err = primaryDomain("deep.pay.alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "alice.mvx", primary)

	primary, err = primaryDomain("alice.mvx")
	assert.NoError(t, err)
	assert.Equal(t, "alice.mvx", primary)

	_, err = primaryDomain("alice")
	assert.ErrorIs(t, err, schema.ErrNameBadLabels)

	_, err = primaryDomain(".mvx")
	assert.ErrorIs(t, err, schema.ErrNameZeroLabel)
}

func TestSplitLabels(t *testing.T) {
	assert.Equal(t, []string{"pay", "alice", "mvx"}, splitLabels("pay.alice.mvx"))
	assert.Equal(t, []string{"alice"}, splitLabels("alice"))
}
