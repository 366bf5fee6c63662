package schema

// DomainRecord is the registry entry for a registered name. A record is
// created on first successful registration and never deleted afterwards,
// only its expiry, certificate linkage and metadata mutate.
type DomainRecord struct {
	Name      string `json:"name"`
	ExpiresAt uint64 `json:"expiresAt"` // unix seconds
	CertNonce uint64 `json:"certNonce"` // ownership certificate handle

	Profile    *Profile     `json:"profile,omitempty"`
	Socials    *SocialMedia `json:"socialMedia,omitempty"`
	Wallets    *Wallets     `json:"wallets,omitempty"`
	TextRecord []TextRecord `json:"textRecord,omitempty"`
}

type Profile struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Location string `json:"location"`
	Website  string `json:"website"`
	ShortBio string `json:"shortbio"`
}

type SocialMedia struct {
	Telegram  string `json:"telegram"`
	Discord   string `json:"discord"`
	Twitter   string `json:"twitter"`
	Medium    string `json:"medium"`
	Facebook  string `json:"facebook"`
	OtherLink string `json:"otherLink"`
}

type Wallets struct {
	Egld string `json:"egld"`
	Btc  string `json:"btc"`
	Eth  string `json:"eth"`
}

type TextRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Link  string `json:"link"`
}

// SubDomain binds a third-party label under a primary name to a
// resolution address.
type SubDomain struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Reservation is an admin-granted, time-boxed claim on a legacy name.
type Reservation struct {
	Name        string `json:"name"`
	ReservedFor string `json:"reservedFor"`
	Until       uint64 `json:"until"` // unix seconds, deadline
}

// Payment is one fungible component attached to a request.
type Payment struct {
	Token  string `json:"token"`
	Amount string `json:"amount"` // integer string, native base units
}

// pending async request kinds
const (
	PendingRegister    = "register"
	PendingSubDomain   = "subdomain"
	PendingRateRefresh = "rate_refresh"
)

// PendingRequest captures a suspended operation waiting on an oracle round
// trip. The original caller, payments and arguments ride along so the
// continuation can complete exactly once.
type PendingRequest struct {
	ID        string    `json:"id"` // correlation id
	Kind      string    `json:"kind"`
	Caller    string    `json:"caller"`
	Payments  []Payment `json:"payments"`
	CreatedAt uint64    `json:"createdAt"`

	// register
	Name     string `json:"name,omitempty"`
	Period   uint64 `json:"period,omitempty"`
	Unit     string `json:"unit,omitempty"`
	AssignTo string `json:"assignTo,omitempty"`

	// subdomain
	SubAddress string `json:"subAddress,omitempty"`
}
