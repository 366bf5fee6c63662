package schema

type RespErr struct {
	Err string `json:"error"`
}

type RegisterReq struct {
	Caller   string    `json:"caller"`
	Name     string    `json:"name"`
	Period   uint64    `json:"period"`
	Unit     string    `json:"unit"` // year, month, day, hour, minute
	AssignTo string    `json:"assignTo,omitempty"`
	Payments []Payment `json:"payments"`
}

type RespRegister struct {
	Name      string `json:"name"`
	ExpiresAt uint64 `json:"expiresAt"`
	CertNonce uint64 `json:"certNonce"`
	Fee       string `json:"fee"`
	Excess    string `json:"excess"`
}

type SubDomainReq struct {
	Caller   string    `json:"caller"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	Payments []Payment `json:"payments"`
}

type RespSubDomain struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Fee     string `json:"fee"`
	Excess  string `json:"excess"`
}

type MigrateReq struct {
	Caller string `json:"caller"`
	Name   string `json:"name"` // legacy name
}

type TransferReq struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"newOwner"`
}

type AssignReq struct {
	Caller   string `json:"caller"`
	AssignTo string `json:"assignTo,omitempty"` // empty clears the binding
}

type KeyValueReq struct {
	Caller string `json:"caller"`
	Key    string `json:"key"`
	Value  string `json:"value,omitempty"` // empty clears the record
}

type ProfileReq struct {
	Caller     string       `json:"caller"`
	Profile    *Profile     `json:"profile,omitempty"`
	Socials    *SocialMedia `json:"socialMedia,omitempty"`
	Wallets    *Wallets     `json:"wallets,omitempty"`
	TextRecord []TextRecord `json:"textRecord,omitempty"`
}

type ReservationsReq struct {
	Reservations []Reservation `json:"reservations"`
}

type ClearReservationsReq struct {
	Names []string `json:"names"`
}

type PriceReq struct {
	Bucket    string `json:"bucket"`    // "1".."4" or "other"
	AnnualFee uint64 `json:"annualFee"` // usd cents per year
}

type RespFees struct {
	OneLetter   uint64 `json:"oneLetter"`
	TwoLetter   uint64 `json:"twoLetter"`
	ThreeLetter uint64 `json:"threeLetter"`
	FourLetter  uint64 `json:"fourLetter"`
	Other       uint64 `json:"other"`
}

type RespRate struct {
	Rate      string `json:"rate"` // native base units per usd cent
	UpdatedAt int64  `json:"updatedAt"`
}

type RespResolve struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}
