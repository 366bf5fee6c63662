package schema

// kafka event types
const (
	EventRegistered  = "registered"
	EventRenewed     = "renewed"
	EventTransferred = "transferred"
	EventMigrated    = "migrated"
	EventExpired     = "expired" // emitted lazily when a reclaim resets ownership
)

// DomainEvent is the payload published to the registry event stream.
type DomainEvent struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	ExpiresAt uint64 `json:"expiresAt"`
	CertNonce uint64 `json:"certNonce"`
	At        uint64 `json:"at"` // unix seconds
}
