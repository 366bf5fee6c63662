package schema

var (
	// bucket
	DomainBucket      = "domain-bucket"      // key: name, val: json(DomainRecord)
	OwnerBucket       = "owner-bucket"       // key: name, val: owner account id
	ResolveBucket     = "resolve-bucket"     // key: name, val: resolution address
	AcceptBucket      = "accept-bucket"      // key: name, val: requested address
	KeyValueBucket    = "keyvalue-bucket"    // key: name+"/"+key, val: value
	SubDomainBucket   = "subdomain-bucket"   // key: primary name, val: json([]SubDomain)
	ReservationBucket = "reservation-bucket" // key: legacy name, val: json(Reservation)
	PendingReqBucket  = "pending-req-bucket" // key: correlation id, val: json(PendingRequest)
	ConstantsBucket   = "constants-bucket"   // migration start, tld list, royalties
)

// constants-bucket keys
const (
	KeyMigrationStart = "migration-start-time"
	KeyAllowedTlds    = "allowed-top-level-domains"
	KeyRoyalties      = "royalties"
)
