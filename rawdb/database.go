package rawdb

import (
	"github.com/mvxns/nameserv/common"
	"github.com/mvxns/nameserv/schema"
)

var log = common.NewLog("nameserv")

// KeyValueDB is the persistence boundary for the registry state. Values are
// small json blobs keyed per bucket, so every backend only needs plain
// bucket/key/value semantics.
type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	Exist(bucket, key string) bool

	Close() (err error)

	Type() string
}

// allBuckets is the fixed set of buckets every backend provisions at start.
func allBuckets() []string {
	return []string{
		schema.DomainBucket,
		schema.OwnerBucket,
		schema.ResolveBucket,
		schema.AcceptBucket,
		schema.KeyValueBucket,
		schema.SubDomainBucket,
		schema.ReservationBucket,
		schema.PendingReqBucket,
		schema.ConstantsBucket,
	}
}
