package nameserv

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mvxns/nameserv/rawdb"
	"github.com/mvxns/nameserv/schema"
)

type Store struct {
	KVDb rawdb.KeyValueDB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	boltDb, err := rawdb.NewBoltDB(boltDirPath)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: boltDb}, nil
}

func NewS3Store(accKey, secretKey, region, bucketPrefix, endpoint string) (*Store, error) {
	s3Db, err := rawdb.NewS3DB(accKey, secretKey, region, bucketPrefix, endpoint)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: s3Db}, nil
}

func NewAliyunStore(endpoint, accKey, secretKey, bucketPrefix string) (*Store, error) {
	aliyunDb, err := rawdb.NewAliyunDB(endpoint, accKey, secretKey, bucketPrefix)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: aliyunDb}, nil
}

func NewMongoStore(uri string) (*Store, error) {
	mongoDb, err := rawdb.NewMongoDB(context.Background(), uri)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: mongoDb}, nil
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

// domain records

func (s *Store) SaveDomain(rec schema.DomainRecord) error {
	val, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.DomainBucket, rec.Name, val)
}

func (s *Store) LoadDomain(name string) (rec schema.DomainRecord, err error) {
	data, err := s.KVDb.Get(schema.DomainBucket, name)
	if err != nil {
		return
	}
	err = json.Unmarshal(data, &rec)
	return
}

func (s *Store) IsExistDomain(name string) bool {
	return s.KVDb.Exist(schema.DomainBucket, name)
}

// owners

func (s *Store) SaveOwner(name, addr string) error {
	return s.KVDb.Put(schema.OwnerBucket, name, []byte(addr))
}

func (s *Store) LoadOwner(name string) (string, error) {
	data, err := s.KVDb.Get(schema.OwnerBucket, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resolutions

func (s *Store) SaveResolve(name, addr string) error {
	return s.KVDb.Put(schema.ResolveBucket, name, []byte(addr))
}

func (s *Store) LoadResolve(name string) (string, error) {
	data, err := s.KVDb.Get(schema.ResolveBucket, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) DelResolve(name string) error {
	return s.KVDb.Delete(schema.ResolveBucket, name)
}

// accept requests

func (s *Store) SaveAcceptRequest(name, addr string) error {
	return s.KVDb.Put(schema.AcceptBucket, name, []byte(addr))
}

func (s *Store) LoadAcceptRequest(name string) (string, error) {
	data, err := s.KVDb.Get(schema.AcceptBucket, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) DelAcceptRequest(name string) error {
	return s.KVDb.Delete(schema.AcceptBucket, name)
}

// free-form key values, keyed by "<name>/<key>"

func kvKey(name, key string) string {
	return name + "/" + key
}

func (s *Store) SaveKeyValue(name, key, value string) error {
	return s.KVDb.Put(schema.KeyValueBucket, kvKey(name, key), []byte(value))
}

func (s *Store) LoadKeyValue(name, key string) (string, error) {
	data, err := s.KVDb.Get(schema.KeyValueBucket, kvKey(name, key))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) DelKeyValue(name, key string) error {
	return s.KVDb.Delete(schema.KeyValueBucket, kvKey(name, key))
}

func (s *Store) LoadKeyValues(name string) (map[string]string, error) {
	keys, err := s.KVDb.GetAllKey(schema.KeyValueBucket)
	if err != nil {
		return nil, err
	}
	kvs := make(map[string]string)
	prefix := name + "/"
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		data, err := s.KVDb.Get(schema.KeyValueBucket, k)
		if err != nil {
			return nil, err
		}
		kvs[strings.TrimPrefix(k, prefix)] = string(data)
	}
	return kvs, nil
}

// sub domains, the whole list stored under the primary name

func (s *Store) SaveSubDomains(primaryName string, subs []schema.SubDomain) error {
	val, err := json.Marshal(&subs)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.SubDomainBucket, primaryName, val)
}

func (s *Store) LoadSubDomains(primaryName string) ([]schema.SubDomain, error) {
	data, err := s.KVDb.Get(schema.SubDomainBucket, primaryName)
	if err != nil {
		if err == schema.ErrNotExist {
			return []schema.SubDomain{}, nil
		}
		return nil, err
	}
	subs := make([]schema.SubDomain, 0)
	err = json.Unmarshal(data, &subs)
	return subs, err
}

// reservations

func (s *Store) SaveReservation(res schema.Reservation) error {
	val, err := json.Marshal(&res)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.ReservationBucket, res.Name, val)
}

func (s *Store) LoadReservation(name string) (res schema.Reservation, err error) {
	data, err := s.KVDb.Get(schema.ReservationBucket, name)
	if err != nil {
		return
	}
	err = json.Unmarshal(data, &res)
	return
}

func (s *Store) DelReservation(name string) error {
	return s.KVDb.Delete(schema.ReservationBucket, name)
}

// pending requests for in-flight oracle round trips

func (s *Store) SavePendingReq(req schema.PendingRequest) error {
	val, err := json.Marshal(&req)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.PendingReqBucket, req.ID, val)
}

func (s *Store) LoadPendingReq(id string) (req schema.PendingRequest, err error) {
	data, err := s.KVDb.Get(schema.PendingReqBucket, id)
	if err != nil {
		return
	}
	err = json.Unmarshal(data, &req)
	return
}

func (s *Store) DelPendingReq(id string) error {
	return s.KVDb.Delete(schema.PendingReqBucket, id)
}

// registry constants

func (s *Store) SaveMigrationStart(timestamp uint64) error {
	return s.KVDb.Put(schema.ConstantsBucket, schema.KeyMigrationStart, []byte(strconv.FormatUint(timestamp, 10)))
}

func (s *Store) LoadMigrationStart() (uint64, error) {
	data, err := s.KVDb.Get(schema.ConstantsBucket, schema.KeyMigrationStart)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(data), 10, 64)
}

func (s *Store) SaveAllowedTlds(tlds []string) error {
	val, err := json.Marshal(&tlds)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.ConstantsBucket, schema.KeyAllowedTlds, val)
}

func (s *Store) LoadAllowedTlds() ([]string, error) {
	data, err := s.KVDb.Get(schema.ConstantsBucket, schema.KeyAllowedTlds)
	if err != nil {
		if err == schema.ErrNotExist {
			return []string{}, nil
		}
		return nil, err
	}
	tlds := make([]string, 0)
	err = json.Unmarshal(data, &tlds)
	return tlds, err
}

func (s *Store) SaveRoyalties(royalties uint64) error {
	return s.KVDb.Put(schema.ConstantsBucket, schema.KeyRoyalties, []byte(strconv.FormatUint(royalties, 10)))
}

func (s *Store) LoadRoyalties() (uint64, error) {
	data, err := s.KVDb.Get(schema.ConstantsBucket, schema.KeyRoyalties)
	if err != nil {
		if err == schema.ErrNotExist {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseUint(string(data), 10, 64)
}
