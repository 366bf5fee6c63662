package nameserv

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/mvxns/nameserv/cache"
)

type Registrar struct {
	store  *Store
	wdb    *Wdb
	engine *gin.Engine

	// serializes all state mutating flows; the only blocking work done
	// outside of it is the oracle and certificate round trips
	stateLocker sync.Mutex

	cache        *Cache
	resolveCache *cache.Cache

	oracle Oracle
	pay    PayClient
	cert   CertClient
	kw     *KWriter

	scheduler *gocron.Scheduler

	adminKey string
	now      func() uint64 // injected clock, unix seconds
}

func New(
	boltDirPath, mySqlDsn string, sqliteDir string, useSqlite bool,
	oracleUrl, payUrl, certUrl string,
	useS3 bool, s3AccKey, s3SecretKey, s3BucketPrefix, s3Region, s3Endpoint string,
	useAliyun bool, aliyunEndpoint, aliyunAccKey, aliyunSecretKey, aliyunPrefix string,
	useMongo bool, mongoUri string,
	kafkaUri string, adminKey string, allowedTlds []string,
) *Registrar {
	var err error
	store := &Store{}
	switch {
	case useS3:
		store, err = NewS3Store(s3AccKey, s3SecretKey, s3Region, s3BucketPrefix, s3Endpoint)
	case useAliyun:
		store, err = NewAliyunStore(aliyunEndpoint, aliyunAccKey, aliyunSecretKey, aliyunPrefix)
	case useMongo:
		store, err = NewMongoStore(mongoUri)
	default:
		store, err = NewBoltStore(boltDirPath)
	}
	if err != nil {
		panic(err)
	}

	wdb := &Wdb{}
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewWdb(mySqlDsn)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	if len(allowedTlds) > 0 {
		if err = store.SaveAllowedTlds(allowedTlds); err != nil {
			panic(err)
		}
	}

	resolveCache, err := cache.NewLocalCache(5 * time.Minute)
	if err != nil {
		panic(err)
	}

	kw, err := NewKWriter(kafkaUri)
	if err != nil {
		log.Warn("run without kafka event stream", "err", err)
	}

	r := &Registrar{
		store:        store,
		wdb:          wdb,
		engine:       gin.Default(),
		cache:        NewCache(wdb, store),
		resolveCache: resolveCache,
		oracle:       NewHttpOracle(oracleUrl),
		pay:          NewHttpPay(payUrl),
		cert:         NewHttpCert(certUrl),
		kw:           kw,
		scheduler:    gocron.NewScheduler(time.UTC),
		adminKey:     adminKey,
		now:          func() uint64 { return uint64(time.Now().Unix()) },
	}
	return r
}

func (r *Registrar) Run(port string) {
	go r.runAPI(port)
	go r.runJobs()
}

func (r *Registrar) Close() {
	r.scheduler.Stop()
	if r.kw != nil {
		r.kw.Close()
	}
	r.wdb.Close()
	if err := r.store.Close(); err != nil {
		log.Error("close store", "err", err)
	}
}
