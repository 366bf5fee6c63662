package rawdb

import (
	"bytes"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/mvxns/nameserv/schema"
)

// refer https://help.aliyun.com/document_detail/32157.html
const (
	ossErrorNoSuchKey = "NoSuchKey"
	AliyunType        = "aliyun"
)

type AliyunDB struct {
	bucketPrefix string
	client       *oss.Client
}

func NewAliyunDB(endpoint, accKey, accessKeySecret, bktPrefix string) (*AliyunDB, error) {
	client, err := oss.New(endpoint, accKey, accessKeySecret)
	if err != nil {
		return nil, err
	}

	if err := createAliyunBuckets(client, bktPrefix); err != nil {
		return nil, err
	}

	log.Info("run with aliyun oss success")

	return &AliyunDB{
		bucketPrefix: bktPrefix,
		client:       client,
	}, nil
}

func (a *AliyunDB) Type() string {
	return AliyunType
}

func (a *AliyunDB) Put(bucket, key string, value []byte) (err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return err
	}
	return bkt.PutObject(key, bytes.NewReader(value))
}

func (a *AliyunDB) Get(bucket, key string) (data []byte, err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return nil, err
	}
	body, err := bkt.GetObject(key)
	if err != nil {
		if strings.Contains(err.Error(), ossErrorNoSuchKey) {
			return nil, schema.ErrNotExist
		}
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (a *AliyunDB) GetAllKey(bucket string) (keys []string, err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return nil, err
	}
	keys = make([]string, 0)
	marker := ""
	for {
		lsRes, err := bkt.ListObjects(oss.Marker(marker))
		if err != nil {
			return nil, err
		}
		for _, object := range lsRes.Objects {
			keys = append(keys, object.Key)
		}
		if !lsRes.IsTruncated {
			break
		}
		marker = lsRes.NextMarker
	}
	return
}

func (a *AliyunDB) Delete(bucket, key string) (err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return err
	}
	return bkt.DeleteObject(key)
}

func (a *AliyunDB) Exist(bucket, key string) bool {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return false
	}
	exist, err := bkt.IsObjectExist(key)
	return err == nil && exist
}

func (a *AliyunDB) Close() (err error) {
	return
}

func createAliyunBuckets(client *oss.Client, prefix string) error {
	for _, bucketName := range allBuckets() {
		bkt := getS3Bucket(prefix, bucketName)
		exist, err := client.IsBucketExist(bkt)
		if err != nil {
			return err
		}
		if exist {
			continue
		}
		if err := client.CreateBucket(bkt); err != nil {
			return err
		}
	}
	return nil
}
