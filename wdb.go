package nameserv

import (
	"math/big"
	"os"
	"path"
	"time"

	"github.com/mvxns/nameserv/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteName = "nameserv.sqlite"

type Wdb struct {
	Db *gorm.DB
}

func NewWdb(dsn string) *Wdb {
	logLevel := logger.Error
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logLevel),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.Order{}, &schema.Receipt{}, &schema.RentalFee{}, &schema.ExchangeRate{})
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

// fee schedule, single row

func (w *Wdb) GetRentalFee() (res schema.RentalFee, err error) {
	err = w.Db.First(&res).Error
	if err == gorm.ErrRecordNotFound {
		res = schema.DefaultRentalFee
		err = w.Db.Create(&res).Error
	}
	return
}

func (w *Wdb) UpdateRentalFee(fee schema.RentalFee) error {
	fee.ID = 1
	fee.UpdatedAt = time.Now()
	return w.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&fee).Error
}

// exchange rate, single row

func (w *Wdb) GetExchangeRate() (res schema.ExchangeRate, err error) {
	err = w.Db.First(&res).Error
	if err == gorm.ErrRecordNotFound {
		err = nil
		res = schema.ExchangeRate{ID: 1, Rate: "0"}
	}
	return
}

func (w *Wdb) UpdateExchangeRate(rate *big.Int) error {
	record := &schema.ExchangeRate{
		ID:        1,
		Rate:      rate.String(),
		UpdatedAt: time.Now(),
	}
	return w.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(record).Error
}

// orders

func (w *Wdb) InsertOrder(order schema.Order) error {
	return w.Db.Create(&order).Error
}

func (w *Wdb) GetOrdersByName(name string) ([]schema.Order, error) {
	res := make([]schema.Order, 0, 10)
	err := w.Db.Model(&schema.Order{}).Where("domain_name = ?", name).Order("id desc").Find(&res).Error
	return res, err
}

func (w *Wdb) GetOrdersByCaller(caller string) ([]schema.Order, error) {
	res := make([]schema.Order, 0, 10)
	err := w.Db.Model(&schema.Order{}).Where("caller = ?", caller).Order("id desc").Find(&res).Error
	return res, err
}

// receipts

func (w *Wdb) InsertReceipt(receipt schema.Receipt) error {
	return w.Db.Create(&receipt).Error
}

func (w *Wdb) GetReceiptsByStatus(status string) ([]schema.Receipt, error) {
	res := make([]schema.Receipt, 0)
	err := w.Db.Model(&schema.Receipt{}).Where("status = ?", status).Find(&res).Error
	return res, err
}

func (w *Wdb) UpdateReceiptStatus(id uint, status string, tx *gorm.DB) error {
	db := w.Db
	if tx != nil {
		db = tx
	}
	return db.Model(&schema.Receipt{}).Where("id = ?", id).Update("status", status).Error
}

func (w *Wdb) UpdateRefundResult(id uint, everHash string, status string) error {
	return w.Db.Model(&schema.Receipt{}).Where("id = ?", id).Updates(map[string]interface{}{
		"ever_hash": everHash,
		"status":    status,
	}).Error
}
