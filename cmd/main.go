package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mvxns/nameserv"
	"github.com/mvxns/nameserv/common"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "nameserv",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/nameserv?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},
			&cli.BoolFlag{Name: "use_sqlite", Value: false, Usage: "run with sqlite instead of mysql", EnvVars: []string{"USE_SQLITE"}},

			&cli.StringFlag{Name: "oracle", Value: "https://oracle.example.org", Usage: "price oracle url", EnvVars: []string{"ORACLE"}},
			&cli.StringFlag{Name: "pay", Value: "https://pay.example.org", Usage: "pay service url", EnvVars: []string{"PAY"}},
			&cli.StringFlag{Name: "cert", Value: "https://cert.example.org", Usage: "certificate service url", EnvVars: []string{"CERT"}},

			&cli.BoolFlag{Name: "s3_flag", Value: false, Usage: "run with s3 store", EnvVars: []string{"S3_FLAG"}},
			&cli.StringFlag{Name: "s3_acc_key", Value: "", Usage: "s3 access key", EnvVars: []string{"S3_ACC_KEY"}},
			&cli.StringFlag{Name: "s3_secret_key", Value: "", Usage: "s3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.StringFlag{Name: "s3_prefix", Value: "nameserv", Usage: "s3 bucket name prefix", EnvVars: []string{"S3_PREFIX"}},
			&cli.StringFlag{Name: "s3_region", Value: "ap-northeast-1", Usage: "s3 bucket region", EnvVars: []string{"S3_REGION"}},
			&cli.StringFlag{Name: "s3_endpoint", Value: "", Usage: "s3 compatible endpoint", EnvVars: []string{"S3_ENDPOINT"}},

			&cli.BoolFlag{Name: "aliyun_flag", Value: false, Usage: "run with aliyun oss store", EnvVars: []string{"ALIYUN_FLAG"}},
			&cli.StringFlag{Name: "aliyun_endpoint", Value: "", EnvVars: []string{"ALIYUN_ENDPOINT"}},
			&cli.StringFlag{Name: "aliyun_acc_key", Value: "", EnvVars: []string{"ALIYUN_ACC_KEY"}},
			&cli.StringFlag{Name: "aliyun_secret_key", Value: "", EnvVars: []string{"ALIYUN_SECRET_KEY"}},
			&cli.StringFlag{Name: "aliyun_prefix", Value: "nameserv", EnvVars: []string{"ALIYUN_PREFIX"}},

			&cli.BoolFlag{Name: "mongo_flag", Value: false, Usage: "run with mongodb store", EnvVars: []string{"MONGO_FLAG"}},
			&cli.StringFlag{Name: "mongo_uri", Value: "mongodb://localhost:27017", EnvVars: []string{"MONGO_URI"}},

			&cli.StringFlag{Name: "kafka_uri", Value: "", Usage: "kafka broker uri, empty disables the event stream", EnvVars: []string{"KAFKA_URI"}},
			&cli.StringFlag{Name: "admin_key", Value: "", Usage: "static admin api key", EnvVars: []string{"ADMIN_KEY"}},
			&cli.StringFlag{Name: "tlds", Value: "mvx", Usage: "comma separated top-level domain allow-list", EnvVars: []string{"TLDS"}},
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	r := nameserv.New(
		c.String("db_dir"), c.String("mysql"), c.String("sqlite_dir"), c.Bool("use_sqlite"),
		c.String("oracle"), c.String("pay"), c.String("cert"),
		c.Bool("s3_flag"), c.String("s3_acc_key"), c.String("s3_secret_key"), c.String("s3_prefix"), c.String("s3_region"), c.String("s3_endpoint"),
		c.Bool("aliyun_flag"), c.String("aliyun_endpoint"), c.String("aliyun_acc_key"), c.String("aliyun_secret_key"), c.String("aliyun_prefix"),
		c.Bool("mongo_flag"), c.String("mongo_uri"),
		c.String("kafka_uri"), c.String("admin_key"), strings.Split(c.String("tlds"), ","),
	)
	common.NewMetricServer()
	r.Run(c.String("port"))

	<-signals
	r.Close()
	return nil
}
