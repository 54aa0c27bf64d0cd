package factory

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/meethub/meethub-server/pkg/config"
)

func buildDSN(username, password, host string, port int32, dbName, charset, loc string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		username, password, host, port, dbName, charset, loc)
}

func NewDatabaseConnection(appCnf *config.AppConfig) error {
	info := appCnf.DatabaseInfo

	charset := "utf8mb4"
	if info.Charset != nil {
		charset = *info.Charset
	}
	loc := "UTC"
	if info.Loc != nil {
		loc = *info.Loc
	}

	cnf := &gorm.Config{}
	if !appCnf.Client.Debug {
		cnf.Logger = logger.New(
			appCnf.Logger,
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	} else {
		cnf.Logger = logger.Default.LogMode(logger.Info)
	}

	dsn := buildDSN(info.Username, info.Password, info.Host, info.Port, info.DBName, charset, loc)
	db, err := gorm.Open(mysql.New(mysql.Config{DSN: dsn}), cnf)
	if err != nil {
		return err
	}

	if len(info.Replicas) > 0 {
		var replicas []gorm.Dialector
		for _, r := range info.Replicas {
			rdsn := buildDSN(r.Username, r.Password, r.Host, r.Port, info.DBName, charset, loc)
			replicas = append(replicas, mysql.New(mysql.Config{DSN: rdsn}))
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return err
		}
	}

	d, err := db.DB()
	if err != nil {
		return err
	}

	maxLifetime := time.Minute * 4
	if info.ConnMaxLifetime != nil {
		maxLifetime = *info.ConnMaxLifetime
	}
	maxOpen := 100
	if info.MaxOpenConns != nil {
		maxOpen = *info.MaxOpenConns
	}
	d.SetConnMaxLifetime(maxLifetime)
	d.SetMaxOpenConns(maxOpen)

	appCnf.ORM = db
	return nil
}
