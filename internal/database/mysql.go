package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/config"
)

// BuildMySQLDSN constructs a go-sql-driver DSN, e.g. user:pass@tcp(host:3306)/dbname?parseTime=true
func BuildMySQLDSN(c config.DatabaseConfig) (string, error) {
	if err := checkConfig(c); err != nil {
		return "", err
	}

	mc := mysqldriver.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.Name
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

// NewMySQL opens a gorm connection over the MySQL driver and applies pooling settings.
// Driver errors are translated to gorm sentinels (e.g. gorm.ErrDuplicatedKey).
func NewMySQL(ctx context.Context, c config.DatabaseConfig) (*gorm.DB, error) {
	dsn, err := BuildMySQLDSN(c)
	if err != nil {
		return nil, err
	}

	sqlDB, err := openPool(ctx, "mysql", dsn, c)
	if err != nil {
		return nil, err
	}

	db, err := OpenGorm(sqlDB, false)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// OpenGorm wraps an already opened MySQL connection with gorm.
// skipVersion avoids the "SELECT VERSION()" handshake, which stub connections cannot answer.
func OpenGorm(sqlDB *sql.DB, skipVersion bool) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: skipVersion,
	}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return db, nil
}
