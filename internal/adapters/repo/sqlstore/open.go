package sqlstore

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/phenrril/gge-dashboard/internal/config"
	"github.com/phenrril/gge-dashboard/internal/domain"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ResolveDriver uses DB_DRIVER when set and otherwise guesses from the DSN.
func ResolveDriver(c config.DBConfig) string {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	case "mysql", "mariadb":
		return DriverMySQL
	}
	dsn := strings.TrimSpace(c.DSN)
	switch {
	case strings.HasPrefix(dsn, "mysql://"), strings.Contains(dsn, "@tcp("), strings.Contains(dsn, "@unix("):
		return DriverMySQL
	default:
		return DriverPostgres
	}
}

// DSN builds the driver specific connection string.
func DSN(c config.DBConfig) (string, error) {
	switch ResolveDriver(c) {
	case DriverMySQL:
		return mysqlDSN(c)
	default:
		return postgresDSN(c), nil
	}
}

func postgresDSN(c config.DBConfig) string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	port := c.Port
	if port == "" {
		port = "5432"
	}
	ssl := c.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	dsn := "host=" + c.Host + " user=" + c.User + " password=" + c.Password + " dbname=" + c.Name + " port=" + port + " sslmode=" + ssl
	if c.Timeout > 0 {
		// libpq takes whole seconds and reads 0 as "wait forever"
		dsn += fmt.Sprintf(" connect_timeout=%d", int(math.Ceil(c.Timeout.Seconds())))
	}
	return dsn
}

func mysqlDSN(c config.DBConfig) (string, error) {
	var mc *mysql.Config
	dsn := strings.TrimSpace(c.DSN)
	switch {
	case strings.HasPrefix(dsn, "mysql://"):
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("mysql url: %w", err)
		}
		mc = mysql.NewConfig()
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
		mc.Net = "tcp"
		mc.Addr = u.Host
		if u.Port() == "" {
			mc.Addr = net.JoinHostPort(u.Hostname(), "3306")
		}
		mc.DBName = strings.TrimPrefix(u.Path, "/")
	case dsn != "":
		parsed, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("mysql dsn: %w", err)
		}
		mc = parsed
	default:
		port := c.Port
		if port == "" {
			port = "3306"
		}
		mc = mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, port)
		mc.DBName = c.Name
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	if c.Timeout > 0 {
		mc.Timeout = c.Timeout
		mc.ReadTimeout = c.Timeout
		mc.WriteTimeout = c.Timeout
	}
	return mc.FormatDSN(), nil
}

func Dialector(c config.DBConfig) (gorm.Dialector, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}
	if ResolveDriver(c) == DriverMySQL {
		return gormmysql.Open(dsn), nil
	}
	return postgres.Open(dsn), nil
}

// Open connects and pings the configured store.
func Open(c config.DBConfig) (*gorm.DB, error) {
	if !c.Configured() {
		return nil, domain.ErrNoDatabase
	}
	dialector, err := Dialector(c)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
