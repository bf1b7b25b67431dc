package datasource

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Supported values of Config.Driver.
const (
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
)

// Pool defaults, applied when the matching ConnectionDetails field is zero.
const (
	DefaultMaxOpenConns    = 50
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = time.Minute
)

// Config describes one named data source.
type Config struct {
	// Name identifies the data source in the router, in logs and in metric labels.
	Name string `yaml:"name"`

	// Driver is one of DriverPostgres, DriverMySQL or DriverSQLServer.
	// DriverSQLServer is only supported by OpenBasic.
	Driver string `yaml:"driver"`

	// DSN, when set, is passed to the driver as is and Connection is ignored.
	DSN string `yaml:"dsn" json:"-"` //nolint:gosec

	Connection Connection `yaml:"connection"`

	ConnectionDetails ConnectionDetails `yaml:"connection_details"`

	// PingOnOpen makes the constructors verify connectivity before returning.
	// When false nothing touches the network until the first connection is requested.
	PingOnOpen bool `yaml:"ping_on_open"`
}

// Connection holds the parameters a DSN is built from.
type Connection struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password" json:"-"` //nolint:gosec
	DbName   string `yaml:"db_name"`

	// SSLMode is only used by PostgreSQL ("disable", "require", "verify-full", ...).
	SSLMode string `yaml:"ssl_mode"`

	// Params are extra driver parameters appended to the DSN.
	Params map[string]string `yaml:"params"`
}

// ConnectionDetails configures the database/sql pool.
type ConnectionDetails struct {
	// MaxOpenConns defaults to DefaultMaxOpenConns.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns defaults to DefaultMaxIdleConns.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// ConnMaxLifetime defaults to DefaultConnMaxLifetime.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// ConnMaxIdleTime is left to database/sql when zero.
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

func (d ConnectionDetails) apply(db *sql.DB) {
	maxOpen := d.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	maxIdle := d.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}
	maxLifetime := d.ConnMaxLifetime
	if maxLifetime <= 0 {
		maxLifetime = DefaultConnMaxLifetime
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	if d.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(d.ConnMaxIdleTime)
	}
}

// DataSourceName returns the DSN handed to the driver.
func (c Config) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}

	switch c.Driver {
	case DriverPostgres:
		return c.postgresDSN(), nil
	case DriverMySQL:
		return c.mysqlDSN(), nil
	case DriverSQLServer:
		return c.sqlServerDSN(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}

func (c Config) postgresDSN() string {
	conn := c.Connection
	parts := []string{
		pgKV("host", conn.Host),
		pgKV("port", conn.Port),
		pgKV("user", conn.User),
		pgKV("password", conn.Password),
		pgKV("dbname", conn.DbName),
	}
	if conn.SSLMode != "" {
		parts = append(parts, pgKV("sslmode", conn.SSLMode))
	}
	for _, k := range sortedKeys(conn.Params) {
		parts = append(parts, pgKV(k, conn.Params[k]))
	}
	return strings.Join(parts, " ")
}

// pgKV renders one keyword/value pair of a libpq connection string. Values
// that are empty or contain spaces, quotes or backslashes are single-quoted
// with quotes and backslashes escaped.
func pgKV(key, value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return key + "=" + value
	}
	value = strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return key + "='" + value + "'"
}

func (c Config) mysqlDSN() string {
	conn := c.Connection

	cfg := mysql.NewConfig()
	cfg.User = conn.User
	cfg.Passwd = conn.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(conn.Host, conn.Port)
	cfg.DBName = conn.DbName
	cfg.ParseTime = true
	if len(conn.Params) > 0 {
		cfg.Params = make(map[string]string, len(conn.Params))
		for k, v := range conn.Params {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN()
}

func (c Config) sqlServerDSN() string {
	conn := c.Connection

	query := url.Values{}
	if conn.DbName != "" {
		query.Set("database", conn.DbName)
	}
	for k, v := range conn.Params {
		query.Set(k, v)
	}

	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(conn.User, conn.Password),
		Host:     net.JoinHostPort(conn.Host, conn.Port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
