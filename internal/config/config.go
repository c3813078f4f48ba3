package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultUser     = "evergreen"
	DefaultDatabase = "evergreen"
)

// Runtime holds process settings that only come from the environment.
type Runtime struct {
	LogLevel  string `env:"REINGEST_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"REINGEST_LOG_FORMAT" envDefault:"console"`
}

func LoadRuntime() (Runtime, error) {
	var r Runtime
	if err := env.Parse(&r); err != nil {
		return r, errors.Wrap(err, "parsing runtime environment")
	}
	return r, nil
}

// pgEnv mirrors the libpq environment variables. Zero values mean unset.
type pgEnv struct {
	Host     string `env:"PGHOST"`
	Port     uint16 `env:"PGPORT"`
	User     string `env:"PGUSER"`
	Database string `env:"PGDATABASE"`
	AppName  string `env:"PGAPPNAME"`
}

// ConnParams are fully resolved connection settings.
type ConnParams struct {
	Host           string
	Port           uint16
	User           string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
}

// DSN renders p as a libpq keyword/value connection string.
func (p ConnParams) DSN() string {
	parts := []string{
		"host=" + quote(p.Host),
		fmt.Sprintf("port=%d", p.Port),
		"user=" + quote(p.User),
		"dbname=" + quote(p.Database),
	}
	if p.AppName != "" {
		parts = append(parts, "application_name="+quote(p.AppName))
	}
	if p.ConnectTimeout > 0 {
		secs := int(p.ConnectTimeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", secs))
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// ConnBuilder collects connection settings. Each field takes the first value
// found in this order: a Set call, a changed command line flag, the libpq
// environment variable, the package default.
type ConnBuilder struct {
	host, user, database, appName *string
	port                          *uint16
	connectTimeout                time.Duration
}

func NewConnBuilder() *ConnBuilder { return &ConnBuilder{} }

func (b *ConnBuilder) SetHost(v string)     { b.host = &v }
func (b *ConnBuilder) SetPort(v uint16)     { b.port = &v }
func (b *ConnBuilder) SetUser(v string)     { b.user = &v }
func (b *ConnBuilder) SetDatabase(v string) { b.database = &v }
func (b *ConnBuilder) SetAppName(v string)  { b.appName = &v }

func (b *ConnBuilder) SetConnectTimeout(d time.Duration) { b.connectTimeout = d }

// AddFlags registers the connection flags read by ApplyFlags.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("db-host", DefaultHost, "Database host")
	fs.Uint16("db-port", DefaultPort, "Database port")
	fs.String("db-user", DefaultUser, "Database user")
	fs.String("db-name", DefaultDatabase, "Database name")
	fs.String("db-app-name", "", "Application name reported to the database")
}

// ApplyFlags copies flags the user actually passed, leaving fields that were
// already set untouched.
func (b *ConnBuilder) ApplyFlags(fs *pflag.FlagSet) error {
	str := func(name string, dst **string) error {
		if *dst != nil || !fs.Changed(name) {
			return nil
		}
		v, err := fs.GetString(name)
		if err != nil {
			return errors.Wrapf(err, "reading --%s", name)
		}
		*dst = &v
		return nil
	}
	for name, dst := range map[string]**string{
		"db-host":     &b.host,
		"db-user":     &b.user,
		"db-name":     &b.database,
		"db-app-name": &b.appName,
	} {
		if err := str(name, dst); err != nil {
			return err
		}
	}
	if b.port == nil && fs.Changed("db-port") {
		v, err := fs.GetUint16("db-port")
		if err != nil {
			return errors.Wrap(err, "reading --db-port")
		}
		b.port = &v
	}
	return nil
}

func (b *ConnBuilder) Build() (ConnParams, error) {
	var e pgEnv
	if err := env.Parse(&e); err != nil {
		return ConnParams{}, errors.Wrap(err, "parsing database environment")
	}

	p := ConnParams{
		Host:           pick(b.host, e.Host, DefaultHost),
		User:           pick(b.user, e.User, DefaultUser),
		Database:       pick(b.database, e.Database, DefaultDatabase),
		AppName:        pick(b.appName, e.AppName, ""),
		Port:           DefaultPort,
		ConnectTimeout: b.connectTimeout,
	}
	switch {
	case b.port != nil:
		p.Port = *b.port
	case e.Port != 0:
		p.Port = e.Port
	}
	return p, nil
}

func pick(set *string, fromEnv, def string) string {
	if set != nil {
		return *set
	}
	if fromEnv != "" {
		return fromEnv
	}
	return def
}
