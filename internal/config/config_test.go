package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "")
	t.Setenv("LOG_LEVEL", "")

	c := Load()
	if c.DBDriver != DriverMySQL {
		t.Errorf("DBDriver = %q, want mysql", c.DBDriver)
	}
	if c.IdempTTLSecs != 300 {
		t.Errorf("IdempTTLSecs = %d, want 300", c.IdempTTLSecs)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", c.LogLevel)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "60")
	t.Setenv("LOG_FORMAT", "text")

	c := Load()
	if c.DBDriver != DriverSQLite || c.SQLitePath != ":memory:" || !c.DBAutoMigrate {
		t.Fatalf("db overrides not applied: %+v", c)
	}
	if c.RedisDB != 3 || c.IdempTTLSecs != 60 || c.LogFormat != "text" {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "soon")
	t.Setenv("DB_AUTO_MIGRATE", "maybe")

	c := Load()
	if c.RedisDB != 0 || c.IdempTTLSecs != 300 || c.DBAutoMigrate {
		t.Fatalf("bad values should fall back to defaults: %+v", c)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: DriverMySQL,
			MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
			IdempTTLSecs: 10,
		}
	}
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"no port", func(c *Config) { c.AppPort = "" }, "APP_PORT"},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "abc" }, "MYSQL_PORT"},
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }, "MySQL"},
		{"sqlite no path", func(c *Config) { c.DBDriver = DriverSQLite }, "SQLITE_PATH"},
		{"unknown driver", func(c *Config) { c.DBDriver = "postgres" }, "DB_DRIVER"},
		{"ttl zero", func(c *Config) { c.IdempTTLSecs = 0 }, "IDEMPOTENCY_TTL_SECONDS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPass: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "pawn"}
	dsn := c.MySQLDSN()
	if !strings.HasPrefix(dsn, "u:p@tcp(db:3306)/pawn?") || !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("unexpected DSN: %s", dsn)
	}
}
