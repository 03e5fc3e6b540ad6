package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LookupFunc has the signature of [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

type Database struct {
	Username string
	Password string
	Host     string
	Port     uint16
	DBName   string
	SSLMode  string
}

func loadPassword(lookup LookupFunc) (string, error) {
	password, ok := lookup("POSTGRES_PASSWORD")
	if ok {
		return password, nil
	}

	passwordFile, ok := lookup("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", fmt.Errorf("no POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE env variable set")
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// NewDatabase collects connection settings from POSTGRES_* variables.
// POSTGRES_SSLMODE defaults to "disable".
func NewDatabase(lookup LookupFunc) (*Database, error) {
	required := func(key string) (string, error) {
		v, ok := lookup(key)
		if !ok {
			return "", fmt.Errorf("no %s env variable set", key)
		}
		return v, nil
	}

	username, err := required("POSTGRES_USER")
	if err != nil {
		return nil, err
	}
	password, err := loadPassword(lookup)
	if err != nil {
		return nil, fmt.Errorf("unable to load password: %w", err)
	}
	host, err := required("POSTGRES_HOST")
	if err != nil {
		return nil, err
	}
	portStr, err := required("POSTGRES_PORT")
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("unable to convert port to int: %w", err)
	}
	dbName, err := required("POSTGRES_DB")
	if err != nil {
		return nil, err
	}
	sslMode, ok := lookup("POSTGRES_SSLMODE")
	if !ok {
		sslMode = "disable"
	}

	return &Database{
		Username: username,
		Password: password,
		Host:     host,
		Port:     uint16(port),
		DBName:   dbName,
		SSLMode:  sslMode,
	}, nil
}

func (c Database) URL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Username),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

// DbURL prefers DATABASE_URL and falls back to the POSTGRES_* variables.
func DbURL(lookup LookupFunc) (string, error) {
	if dbURL, ok := lookup("DATABASE_URL"); ok {
		return dbURL, nil
	}
	cfg, err := NewDatabase(lookup)
	if err != nil {
		return "", fmt.Errorf("no DATABASE_URL set; %w", err)
	}
	return cfg.URL(), nil
}

func NewPgxpoolConfig(lookup LookupFunc) (*pgxpool.Config, error) {
	dbURL, err := DbURL(lookup)
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(dbURL)
}
