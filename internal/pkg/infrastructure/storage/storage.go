package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diwise/wakeup-alarm-mgmt/pkg/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func NewConfig(host, user, password, port, dbname, sslmode string) Config {
	return Config{
		host:     host,
		user:     user,
		password: password,
		port:     port,
		dbname:   dbname,
		sslmode:  sslmode,
	}
}

func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	p, err := pgxpool.New(ctx, config.ConnStr())
	if err != nil {
		return nil, err
	}

	err = p.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return p, nil
}

var (
	ErrNoRows      = errors.New("no rows in result set")
	ErrQueryRow    = errors.New("could not execute query")
	ErrStoreFailed = errors.New("could not store data")
	ErrNoKey       = errors.New("collection has no key")
)

type Storage struct {
	pool *pgxpool.Pool
}

func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func New(ctx context.Context, config Config) (*Storage, error) {
	pool, err := NewPool(ctx, config)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS alarm_collections (
			collection_key	TEXT 	NOT NULL,
			data 			JSONB	NOT NULL,
			created_on  	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_on		timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT pkey_alarm_collections PRIMARY KEY (collection_key)
		);
	`)
	if err != nil {
		return err
	}

	return nil
}

// SaveCollection stores a full alarm collection under its key, replacing any
// previous contents.
func (s *Storage) SaveCollection(ctx context.Context, key string, records []types.AlarmRecord) error {
	if key == "" {
		return ErrNoKey
	}

	if records == nil {
		records = []types.AlarmRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	args := pgx.NamedArgs{
		"collection_key": key,
		"data":           string(data),
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO alarm_collections (collection_key, data)
		VALUES (@collection_key, @data)
		ON CONFLICT (collection_key) DO UPDATE SET data = EXCLUDED.data, modified_on = CURRENT_TIMESTAMP
	`, args)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	return nil
}

func (s *Storage) LoadCollection(ctx context.Context, key string) ([]types.AlarmRecord, error) {
	if key == "" {
		return nil, ErrNoKey
	}

	args := pgx.NamedArgs{
		"collection_key": key,
	}

	var data []byte

	err := s.pool.QueryRow(ctx, `
		SELECT data FROM alarm_collections WHERE collection_key = @collection_key
	`, args).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("%w: %s", ErrQueryRow, err.Error())
	}

	records := make([]types.AlarmRecord, 0)

	err = json.Unmarshal(data, &records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQueryRow, err.Error())
	}

	return records, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}
