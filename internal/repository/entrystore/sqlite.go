package entrystore

import (
	"database/sql"
	"embed"
	"time"

	"github.com/xy2yp/Artify/pkg/logger"
	"github.com/xy2yp/Artify/pkg/metrics"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSQLiteStore(path string, l logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{
		db:     db,
		logger: l,
	}

	err = s.runMigrations()
	if err != nil {
		return nil, err
	}

	l.Info("sqlite store initialized", "path", path)

	return s, nil
}

func (s *SQLiteStore) runMigrations() error {
	goose.SetBaseFS(migrations)

	err := goose.SetDialect("sqlite3")
	if err != nil {
		return err
	}

	err = goose.Up(s.db, "migrations")
	if err != nil {
		return err
	}

	return nil
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Get(key string) (Entry, bool, error) {
	s.logger.Debug("sqlite store get", "key", key)
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	query := `SELECT payload, stored_at
	FROM prompt_cache
	WHERE key = ?`

	var payload []byte
	var storedAtMS int64
	err := s.db.QueryRow(query, key).Scan(&payload, &storedAtMS)
	if err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		s.logger.Error("sqlite store get failed", "key", key, "error", err)
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return Entry{}, false, err
	}

	e := Entry{
		Key:      key,
		Payload:  payload,
		StoredAt: time.UnixMilli(storedAtMS),
	}

	return e, true, nil
}

func (s *SQLiteStore) Put(e Entry) error {
	s.logger.Debug("sqlite store put", "key", e.Key)
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("put").Observe(time.Since(start).Seconds())
	}()

	query := `INSERT INTO prompt_cache (key, payload, stored_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at`

	_, err := s.db.Exec(query, e.Key, e.Payload, e.StoredAt.UnixMilli())
	if err != nil {
		s.logger.Error("sqlite store put failed", "key", e.Key, "error", err)
		metrics.StoreErrors.WithLabelValues("put").Inc()
		return err
	}

	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	s.logger.Debug("sqlite store delete", "key", key)
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}()

	_, err := s.db.Exec(`DELETE FROM prompt_cache WHERE key = ?`, key)
	if err != nil {
		s.logger.Error("sqlite store delete failed", "key", key, "error", err)
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return err
	}

	return nil
}

func (s *SQLiteStore) Clear() error {
	s.logger.Debug("sqlite store clear")
	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("clear").Observe(time.Since(start).Seconds())
	}()

	_, err := s.db.Exec(`DELETE FROM prompt_cache`)
	if err != nil {
		s.logger.Error("sqlite store clear failed", "error", err)
		metrics.StoreErrors.WithLabelValues("clear").Inc()
		return err
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
