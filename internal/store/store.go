package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	// ErrWeekNotFound 해당 id 의 주차가 없음
	ErrWeekNotFound = errors.New("week not found")
	// ErrWeekOverlap 기존 주차와 기간이 겹침
	ErrWeekOverlap = errors.New("week interval overlaps an existing week")
	// ErrSelectionNotFound 세션에 선택된 주차가 없음
	ErrSelectionNotFound = errors.New("no week selected for session")
)

// Store SQLite 저장소
type Store struct {
	db *sql.DB
}

// New dbPath 에 SQLite 파일을 열고 스키마를 적용한다
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite 는 단일 커넥션
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Close DB 연결 종료
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB 원본 커넥션
func (s *Store) DB() *sql.DB {
	return s.db
}

// InTx fn 을 하나의 트랜잭션으로 실행한다. fn 이 에러를 내면 전부 롤백.
func (s *Store) InTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Counts 테이블별 행 수 (상태 조회용)
type Counts struct {
	Weeks        int `json:"weeks"`
	Transactions int `json:"transactions"`
	Unlinked     int `json:"unlinkedTransactions"`
	Imports      int `json:"imports"`
}

// GetCounts 상태 API 용 요약 건수
func (s *Store) GetCounts() (Counts, error) {
	var c Counts
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM weeks),
			(SELECT COUNT(*) FROM sales_transactions),
			(SELECT COUNT(*) FROM sales_transactions WHERE report_id IS NULL),
			(SELECT COUNT(*) FROM import_logs)
	`).Scan(&c.Weeks, &c.Transactions, &c.Unlinked, &c.Imports)
	if err != nil {
		return c, fmt.Errorf("failed to count rows: %w", err)
	}
	return c, nil
}
