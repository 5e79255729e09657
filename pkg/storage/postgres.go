package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/value_radar/pkg/config"
)

// Storage 分析历史的 Postgres 存储，可选启用
type Storage struct {
	db *sql.DB
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS analysis_runs (
		id SERIAL PRIMARY KEY,
		stock_selection TEXT NOT NULL,
		trade_date TEXT NOT NULL,
		report TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// SaveRun 保存一次分析结果
func (s *Storage) SaveRun(stockSelection, tradeDate, report string) error {
	_, err := s.db.Exec(
		`INSERT INTO analysis_runs (stock_selection, trade_date, report) VALUES ($1, $2, $3)`,
		stockSelection, tradeDate, report,
	)
	return err
}

// RunSummary 分析历史摘要
type RunSummary struct {
	ID             int    `json:"id"`
	StockSelection string `json:"stock_selection"`
	TradeDate      string `json:"trade_date"`
	CreatedAt      string `json:"created_at"`
}

// ListRuns 按时间倒序列出最近的分析记录
func (s *Storage) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, stock_selection, trade_date, created_at FROM analysis_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.StockSelection, &r.TradeDate, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
