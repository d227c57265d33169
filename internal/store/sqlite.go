package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "put-screener/internal/errors"
	"put-screener/internal/models"
)

const dateLayout = "2006-01-02"

// SQLiteStore implements WatchlistStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based watchlist store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Watchlist positions, one row per tracked contract
	CREATE TABLE IF NOT EXISTS positions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user TEXT NOT NULL,
		list_name TEXT NOT NULL,
		option_symbol TEXT NOT NULL,
		underlying TEXT NOT NULL,
		strike REAL NOT NULL,
		bid REAL NOT NULL,
		side TEXT NOT NULL,
		in_the_money INTEGER NOT NULL DEFAULT 0,
		dte INTEGER NOT NULL,
		iv REAL NOT NULL,
		spot REAL NOT NULL,
		roi REAL NOT NULL,
		cop REAL NOT NULL,
		score REAL NOT NULL,
		added_date TEXT NOT NULL,
		expiration_date TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user, list_name, option_symbol)
	);

	CREATE INDEX IF NOT EXISTS idx_positions_user_list ON positions(user, list_name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AddPosition inserts a position if the (user, list, contract) key is
// not already present. The insert is a single statement so the
// read-modify-write cannot race with a concurrent add.
func (s *SQLiteStore) AddPosition(ctx context.Context, key models.WatchlistKey, pos models.Position) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO positions (
			user, list_name, option_symbol, underlying, strike, bid, side,
			in_the_money, dte, iv, spot, roi, cop, score, added_date, expiration_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		key.User, key.List, pos.Symbol, pos.UnderlyingSymbol, pos.Strike, pos.Bid,
		string(pos.Side), pos.InTheMoney, pos.DaysToExpiry, pos.ImpliedVol, pos.Spot,
		pos.ROI, pos.COP, pos.Score(),
		pos.AddedDate.Format(dateLayout), pos.ExpirationDate.Format(dateLayout),
	)
	if err != nil {
		return fmt.Errorf("%w: adding position: %v", apperrors.ErrDatabaseError, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: adding position: %v", apperrors.ErrDatabaseError, err)
	}
	if n == 0 {
		return apperrors.ErrPositionExists
	}
	return nil
}

// GetPositions retrieves the positions of a watchlist in insertion order.
func (s *SQLiteStore) GetPositions(ctx context.Context, key models.WatchlistKey) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT option_symbol, underlying, strike, bid, side, in_the_money,
		       dte, iv, spot, roi, cop, added_date, expiration_date
		FROM positions
		WHERE user = ? AND list_name = ?
		ORDER BY created_at ASC, id ASC
	`, key.User, key.List)
	if err != nil {
		return nil, fmt.Errorf("%w: querying positions: %v", apperrors.ErrDatabaseError, err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var (
			pos        models.Position
			side       string
			addedStr   string
			expiresStr string
		)
		if err := rows.Scan(
			&pos.Symbol, &pos.UnderlyingSymbol, &pos.Strike, &pos.Bid, &side,
			&pos.InTheMoney, &pos.DaysToExpiry, &pos.ImpliedVol, &pos.Spot,
			&pos.ROI, &pos.COP, &addedStr, &expiresStr,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning position: %v", apperrors.ErrDatabaseError, err)
		}
		pos.Side = models.OptionSide(side)

		if pos.AddedDate, err = time.Parse(dateLayout, addedStr); err != nil {
			return nil, fmt.Errorf("%w: parsing added_date: %v", apperrors.ErrDatabaseError, err)
		}
		if pos.ExpirationDate, err = time.Parse(dateLayout, expiresStr); err != nil {
			return nil, fmt.Errorf("%w: parsing expiration_date: %v", apperrors.ErrDatabaseError, err)
		}

		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

// RemovePosition deletes a position from a watchlist.
func (s *SQLiteStore) RemovePosition(ctx context.Context, key models.WatchlistKey, optionSymbol string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM positions WHERE user = ? AND list_name = ? AND option_symbol = ?
	`, key.User, key.List, optionSymbol)
	if err != nil {
		return fmt.Errorf("%w: removing position: %v", apperrors.ErrDatabaseError, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: removing position: %v", apperrors.ErrDatabaseError, err)
	}
	if n == 0 {
		return apperrors.ErrPositionNotFound
	}
	return nil
}

// ListWatchlists returns the distinct list names owned by a user.
func (s *SQLiteStore) ListWatchlists(ctx context.Context, user string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT list_name FROM positions WHERE user = ? ORDER BY list_name ASC
	`, user)
	if err != nil {
		return nil, fmt.Errorf("%w: querying watchlists: %v", apperrors.ErrDatabaseError, err)
	}
	defer rows.Close()

	var lists []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scanning list name: %v", apperrors.ErrDatabaseError, err)
		}
		lists = append(lists, name)
	}
	return lists, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
