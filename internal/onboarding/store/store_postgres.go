package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"neuroaccess/internal/onboarding/models"
	"neuroaccess/pkg/platform/sentinel"
	txcontext "neuroaccess/pkg/platform/tx"
)

// Default collection tables.
const (
	DefaultLoginTable   = "broker_account_logins"
	DefaultAccountTable = "broker_accounts"
)

const defaultTxTimeout = 5 * time.Second

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresLoginStore reads login history from PostgreSQL.
type PostgresLoginStore struct {
	db    *sql.DB
	table string
}

// NewPostgresLoginStore builds a login store over the given table. An empty
// table name selects DefaultLoginTable.
func NewPostgresLoginStore(db *sql.DB, table string) *PostgresLoginStore {
	if table == "" {
		table = DefaultLoginTable
	}
	return &PostgresLoginStore{db: db, table: pq.QuoteIdentifier(table)}
}

func (s *PostgresLoginStore) LastLogin(ctx context.Context, userName string) (*models.BrokerAccountLogin, error) {
	query := fmt.Sprintf(`
		SELECT user_name, remote_endpoint, logged_in_at
		FROM %s
		WHERE user_name = $1
		ORDER BY logged_in_at DESC
		LIMIT 1`, s.table)

	var (
		login    models.BrokerAccountLogin
		endpoint sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, userName).Scan(&login.UserName, &endpoint, &login.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find last login: %w", translate(err))
	}
	if endpoint.Valid {
		login.RemoteEndpoint = &endpoint.String
	}
	return &login, nil
}

// Record inserts a login event.
func (s *PostgresLoginStore) Record(ctx context.Context, login models.BrokerAccountLogin) error {
	query := fmt.Sprintf(`INSERT INTO %s (user_name, remote_endpoint, logged_in_at) VALUES ($1, $2, $3)`, s.table)
	var endpoint sql.NullString
	if login.RemoteEndpoint != nil {
		endpoint = sql.NullString{String: *login.RemoteEndpoint, Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, query, login.UserName, endpoint, login.Timestamp); err != nil {
		return fmt.Errorf("record login: %w", translate(err))
	}
	return nil
}

// PostgresAccountStore reads and updates broker accounts in PostgreSQL.
type PostgresAccountStore struct {
	db      *sql.DB
	table   string
	timeout time.Duration
}

// NewPostgresAccountStore builds an account store over the given table. An
// empty table name selects DefaultAccountTable.
func NewPostgresAccountStore(db *sql.DB, table string) *PostgresAccountStore {
	if table == "" {
		table = DefaultAccountTable
	}
	return &PostgresAccountStore{db: db, table: pq.QuoteIdentifier(table), timeout: defaultTxTimeout}
}

func (s *PostgresAccountStore) FindByUserName(ctx context.Context, userName string) (*models.BrokerAccount, error) {
	query := fmt.Sprintf(`SELECT user_name, email, created_at, updated_at FROM %s WHERE user_name = $1`, s.table)
	var (
		account models.BrokerAccount
		email   sql.NullString
	)
	err := s.conn(ctx).QueryRowContext(ctx, query, userName).Scan(&account.UserName, &email, &account.Created, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", translate(err))
	}
	account.EMail = email.String
	return &account, nil
}

// Save inserts the account or replaces its email.
func (s *PostgresAccountStore) Save(ctx context.Context, account models.BrokerAccount) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_name, email, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_name) DO UPDATE SET
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at`, s.table)
	if _, err := s.conn(ctx).ExecContext(ctx, query, account.UserName, account.EMail); err != nil {
		return fmt.Errorf("save account: %w", translate(err))
	}
	return nil
}

// UpdateEMail locks the account row and sets its email in one transaction.
func (s *PostgresAccountStore) UpdateEMail(ctx context.Context, userName, email string, now time.Time) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		conn := s.conn(ctx)
		var locked string
		lock := fmt.Sprintf(`SELECT user_name FROM %s WHERE user_name = $1 FOR UPDATE`, s.table)
		if err := conn.QueryRowContext(ctx, lock, userName).Scan(&locked); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock account: %w", translate(err))
		}
		update := fmt.Sprintf(`UPDATE %s SET email = $2, updated_at = $3 WHERE user_name = $1`, s.table)
		if _, err := conn.ExecContext(ctx, update, userName, email, now); err != nil {
			return fmt.Errorf("update account email: %w", translate(err))
		}
		return nil
	})
}

// RunInTx runs fn inside a transaction carried on the context. Nested calls
// reuse the outer transaction.
func (s *PostgresAccountStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := txcontext.Run(ctx, s.db, s.timeout, fn); err != nil {
		return translate(err)
	}
	return nil
}

func (s *PostgresAccountStore) conn(ctx context.Context) queryer {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// translate maps connection-class PostgreSQL failures onto
// sentinel.ErrUnavailable so callers can tell outages from bad queries. Both
// the pgx and lib/pq drivers are recognised.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08") {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	return err
}
