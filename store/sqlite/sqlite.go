/*
Package sqlite provides the SQLite-backed implementation of portfolio.Store.

PURPOSE:
  Persists what the capture flows record - policies and their receipt
  sets - and nothing the engine derives. Statuses, folders, and summaries
  are recomputed on every read; the database never caches them, so there
  is no invalidation to get wrong.

KEY TABLES:
  policies:  One row per captured policy (canonical shape, §factory)
  receipts:  Receipt sets, replace-written per policy

MUTATION PATHS:
  SavePolicy / SaveReceipts:  capture and import flows
  MarkReceiptPaid:            payment recording (paid date + attachments)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WAL mode keeps readers unblocked
  during the single writer's work.

MONEY AND DATES:
  Amounts are stored as TEXT decimal strings (exact 2-digit money survives
  round-trips); dates as TEXT YYYY-MM-DD, empty string for absent.

USAGE:
  store, err := sqlite.New("./data/policies.db")  // or ":memory:"
  defer store.Close()

SEE ALSO:
  - portfolio/store.go: Interface definition
  - portfolio/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/portfolio"
)

// Store implements portfolio.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ portfolio.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policies (
		id                        TEXT PRIMARY KEY,
		insurer                   TEXT NOT NULL DEFAULT '',
		product                   TEXT NOT NULL DEFAULT '',
		policy_number             TEXT NOT NULL DEFAULT '',
		vin                       TEXT NOT NULL DEFAULT '',
		payment_type              TEXT NOT NULL DEFAULT '',
		frequency                 TEXT NOT NULL DEFAULT '',
		effective_start           TEXT NOT NULL DEFAULT '',
		effective_end             TEXT NOT NULL DEFAULT '',
		total_premium             TEXT NOT NULL DEFAULT '0',
		grace_period_days         INTEGER NOT NULL DEFAULT 0,
		first_payment_amount      TEXT,
		subsequent_payment_amount TEXT,
		stage                     TEXT NOT NULL DEFAULT '',
		last_paid_receipt_count   INTEGER NOT NULL DEFAULT 0,
		renewal_notice_date       TEXT NOT NULL DEFAULT '',
		stored_status             TEXT NOT NULL DEFAULT '',
		created_at                TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS receipts (
		policy_id           TEXT NOT NULL,
		number              INTEGER NOT NULL,
		due_date            TEXT NOT NULL DEFAULT '',
		amount              TEXT NOT NULL DEFAULT '0',
		paid_date           TEXT NOT NULL DEFAULT '',
		proof_url           TEXT NOT NULL DEFAULT '',
		insurer_receipt_url TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (policy_id, number),
		FOREIGN KEY (policy_id) REFERENCES policies(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_policies_policy_number ON policies(policy_number);
	CREATE INDEX IF NOT EXISTS idx_policies_vin ON policies(vin);
	CREATE INDEX IF NOT EXISTS idx_receipts_policy ON receipts(policy_id, number);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POLICIES
// =============================================================================

func (s *Store) SavePolicy(ctx context.Context, p engine.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO policies (
			id, insurer, product, policy_number, vin, payment_type, frequency,
			effective_start, effective_end, total_premium, grace_period_days,
			first_payment_amount, subsequent_payment_amount, stage,
			last_paid_receipt_count, renewal_notice_date, stored_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			insurer = excluded.insurer,
			product = excluded.product,
			policy_number = excluded.policy_number,
			vin = excluded.vin,
			payment_type = excluded.payment_type,
			frequency = excluded.frequency,
			effective_start = excluded.effective_start,
			effective_end = excluded.effective_end,
			total_premium = excluded.total_premium,
			grace_period_days = excluded.grace_period_days,
			first_payment_amount = excluded.first_payment_amount,
			subsequent_payment_amount = excluded.subsequent_payment_amount,
			stage = excluded.stage,
			last_paid_receipt_count = excluded.last_paid_receipt_count,
			renewal_notice_date = excluded.renewal_notice_date,
			stored_status = excluded.stored_status`,
		string(p.ID), p.Insurer, p.Product, p.PolicyNumber, p.VIN,
		string(p.PaymentType), string(p.Frequency),
		p.EffectiveStart.String(), p.EffectiveEnd.String(),
		p.TotalPremium.String(), p.GracePeriodDays,
		optionalDecimal(p.FirstPaymentAmount), optionalDecimal(p.SubsequentPaymentAmount),
		string(p.Stage), p.LastPaidReceiptCount,
		p.RenewalNoticeDate.String(), string(p.StoredStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to save policy %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) GetPolicy(ctx context.Context, id engine.PolicyID) (*engine.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, policySelect+` WHERE id = ?`, string(id))
	p, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) ListPolicies(ctx context.Context) ([]engine.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, policySelect+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []engine.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (s *Store) DeletePolicy(ctx context.Context, id engine.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM policies WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("failed to delete policy %s: %w", id, err)
	}
	return nil
}

// =============================================================================
// RECEIPTS
// =============================================================================

// SaveReceipts replaces the receipt set of a policy atomically.
func (s *Store) SaveReceipts(ctx context.Context, id engine.PolicyID, receipts []engine.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM receipts WHERE policy_id = ?`, string(id)); err != nil {
		return fmt.Errorf("failed to clear receipts for %s: %w", id, err)
	}
	for _, r := range receipts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO receipts (policy_id, number, due_date, amount, paid_date, proof_url, insurer_receipt_url)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(id), r.Number, r.DueDate.String(), r.Amount.String(),
			r.PaidDate.String(), r.ProofURL, r.InsurerReceiptURL,
		)
		if err != nil {
			return fmt.Errorf("failed to save receipt %d for %s: %w", r.Number, id, err)
		}
	}
	return tx.Commit()
}

func (s *Store) ReceiptsForPolicy(ctx context.Context, id engine.PolicyID) ([]engine.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT number, due_date, amount, paid_date, proof_url, insurer_receipt_url
		FROM receipts WHERE policy_id = ? ORDER BY number`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts for %s: %w", id, err)
	}
	defer rows.Close()

	var receipts []engine.Receipt
	for rows.Next() {
		var (
			r                 engine.Receipt
			dueDate, paidDate string
			amount            string
		)
		if err := rows.Scan(&r.Number, &dueDate, &amount, &paidDate, &r.ProofURL, &r.InsurerReceiptURL); err != nil {
			return nil, err
		}
		r.PolicyID = id
		r.DueDate = engine.ParseDate(dueDate)
		r.PaidDate = engine.ParseDate(paidDate)
		r.Amount = engine.MustParseDecimal(amount)
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func (s *Store) MarkReceiptPaid(ctx context.Context, id engine.PolicyID, number int, paidDate engine.Date, proofURL, insurerReceiptURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE receipts SET paid_date = ?, proof_url = ?, insurer_receipt_url = ?
		WHERE policy_id = ? AND number = ?`,
		paidDate.String(), proofURL, insurerReceiptURL, string(id), number,
	)
	if err != nil {
		return fmt.Errorf("failed to mark receipt %d paid for %s: %w", number, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("receipt %d not found for policy %s", number, id)
	}
	return nil
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

const policySelect = `
	SELECT id, insurer, product, policy_number, vin, payment_type, frequency,
	       effective_start, effective_end, total_premium, grace_period_days,
	       first_payment_amount, subsequent_payment_amount, stage,
	       last_paid_receipt_count, renewal_notice_date, stored_status
	FROM policies`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (engine.Policy, error) {
	var (
		p                            engine.Policy
		id, paymentType, frequency   string
		start, end, notice           string
		premium, stage, storedStatus string
		firstAmt, subsequentAmt      sql.NullString
	)
	err := row.Scan(&id, &p.Insurer, &p.Product, &p.PolicyNumber, &p.VIN,
		&paymentType, &frequency, &start, &end, &premium, &p.GracePeriodDays,
		&firstAmt, &subsequentAmt, &stage, &p.LastPaidReceiptCount,
		&notice, &storedStatus)
	if err != nil {
		return engine.Policy{}, err
	}

	p.ID = engine.PolicyID(id)
	p.PaymentType = engine.PaymentType(paymentType)
	p.Frequency = engine.Frequency(frequency)
	p.EffectiveStart = engine.ParseDate(start)
	p.EffectiveEnd = engine.ParseDate(end)
	p.TotalPremium = engine.MustParseDecimal(premium)
	p.Stage = engine.Stage(stage)
	p.RenewalNoticeDate = engine.ParseDate(notice)
	p.StoredStatus = engine.Status(storedStatus)
	p.FirstPaymentAmount = nullableDecimal(firstAmt)
	p.SubsequentPaymentAmount = nullableDecimal(subsequentAmt)
	return p, nil
}

func optionalDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullableDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d := engine.MustParseDecimal(ns.String)
	return &d
}
