package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

// Pool is the subset of pgxpool.Pool the repository needs; satisfied by
// pgxmock in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRepository persists bills, agencies and their associations.
type PostgresRepository struct {
	pool Pool
}

var _ ports.BillRepository = (*PostgresRepository)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Connect opens a pgx pool against dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 5
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresRepository wires a connection pool.
func NewPostgresRepository(pool Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Close releases the underlying pool.
func (r *PostgresRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS agencies (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS bills (
		id BIGSERIAL PRIMARY KEY,
		os_id TEXT NOT NULL UNIQUE,
		number TEXT,
		session TEXT,
		title TEXT,
		status TEXT,
		introduced_date TEXT,
		sponsor TEXT,
		committee TEXT,
		official_url TEXT,
		text_pdf_url TEXT,
		soi_pdf_url TEXT,
		fiscal_pdf_url TEXT,
		general_summary TEXT,
		impact_summary TEXT,
		last_seen_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bill_agencies (
		bill_id BIGINT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		agency_id BIGINT NOT NULL REFERENCES agencies(id) ON DELETE CASCADE,
		PRIMARY KEY (bill_id, agency_id)
	)`,
}

// EnsureSchema bootstraps the three tables. Not a migration mechanism; every
// statement is idempotent.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// EnsureAgencies inserts any catalog agencies not already present. Existing
// rows are never updated.
func (r *PostgresRepository) EnsureAgencies(ctx context.Context, seed []domain.Agency) error {
	const query = `INSERT INTO agencies (name, slug) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`

	for _, a := range seed {
		if _, err := r.pool.Exec(ctx, query, a.Name, a.Slug); err != nil {
			return fmt.Errorf("ensure agency %s: %w", a.Slug, err)
		}
	}
	return nil
}

// UpsertBill inserts or fully overwrites the bill keyed by its upstream id,
// refreshing last_seen_at, and returns the internal row id.
func (r *PostgresRepository) UpsertBill(ctx context.Context, record domain.BillRecord) (int64, error) {
	const query = `INSERT INTO bills (os_id, number, session, title, status, introduced_date, sponsor, committee, official_url, text_pdf_url, soi_pdf_url, fiscal_pdf_url, general_summary, impact_summary, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
		ON CONFLICT (os_id) DO UPDATE SET
			number = EXCLUDED.number,
			session = EXCLUDED.session,
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			introduced_date = EXCLUDED.introduced_date,
			sponsor = EXCLUDED.sponsor,
			committee = EXCLUDED.committee,
			official_url = EXCLUDED.official_url,
			text_pdf_url = EXCLUDED.text_pdf_url,
			soi_pdf_url = EXCLUDED.soi_pdf_url,
			fiscal_pdf_url = EXCLUDED.fiscal_pdf_url,
			general_summary = EXCLUDED.general_summary,
			impact_summary = EXCLUDED.impact_summary,
			last_seen_at = now()
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		record.OSID,
		record.Number,
		nullIfEmpty(record.Session),
		record.Title,
		nullIfEmpty(record.Status),
		nullIfEmpty(record.IntroducedDate),
		nullIfEmpty(record.Sponsor),
		nullIfEmpty(record.Committee),
		nullIfEmpty(record.OfficialURL),
		nullIfEmpty(record.TextPDFURL),
		nullIfEmpty(record.SOIPDFURL),
		nullIfEmpty(record.FiscalPDFURL),
		record.GeneralSummary,
		record.ImpactSummary,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert bill %s: %w", record.OSID, err)
	}

	return id, nil
}

// LinkAgency associates a bill with an agency by slug, keeping any existing
// pair. Associations are only ever added here, never removed.
func (r *PostgresRepository) LinkAgency(ctx context.Context, billID int64, slug string) error {
	const query = `INSERT INTO bill_agencies (bill_id, agency_id)
		SELECT $1, id FROM agencies WHERE slug = $2
		ON CONFLICT DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, billID, slug); err != nil {
		return fmt.Errorf("link agency %s: %w", slug, err)
	}
	return nil
}

var billColumns = []string{
	"b.id",
	"b.os_id",
	"coalesce(b.number, '')",
	"coalesce(b.session, '')",
	"coalesce(b.title, '')",
	"coalesce(b.status, '')",
	"coalesce(b.introduced_date, '')",
	"coalesce(b.sponsor, '')",
	"coalesce(b.committee, '')",
	"coalesce(b.official_url, '')",
	"coalesce(b.text_pdf_url, '')",
	"coalesce(b.soi_pdf_url, '')",
	"coalesce(b.fiscal_pdf_url, '')",
	"coalesce(b.general_summary, '')",
	"coalesce(b.impact_summary, '')",
	"b.last_seen_at",
}

func filterPredicates(filter domain.BillFilter) []sq.Sqlizer {
	var preds []sq.Sqlizer

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		preds = append(preds, sq.Or{
			sq.Expr("b.title ILIKE ?", pattern),
			sq.Expr("coalesce(b.general_summary, '') ILIKE ?", pattern),
			sq.Expr("coalesce(b.impact_summary, '') ILIKE ?", pattern),
		})
	}
	if filter.Agency != "" {
		preds = append(preds, sq.Expr(
			`EXISTS (SELECT 1 FROM bill_agencies ba JOIN agencies a ON a.id = ba.agency_id
				WHERE ba.bill_id = b.id AND (a.slug = ? OR a.name ILIKE '%' || ? || '%'))`,
			filter.Agency, filter.Agency))
	}
	if filter.Status != "" {
		preds = append(preds, sq.Expr("b.status ILIKE '%' || ? || '%'", filter.Status))
	}
	if filter.Session != "" {
		preds = append(preds, sq.Eq{"b.session": filter.Session})
	}

	return preds
}

// ListBills returns one page of bills matching the optional filter predicates
// plus the total match count. Ordered by introduced_date descending, newest
// internal id first within a day.
func (r *PostgresRepository) ListBills(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	preds := filterPredicates(filter)

	countQuery := psql.Select("COUNT(*)").From("bills b")
	listQuery := psql.Select(billColumns...).From("bills b").
		OrderBy("b.introduced_date DESC NULLS LAST", "b.id DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))
	for _, p := range preds {
		countQuery = countQuery.Where(p)
		listQuery = listQuery.Where(p)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bills: %w", err)
	}

	if err := r.attachAgencies(ctx, bills); err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}

// GetBill fetches one bill with its agencies; returns nil when absent.
func (r *PostgresRepository) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	query, args, err := psql.Select(billColumns...).From("bills b").Where(sq.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	b, err := scanBill(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	bills := []domain.Bill{b}
	if err := r.attachAgencies(ctx, bills); err != nil {
		return nil, err
	}
	return &bills[0], nil
}

func scanBill(row pgx.Row) (domain.Bill, error) {
	var b domain.Bill
	err := row.Scan(
		&b.ID,
		&b.OSID,
		&b.Number,
		&b.Session,
		&b.Title,
		&b.Status,
		&b.IntroducedDate,
		&b.Sponsor,
		&b.Committee,
		&b.OfficialURL,
		&b.TextPDFURL,
		&b.SOIPDFURL,
		&b.FiscalPDFURL,
		&b.GeneralSummary,
		&b.ImpactSummary,
		&b.LastSeenAt,
	)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("scan bill: %w", err)
	}
	b.Agencies = []domain.Agency{}
	return b, nil
}

func (r *PostgresRepository) attachAgencies(ctx context.Context, bills []domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}

	ids := make([]int64, len(bills))
	index := make(map[int64]*domain.Bill, len(bills))
	for i := range bills {
		ids[i] = bills[i].ID
		index[bills[i].ID] = &bills[i]
	}

	const query = `SELECT ba.bill_id, a.id, a.name, a.slug
		FROM bill_agencies ba
		JOIN agencies a ON a.id = ba.agency_id
		WHERE ba.bill_id = ANY($1)
		ORDER BY a.id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load bill agencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var billID int64
		var a domain.Agency
		if err := rows.Scan(&billID, &a.ID, &a.Name, &a.Slug); err != nil {
			return fmt.Errorf("scan bill agency: %w", err)
		}
		if b, ok := index[billID]; ok {
			b.Agencies = append(b.Agencies, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate bill agencies: %w", err)
	}

	return nil
}

// nullIfEmpty maps empty strings to SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
