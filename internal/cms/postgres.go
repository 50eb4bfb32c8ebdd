package cms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS cms_pages (
	id                TEXT PRIMARY KEY,
	category          TEXT NOT NULL,
	slug              TEXT NOT NULL,
	calculator_ref    TEXT NOT NULL DEFAULT '',
	calculator_source TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'draft',
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL,
	published_at      TIMESTAMPTZ,
	UNIQUE (category, slug)
);

CREATE TABLE IF NOT EXISTS cms_page_translations (
	page_id     TEXT NOT NULL REFERENCES cms_pages (id) ON DELETE CASCADE,
	locale      TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (page_id, locale)
);

CREATE TABLE IF NOT EXISTS cms_faq_items (
	page_id  TEXT NOT NULL,
	locale   TEXT NOT NULL,
	position INT  NOT NULL,
	question TEXT NOT NULL,
	answer   TEXT NOT NULL,
	PRIMARY KEY (page_id, locale, position),
	FOREIGN KEY (page_id, locale) REFERENCES cms_page_translations (page_id, locale) ON DELETE CASCADE
);
`

const pageColumns = `id, category, slug, calculator_ref, calculator_source, status, created_at, updated_at, published_at`

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// PostgresStore keeps pages in Postgres, one row per page, one per
// translation and one per FAQ item.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore connects to connString and verifies the connection.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// EnsureSchema creates the CMS tables when they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create cms schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.Pool.Close()
}

func (s *PostgresStore) Get(ctx context.Context, category, slug string) (Page, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+pageColumns+` FROM cms_pages WHERE category = $1 AND slug = $2`, category, slug)
	return s.loadOne(ctx, row)
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Page, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+pageColumns+` FROM cms_pages WHERE id = $1`, id)
	return s.loadOne(ctx, row)
}

func (s *PostgresStore) loadOne(ctx context.Context, row pgx.Row) (Page, error) {
	p, err := scanPage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, fmt.Errorf("load page: %w", err)
	}
	pages := []Page{p}
	if err := s.loadTranslations(ctx, pages); err != nil {
		return Page{}, err
	}
	return pages[0], nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Page, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + pageColumns + ` FROM cms_pages`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY category, slug`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	if err := s.loadTranslations(ctx, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func scanPage(row pgx.Row) (Page, error) {
	var (
		p      Page
		status string
	)
	err := row.Scan(&p.ID, &p.Category, &p.Slug, &p.CalculatorRef, &p.CalculatorSource,
		&status, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	p.Status = Status(status)
	p.Translations = map[string]Translation{}
	normalizeTimes(&p)
	return p, err
}

// loadTranslations fills Translations (with FAQ items) for every page in
// two queries.
func (s *PostgresStore) loadTranslations(ctx context.Context, pages []Page) error {
	if len(pages) == 0 {
		return nil
	}
	ids := make([]string, len(pages))
	byID := make(map[string]int, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
		byID[p.ID] = i
	}

	rows, err := s.Pool.Query(ctx,
		`SELECT page_id, locale, title, description, body FROM cms_page_translations WHERE page_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	for rows.Next() {
		var (
			pageID, locale string
			t              Translation
		)
		if err := rows.Scan(&pageID, &locale, &t.Title, &t.Description, &t.Body); err != nil {
			rows.Close()
			return fmt.Errorf("scan translation: %w", err)
		}
		pages[byID[pageID]].Translations[locale] = t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	rows, err = s.Pool.Query(ctx,
		`SELECT page_id, locale, question, answer FROM cms_faq_items WHERE page_id = ANY($1) ORDER BY page_id, locale, position`, ids)
	if err != nil {
		return fmt.Errorf("load faq items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			pageID, locale string
			item           FAQItem
		)
		if err := rows.Scan(&pageID, &locale, &item.Question, &item.Answer); err != nil {
			return fmt.Errorf("scan faq item: %w", err)
		}
		p := pages[byID[pageID]]
		t := p.Translations[locale]
		t.FAQ = append(t.FAQ, item)
		p.Translations[locale] = t
	}
	return rows.Err()
}

// Save upserts the page and replaces its translations and FAQ items in one
// transaction.
func (s *PostgresStore) Save(ctx context.Context, p Page) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO cms_pages (`+pageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			slug = EXCLUDED.slug,
			calculator_ref = EXCLUDED.calculator_ref,
			calculator_source = EXCLUDED.calculator_source,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			published_at = EXCLUDED.published_at`,
		p.ID, p.Category, p.Slug, p.CalculatorRef, p.CalculatorSource,
		string(p.Status), p.CreatedAt, p.UpdatedAt, p.PublishedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("save page: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cms_page_translations WHERE page_id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete old translations: %w", err)
	}

	for _, locale := range p.Locales() {
		t := p.Translations[locale]
		_, err := tx.Exec(ctx,
			`INSERT INTO cms_page_translations (page_id, locale, title, description, body) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, locale, t.Title, t.Description, t.Body)
		if err != nil {
			return fmt.Errorf("save translation %s: %w", locale, err)
		}
		for i, item := range t.FAQ {
			_, err := tx.Exec(ctx,
				`INSERT INTO cms_faq_items (page_id, locale, position, question, answer) VALUES ($1, $2, $3, $4, $5)`,
				p.ID, locale, i, item.Question, item.Answer)
			if err != nil {
				return fmt.Errorf("save faq item %d (%s): %w", i, locale, err)
			}
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM cms_pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Timestamps come back in the session time zone.
func normalizeTimes(p *Page) {
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.PublishedAt != nil {
		ts := p.PublishedAt.UTC()
		p.PublishedAt = &ts
	}
}

var _ Store = (*PostgresStore)(nil)
