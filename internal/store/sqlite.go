package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for local
// development and tests; production runs Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	dbh, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := dbh.Exec(pragma); err != nil {
			dbh.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: dbh}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS articles (
	id                 TEXT PRIMARY KEY,
	headline           TEXT NOT NULL,
	detailed_content   TEXT NOT NULL DEFAULT '',
	language           TEXT NOT NULL DEFAULT 'en',
	funnel_stage       TEXT NOT NULL DEFAULT '',
	external_citations TEXT NOT NULL DEFAULT '[]',
	updated_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS article_citation_backups (
	id         TEXT PRIMARY KEY,
	article_id TEXT NOT NULL REFERENCES articles(id),
	citations  TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS domain_registry (
	domain      TEXT PRIMARY KEY,
	category    TEXT NOT NULL,
	trust_score INTEGER NOT NULL DEFAULT 0,
	search_tier TEXT NOT NULL DEFAULT '',
	loaded_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS competitor_domains (
	domain    TEXT PRIMARY KEY,
	loaded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS citation_usage (
	id         TEXT PRIMARY KEY,
	article_id TEXT NOT NULL,
	domain     TEXT NOT NULL,
	url        TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	is_active  INTEGER NOT NULL DEFAULT 1,
	used_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS compliance_alerts (
	id           TEXT PRIMARY KEY,
	article_id   TEXT NOT NULL,
	alert_type   TEXT NOT NULL,
	severity     TEXT NOT NULL,
	citation_url TEXT NOT NULL DEFAULT '',
	detail       TEXT NOT NULL DEFAULT '',
	detected_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	resolved_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_citation_usage_article ON citation_usage(article_id);
CREATE INDEX IF NOT EXISTS idx_citation_usage_domain ON citation_usage(domain);
CREATE INDEX IF NOT EXISTS idx_compliance_alerts_article ON compliance_alerts(article_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	var a model.Article
	var citationsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, headline, detailed_content, language, funnel_stage, external_citations FROM articles WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Headline, &a.DetailedContent, &a.Language, &a.FunnelStage, &citationsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: article %s not found", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get article %s", id)
	}
	if err := json.Unmarshal([]byte(citationsJSON), &a.ExternalCitations); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal citations for %s", id)
	}
	return &a, nil
}

func (s *SQLiteStore) ListArticles(ctx context.Context, limit, offset int) ([]model.Article, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, headline, detailed_content, language, funnel_stage, external_citations FROM articles ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list articles")
	}
	defer rows.Close()

	var out []model.Article
	for rows.Next() {
		var a model.Article
		var citationsJSON string
		if err := rows.Scan(&a.ID, &a.Headline, &a.DetailedContent, &a.Language, &a.FunnelStage, &citationsJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan article")
		}
		if err := json.Unmarshal([]byte(citationsJSON), &a.ExternalCitations); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal citations for %s", a.ID)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SeedArticle inserts or replaces an article row. Exposed for local seeding
// and tests; the CMS owns article writes in production.
func (s *SQLiteStore) SeedArticle(ctx context.Context, a model.Article) error {
	citationsJSON, err := json.Marshal(a.ExternalCitations)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal citations")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO articles (id, headline, detailed_content, language, funnel_stage, external_citations, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Headline, a.DetailedContent, a.Language, string(a.FunnelStage), string(citationsJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: seed article %s", a.ID)
}

func (s *SQLiteStore) ReplaceCitations(ctx context.Context, articleID string, citations []model.Citation, backupReason string) error {
	art, err := s.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}

	oldJSON, err := json.Marshal(art.ExternalCitations)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal old citations")
	}
	newJSON, err := json.Marshal(citations)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal new citations")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace citations")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO article_citation_backups (id, article_id, citations, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), articleID, string(oldJSON), backupReason, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert citation backup")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE articles SET external_citations = ?, updated_at = ? WHERE id = ?`,
		string(newJSON), time.Now().UTC(), articleID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update citations for %s", articleID)
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace citations")
}

func (s *SQLiteStore) UpsertRegistry(ctx context.Context, entries []model.RegistryEntry, competitors []string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin registry upsert")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var n int64
	for _, e := range entries {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO domain_registry (domain, category, trust_score, search_tier, loaded_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(domain) DO UPDATE SET category = excluded.category, trust_score = excluded.trust_score, search_tier = excluded.search_tier, loaded_at = excluded.loaded_at`,
			e.Domain, e.Category, e.TrustScore, e.SearchTier, now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert registry entry %s", e.Domain)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}

	for _, c := range competitors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO competitor_domains (domain, loaded_at) VALUES (?, ?) ON CONFLICT(domain) DO UPDATE SET loaded_at = excluded.loaded_at`,
			c, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert competitor %s", c)
		}
	}

	return n, eris.Wrap(tx.Commit(), "sqlite: commit registry upsert")
}

func (s *SQLiteStore) LoadRegistry(ctx context.Context) ([]model.RegistryEntry, []string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, category, trust_score, search_tier FROM domain_registry ORDER BY domain`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: load registry")
	}
	defer rows.Close()

	var entries []model.RegistryEntry
	for rows.Next() {
		var e model.RegistryEntry
		if err := rows.Scan(&e.Domain, &e.Category, &e.TrustScore, &e.SearchTier); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan registry entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: iterate registry")
	}

	compRows, err := s.db.QueryContext(ctx, `SELECT domain FROM competitor_domains ORDER BY domain`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: load competitors")
	}
	defer compRows.Close()

	var competitors []string
	for compRows.Next() {
		var d string
		if err := compRows.Scan(&d); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan competitor")
		}
		competitors = append(competitors, d)
	}
	return entries, competitors, compRows.Err()
}

func (s *SQLiteStore) RecordDomainUsage(ctx context.Context, articleID, domain, url, source string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO citation_usage (id, article_id, domain, url, source, is_active, used_at) VALUES (?, ?, ?, ?, ?, 1, ?)`,
		uuid.New().String(), articleID, domain, url, source, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: record usage %s/%s", articleID, domain)
}

func (s *SQLiteStore) ArticleUsedDomains(ctx context.Context, articleID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT domain FROM citation_usage WHERE article_id = ? AND is_active = 1`,
		articleID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: used domains for %s", articleID)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan used domain")
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

func (s *SQLiteStore) DomainUsageCounts(ctx context.Context, limit int) ([]model.DomainUsage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, COUNT(*) AS use_count, MAX(used_at) AS last_used_at
		 FROM citation_usage WHERE is_active = 1
		 GROUP BY domain ORDER BY use_count ASC, domain ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: usage counts")
	}
	defer rows.Close()

	var out []model.DomainUsage
	for rows.Next() {
		var u model.DomainUsage
		var lastUsed string
		if err := rows.Scan(&u.Domain, &u.UseCount, &lastUsed); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan usage count")
		}
		u.LastUsedAt = parseSQLiteTime(lastUsed)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeactivateUsage(ctx context.Context, articleID, url string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE citation_usage SET is_active = 0 WHERE article_id = ? AND url = ?`,
		articleID, url,
	)
	return eris.Wrapf(err, "sqlite: deactivate usage %s", url)
}

func (s *SQLiteStore) ReplaceUnresolvedAlerts(ctx context.Context, articleID string, alerts []model.ComplianceAlert) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin replace alerts")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM compliance_alerts WHERE article_id = ? AND resolved_at IS NULL`,
		articleID,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete unresolved alerts for %s", articleID)
	}
	cleared, _ := res.RowsAffected()

	for _, a := range alerts {
		id := a.ID
		if id == "" {
			id = uuid.New().String()
		}
		detectedAt := a.DetectedAt
		if detectedAt.IsZero() {
			detectedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO compliance_alerts (id, article_id, alert_type, severity, citation_url, detail, detected_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, a.ArticleID, string(a.AlertType), string(a.Severity), a.CitationURL, a.Detail, detectedAt,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert alert for %s", a.ArticleID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit replace alerts")
	}
	return cleared, nil
}

func (s *SQLiteStore) ResolveAlert(ctx context.Context, alertID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE compliance_alerts SET resolved_at = ? WHERE id = ? AND resolved_at IS NULL`,
		time.Now().UTC(), alertID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: resolve alert %s", alertID)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return eris.Errorf("sqlite: alert %s not found or already resolved", alertID)
	}
	return nil
}

func (s *SQLiteStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]model.ComplianceAlert, error) {
	query := `SELECT id, article_id, alert_type, severity, citation_url, detail, detected_at, resolved_at FROM compliance_alerts WHERE 1=1`
	args := []any{}

	if filter.ArticleID != "" {
		query += ` AND article_id = ?`
		args = append(args, filter.ArticleID)
	}
	if filter.AlertType != "" {
		query += ` AND alert_type = ?`
		args = append(args, string(filter.AlertType))
	}
	if filter.Unresolved {
		query += ` AND resolved_at IS NULL`
	}
	query += ` ORDER BY detected_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list alerts")
	}
	defer rows.Close()

	var out []model.ComplianceAlert
	for rows.Next() {
		var a model.ComplianceAlert
		var detected string
		var resolved sql.NullString
		if err := rows.Scan(&a.ID, &a.ArticleID, &a.AlertType, &a.Severity, &a.CitationURL, &a.Detail, &detected, &resolved); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan alert")
		}
		a.DetectedAt = parseSQLiteTime(detected)
		if resolved.Valid {
			t := parseSQLiteTime(resolved.String)
			a.ResolvedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// parseSQLiteTime tolerates the formats the sqlite driver hands back.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
