package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/db"
	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for the
// hottest store operations: ledger appends and alert upserts run on every
// discovery and scan pass.
var preparedStatements = map[string]string{
	"get_article":           `SELECT id, headline, detailed_content, language, funnel_stage, external_citations FROM articles WHERE id = $1`,
	"record_usage":          `INSERT INTO citation_usage (id, article_id, domain, url, source, is_active, used_at) VALUES ($1, $2, $3, $4, $5, TRUE, $6)`,
	"article_used_domains":  `SELECT DISTINCT domain FROM citation_usage WHERE article_id = $1 AND is_active`,
	"delete_unresolved":     `DELETE FROM compliance_alerts WHERE article_id = $1 AND resolved_at IS NULL`,
	"insert_alert":          `INSERT INTO compliance_alerts (id, article_id, alert_type, severity, citation_url, detail, detected_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"resolve_alert":         `UPDATE compliance_alerts SET resolved_at = $1 WHERE id = $2 AND resolved_at IS NULL`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS articles (
	id                 TEXT PRIMARY KEY,
	headline           TEXT NOT NULL,
	detailed_content   TEXT NOT NULL DEFAULT '',
	language           TEXT NOT NULL DEFAULT 'en',
	funnel_stage       TEXT NOT NULL DEFAULT '',
	external_citations JSONB NOT NULL DEFAULT '[]',
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS article_citation_backups (
	id         TEXT PRIMARY KEY,
	article_id TEXT NOT NULL REFERENCES articles(id),
	citations  JSONB NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS domain_registry (
	domain      TEXT PRIMARY KEY,
	category    TEXT NOT NULL,
	trust_score INT NOT NULL DEFAULT 0,
	search_tier TEXT NOT NULL DEFAULT '',
	loaded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS competitor_domains (
	domain    TEXT PRIMARY KEY,
	loaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS citation_usage (
	id         TEXT PRIMARY KEY,
	article_id TEXT NOT NULL,
	domain     TEXT NOT NULL,
	url        TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	used_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS compliance_alerts (
	id           TEXT PRIMARY KEY,
	article_id   TEXT NOT NULL,
	alert_type   TEXT NOT NULL,
	severity     TEXT NOT NULL,
	citation_url TEXT NOT NULL DEFAULT '',
	detail       TEXT NOT NULL DEFAULT '',
	detected_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	resolved_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_citation_usage_article ON citation_usage(article_id);
CREATE INDEX IF NOT EXISTS idx_citation_usage_domain ON citation_usage(domain);
CREATE INDEX IF NOT EXISTS idx_compliance_alerts_article ON compliance_alerts(article_id);
CREATE INDEX IF NOT EXISTS idx_compliance_alerts_unresolved ON compliance_alerts(article_id, citation_url, alert_type) WHERE resolved_at IS NULL;
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	var a model.Article
	var citationsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, headline, detailed_content, language, funnel_stage, external_citations FROM articles WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Headline, &a.DetailedContent, &a.Language, &a.FunnelStage, &citationsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("postgres: article %s not found", id)
		}
		return nil, eris.Wrapf(err, "postgres: get article %s", id)
	}
	if err := json.Unmarshal(citationsJSON, &a.ExternalCitations); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal citations for %s", id)
	}
	return &a, nil
}

func (s *PostgresStore) ListArticles(ctx context.Context, limit, offset int) ([]model.Article, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, headline, detailed_content, language, funnel_stage, external_citations FROM articles ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list articles")
	}
	defer rows.Close()

	var out []model.Article
	for rows.Next() {
		var a model.Article
		var citationsJSON []byte
		if err := rows.Scan(&a.ID, &a.Headline, &a.DetailedContent, &a.Language, &a.FunnelStage, &citationsJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan article")
		}
		if err := json.Unmarshal(citationsJSON, &a.ExternalCitations); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal citations for %s", a.ID)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ReplaceCitations(ctx context.Context, articleID string, citations []model.Citation, backupReason string) error {
	art, err := s.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}

	oldJSON, err := json.Marshal(art.ExternalCitations)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal old citations")
	}
	newJSON, err := json.Marshal(citations)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal new citations")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace citations")
	}
	defer tx.Rollback(ctx)

	// Backup first: the old citation list must survive the destructive edit.
	_, err = tx.Exec(ctx,
		`INSERT INTO article_citation_backups (id, article_id, citations, reason, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), articleID, oldJSON, backupReason, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert citation backup")
	}

	_, err = tx.Exec(ctx,
		`UPDATE articles SET external_citations = $1, updated_at = $2 WHERE id = $3`,
		newJSON, time.Now().UTC(), articleID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update citations for %s", articleID)
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace citations")
}

func (s *PostgresStore) UpsertRegistry(ctx context.Context, entries []model.RegistryEntry, competitors []string) (int64, error) {
	now := time.Now().UTC()

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.Domain, e.Category, e.TrustScore, e.SearchTier, now})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "domain_registry",
		Columns:      []string{"domain", "category", "trust_score", "search_tier", "loaded_at"},
		ConflictKeys: []string{"domain"},
	}, rows)
	if err != nil {
		return 0, err
	}

	compRows := make([][]any, 0, len(competitors))
	for _, c := range competitors {
		compRows = append(compRows, []any{c, now})
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "competitor_domains",
		Columns:      []string{"domain", "loaded_at"},
		ConflictKeys: []string{"domain"},
	}, compRows); err != nil {
		return 0, err
	}

	return n, nil
}

func (s *PostgresStore) LoadRegistry(ctx context.Context) ([]model.RegistryEntry, []string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT domain, category, trust_score, search_tier FROM domain_registry ORDER BY domain`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: load registry")
	}
	defer rows.Close()

	var entries []model.RegistryEntry
	for rows.Next() {
		var e model.RegistryEntry
		if err := rows.Scan(&e.Domain, &e.Category, &e.TrustScore, &e.SearchTier); err != nil {
			return nil, nil, eris.Wrap(err, "postgres: scan registry entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "postgres: iterate registry")
	}

	compRows, err := s.pool.Query(ctx, `SELECT domain FROM competitor_domains ORDER BY domain`)
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: load competitors")
	}
	defer compRows.Close()

	var competitors []string
	for compRows.Next() {
		var d string
		if err := compRows.Scan(&d); err != nil {
			return nil, nil, eris.Wrap(err, "postgres: scan competitor")
		}
		competitors = append(competitors, d)
	}
	return entries, competitors, compRows.Err()
}

func (s *PostgresStore) RecordDomainUsage(ctx context.Context, articleID, domain, url, source string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO citation_usage (id, article_id, domain, url, source, is_active, used_at) VALUES ($1, $2, $3, $4, $5, TRUE, $6)`,
		uuid.New().String(), articleID, domain, url, source, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: record usage %s/%s", articleID, domain)
}

func (s *PostgresStore) ArticleUsedDomains(ctx context.Context, articleID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT domain FROM citation_usage WHERE article_id = $1 AND is_active`,
		articleID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: used domains for %s", articleID)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, eris.Wrap(err, "postgres: scan used domain")
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

func (s *PostgresStore) DomainUsageCounts(ctx context.Context, limit int) ([]model.DomainUsage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT domain, COUNT(*) AS use_count, MAX(used_at) AS last_used_at
		 FROM citation_usage WHERE is_active
		 GROUP BY domain ORDER BY use_count ASC, domain ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: usage counts")
	}
	defer rows.Close()

	var out []model.DomainUsage
	for rows.Next() {
		var u model.DomainUsage
		if err := rows.Scan(&u.Domain, &u.UseCount, &u.LastUsedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan usage count")
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeactivateUsage(ctx context.Context, articleID, url string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE citation_usage SET is_active = FALSE WHERE article_id = $1 AND url = $2`,
		articleID, url,
	)
	return eris.Wrapf(err, "postgres: deactivate usage %s", url)
}

// ReplaceUnresolvedAlerts swaps an article's unresolved alerts for the fresh
// set in one transaction, so a failed insert cannot leave the article
// alert-less.
func (s *PostgresStore) ReplaceUnresolvedAlerts(ctx context.Context, articleID string, alerts []model.ComplianceAlert) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin replace alerts")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM compliance_alerts WHERE article_id = $1 AND resolved_at IS NULL`,
		articleID,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: delete unresolved alerts for %s", articleID)
	}
	cleared := tag.RowsAffected()

	for _, a := range alerts {
		id := a.ID
		if id == "" {
			id = uuid.New().String()
		}
		detectedAt := a.DetectedAt
		if detectedAt.IsZero() {
			detectedAt = time.Now().UTC()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO compliance_alerts (id, article_id, alert_type, severity, citation_url, detail, detected_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, a.ArticleID, string(a.AlertType), string(a.Severity), a.CitationURL, a.Detail, detectedAt,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: insert alert for %s", a.ArticleID)
		}
	}

	return cleared, eris.Wrap(tx.Commit(ctx), "postgres: commit replace alerts")
}

func (s *PostgresStore) ResolveAlert(ctx context.Context, alertID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE compliance_alerts SET resolved_at = $1 WHERE id = $2 AND resolved_at IS NULL`,
		time.Now().UTC(), alertID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: resolve alert %s", alertID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: alert %s not found or already resolved", alertID)
	}
	return nil
}

func (s *PostgresStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]model.ComplianceAlert, error) {
	query := `SELECT id, article_id, alert_type, severity, citation_url, detail, detected_at, resolved_at FROM compliance_alerts WHERE 1=1`
	args := []any{}
	n := 0

	if filter.ArticleID != "" {
		n++
		query += ` AND article_id = $` + strconv.Itoa(n)
		args = append(args, filter.ArticleID)
	}
	if filter.AlertType != "" {
		n++
		query += ` AND alert_type = $` + strconv.Itoa(n)
		args = append(args, string(filter.AlertType))
	}
	if filter.Unresolved {
		query += ` AND resolved_at IS NULL`
	}
	query += ` ORDER BY detected_at DESC`
	if filter.Limit > 0 {
		n++
		query += ` LIMIT $` + strconv.Itoa(n)
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list alerts")
	}
	defer rows.Close()

	var out []model.ComplianceAlert
	for rows.Next() {
		var a model.ComplianceAlert
		if err := rows.Scan(&a.ID, &a.ArticleID, &a.AlertType, &a.Severity, &a.CitationURL, &a.Detail, &a.DetectedAt, &a.ResolvedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alert")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
