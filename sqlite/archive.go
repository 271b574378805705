package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/wikiscrape"
	"github.com/google/uuid"
)

// Ensure ResultStore implements wikiscrape.ResultStore at compile time.
var _ wikiscrape.ResultStore = (*ResultStore)(nil)

// Article is an extraction result as stored in the archive.
type Article struct {
	ID      string
	SavedAt time.Time
	Result  *wikiscrape.Result
}

// ArticleFilter selects archived articles.
type ArticleFilter struct {
	URL    *string
	Title  *string
	Limit  int
	Offset int
}

// ResultStore implements wikiscrape.ResultStore on top of a single
// transaction. Saving a URL that is already archived replaces its row.
// Nothing becomes visible to other connections until Commit.
type ResultStore struct {
	db  *DB
	now func() time.Time

	mu sync.Mutex
	tx *sql.Tx
}

// NewResultStore creates a ResultStore writing to db.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Save upserts result inside the pending transaction, starting one if needed.
func (s *ResultStore) Save(ctx context.Context, result *wikiscrape.Result) error {
	if result == nil || result.SourceURL == "" {
		return wikiscrape.Errorf(wikiscrape.EINVALID, "result with source URL required")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		tx, err := s.db.BeginTx(ctx)
		if err != nil {
			return err
		}
		s.tx = tx
	}

	_, err = s.tx.ExecContext(ctx, `
		INSERT INTO articles (id, url, title, summary, content_hash, result, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			content_hash = excluded.content_hash,
			result = excluded.result,
			saved_at = excluded.saved_at
	`, uuid.New().String(), result.SourceURL, result.Title, result.Summary, result.ContentHash,
		string(data), s.now().Format(time.RFC3339))
	return err
}

// Commit makes every saved result permanent. Committing without saves is a no-op.
func (s *ResultStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

// Abort discards every result saved since the last Commit.
func (s *ResultStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// FindArticleByURL retrieves the archived article for url.
func FindArticleByURL(ctx context.Context, db *DB, url string) (*Article, error) {
	articles, err := FindArticles(ctx, db, ArticleFilter{URL: &url, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, wikiscrape.Errorf(wikiscrape.ENOTFOUND, "article not found")
	}
	return articles[0], nil
}

// FindArticles retrieves archived articles matching the filter, most
// recently saved first.
func FindArticles(ctx context.Context, db *DB, filter ArticleFilter) ([]*Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, result, saved_at FROM articles WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Title != nil {
		query.WriteString(" AND title = ?")
		args = append(args, *filter.Title)
	}

	query.WriteString(" ORDER BY saved_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*Article{}
	for rows.Next() {
		var (
			a       Article
			data    string
			savedAt string
		)
		if err := rows.Scan(&a.ID, &data, &savedAt); err != nil {
			return nil, err
		}
		if a.SavedAt, err = parseRFC3339(savedAt, "saved_at"); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &a.Result); err != nil {
			return nil, err
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}
