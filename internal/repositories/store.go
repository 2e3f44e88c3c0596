package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// psql builds Postgres placeholders for every dynamic query in the package.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store groups the repositories and runs units of work in one transaction.
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Bookmarks() BookmarkRepository
	Applications() ApplicationRepository
	Rooms() ChatRepository
	Messages() MessageRepository
	Resumes() ResumeRepository
	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// SQLStore is the sqlx implementation of Store.
type SQLStore struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

// NewStore constructs a SQLStore over db.
func NewStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, ext: db}
}

func (s *SQLStore) Users() UserRepository               { return NewUserRepo(s.ext) }
func (s *SQLStore) Jobs() JobRepository                 { return NewJobRepo(s.ext) }
func (s *SQLStore) Bookmarks() BookmarkRepository       { return NewBookmarkRepo(s.ext) }
func (s *SQLStore) Applications() ApplicationRepository { return NewApplicationRepo(s.ext) }
func (s *SQLStore) Rooms() ChatRepository               { return NewChatRepo(s.ext) }
func (s *SQLStore) Messages() MessageRepository         { return NewMessageRepo(s.ext) }
func (s *SQLStore) Resumes() ResumeRepository           { return NewResumeRepo(s.ext) }

// WithTx begins a transaction, or joins the current one when s is already
// transaction bound.
func (s *SQLStore) WithTx(ctx context.Context, fn func(Store) error) (err error) {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(&SQLStore{ext: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ Store = (*SQLStore)(nil)
