package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/highlighter/internal/server/migrations"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DocumentID is the primary key of the single row holding the document.
const DocumentID = "users"

// PostgresStore keeps the document in one jsonb row of store_documents.
type PostgresStore struct {
	db *sql.DB
	id string
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, id: DocumentID}
}

// OpenPostgres opens a pgx-backed *sql.DB and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, persistenceError("open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, persistenceError("ping database", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (p *PostgresStore) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return persistenceError("migrations", err)
	}
	if err := gooseUpContext(ctx, p.db, "."); err != nil {
		return persistenceError("migrations", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT document FROM store_documents WHERE id = $1`, p.id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return initialize(ctx, p)
	}
	if err != nil {
		return nil, persistenceError("select document", err)
	}
	return Decode(data)
}

func (p *PostgresStore) Save(ctx context.Context, s *models.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	err = withTx(ctx, p.db, func(ctx context.Context, tx execer) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO store_documents (id, document, updated_at)
			 VALUES ($1, $2, now())
			 ON CONFLICT (id) DO UPDATE
			 SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
			p.id, data)
		return err
	})
	if err != nil {
		return persistenceError("upsert document", err)
	}
	return nil
}
