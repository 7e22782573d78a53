package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// `pgx/v5/stdlib` registers the "pgx" driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/user/may15-go/apperror"
)

// uniqueViolation is the PostgreSQL error code for a duplicate primary key.
const uniqueViolation = "23505"

// PostgresGateway stores documents as JSONB rows of the `documents` table:
//
//	documents(seq bigserial, collection text, id text, data jsonb, PRIMARY KEY (collection, id))
//
// `seq` keeps insertion order for listings.
type PostgresGateway struct {
	db *sql.DB
}

func NewPostgresGateway(db *sql.DB) *PostgresGateway {
	return &PostgresGateway{db: db}
}

// OpenPostgres opens a database/sql handle backed by pgx. It does not dial.
func OpenPostgres(dsn string) (*PostgresGateway, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to open postgres", err)
	}
	return NewPostgresGateway(db), nil
}

func (g *PostgresGateway) FindMany(ctx context.Context, collection string, filter Filter, out any) error {
	if filter == nil {
		filter = Filter{}
	}
	contains, err := json.Marshal(filter)
	if err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}

	query :=
		`SELECT data FROM documents
		 WHERE collection = $1 AND data @> $2::jsonb
		 ORDER BY seq
		 `

	rows, err := g.db.QueryContext(ctx, query, collection, string(contains))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return decodeList(docs, out)
}

func (g *PostgresGateway) FindByID(ctx context.Context, collection, id string, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	id = oid.Hex()

	query :=
		`SELECT data FROM documents
		 WHERE collection = $1 AND id = $2
		 `

	return g.scanOne(ctx, out, query, collection, id)
}

func (g *PostgresGateway) Insert(ctx context.Context, collection string, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	query :=
		`INSERT INTO documents (collection, id, data)
		 VALUES ($1, $2, $3::jsonb)
		 `

	if _, err := g.db.ExecContext(ctx, query, collection, doc.Metadata().ID.Hex(), string(data)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("duplicate key %s in %s: %w", doc.Metadata().ID.Hex(), collection, err)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (g *PostgresGateway) UpdateByID(ctx context.Context, collection, id string, patch any, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	id = oid.Hex()
	set, err := patchJSON(patch, Now())
	if err != nil {
		return false, err
	}

	// The CTE locks the row and hands back its pre-update data.
	query :=
		`WITH old AS (
		     SELECT data FROM documents
		     WHERE collection = $1 AND id = $2
		     FOR UPDATE
		 )
		 UPDATE documents AS d
		 SET data = d.data || $3::jsonb
		 FROM old
		 WHERE d.collection = $1 AND d.id = $2
		 RETURNING old.data
		 `

	return g.scanOne(ctx, out, query, collection, id, string(set))
}

func (g *PostgresGateway) DeleteByID(ctx context.Context, collection, id string, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	id = oid.Hex()

	query :=
		`DELETE FROM documents
		 WHERE collection = $1 AND id = $2
		 RETURNING data
		 `

	return g.scanOne(ctx, out, query, collection, id)
}

func (g *PostgresGateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *PostgresGateway) Close(ctx context.Context) error {
	return g.db.Close()
}

func (g *PostgresGateway) scanOne(ctx context.Context, out any, query string, args ...any) (bool, error) {
	var data []byte
	err := g.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode document: %w", err)
	}
	return true, nil
}
