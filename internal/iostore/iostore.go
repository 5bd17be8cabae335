// Package iostore implements db.Store on PostgreSQL with pgx.
//
// Statements are built from the db tags of the pkg/schema models, so the
// column lists of SELECT, INSERT and UPDATE always follow the model
// declaration. Identifiers are uuids generated by PostgreSQL, except for
// festival_info rows, whose ids are derived from the setting key.
package iostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artsfest/festsync/pkg/db"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/artsfest/festsync/pkg/schema"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Option configures the store.
type Option func(*pgStore)

// OptClock replaces time.Now for timestamps the store fills in.
func OptClock(now func() time.Time) Option {
	return func(s *pgStore) {
		s.now = now
	}
}

// New creates a Store on top of a connected pool.
func New(pool *pgxpool.Pool, opts ...Option) db.Store {
	res := pgStore{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(&res)
	}
	return &res
}

// keyWhere holds the natural-key condition of every table. The
// expressions mirror festival.Record.NaturalKey.
var keyWhere = map[festival.Kind]string{
	festival.KindBasic:      "lower(trim(key)) = $1",
	festival.KindTeams:      "upper(trim(name)) = $1",
	festival.KindCandidates: "trim(chest_number) = $1",
	festival.KindProgrammes: "trim(code) = $1",
	festival.KindResults:    "trim(programme_code) = $1 AND trim(chest_number) = $2",
}

func (s *pgStore) Find(
	ctx context.Context,
	k festival.Kind,
) ([]festival.Record, error) {
	q, err := selectSQL(k, "", "ORDER BY created_at, id")
	if err != nil {
		return nil, QueryError(k, err)
	}
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, QueryError(k, err)
	}
	defer rows.Close()

	var res []festival.Record
	for rows.Next() {
		m, _ := schema.New(k)
		if err = rows.Scan(scanTargets(m)...); err != nil {
			return nil, QueryError(k, err)
		}
		res = append(res, m.Record())
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(k, err)
	}
	return res, nil
}

func (s *pgStore) FindByID(
	ctx context.Context,
	k festival.Kind,
	id string,
) (festival.Record, error) {
	if !validID(id) {
		return nil, nil
	}
	q, err := selectSQL(k, "WHERE id = $1", "")
	if err != nil {
		return nil, QueryError(k, err)
	}
	return s.queryOne(ctx, k, q, id)
}

func (s *pgStore) FindByKey(
	ctx context.Context,
	k festival.Kind,
	key string,
) (festival.Record, error) {
	if key == "" {
		return nil, nil
	}
	args := []any{key}
	if k == festival.KindResults {
		code, chest, ok := strings.Cut(key, "/")
		if !ok {
			return nil, nil
		}
		args = []any{code, chest}
	}
	q, err := selectSQL(k,
		"WHERE "+keyWhere[k], "ORDER BY created_at, id LIMIT 1")
	if err != nil {
		return nil, QueryError(k, err)
	}
	return s.queryOne(ctx, k, q, args...)
}

func (s *pgStore) Insert(
	ctx context.Context,
	rec festival.Record,
) (string, error) {
	k := rec.Kind()
	meta := rec.Base()
	now := s.now().UTC()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = now
	}

	meta.ID = ""
	if k == festival.KindBasic {
		meta.ID = gnuuid.New(rec.NaturalKey()).String()
	}

	cols := schema.Columns(schema.FromRecord(rec))
	if meta.ID == "" {
		cols = cols[1:]
	}

	names := make([]string, len(cols))
	places := make([]string, len(cols))
	args := make([]any, len(cols))
	for i := range cols {
		names[i] = cols[i].Name
		places[i] = fmt.Sprintf("$%d", i+1)
		args[i] = cols[i].Value
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table(k), strings.Join(names, ", "), strings.Join(places, ", "))
	if k == festival.KindBasic {
		// settings are keyed by name, a second insert of the same key
		// refreshes the value
		q += " ON CONFLICT (id) DO UPDATE" +
			" SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at"
	}
	q += " RETURNING id::text"

	var id string
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		meta.ID = ""
		return "", InsertError(k, err)
	}
	meta.ID = id
	return id, nil
}

func (s *pgStore) Update(
	ctx context.Context,
	rec festival.Record,
) (db.UpdateResult, error) {
	var res db.UpdateResult
	k := rec.Kind()
	id := rec.Base().ID
	if !validID(id) {
		return res, nil
	}

	cols := schema.Columns(schema.FromRecord(rec))[1:]
	var sets, content, params []string
	args := []any{id}
	for _, col := range cols {
		if col.Name == "created_at" {
			continue
		}
		args = append(args, col.Value)
		p := fmt.Sprintf("$%d", len(args))
		sets = append(sets, col.Name+" = "+p)
		if col.Name == "updated_at" {
			continue
		}
		content = append(content, col.Name)
		params = append(params, p)
	}

	q := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $1 AND ROW(%s) IS DISTINCT FROM ROW(%s)",
		table(k),
		strings.Join(sets, ", "),
		strings.Join(content, ", "),
		strings.Join(params, ", "),
	)
	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return res, UpdateError(k, id, err)
	}
	if tag.RowsAffected() > 0 {
		return db.UpdateResult{Matched: true, Modified: true}, nil
	}

	q = fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table(k))
	if err = s.pool.QueryRow(ctx, q, id).Scan(&res.Matched); err != nil {
		return res, UpdateError(k, id, err)
	}
	return res, nil
}

func (s *pgStore) Touch(
	ctx context.Context,
	k festival.Kind,
	id string,
	at time.Time,
) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	q := fmt.Sprintf("UPDATE %s SET updated_at = $2 WHERE id = $1", table(k))
	tag, err := s.pool.Exec(ctx, q, id, at.UTC())
	if err != nil {
		return false, UpdateError(k, id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) Delete(
	ctx context.Context,
	k festival.Kind,
	id string,
) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table(k))
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return false, DeleteError(k, id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) queryOne(
	ctx context.Context,
	k festival.Kind,
	q string,
	args ...any,
) (festival.Record, error) {
	m, _ := schema.New(k)
	err := s.pool.QueryRow(ctx, q, args...).Scan(scanTargets(m)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, QueryError(k, err)
	}
	return m.Record(), nil
}

func selectSQL(k festival.Kind, where, tail string) (string, error) {
	m, err := schema.New(k)
	if err != nil {
		return "", err
	}
	names := schema.ColumnNames(m)
	names[0] = "id::text"
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), table(k))
	if where != "" {
		q += " " + where
	}
	if tail != "" {
		q += " " + tail
	}
	return q, nil
}

func scanTargets(m schema.Model) []any {
	cols := schema.Columns(m)
	res := make([]any, len(cols))
	for i := range cols {
		res[i] = cols[i].Ptr
	}
	return res
}

func table(k festival.Kind) string {
	return pgx.Identifier{k.Collection()}.Sanitize()
}

// validID reports whether id can be a stored identifier. Anything else
// cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
