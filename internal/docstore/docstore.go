// Package docstore — клиент документного хранилища поверх Postgres.
// Каждая логическая коллекция — таблица (id uuid, data jsonb); записи
// наружу отдаются «как есть», в виде map[string]interface{}, и приводятся
// к типам уже нормализатором на стороне репозиториев.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"edunewshub/internal/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Collection(name string) *Collection {
	return &Collection{db: s.db, table: pgx.Identifier{name}.Sanitize()}
}

// EnsureCollections создаёт таблицы коллекций, если их ещё нет.
func (s *Store) EnsureCollections(ctx context.Context, names ...string) error {
	for _, name := range names {
		table := pgx.Identifier{name}.Sanitize()
		sql := fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (id uuid PRIMARY KEY, data jsonb NOT NULL)`, table)
		if _, err := s.db.Exec(ctx, sql); err != nil {
			return apperrors.Backend("ensure "+name, err)
		}
	}
	return nil
}

type Collection struct {
	db    *pgxpool.Pool
	table string
}

// Record — сырая запись коллекции до нормализации.
type Record struct {
	ID   string
	Data map[string]interface{}
}

// Filter — равенство по одному полю документа.
type Filter struct {
	Field string
	Value interface{}
}

// Order — сортировка по одному полю документа. По умолчанию — по убыванию.
type Order struct {
	Field string
	Asc   bool
}

// Query возвращает записи по фильтру-равенству с сортировкой и лимитом.
// Пустой результат — не ошибка.
func (c *Collection) Query(ctx context.Context, filter *Filter, order *Order, limit int) ([]Record, error) {
	sql := fmt.Sprintf(`SELECT id, data FROM %s`, c.table)
	args := []interface{}{}
	i := 1

	if filter != nil {
		// сравнение через jsonb-containment, чтобы не терять тип значения
		probe, err := json.Marshal(map[string]interface{}{filter.Field: filter.Value})
		if err != nil {
			return nil, apperrors.Backend("query "+c.table, err)
		}
		sql += fmt.Sprintf(" WHERE data @> $%d::jsonb", i)
		args = append(args, probe)
		i++
	}

	if order != nil {
		dir := "DESC"
		if order.Asc {
			dir = "ASC"
		}
		sql += fmt.Sprintf(" ORDER BY data->>$%d %s, id", i, dir)
		args = append(args, order.Field)
		i++
	} else {
		sql += " ORDER BY id"
	}

	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, limit)
	}

	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperrors.Backend("query "+c.table, err)
	}
	defer rows.Close()

	list := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.Backend("scan "+c.table, err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Backend("query "+c.table, err)
	}
	return list, nil
}

// GetByID — точечное чтение. Отсутствие записи — apperrors.ErrNotFound.
func (c *Collection) GetByID(ctx context.Context, id string) (Record, error) {
	sql := fmt.Sprintf(`SELECT id, data FROM %s WHERE id = $1`, c.table)
	row := c.db.QueryRow(ctx, sql, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, apperrors.ErrNotFound
		}
		return Record{}, apperrors.Backend("get "+c.table, err)
	}
	return rec, nil
}

// FindOneByField — чтение по вторичному ключу (slug, email).
// Если совпадений несколько, берётся первая запись в порядке выборки.
func (c *Collection) FindOneByField(ctx context.Context, field string, value interface{}) (Record, error) {
	list, err := c.Query(ctx, &Filter{Field: field, Value: value}, nil, 1)
	if err != nil {
		return Record{}, err
	}
	if len(list) == 0 {
		return Record{}, apperrors.ErrNotFound
	}
	return list[0], nil
}

// Insert вставляет документ и возвращает присвоенный id.
func (c *Collection) Insert(ctx context.Context, data map[string]interface{}) (string, error) {
	buf, err := json.Marshal(data)
	if err != nil {
		return "", apperrors.Backend("insert "+c.table, err)
	}
	id := uuid.NewString()
	sql := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)`, c.table)
	if _, err := c.db.Exec(ctx, sql, id, buf); err != nil {
		return "", apperrors.Backend("insert "+c.table, err)
	}
	return id, nil
}

// Set записывает документ под заданным id (upsert). Нужен для профилей,
// которые живут под id учётной записи.
func (c *Collection) Set(ctx context.Context, id string, data map[string]interface{}) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return apperrors.Backend("set "+c.table, err)
	}
	sql := fmt.Sprintf(
		`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, c.table)
	if _, err := c.db.Exec(ctx, sql, id, buf); err != nil {
		return apperrors.Backend("set "+c.table, err)
	}
	return nil
}

// MergePatch — частичное обновление: поля, отсутствующие в patch, не трогаются
// (семантика last-write-wins на уровне полей).
func (c *Collection) MergePatch(ctx context.Context, id string, patch map[string]interface{}) error {
	buf, err := json.Marshal(patch)
	if err != nil {
		return apperrors.Backend("patch "+c.table, err)
	}
	sql := fmt.Sprintf(`UPDATE %s SET data = data || $2::jsonb WHERE id = $1`, c.table)
	tag, err := c.db.Exec(ctx, sql, id, buf)
	if err != nil {
		return apperrors.Backend("patch "+c.table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет запись. Отсутствие записи не проверяется заранее —
// удаление несуществующего id проходит без ошибки, как и в хранилище.
func (c *Collection) Delete(ctx context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	if _, err := c.db.Exec(ctx, sql, id); err != nil {
		return apperrors.Backend("delete "+c.table, err)
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var raw []byte
	if err := row.Scan(&rec.ID, &raw); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(raw, &rec.Data); err != nil {
		return Record{}, err
	}
	return rec, nil
}
