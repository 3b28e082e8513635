package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
	"github.com/NgariMwangi/Notes-API/internal/core/port"
	"github.com/NgariMwangi/Notes-API/internal/repository"
)

// pgExecutor abstracts pgxpool.Pool and pgx.Tx for query execution.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const notesTable = "notes"

var noteColumns = []string{
	"id",
	"title",
	"content",
	"tags",
	"created_at",
	"updated_at",
	"is_deleted",
	"deleted_at",
}

// NoteRepository implements port.NoteRepository using PostgreSQL.
type NoteRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
	now     func() time.Time
}

// NewNoteRepository wires a PostgreSQL-backed note repository. Any executor
// satisfying pgExecutor works, including a pool, a transaction, or a mock.
func NewNoteRepository(exec pgExecutor) *NoteRepository {
	return &NoteRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the repository clock for deterministic tests.
func (r *NoteRepository) WithClock(clock func() time.Time) *NoteRepository {
	if clock != nil {
		r.now = clock
	}
	return r
}

// Create inserts a new note row and returns it with assigned identifier and
// timestamps.
func (r *NoteRepository) Create(ctx context.Context, note domain.Note) (*domain.Note, error) {
	tags, err := marshalTags(note.Tags)
	if err != nil {
		return nil, err
	}

	now := r.now()

	stmt, args, err := r.builder.Insert(notesTable).
		Columns("title", "content", "tags", "created_at", "updated_at", "is_deleted").
		Values(note.Title, note.Content, tags, now, now, false).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert note sql: %w", err)
	}

	created := note
	created.IsDeleted = false
	created.DeletedAt = nil

	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a note by identifier. Soft-deleted notes are filtered
// out unless includeDeleted is set.
func (r *NoteRepository) GetByID(ctx context.Context, id int64, includeDeleted bool) (*domain.Note, error) {
	query := r.builder.
		Select(noteColumns...).
		From(notesTable).
		Where(squirrel.Eq{"id": id})

	if !includeDeleted {
		query = query.Where(squirrel.Eq{"is_deleted": false})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select note sql: %w", err)
	}

	note, err := scanNote(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select note: %w", err)
	}

	return note, nil
}

// List returns notes matching the filter, newest first. The visibility
// filter is pushed into the query.
func (r *NoteRepository) List(ctx context.Context, filter port.NoteFilter) ([]domain.Note, error) {
	query := r.builder.
		Select(noteColumns...).
		From(notesTable).
		OrderBy("created_at DESC")

	if !filter.IncludeDeleted {
		query = query.Where(squirrel.Eq{"is_deleted": false})
	}
	if filter.TitleContains != "" {
		query = query.Where(squirrel.ILike{"title": "%" + filter.TitleContains + "%"})
	}
	if filter.Tag != "" {
		tag, err := marshalTags([]string{filter.Tag})
		if err != nil {
			return nil, err
		}
		query = query.Where(squirrel.Expr("tags @> ?", tag))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note rows: %w", err)
	}

	return notes, nil
}

// SoftDelete marks a live note deleted, stamping deleted_at exactly once.
// Already-deleted and absent notes both resolve to ErrNotFound.
func (r *NoteRepository) SoftDelete(ctx context.Context, id int64, at time.Time) (*domain.Note, error) {
	if at.IsZero() {
		at = r.now()
	}

	stmt, args, err := r.builder.Update(notesTable).
		Set("is_deleted", true).
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		Suffix("RETURNING " + strings.Join(noteColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build soft delete sql: %w", err)
	}

	note, err := scanNote(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("soft delete note: %w", err)
	}

	return note, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var (
		note      domain.Note
		tags      []byte
		deletedAt *time.Time
	)

	if err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&tags,
		&note.CreatedAt,
		&note.UpdatedAt,
		&note.IsDeleted,
		&deletedAt,
	); err != nil {
		return nil, err
	}

	note.DeletedAt = deletedAt

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &note.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal note tags: %w", err)
		}
	}

	return &note, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal note tags: %w", err)
	}
	return data, nil
}

var _ port.NoteRepository = (*NoteRepository)(nil)
