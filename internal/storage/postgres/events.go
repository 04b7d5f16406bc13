package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

const eventColumns = `id, title, event_type, date, end_date, start_time, end_time,
	day_kind, attendees, link, agenda, owner_employee_id, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.CalendarEvent, error) {
	var (
		e                  model.CalendarEvent
		startTime, endTime *string
		dayKind            string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Type, &e.Date, &e.EndDate, &startTime, &endTime,
		&dayKind, &e.Attendees, &e.Link, &e.Agenda, &e.OwnerEmployeeID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Date = model.DateOnly(e.Date.UTC())
	e.EndDate = model.DateOnly(e.EndDate.UTC())
	if startTime != nil {
		c, err := model.ParseClock(*startTime)
		if err != nil {
			return nil, err
		}
		e.StartTime = &c
	}
	if endTime != nil {
		c, err := model.ParseClock(*endTime)
		if err != nil {
			return nil, err
		}
		e.EndTime = &c
	}
	e.DayKind = model.DayKind(dayKind)
	return &e, nil
}

func clockArg(c *model.Clock) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

func (s *Store) ListEventsForRange(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE date <= $1::date AND end_date >= $2::date
		ORDER BY date, start_time, id
	`, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id string) (*model.CalendarEvent, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = $1::uuid
	`, id)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return e, err
}

func (s *Store) CreateEvent(ctx context.Context, draft model.CalendarEvent) (*model.CalendarEvent, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	attendees := draft.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1::uuid, $2, $3, $4::date, $5::date, $6, $7, $8, $9, $10, $11, $12, $13, $13)
	`, draft.ID, draft.Title, string(draft.Type), draft.Date, draft.EndDate,
		clockArg(draft.StartTime), clockArg(draft.EndTime),
		string(draft.DayKind), attendees, draft.Link, draft.Agenda,
		draft.OwnerEmployeeID, now)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch storage.Patch) (*model.CalendarEvent, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = $1::uuid FOR UPDATE
	`, id)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	patch.Apply(e)
	e.Normalize()
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.UpdatedAt = time.Now().UTC()

	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	_, err = tx.Exec(ctx, `
		UPDATE events SET title = $2, event_type = $3, date = $4::date, end_date = $5::date,
			start_time = $6, end_time = $7, day_kind = $8, attendees = $9,
			link = $10, agenda = $11, updated_at = $12
		WHERE id = $1::uuid
	`, id, e.Title, string(e.Type), e.Date, e.EndDate,
		clockArg(e.StartTime), clockArg(e.EndTime),
		string(e.DayKind), attendees, e.Link, e.Agenda, e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id, requestingEmployeeID string, force bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var owner string
	err = tx.QueryRow(ctx, `SELECT owner_employee_id FROM events WHERE id = $1::uuid`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !force && owner != requestingEmployeeID {
		return storage.ErrForbidden
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1::uuid`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM events WHERE end_date < $1::date
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
