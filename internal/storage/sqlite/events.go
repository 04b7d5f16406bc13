package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

const dateLayout = "2006-01-02"

const eventColumns = `id, title, event_type, date, end_date, start_time, end_time,
	day_kind, attendees, link, agenda, owner_employee_id, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.CalendarEvent, error) {
	var (
		e                  model.CalendarEvent
		dateStr, endStr    string
		startTime, endTime sql.NullString
		dayKind, attendees string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Type, &dateStr, &endStr, &startTime, &endTime,
		&dayKind, &attendees, &e.Link, &e.Agenda, &e.OwnerEmployeeID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if e.Date, err = time.ParseInLocation(dateLayout, dateStr, time.UTC); err != nil {
		return nil, fmt.Errorf("bad date %q: %w", dateStr, err)
	}
	if e.EndDate, err = time.ParseInLocation(dateLayout, endStr, time.UTC); err != nil {
		return nil, fmt.Errorf("bad end_date %q: %w", endStr, err)
	}
	if startTime.Valid {
		c, err := model.ParseClock(startTime.String)
		if err != nil {
			return nil, err
		}
		e.StartTime = &c
	}
	if endTime.Valid {
		c, err := model.ParseClock(endTime.String)
		if err != nil {
			return nil, err
		}
		e.EndTime = &c
	}
	e.DayKind = model.DayKind(dayKind)
	if attendees != "" {
		if err := json.Unmarshal([]byte(attendees), &e.Attendees); err != nil {
			return nil, fmt.Errorf("bad attendees: %w", err)
		}
	}
	return &e, nil
}

func clockArg(c *model.Clock) any {
	if c == nil {
		return nil
	}
	return c.String()
}

func attendeesArg(a []string) (string, error) {
	if a == nil {
		a = []string{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) ListEventsForRange(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE date <= ? AND end_date >= ?
		ORDER BY date, start_time, id
	`, end.Format(dateLayout), start.Format(dateLayout))
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
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = ?
	`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
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

	attendees, err := attendeesArg(draft.Attendees)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, draft.ID, draft.Title, string(draft.Type),
		draft.Date.Format(dateLayout), draft.EndDate.Format(dateLayout),
		clockArg(draft.StartTime), clockArg(draft.EndTime),
		string(draft.DayKind), attendees, draft.Link, draft.Agenda,
		draft.OwnerEmployeeID, draft.CreatedAt, draft.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch storage.Patch) (*model.CalendarEvent, error) {
	var updated *model.CalendarEvent
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+eventColumns+` FROM events WHERE id = ?
		`, id)
		e, err := scanEvent(row)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		patch.Apply(e)
		e.Normalize()
		if err := e.Validate(); err != nil {
			return err
		}
		e.UpdatedAt = time.Now().UTC()

		attendees, err := attendeesArg(e.Attendees)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE events SET title = ?, event_type = ?, date = ?, end_date = ?,
				start_time = ?, end_time = ?, day_kind = ?, attendees = ?,
				link = ?, agenda = ?, updated_at = ?
			WHERE id = ?
		`, e.Title, string(e.Type),
			e.Date.Format(dateLayout), e.EndDate.Format(dateLayout),
			clockArg(e.StartTime), clockArg(e.EndTime),
			string(e.DayKind), attendees, e.Link, e.Agenda, e.UpdatedAt, id)
		if err != nil {
			return err
		}
		updated = e
		return nil
	})
	return updated, err
}

func (s *Store) DeleteEvent(ctx context.Context, id, requestingEmployeeID string, force bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var owner string
		err := tx.QueryRowContext(ctx, `SELECT owner_employee_id FROM events WHERE id = ?`, id).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !force && owner != requestingEmployeeID {
			return storage.ErrForbidden
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		return err
	})
}

func (s *Store) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE end_date < ?
	`, cutoff.Format(dateLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
