package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/jask/jaskcontacts/internal/database"
	"github.com/jask/jaskcontacts/internal/domain"
)

// PeopleRepo stores people in sqlite.
type PeopleRepo struct {
	db  *sql.DB
	hub *changeHub
}

var _ domain.PeopleRepository = (*PeopleRepo)(nil)

func NewPeopleRepo(db *sql.DB) *PeopleRepo {
	return &PeopleRepo{db: db, hub: newChangeHub()}
}

// List returns everyone ordered by last, then first name.
func (r *PeopleRepo) List(ctx context.Context) ([]domain.Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+personColumns+` FROM people ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PeopleRepo) SubscribeAll(ctx context.Context) <-chan domain.PeopleUpdate {
	out := make(chan domain.PeopleUpdate)
	changes := r.hub.subscribe()
	go func() {
		defer close(out)
		defer r.hub.unsubscribe(changes)
		for {
			people, err := r.List(ctx)
			if ctx.Err() != nil {
				return
			}
			u := domain.PeopleUpdate{People: people}
			if err != nil {
				u = domain.PeopleUpdate{Err: fmt.Errorf("list people: %w", err)}
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return
			}
			select {
			case <-changes:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (r *PeopleRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE id = ?`, id.String())
	p, err := scanPerson(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PeopleRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&n)
	return n, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertPerson(ctx context.Context, db execer, p domain.Person) error {
	_, err := db.ExecContext(ctx, `
	INSERT INTO people(id, first_name, last_name, email, phone, image_path, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, p.ID.String(), p.FirstName, p.LastName, p.Email, p.Phone, p.ImagePath)
	return err
}

// Add inserts p. A duplicate id is reported as a recoverable failure.
func (r *PeopleRepo) Add(ctx context.Context, p domain.Person) (bool, error) {
	if err := insertPerson(ctx, r.db, p); err != nil {
		if isConstraint(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert person: %w", err)
	}
	r.hub.notify()
	return true, nil
}

// AddAll inserts every person or none of them.
func (r *PeopleRepo) AddAll(ctx context.Context, people []domain.Person) (bool, error) {
	err := database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, p := range people {
			if err := insertPerson(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isConstraint(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert people: %w", err)
	}
	r.hub.notify()
	return true, nil
}

// Update overwrites p. An unknown id is reported as a recoverable failure.
func (r *PeopleRepo) Update(ctx context.Context, p domain.Person) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE people SET
	 first_name=?, last_name=?, email=?, phone=?, image_path=?, updated_at=CURRENT_TIMESTAMP
	WHERE id = ?`, p.FirstName, p.LastName, p.Email, p.Phone, p.ImagePath, p.ID.String())
	if err != nil {
		return false, fmt.Errorf("update person: %w", err)
	}
	return r.changed(res)
}

func (r *PeopleRepo) Remove(ctx context.Context, p domain.Person) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, p.ID.String())
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	return r.changed(res)
}

// Reset deletes everyone.
func (r *PeopleRepo) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM people`); err != nil {
		return fmt.Errorf("reset people: %w", err)
	}
	r.hub.notify()
	return nil
}

func (r *PeopleRepo) changed(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	r.hub.notify()
	return true, nil
}

func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
