package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/jaskcontacts/internal/domain"
)

const personColumns = "id, first_name, last_name, email, phone, image_path"

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row scanner) (domain.Person, error) {
	var p domain.Person
	var id string
	var email, phone, image sql.NullString
	if err := row.Scan(&id, &p.FirstName, &p.LastName, &email, &phone, &image); err != nil {
		return domain.Person{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Person{}, err
	}
	p.ID = parsed
	if email.Valid {
		p.Email = &email.String
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	if image.Valid {
		p.ImagePath = &image.String
	}
	return p, nil
}
