package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/validation"
)

// IngestService handles CSV imports of contacts.
type IngestService struct {
	People domain.PeopleRepository
}

type IngestResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

var csvHeader = []string{"first_name", "last_name", "email", "phone", "image_path"}

// ImportCSV reads first_name, last_name, email, phone, image_path rows (header
// optional), validates each one and adds the valid rows in one batch.
// Invalid rows are reported per line and skipped.
func (s *IngestService) ImportCSV(ctx context.Context, r io.Reader) (IngestResult, error) {
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	var batch []domain.Person
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 2 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected at least 2 columns (first_name, last_name)", line))
			continue
		}
		fs := validation.Fields{FirstName: strings.TrimSpace(rec[0]), LastName: strings.TrimSpace(rec[1])}
		if len(rec) > 2 {
			fs.Email = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			fs.Phone = strings.TrimSpace(rec[3])
		}
		if len(rec) > 4 {
			fs.ImagePath = strings.TrimSpace(rec[4])
		}
		if errs := validation.Validate(fs); !errs.Valid() {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %s", line, errs.Joined()))
			res.Skipped++
			continue
		}
		p := domain.NewPerson(fs.FirstName, fs.LastName)
		p.Email = domain.Optional(fs.Email)
		p.Phone = domain.Optional(fs.Phone)
		p.ImagePath = domain.Optional(fs.ImagePath)
		batch = append(batch, p)
	}

	if len(batch) == 0 {
		return res, nil
	}
	ok, err := s.People.AddAll(ctx, batch)
	if err != nil {
		return res, fmt.Errorf("add people: %w", err)
	}
	if !ok {
		res.Skipped += len(batch)
		res.Errors = append(res.Errors, fmt.Errorf("repository rejected %d people", len(batch)))
		return res, nil
	}
	res.Imported = len(batch)
	return res, nil
}

func isHeader(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(rec[0]), csvHeader[0]) &&
		strings.EqualFold(strings.TrimSpace(rec[1]), csvHeader[1])
}
