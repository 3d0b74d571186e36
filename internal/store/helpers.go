package store

import (
	"database/sql"

	"github.com/BTreeMap/BookFlow/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nilIfZero returns nil if n is zero, otherwise returns n.
// Used for nullable database columns.
func nilIfZero(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

// scanUserProfile scans a UserProfile from a single sql.Row, mapping NULL
// slot columns back to zero values.
func scanUserProfile(row *sql.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	var name, date sql.NullString
	var age sql.NullInt64
	err := row.Scan(&p.ParticipantID, &name, &age, &date, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Name = name.String
	p.Age = int(age.Int64)
	p.Date = date.String
	return &p, nil
}
