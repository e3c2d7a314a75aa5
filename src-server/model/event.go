package model

import (
	"fmt"
	"unicode/utf8"

	"github.com/uptrace/bun"
)

const TitleMaxLength = 30

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID    int64     `bun:"id,pk,autoincrement"`
	Title string    `bun:"title,notnull,unique,type:varchar(30)"` // required
	Date  Date      `bun:"date,notnull,type:date"`                // required
	Time  TimeOfDay `bun:"time,notnull,type:time"`                // required
}

// CheckShape reports ErrInvalidData for values the table would refuse.
func (e *Event) CheckShape() error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is blank", ErrInvalidData)
	case utf8.RuneCountInString(e.Title) > TitleMaxLength:
		return fmt.Errorf("%w: title is longer than %d characters", ErrInvalidData, TitleMaxLength)
	case e.Date.IsZero():
		return fmt.Errorf("%w: date is blank", ErrInvalidData)
	case !e.Time.Valid():
		return fmt.Errorf("%w: time %s is out of range", ErrInvalidData, e.Time)
	}
	return nil
}
