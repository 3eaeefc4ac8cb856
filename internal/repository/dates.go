package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/garrettladley/moyo/internal/model"
)

func toPgDate(d model.Date) pgtype.Date {
	return pgtype.Date{Time: d.In(time.UTC), Valid: !d.IsZero()}
}

func toPgDatePtr(d *model.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return toPgDate(*d)
}

func fromPgDate(d pgtype.Date) model.Date {
	if !d.Valid {
		return model.Date{}
	}
	return model.DateOf(d.Time)
}

func fromPgDatePtr(d pgtype.Date) *model.Date {
	if !d.Valid {
		return nil
	}
	date := model.DateOf(d.Time)
	return &date
}

func toPgTime(c model.ClockTime) pgtype.Time {
	micros := (int64(c.Hour)*60 + int64(c.Minute)) * int64(time.Minute/time.Microsecond)
	return pgtype.Time{Microseconds: micros, Valid: true}
}

func fromPgTime(t pgtype.Time) model.ClockTime {
	if !t.Valid {
		return model.DefaultReminderTime
	}
	minutes := t.Microseconds / int64(time.Minute/time.Microsecond)
	return model.ClockTime{Hour: int(minutes / 60), Minute: int(minutes % 60)}
}
