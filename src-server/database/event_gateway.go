package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bulletin/src-server/model"
	"bulletin/src-server/utils"

	"github.com/uptrace/bun"
)

// EventGateway is the only place that talks to the events table. Every write
// runs in its own transaction; bun rolls it back when the callback fails.
type EventGateway struct {
	db      *bun.DB
	metrics *utils.Metric
}

func (g *EventGateway) ListAll(ctx context.Context) ([]model.Event, error) {
	start := time.Now()
	events := make([]model.Event, 0)
	if err := g.db.NewSelect().
		Model(&events).
		OrderExpr("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*EventGateway).ListAll: %w", err)
	}
	g.metrics.ObserveRead(start)
	return events, nil
}

func (g *EventGateway) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	start := time.Now()
	event := new(model.Event)
	err := g.db.NewSelect().
		Model(event).
		Where("id = ?", id).
		Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("(*EventGateway).GetByID: %w", model.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("(*EventGateway).GetByID: %w", err)
	}
	g.metrics.ObserveRead(start)
	return event, nil
}

func (g *EventGateway) Create(ctx context.Context, title string, date model.Date, tod model.TimeOfDay) (*model.Event, error) {
	event := &model.Event{Title: title, Date: date, Time: tod}
	if err := event.CheckShape(); err != nil {
		return nil, fmt.Errorf("(*EventGateway).Create: %w", err)
	}

	start := time.Now()
	if err := g.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(event).
			Exec(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("(*EventGateway).Create: %w", mapError(err))
	}
	g.metrics.ObserveWrite(start)
	return event, nil
}

func (g *EventGateway) Update(ctx context.Context, id int64, title string, date model.Date, tod model.TimeOfDay) (*model.Event, error) {
	event := &model.Event{ID: id, Title: title, Date: date, Time: tod}

	start := time.Now()
	if err := g.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*model.Event)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		switch {
		case err != nil:
			return err
		case !exists:
			return model.ErrNotFound
		}

		if err := event.CheckShape(); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model(event).
			Column("title", "date", "time").
			WherePK().
			Exec(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("(*EventGateway).Update: %w", mapError(err))
	}
	g.metrics.ObserveWrite(start)
	return event, nil
}

func (g *EventGateway) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	if err := g.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*model.Event)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return model.ErrNotFound
		}
		return nil
	}); err != nil {
		return fmt.Errorf("(*EventGateway).Delete: %w", mapError(err))
	}
	g.metrics.ObserveWrite(start)
	return nil
}

// EmptyRead times a query that matches nothing, for the latency gauge.
func (g *EventGateway) EmptyRead(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := g.db.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", 0).
		Exists(ctx); err != nil {
		return 0, fmt.Errorf("(*EventGateway).EmptyRead: %w", err)
	}
	return time.Since(start), nil
}

func (g *EventGateway) Close() error {
	return g.db.Close()
}
