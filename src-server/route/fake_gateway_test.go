package route_test

import (
	"context"
	"strconv"

	"bulletin/src-server/model"
)

// fakeGateway serves failures a real store won't produce on demand.
// err fails every write, getErr fails GetByID, and event is what GetByID
// returns otherwise (nil means not found).
type fakeGateway struct {
	err    error
	getErr error
	event  *model.Event
	panics bool
	calls  int
}

func (f *fakeGateway) call() {
	f.calls++
	if f.panics {
		panic("fake gateway")
	}
}

func (f *fakeGateway) ListAll(ctx context.Context) ([]model.Event, error) {
	f.call()
	return []model.Event{}, nil
}

func (f *fakeGateway) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	f.call()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.event == nil || f.event.ID != id {
		return nil, model.ErrNotFound
	}
	event := *f.event
	return &event, nil
}

func (f *fakeGateway) Create(ctx context.Context, title string, date model.Date, tod model.TimeOfDay) (*model.Event, error) {
	f.call()
	if f.err != nil {
		return nil, f.err
	}
	return &model.Event{ID: 1, Title: title, Date: date, Time: tod}, nil
}

func (f *fakeGateway) Update(ctx context.Context, id int64, title string, date model.Date, tod model.TimeOfDay) (*model.Event, error) {
	f.call()
	if f.err != nil {
		return nil, f.err
	}
	return &model.Event{ID: id, Title: title, Date: date, Time: tod}, nil
}

func (f *fakeGateway) Delete(ctx context.Context, id int64) error {
	f.call()
	return f.err
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
