package route

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bulletin/src-server/flash"
	"bulletin/src-server/model"
	"bulletin/src-server/utils"
	"bulletin/src-server/validate"
	"bulletin/src-server/view"
)

// EventGateway is what the handlers need from the persistence layer.
type EventGateway interface {
	ListAll(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Create(ctx context.Context, title string, date model.Date, tod model.TimeOfDay) (*model.Event, error)
	Update(ctx context.Context, id int64, title string, date model.Date, tod model.TimeOfDay) (*model.Event, error)
	Delete(ctx context.Context, id int64) error
}

var (
	ErrMissingSelection = errors.New("no event selected")
	ErrInvalidAction    = errors.New("invalid action")
)

const (
	ACTION_UPDATE = "update"
	ACTION_DELETE = "delete"
)

const listPath = "/list_events"

func Events(muxer *http.ServeMux, as *utils.AppState, gw EventGateway) {
	validator := func() *validate.Validator {
		if as.Config.GetNaturalDates() {
			return validate.New(validate.WithNaturalDates())
		}
		return validate.New()
	}()
	secret := as.Config.GetSecretKey()

	// redirect to the list with one feedback message
	redirectToList := func(w http.ResponseWriter, r *http.Request, msg flash.Message) {
		if err := flash.Set(w, secret, msg); err != nil {
			requestLogger(r).Error("can't set flash message", "error", err)
		}
		http.Redirect(w, r, listPath, http.StatusSeeOther)
	}

	// the event named by {id}, or a not-found page; ok is false when a response was written
	loadEvent := func(w http.ResponseWriter, r *http.Request) (*model.Event, bool) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			view.Render(w, http.StatusNotFound, "not_found.html", view.Page{Title: "Event not found"})
			return nil, false
		}
		event, err := gw.GetByID(r.Context(), id)
		switch {
		case errors.Is(err, model.ErrNotFound):
			view.Render(w, http.StatusNotFound, "not_found.html", view.Page{Title: "Event not found"})
			return nil, false
		case err != nil:
			requestLogger(r).Error("can't get event", "id", id, "error", err)
			redirectToList(w, r, flash.Danger("Could not load the event, please try again."))
			return nil, false
		}
		return event, true
	}

	// validate a submitted form; on failure the form has been re-rendered
	validateForm := func(w http.ResponseWriter, r *http.Request, page view.Page) (validate.EventFields, bool) {
		if err := r.ParseForm(); err != nil {
			page.Messages = []flash.Message{flash.Danger("Could not read the submitted form.")}
			view.Render(w, http.StatusBadRequest, "event_form.html", page)
			return validate.EventFields{}, false
		}
		page.Form.Title = r.PostFormValue("title")
		page.Form.Date = r.PostFormValue("date")
		page.Form.Time = r.PostFormValue("time")

		fields, err := validator.Event(validate.EventForm{
			Title: page.Form.Title,
			Date:  page.Form.Date,
			Time:  page.Form.Time,
		})
		var fieldErrs validate.FieldErrors
		if errors.As(err, &fieldErrs) {
			page.Form.Errors = fieldErrs.ByField()
			view.Render(w, http.StatusUnprocessableEntity, "event_form.html", page)
			return validate.EventFields{}, false
		}
		return fields, true
	}

	// re-render a form after the gateway refused the write
	renderWriteError := func(w http.ResponseWriter, r *http.Request, page view.Page, err error) {
		switch {
		case errors.Is(err, model.ErrDuplicateTitle):
			page.Form.Errors = map[string]string{validate.FieldTitle: "An event with this title already exists."}
			view.Render(w, http.StatusConflict, "event_form.html", page)
		case errors.Is(err, model.ErrInvalidData):
			page.Messages = []flash.Message{flash.Danger("The event could not be saved, the data is invalid.")}
			view.Render(w, http.StatusUnprocessableEntity, "event_form.html", page)
		default:
			requestLogger(r).Error("can't save event", "error", err)
			page.Messages = []flash.Message{flash.Danger("Something went wrong, the event was not saved.")}
			view.Render(w, http.StatusInternalServerError, "event_form.html", page)
		}
	}

	// list all events
	muxer.HandleFunc("GET "+listPath, func(w http.ResponseWriter, r *http.Request) {
		page := view.Page{
			Title:    "Events",
			Messages: flash.Pop(w, r, secret),
		}
		events, err := gw.ListAll(r.Context())
		if err != nil {
			requestLogger(r).Error("can't list events", "error", err)
			page.Messages = append(page.Messages, flash.Danger("Could not load events."))
			view.Render(w, http.StatusInternalServerError, "events.html", page)
			return
		}
		page.Events = events
		view.Render(w, http.StatusOK, "events.html", page)
	})

	addPage := func() view.Page {
		return view.Page{
			Title: "Add event",
			Form:  &view.Form{Action: "/add_event", SubmitLabel: "Add"},
		}
	}

	// empty add form
	muxer.HandleFunc("GET /add_event", func(w http.ResponseWriter, r *http.Request) {
		view.Render(w, http.StatusOK, "event_form.html", addPage())
	})

	// create an event
	muxer.HandleFunc("POST /add_event", func(w http.ResponseWriter, r *http.Request) {
		page := addPage()
		fields, ok := validateForm(w, r, page)
		if !ok {
			return
		}

		event, err := gw.Create(r.Context(), fields.Title, fields.Date, fields.Time)
		if err != nil {
			renderWriteError(w, r, page, err)
			return
		}
		requestLogger(r).Info("event added", "id", event.ID, "title", event.Title)
		redirectToList(w, r, flash.Success("Added event"))
	})

	// route a row action from the list to update or delete
	muxer.HandleFunc("POST /event_action", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectToList(w, r, flash.Danger("Could not read the submitted form."))
			return
		}

		id, action, err := func() (int64, string, error) {
			rawID := strings.TrimSpace(r.PostFormValue("event_id"))
			if rawID == "" {
				return 0, "", ErrMissingSelection
			}
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				return 0, "", ErrMissingSelection
			}
			action := r.PostFormValue("action")
			switch action {
			case ACTION_UPDATE, ACTION_DELETE:
				return id, action, nil
			}
			return 0, "", ErrInvalidAction
		}()
		switch {
		case errors.Is(err, ErrMissingSelection):
			redirectToList(w, r, flash.Warning("Please select an event first."))
			return
		case errors.Is(err, ErrInvalidAction):
			redirectToList(w, r, flash.Danger("Invalid action."))
			return
		}

		switch action {
		case ACTION_UPDATE:
			http.Redirect(w, r, view.UpdatePath(id), http.StatusSeeOther)
		case ACTION_DELETE:
			http.Redirect(w, r, "/delete_event/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
		}
	})

	// pre-populated update form
	muxer.HandleFunc("GET /update_event/{id}", func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadEvent(w, r)
		if !ok {
			return
		}
		view.Render(w, http.StatusOK, "event_form.html", view.Page{
			Title: "Update event",
			Form:  view.FormFromEvent(event, view.UpdatePath(event.ID), "Update"),
		})
	})

	// overwrite an event
	muxer.HandleFunc("POST /update_event/{id}", func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadEvent(w, r)
		if !ok {
			return
		}
		page := view.Page{
			Title: "Update event",
			Form:  &view.Form{Action: view.UpdatePath(event.ID), SubmitLabel: "Update"},
		}
		fields, ok := validateForm(w, r, page)
		if !ok {
			return
		}

		updated, err := gw.Update(r.Context(), event.ID, fields.Title, fields.Date, fields.Time)
		switch {
		case errors.Is(err, model.ErrNotFound):
			// deleted between load and update
			view.Render(w, http.StatusNotFound, "not_found.html", view.Page{Title: "Event not found"})
			return
		case err != nil:
			renderWriteError(w, r, page, err)
			return
		}
		requestLogger(r).Info("event updated", "id", updated.ID, "title", updated.Title)
		redirectToList(w, r, flash.Success("Updated event"))
	})

	// delete an event
	muxer.HandleFunc("GET /delete_event/{id}", func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadEvent(w, r)
		if !ok {
			return
		}

		err := gw.Delete(r.Context(), event.ID)
		switch {
		case errors.Is(err, model.ErrNotFound):
			view.Render(w, http.StatusNotFound, "not_found.html", view.Page{Title: "Event not found"})
			return
		case err != nil:
			requestLogger(r).Error("can't delete event", "id", event.ID, "error", err)
			redirectToList(w, r, flash.Danger("Something went wrong, the event was not deleted."))
			return
		}
		requestLogger(r).Info("event deleted", "id", event.ID, "title", event.Title)
		redirectToList(w, r, flash.Success("Deleted event"))
	})
}
