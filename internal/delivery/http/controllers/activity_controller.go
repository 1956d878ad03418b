package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"activitysignup/internal/delivery/http/helpers"
	"activitysignup/internal/domain"
)

type ActivityController struct {
	Logger  *slog.Logger
	Service domain.ActivityService
}

func NewActivityController(logger *slog.Logger, svc domain.ActivityService) *ActivityController {
	return &ActivityController{
		Logger:  logger,
		Service: svc,
	}
}

// participantQuery is the query string shared by signup and unregister.
type participantQuery struct {
	Email string `json:"email"`
}

func newParticipantQuery(r *http.Request) participantQuery {
	return participantQuery{Email: strings.TrimSpace(r.URL.Query().Get("email"))}
}

// Validate implements validation.Validatable.
func (q participantQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Email, validation.Required, is.EmailFormat),
	)
}

// ListActivitiesResponse maps activity name to its record.
type ListActivitiesResponse map[string]*domain.Activity

// ListActivities godoc
// @Summary List activities
// @Description Returns every activity keyed by name, with description, schedule, capacity and current participants.
// @Tags activities
// @Produce json
// @Success 200 {object} controllers.ListActivitiesResponse
// @Failure 500 {object} helpers.ErrorResponse "code: internal_error"
// @Router /activities [get]
func (c *ActivityController) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := c.Service.ListActivities(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list activities")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ListActivitiesResponse(activities))
}

// Signup godoc
// @Summary Sign up for an activity
// @Description Appends the email to the activity's roster. Emails are compared case-insensitively and the roster may not exceed max_participants.
// @Tags activities
// @Produce json
// @Param name path string true "Activity name (URL-encoded)"
// @Param email query string true "Participant email"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.ErrorResponse "code: bad_request (already signed up)"
// @Failure 404 {object} helpers.ErrorResponse "code: not_found"
// @Failure 409 {object} helpers.ErrorResponse "code: conflict (activity full)"
// @Failure 422 {object} helpers.ErrorResponse "code: unprocessable_entity"
// @Failure 500 {object} helpers.ErrorResponse "code: internal_error"
// @Router /activities/{name}/signup [post]
func (c *ActivityController) Signup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	q := newParticipantQuery(r)
	if !helpers.ValidateRequest(w, q) {
		return
	}

	if _, err := c.Service.Signup(r.Context(), name, q.Email); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, fmt.Sprintf("Signed up %s for %s", q.Email, name))
}

// Unregister godoc
// @Summary Remove a participant from an activity
// @Description Removes the email from the activity's roster, keeping the order of the remaining participants.
// @Tags activities
// @Produce json
// @Param name path string true "Activity name (URL-encoded)"
// @Param email query string true "Participant email"
// @Success 200 {object} helpers.MessageResponse
// @Failure 404 {object} helpers.ErrorResponse "code: not_found (unknown activity or not registered)"
// @Failure 422 {object} helpers.ErrorResponse "code: unprocessable_entity"
// @Failure 500 {object} helpers.ErrorResponse "code: internal_error"
// @Router /activities/{name}/participants [delete]
func (c *ActivityController) Unregister(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	q := newParticipantQuery(r)
	if !helpers.ValidateRequest(w, q) {
		return
	}

	if _, err := c.Service.Unregister(r.Context(), name, q.Email); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, fmt.Sprintf("Unregistered %s from %s", q.Email, name))
}

// writeError maps service errors to status codes.
func (c *ActivityController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Activity not found")
	case errors.Is(err, domain.ErrNotRegistered):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Student not registered for this activity")
	case errors.Is(err, domain.ErrAlreadySignedUp):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Student already signed up")
	case errors.Is(err, domain.ErrActivityFull):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "Activity is full")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
