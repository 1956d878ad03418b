package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"activitysignup/internal/domain"
	"activitysignup/internal/observability"
)

type activityService struct {
	repo   domain.ActivityRepository
	emails domain.EmailService
	logger *slog.Logger
}

// NewActivityService creates an ActivityService over the given directory.
// emails may be nil, in which case no roster emails are sent.
func NewActivityService(repo domain.ActivityRepository, emails domain.EmailService, logger *slog.Logger) domain.ActivityService {
	return &activityService{
		repo:   repo,
		emails: emails,
		logger: logger,
	}
}

func (s *activityService) ListActivities(ctx context.Context) (map[string]*domain.Activity, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make(map[string]*domain.Activity, len(activities))
	for _, a := range activities {
		out[a.Name] = a
	}
	return out, nil
}

func (s *activityService) Signup(ctx context.Context, activityName, email string) (activity *domain.Activity, err error) {
	defer func() { observability.RecordSignup(err) }()

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	activity, err = s.repo.Update(ctx, activityName, func(a *domain.Activity) error {
		return a.Signup(email)
	})
	if err != nil {
		return nil, fmt.Errorf("signup %q: %w", activityName, err)
	}

	s.logger.InfoContext(ctx, "participant signed up", "activity", activityName, "spots_left", activity.SpotsLeft())
	s.logger.DebugContext(ctx, "signup detail", "activity", activityName, "email", email)
	if s.emails != nil {
		data := rosterEmailData(activity, email)
		if mailErr := s.emails.SendSignupConfirmation(ctx, data); mailErr != nil {
			s.logger.WarnContext(ctx, "signup confirmation not sent", "activity", activityName, "err", mailErr)
		}
	}
	return activity, nil
}

func (s *activityService) Unregister(ctx context.Context, activityName, email string) (activity *domain.Activity, err error) {
	defer func() { observability.RecordUnregister(err) }()

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	var removed string
	activity, err = s.repo.Update(ctx, activityName, func(a *domain.Activity) error {
		var uerr error
		removed, uerr = a.Unregister(email)
		return uerr
	})
	if err != nil {
		return nil, fmt.Errorf("unregister %q: %w", activityName, err)
	}

	s.logger.InfoContext(ctx, "participant unregistered", "activity", activityName, "spots_left", activity.SpotsLeft())
	s.logger.DebugContext(ctx, "unregister detail", "activity", activityName, "email", removed)
	if s.emails != nil {
		data := rosterEmailData(activity, removed)
		if mailErr := s.emails.SendUnregisterNotice(ctx, data); mailErr != nil {
			s.logger.WarnContext(ctx, "unregister notice not sent", "activity", activityName, "err", mailErr)
		}
	}
	return activity, nil
}

// normalizeEmail trims the address and checks it is present and well formed.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return "", fmt.Errorf("%w: email %v", domain.ErrInvalidInput, err)
	}
	return email, nil
}

func rosterEmailData(a *domain.Activity, email string) *domain.RosterEmailData {
	return &domain.RosterEmailData{
		Email:        email,
		ActivityName: a.Name,
		Schedule:     a.Schedule,
		SpotsLeft:    a.SpotsLeft(),
	}
}
