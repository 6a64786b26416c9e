package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/model"
	"github.com/iliyamo/tedris-portal/internal/queue"
	"github.com/iliyamo/tedris-portal/internal/repository"
	"github.com/iliyamo/tedris-portal/internal/utils"
	"github.com/iliyamo/tedris-portal/internal/validation"
)

// UserWriter is the slice of the user repository registration needs.
type UserWriter interface {
	ExistsAny(ctx context.Context, phone, nationalID, employeeID string) (string, error)
	Create(ctx context.Context, u *model.User) (uint64, error)
}

// SchoolWriter creates a school on first mention.
type SchoolWriter interface {
	CreateIfAbsent(ctx context.Context, name, region, subRegion string) (bool, error)
}

// Publisher delivers user.registered events. A nil Publisher disables
// publishing.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// publishTimeout bounds the best-effort event publish.
const publishTimeout = 3 * time.Second

// Registration validates a form and persists a new user.
type Registration struct {
	Users   UserWriter
	Schools SchoolWriter
	Events  Publisher
	Cost    int
	Log     *zap.Logger
	Now     func() time.Time
}

func NewRegistration(users UserWriter, schools SchoolWriter, events Publisher, cost int, log *zap.Logger) *Registration {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registration{Users: users, Schools: schools, Events: events, Cost: cost, Log: log, Now: time.Now}
}

// Register returns the new user's ID. Failures are validation.Errors for a
// rejected form, a *DuplicateError (errors.Is ErrDuplicateUser) when an
// identifier is taken, or ErrPersistence. Nothing is written unless the
// form is valid and every identifier is free.
func (s *Registration) Register(ctx context.Context, in validation.RegistrationInput) (uint64, error) {
	reg, err := validation.ValidateRegistration(in)
	if err != nil {
		registrationsTotal.WithLabelValues(OutcomeInvalid).Inc()
		return 0, err
	}

	field, err := s.Users.ExistsAny(ctx, reg.Phone, reg.NationalID, reg.EmployeeID)
	if err != nil {
		return 0, s.persistenceErr("uniqueness check", err)
	}
	if field != "" {
		registrationsTotal.WithLabelValues(OutcomeDuplicate).Inc()
		return 0, &DuplicateError{Field: field}
	}

	hash, err := utils.HashPassword(reg.Password, s.Cost)
	if err != nil {
		return 0, s.persistenceErr("hash password", err)
	}

	if reg.IsNewSchool {
		created, err := s.Schools.CreateIfAbsent(ctx, reg.School, reg.Region, reg.SubRegion)
		if err != nil {
			return 0, s.persistenceErr("create school", err)
		}
		if created {
			s.Log.Info("school created", zap.String("school", reg.School), zap.String("region", reg.Region))
		}
	}

	at := s.Now().UTC().Truncate(time.Microsecond)
	u := &model.User{
		Phone:        reg.Phone,
		NationalID:   reg.NationalID,
		EmployeeID:   reg.EmployeeID,
		FullName:     reg.FullName,
		PasswordHash: hash,
		UserCategory: reg.UserCategory,
		SpecificRole: reg.SpecificRole,
		Region:       reg.Region,
		SubRegion:    reg.SubRegion,
		School:       reg.School,
		IsNewSchool:  reg.IsNewSchool,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	id, err := s.Users.Create(ctx, u)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Lost the race against a concurrent registration.
		registrationsTotal.WithLabelValues(OutcomeDuplicate).Inc()
		field, _ := s.Users.ExistsAny(ctx, reg.Phone, reg.NationalID, reg.EmployeeID)
		return 0, &DuplicateError{Field: field}
	}
	if err != nil {
		return 0, s.persistenceErr("insert user", err)
	}

	registrationsTotal.WithLabelValues(OutcomeSuccess).Inc()
	s.Log.Info("user registered", zap.Uint64("user_id", id),
		zap.String("category", reg.UserCategory), zap.String("region", reg.Region))
	s.publish(ctx, queue.NewUserRegisteredEvent(id, reg.Phone, reg.FullName, reg.UserCategory,
		reg.SpecificRole, reg.Region, reg.SubRegion, reg.School, reg.IsNewSchool, at))
	return id, nil
}

func (s *Registration) publish(ctx context.Context, ev queue.UserRegisteredEvent) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Events.PublishUserRegistered(ctx, ev); err != nil {
		s.Log.Warn("publish user.registered failed", zap.Error(err), zap.Uint64("user_id", ev.UserID))
	}
}

func (s *Registration) persistenceErr(step string, err error) error {
	registrationsTotal.WithLabelValues(OutcomeError).Inc()
	s.Log.Error("registration failed", zap.String("step", step), zap.Error(err))
	return ErrPersistence
}
