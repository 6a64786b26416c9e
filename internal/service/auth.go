package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/model"
	"github.com/iliyamo/tedris-portal/internal/repository"
	"github.com/iliyamo/tedris-portal/internal/utils"
	"github.com/iliyamo/tedris-portal/internal/validation"
)

// UserReader looks users up by login phone.
type UserReader interface {
	GetByPhone(ctx context.Context, phone string) (model.User, error)
}

// Auth verifies phone and password pairs. Session tokens are issued by
// the HTTP layer once Login succeeds.
type Auth struct {
	Users UserReader
	Log   *zap.Logger

	// dummyHash is compared against when the phone is unknown so a miss
	// costs one bcrypt comparison like a wrong password does.
	dummyHash string
}

// NewAuth builds the service and prepares the dummy hash at cost.
func NewAuth(users UserReader, cost int, log *zap.Logger) (*Auth, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dummy, err := utils.HashPassword("tedris-no-such-user", cost)
	if err != nil {
		return nil, err
	}
	return &Auth{Users: users, Log: log, dummyHash: dummy}, nil
}

// Login returns the user whose phone and password match. An unknown phone
// and a wrong password both yield ErrInvalidCredentials; a malformed form
// yields ErrInvalidForm; storage failures yield ErrPersistence.
func (s *Auth) Login(ctx context.Context, phone, password string) (model.User, error) {
	phone, err := validation.ValidateLogin(phone, password)
	if err != nil {
		loginsTotal.WithLabelValues(OutcomeInvalid).Inc()
		return model.User{}, ErrInvalidForm
	}

	u, err := s.Users.GetByPhone(ctx, phone)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.VerifyPassword(s.dummyHash, password)
		loginsTotal.WithLabelValues(OutcomeInvalidCredentials).Inc()
		return model.User{}, ErrInvalidCredentials
	case err != nil:
		loginsTotal.WithLabelValues(OutcomeError).Inc()
		s.Log.Error("login lookup failed", zap.Error(err))
		return model.User{}, ErrPersistence
	}

	if !utils.VerifyPassword(u.PasswordHash, password) {
		loginsTotal.WithLabelValues(OutcomeInvalidCredentials).Inc()
		return model.User{}, ErrInvalidCredentials
	}
	loginsTotal.WithLabelValues(OutcomeSuccess).Inc()
	return u, nil
}
