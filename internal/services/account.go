package services

import (
	"context"
	"errors"
	"fmt"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"
	"webshop-service/internal/notify"
	"webshop-service/internal/repository"

	"go.uber.org/zap"
)

// AccountService wraps the hosted auth provider and the profiles table, and
// reports account activity to the notification sinks.
type AccountService struct {
	auth     infra.AuthProvider
	profiles repository.ProfileRepository
	emitter  notify.Emitter
}

func NewAccountService(auth infra.AuthProvider, profiles repository.ProfileRepository, emitter notify.Emitter) *AccountService {
	if emitter == nil {
		emitter = notify.Discard{}
	}
	return &AccountService{auth: auth, profiles: profiles, emitter: emitter}
}

func (a *AccountService) SignUp(ctx context.Context, form domain.SignUpForm) (domain.Session, error) {
	if err := form.Validate(); err != nil {
		return domain.Guest(), err
	}

	created, err := a.auth.SignUp(ctx, form.Email, form.Password, map[string]any{"username": form.Username})
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) || errors.Is(err, domain.ErrValidationFailed) {
			return domain.Guest(), err
		}
		return domain.Guest(), fmt.Errorf("sign up: %w", err)
	}
	s := domain.Session{UserID: created.User.ID, Email: created.User.Email}
	if s.Email == "" {
		s.Email = form.Email
	}

	// The profile row is written as the new user so the store's row rules
	// accept it.
	if created.AccessToken != "" {
		ctx = infra.WithAccessToken(ctx, created.AccessToken)
	}
	// The account exists at this point; a missing username is not fatal.
	if err := a.profiles.Upsert(ctx, &domain.Profile{UserID: s.UserID, Username: form.Username}); err != nil {
		zap.L().Warn("profile username update failed", zap.String("user_id", s.UserID), zap.Error(err))
	}

	evt := domain.NewAccountEvent(domain.EventSignUp, s)
	evt.Username = form.Username
	a.emitter.Emit(evt)
	return s, nil
}

func (a *AccountService) Login(ctx context.Context, email, password string) (*infra.AuthSession, error) {
	session, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	a.emitter.Emit(domain.NewAccountEvent(domain.EventLogin, domain.Session{UserID: session.User.ID, Email: session.User.Email}))
	return session, nil
}

func (a *AccountService) Logout(ctx context.Context, s domain.Session, accessToken string) error {
	if s.IsGuest() {
		return domain.ErrAuthRequired
	}
	if err := a.auth.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.emitter.Emit(domain.NewAccountEvent(domain.EventLogout, s))
	return nil
}

// GetProfile returns the stored profile, or an empty one for users that
// have none yet.
func (a *AccountService) GetProfile(ctx context.Context, s domain.Session) (*domain.Profile, error) {
	if s.IsGuest() {
		return nil, domain.ErrAuthRequired
	}
	p, err := a.profiles.FindByUser(ctx, s.UserID)
	if err != nil {
		zap.L().Error("load profile failed", zap.String("user_id", s.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if p == nil {
		p = &domain.Profile{UserID: s.UserID}
	}
	return p, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, s domain.Session, changes domain.ProfileChanges) (*domain.Profile, error) {
	if s.IsGuest() {
		return nil, domain.ErrAuthRequired
	}
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	p, err := a.GetProfile(ctx, s)
	if err != nil {
		return nil, err
	}
	changed := changes.Apply(p)
	if len(changed) == 0 {
		return p, nil
	}

	if err := a.profiles.Upsert(ctx, p); err != nil {
		zap.L().Error("save profile failed", zap.String("user_id", s.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrProfileWriteFailed, err)
	}

	evt := domain.NewAccountEvent(domain.EventProfileEdit, s)
	evt.Changes = changed
	a.emitter.Emit(evt)
	return p, nil
}
