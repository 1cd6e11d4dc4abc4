package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"livemusicnotes/internal/model"
	"livemusicnotes/internal/repository"
	"livemusicnotes/internal/validation"
)

// UserService handles business logic for user operations
type UserService struct {
	repo     repository.UserRepository
	profiles repository.ProfileRepository

	// uniqueCaseInsensitive makes "Bob" and "bob" the same username (and
	// likewise for email) when checking availability.
	uniqueCaseInsensitive bool
}

func NewUserService(repo repository.UserRepository, profiles repository.ProfileRepository, uniqueCaseInsensitive bool) *UserService {
	return &UserService{
		repo:                  repo,
		profiles:              profiles,
		uniqueCaseInsensitive: uniqueCaseInsensitive,
	}
}

// Register validates the sign-up form and creates the account with an empty
// profile. Taken usernames or emails are reported as field errors.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	form := validation.NewRegistrationForm(req)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, form.Username, form.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       form.Username,
		Email:          form.Email,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		PasswordHashed: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		switch {
		case errors.Is(err, model.ErrUsernameExists):
			return nil, &validation.Error{Fields: validation.Errors{"username": validation.MsgUsernameTaken}, Cause: err}
		case errors.Is(err, model.ErrEmailExists):
			return nil, &validation.Error{Fields: validation.Errors{"email": validation.MsgEmailTaken}, Cause: err}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) checkAvailable(ctx context.Context, username, email string) error {
	errs := validation.Errors{}
	var cause error

	taken, err := s.repo.ExistsByUsername(ctx, username, s.uniqueCaseInsensitive)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		errs.Add("username", validation.MsgUsernameTaken)
		cause = model.ErrUsernameExists
	}

	taken, err = s.repo.ExistsByEmail(ctx, email, s.uniqueCaseInsensitive)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		errs.Add("email", validation.MsgEmailTaken)
		if cause == nil {
			cause = model.ErrEmailExists
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &validation.Error{Fields: errs, Cause: cause}
}

// Login authenticates a user with username and password.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Don't reveal whether username exists or not
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile returns the user and their bio. Notes are attached by the caller.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{User: user, Bio: profile.Bio}, nil
}

// UpdateBio validates and stores a new bio. An empty bio clears it.
func (s *UserService) UpdateBio(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.Profile, error) {
	form := validation.ProfileForm{Bio: req.Bio}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.profiles.UpsertBio(ctx, userID, form.Bio)
}
