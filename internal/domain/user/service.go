package user

import (
	"context"
	"errors"
	"strings"

	"pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/domain/moderation"
	"pharmaduty-go/internal/domain/phone"
	"pharmaduty-go/internal/pagination"
	"pharmaduty-go/internal/validation"
)

const minPasswordLength = 8

type Service struct {
	repo   Repository
	hasher Hasher
	gate   *moderation.Gate
	audit  audit.Recorder
}

func NewService(repo Repository, hasher Hasher, gate *moderation.Gate, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder()
	}
	return &Service{repo: repo, hasher: hasher, gate: gate, audit: recorder}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate never reveals whether the email or the password was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	found, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Matches(found.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return found, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile edits the caller's own account. Changing the password requires the current one.
func (s *Service) UpdateProfile(ctx context.Context, id uint, input ProfileInput) (*User, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.NewPassword != nil && !s.hasher.Matches(current.Password, input.CurrentPassword) {
		return nil, validation.Field("current_password", ErrInvalidCurrentPassword.Error())
	}

	return s.apply(ctx, current, UpdateInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.NewPassword,
	})
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]User, pagination.Meta, error) {
	filter.Params = filter.Params.Normalize(pagination.DefaultPerPage, pagination.MaxPerPage)
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, pagination.NewMeta(filter.Params, total), nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	errs := validation.Errors{}
	name := moderation.Sanitize(input.Name)
	email := NormalizeEmail(input.Email)
	if name == "" {
		errs.Add("name", "The name field is required")
	}
	errs.Merge(s.checkName(name))
	if !ValidRole(input.Role) {
		errs.Add("role", "The selected role is invalid")
	}
	if len(input.Password) < minPasswordLength {
		errs.Add("password", "The password must be at least 8 characters")
	}
	phoneValue, err := phone.CanonicalPtr(input.Phone)
	if err != nil {
		errs.Add("phone", err.Error())
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	created := &User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     input.Role,
		Phone:    phoneValue,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*User, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, current, input)
}

// Delete removes a user account. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, audit.ActionUserDeleted, audit.EntityUser, id, map[string]any{
		"email": target.Email,
		"role":  target.Role,
	})
	return nil
}

// EnsureAdmin creates the bootstrap admin unless an account with that email already exists.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	taken, err := s.repo.EmailTaken(ctx, NormalizeEmail(email), 0)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}
	if _, err := s.Create(ctx, CreateInput{Name: name, Email: email, Password: password, Role: RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) apply(ctx context.Context, current *User, input UpdateInput) (*User, error) {
	updated := *current
	errs := validation.Errors{}

	if input.Name != nil {
		updated.Name = moderation.Sanitize(*input.Name)
		if updated.Name == "" {
			errs.Add("name", "The name field is required")
		}
		errs.Merge(s.checkName(updated.Name))
	}
	if input.Role != nil {
		if !ValidRole(*input.Role) {
			errs.Add("role", "The selected role is invalid")
		}
		updated.Role = *input.Role
	}
	if input.Phone != nil {
		phoneValue, err := phone.CanonicalPtr(input.Phone)
		if err != nil {
			errs.Add("phone", err.Error())
		}
		updated.Phone = phoneValue
	}
	if input.Password != nil && len(*input.Password) < minPasswordLength {
		errs.Add("password", "The password must be at least 8 characters")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if input.Email != nil {
		updated.Email = NormalizeEmail(*input.Email)
		if updated.Email != current.Email {
			taken, err := s.repo.EmailTaken(ctx, updated.Email, current.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
		}
	}
	if input.Password != nil {
		hashed, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		updated.Password = hashed
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) checkName(name string) validation.Errors {
	if s.gate == nil || name == "" {
		return validation.Errors{}
	}
	return moderation.ContentErrors(s.gate.CheckText(map[string]string{"name": name}))
}
