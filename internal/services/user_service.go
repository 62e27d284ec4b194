package services

import (
	"context"
	"strings"

	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/repositories"
	"tiketbus/internal/utils"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var fieldValidator = validator.New()

// UserInput is a create or PATCH payload; nil means "not provided".
type UserInput struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	Role     *string
}

type UserService struct {
	Users      repositories.UserRepository
	BcryptCost int
}

func (s UserService) cost() int {
	if s.BcryptCost >= bcrypt.MinCost && s.BcryptCost <= bcrypt.MaxCost {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

func (s UserService) List(ctx context.Context, email string) ([]models.User, error) {
	out, err := s.Users.List(ctx, utils.NormalizeEmail(email))
	return out, internal(err)
}

func (s UserService) Get(ctx context.Context, id string) (models.User, error) {
	if !utils.IsSystemID(id) {
		return models.User{}, domain.InvalidIDError{Resource: "user", Value: id}
	}
	u, err := s.Users.GetByID(ctx, id)
	return u, internal(err)
}

func (s UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	now := utils.NowUTC()
	u := models.User{ID: utils.NewID(), Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now}
	in.applyTo(&u)

	errs := validateUser(u)
	password := ""
	if in.Password != nil {
		password = *in.Password
	}
	if strings.TrimSpace(password) == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "password wajib diisi"})
	} else if len(password) > 72 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "password maksimal 72 karakter"})
	}
	if len(errs) > 0 {
		return u, domain.ValidationError{Msg: "data user tidak valid", Fields: errs}
	}

	if _, err := s.Users.GetByEmail(ctx, u.Email); err == nil {
		return u, domain.DuplicateError{Resource: "user", Field: "email", Value: u.Email}
	} else if !domain.IsNotFound(err) {
		return u, internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return u, domain.InternalError{Msg: "gagal memproses password", Err: err}
	}
	u.PasswordHash = string(hash)

	if err := s.Users.Insert(ctx, u); err != nil {
		return u, internal(err)
	}
	utils.LogEvent(requestID(ctx), "users", "create", "id="+u.ID)
	return u, nil
}

// Update ignores any password in the payload.
func (s UserService) Update(ctx context.Context, id string, in UserInput) (models.User, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	in.Password = nil
	merged := cur
	in.applyTo(&merged)
	if errs := validateUser(merged); len(errs) > 0 {
		return cur, domain.ValidationError{Msg: "data user tidak valid", Fields: errs}
	}

	if merged.Email != cur.Email {
		other, err := s.Users.GetByEmail(ctx, merged.Email)
		if err == nil && other.ID != cur.ID {
			return cur, domain.DuplicateError{Resource: "user", Field: "email", Value: merged.Email}
		}
		if err != nil && !domain.IsNotFound(err) {
			return cur, internal(err)
		}
	}

	merged.UpdatedAt = utils.NowUTC()
	if err := s.Users.Update(ctx, merged); err != nil {
		return cur, internal(err)
	}
	utils.LogEvent(requestID(ctx), "users", "update", "id="+merged.ID)
	return merged, nil
}

// Delete is a hard delete; bookings keep their snapshot copy of the user.
func (s UserService) Delete(ctx context.Context, id string) error {
	if !utils.IsSystemID(id) {
		return domain.InvalidIDError{Resource: "user", Value: id}
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return internal(err)
	}
	utils.LogEvent(requestID(ctx), "users", "delete", "id="+id)
	return nil
}

// Authenticate checks credentials; any mismatch is the same 401.
func (s UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.Users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if domain.IsNotFound(err) {
			return u, domain.UnauthorizedError{Msg: "email atau password salah"}
		}
		return u, internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, domain.UnauthorizedError{Msg: "email atau password salah"}
	}
	return u, nil
}

func (in UserInput) applyTo(u *models.User) {
	if in.Name != nil {
		u.Name = utils.NormalizeSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = utils.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Role != nil {
		u.Role = strings.ToLower(strings.TrimSpace(*in.Role))
	}
}

func validateUser(u models.User) []domain.FieldError {
	errs := []domain.FieldError{}
	if u.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "nama wajib diisi"})
	}
	if u.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "email wajib diisi"})
	} else if fieldValidator.Var(u.Email, "email") != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "format email tidak valid"})
	}
	if u.Phone == "" {
		errs = append(errs, domain.FieldError{Field: "phone", Message: "nomor HP wajib diisi"})
	}
	if !domain.IsValidRole(u.Role) {
		errs = append(errs, domain.FieldError{Field: "role", Message: "role harus user atau admin"})
	}
	return errs
}
