package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCreateHashesPassword(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE email = \\?").WithArgs("budi@example.com").WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	svc := UserService{Users: repositories.UserRepository{DB: db}, BcryptCost: bcrypt.MinCost}
	u, err := svc.Create(context.Background(), UserInput{
		Name:     strPtr("Budi  Santoso"),
		Email:    strPtr(" Budi@Example.COM "),
		Password: strPtr("rahasia123"),
		Phone:    strPtr("0812"),
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if u.Email != "budi@example.com" || u.Role != "user" || u.Name != "Budi Santoso" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rahasia123")) != nil {
		t.Fatalf("password not hashed with bcrypt")
	}
	expectMet(t, mock)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE email = \\?").WillReturnRows(userRow())

	svc := UserService{Users: repositories.UserRepository{DB: db}}
	_, err := svc.Create(context.Background(), UserInput{
		Name:     strPtr("Budi"),
		Email:    strPtr("budi@example.com"),
		Password: strPtr("x"),
		Phone:    strPtr("0812"),
	})
	var dup domain.DuplicateError
	if !errors.As(err, &dup) || dup.Code() != "duplicate_email" {
		t.Fatalf("expected duplicate_email, got %v", err)
	}
	expectMet(t, mock)
}

func TestUserCreateValidation(t *testing.T) {
	_, err := UserService{}.Create(context.Background(), UserInput{
		Name:  strPtr("Budi"),
		Email: strPtr("bukan-email"),
		Role:  strPtr("superuser"),
	})
	ve, ok := err.(domain.ValidationError)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.FieldErrors()) != 4 {
		t.Fatalf("expected email, phone, role and password errors, got %+v", ve.FieldErrors())
	}
}

func TestUserUpdateIgnoresPassword(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE id = \\?").WithArgs(testUserID).WillReturnRows(userRow())
	mock.ExpectExec("UPDATE users SET name = \\?, email = \\?, phone = \\?, role = \\?, updated_at = \\?").
		WithArgs("Budi S", "budi@example.com", "0812", "user", sqlmock.AnyArg(), testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := UserService{Users: repositories.UserRepository{DB: db}}
	u, err := svc.Update(context.Background(), testUserID, UserInput{Name: strPtr("Budi S"), Password: strPtr("baru")})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if u.PasswordHash != "$2a$10$hash" {
		t.Fatalf("password hash must not change")
	}
	expectMet(t, mock)
}

func TestUserGetInvalidID(t *testing.T) {
	if _, err := (UserService{}).Get(context.Background(), "abc"); !domain.IsInvalidID(err) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	if err := (UserService{}).Delete(context.Background(), "abc"); !domain.IsInvalidID(err) {
		t.Fatalf("expected invalid id on delete, got %v", err)
	}
}

func TestTokenIssueAndParse(t *testing.T) {
	tokens := TokenService{Secret: []byte("secret"), TTL: time.Hour}
	raw, exp, err := tokens.Issue(models.User{ID: testUserID, Role: "admin"}, time.Now())
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry should be in the future")
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != testUserID || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := (TokenService{Secret: []byte("other")}).Parse(raw); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for wrong secret, got %v", err)
	}

	old, _, _ := tokens.Issue(models.User{ID: testUserID}, time.Now().Add(-2*time.Hour))
	_, err = tokens.Parse(old)
	if !domain.IsUnauthorized(err) || err.Error() != "token kedaluwarsa" {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestAuthLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	db, mock := newMock(t)
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(userCols).AddRow(testUserID, "Admin", "admin@tiketbus.id", string(hash), "0800", "admin", testNow, testNow)
	}
	mock.ExpectQuery("FROM users WHERE email = \\?").WithArgs("admin@tiketbus.id").WillReturnRows(row())
	mock.ExpectQuery("FROM users WHERE email = \\?").WillReturnRows(row())

	auth := AuthService{
		Users:  UserService{Users: repositories.UserRepository{DB: db}},
		Tokens: TokenService{Secret: []byte("secret")},
	}
	res, err := auth.Login(context.Background(), "ADMIN@tiketbus.id", "rahasia")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if res.Token == "" || res.User.Role != "admin" {
		t.Fatalf("unexpected login result: %+v", res)
	}

	if _, err := auth.Login(context.Background(), "admin@tiketbus.id", "salah"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	expectMet(t, mock)
}

func TestUserDeleteKeepsBookingSnapshot(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM users WHERE id = \\?").WithArgs(testUserID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM bookings b WHERE b.id = \\? LIMIT 1").WithArgs(testBookingID).
		WillReturnRows(bookingRow("confirmed", "A1", 1))

	users := UserService{Users: repositories.UserRepository{DB: db}}
	if err := users.Delete(context.Background(), testUserID); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	b, err := BookingService{Bookings: repositories.BookingRepository{DB: db}}.Get(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("get booking error: %v", err)
	}
	want := models.UserSnapshot{Name: "Budi Santoso", Email: "budi@example.com", Phone: "0812"}
	if b.Snapshot.User != want {
		t.Fatalf("snapshot changed after user delete: %+v", b.Snapshot.User)
	}
	if b.UserID != testUserID {
		t.Fatalf("booking should keep the dangling user id, got %q", b.UserID)
	}
	expectMet(t, mock)
}

func TestUserDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM users WHERE id = \\?").WithArgs(testUserID).WillReturnResult(sqlmock.NewResult(0, 0))

	err := UserService{Users: repositories.UserRepository{DB: db}}.Delete(context.Background(), testUserID)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	expectMet(t, mock)
}

func TestUserDeleteMalformedID(t *testing.T) {
	db, mock := newMock(t)
	err := UserService{Users: repositories.UserRepository{DB: db}}.Delete(context.Background(), "bukan-id")
	if !domain.IsInvalidID(err) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	expectMet(t, mock)
}
