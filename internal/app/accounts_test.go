package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

func newAccounts() (*app.AccountService, *memory.Store) {
	st := memory.New()
	return app.NewAccountService(st, memory.NewSessions(), time.Hour, bcrypt.MinCost), st
}

func TestCreateUser(t *testing.T) {
	svc, _ := newAccounts()
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, domain.NewUser{
		Email: ptr("Ana@Example.COM"), Password: ptr("s3cret!"), GroupName: ptr("Tenant"),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "Ana@example.com" {
		t.Fatalf("email = %q, want domain lower-cased", u.Email)
	}
	if u.PasswordHash == "s3cret!" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!")) != nil {
		t.Fatal("password must be stored as a bcrypt hash")
	}
	if !u.InGroup(domain.GroupTenant) {
		t.Fatalf("groups = %v", u.Groups)
	}
}

func TestCreateUser_Failures(t *testing.T) {
	cases := []struct {
		name string
		in   domain.NewUser
		kind error
		code string
	}{
		{"no email", domain.NewUser{Password: ptr("x"), GroupName: ptr("User")}, domain.ErrValidation, "email_required"},
		{"bad email", domain.NewUser{Email: ptr("nope"), Password: ptr("x"), GroupName: ptr("User")}, domain.ErrValidation, "invalid_email"},
		{"no password", domain.NewUser{Email: ptr("a@b.io"), GroupName: ptr("User")}, domain.ErrValidation, "password_required"},
		{"duplicate", domain.NewUser{Email: ptr("taken@b.io"), Password: ptr("x"), GroupName: ptr("User")}, domain.ErrConflict, "email_in_use"},
		{"no group", domain.NewUser{Email: ptr("a@b.io"), Password: ptr("x")}, domain.ErrValidation, "group_name_required"},
		{"unknown group", domain.NewUser{Email: ptr("a@b.io"), Password: ptr("x"), GroupName: ptr("Admins")}, domain.ErrReference, "group_not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, st := newAccounts()
			ctx := context.Background()
			if _, err := svc.CreateUser(ctx, domain.NewUser{Email: ptr("taken@b.io"), Password: ptr("x"), GroupName: ptr("User")}); err != nil {
				t.Fatalf("seed: %v", err)
			}

			_, err := svc.CreateUser(ctx, tc.in)
			var re *domain.RuleError
			if !errors.Is(err, tc.kind) || !errors.As(err, &re) || re.Code != tc.code {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
			us, _ := st.ListUsers(ctx)
			if len(us) != 1 {
				t.Fatalf("users = %d, want only the seed", len(us))
			}
		})
	}
}

func TestLoginLogout(t *testing.T) {
	svc, _ := newAccounts()
	ctx := context.Background()
	u, err := svc.CreateUser(ctx, domain.NewUser{Email: ptr("a@b.io"), Password: ptr("pw"), GroupName: ptr("User")})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, _, err := svc.Login(ctx, "a@b.io", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("bad password err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "ghost@b.io", "pw"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown email err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty credentials err = %v", err)
	}

	token, got, err := svc.Login(ctx, "a@B.IO", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID || token == "" {
		t.Fatalf("login returned %+v %q", got, token)
	}
	me, err := svc.Authenticate(ctx, token)
	if err != nil || me.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", me, err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("after logout err = %v", err)
	}
	if err := svc.Logout(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("double logout err = %v", err)
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	svc, _ := newAccounts()
	ctx := context.Background()
	u, _ := svc.CreateUser(ctx, domain.NewUser{Email: ptr("a@b.io"), Password: ptr("pw"), GroupName: ptr("User")})
	token, _, err := svc.Login(ctx, "a@b.io", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newAccounts()
	ctx := context.Background()
	a, _ := svc.CreateUser(ctx, domain.NewUser{Email: ptr("a@b.io"), Password: ptr("pw"), GroupName: ptr("User")})
	_, _ = svc.CreateUser(ctx, domain.NewUser{Email: ptr("b@b.io"), Password: ptr("pw"), GroupName: ptr("User")})

	if _, err := svc.UpdateUser(ctx, a.ID, domain.UserPatch{Email: ptr("b@b.io")}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("email clash err = %v", err)
	}
	got, err := svc.UpdateUser(ctx, a.ID, domain.UserPatch{Phone: ptr("+33 1"), Password: ptr("new")})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if deref(got.Phone) != "+33 1" {
		t.Fatalf("phone = %q", deref(got.Phone))
	}
	if _, _, err := svc.Login(ctx, "a@b.io", "new"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
