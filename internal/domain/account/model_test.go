package account_test

import (
	"errors"
	"testing"
	"time"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/account"
)

// TestAccount_Validate tests account validation.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		acct    account.Account
		wantErr bool
	}{
		{"valid admin", account.Account{ID: "1", Email: "a@club.example", Role: account.RoleAdmin}, false},
		{"valid coach", account.Account{ID: "2", Email: "c@club.example", Role: account.RoleCoach}, false},
		{"empty email", account.Account{ID: "3", Email: " ", Role: account.RoleAdmin}, true},
		{"email without at", account.Account{ID: "4", Email: "nope", Role: account.RoleAdmin}, true},
		{"unknown role", account.Account{ID: "5", Email: "a@b.c", Role: "owner"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acct.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Account.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_PasswordRoundTrip tests hashing and verification.
func TestAccount_PasswordRoundTrip(t *testing.T) {
	a := account.Account{ID: "1", Email: "a@club.example", Role: account.RoleAdmin}

	if err := a.SetPassword("short"); !errors.Is(err, account.ErrPasswordTooShort) {
		t.Errorf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword(""); !errors.Is(err, account.ErrEmptyPassword) {
		t.Errorf("SetPassword(empty) = %v, want ErrEmptyPassword", err)
	}

	if err := a.SetPassword("a long enough password"); err != nil {
		t.Fatalf("SetPassword() = %v", err)
	}
	if err := a.CheckPassword("a long enough password"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("wrong password entirely"); !errors.Is(err, account.ErrWrongPassword) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout tests failed-login counting and lockout.
func TestAccount_Lockout(t *testing.T) {
	a := account.Account{ID: "1", Email: "a@club.example", Role: account.RoleManager}

	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked before the fifth failure")
	}
	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after five failures")
	}
	if a.LockedUntil.Before(time.Now()) {
		t.Error("LockedUntil is not in the future")
	}

	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Errorf("reset did not clear lockout: failures=%d locked=%v", a.FailedLogins, a.IsLocked())
	}
}

// TestAccount_CanEdit tests the role capability split.
func TestAccount_CanEdit(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{account.RoleAdmin, true},
		{account.RoleManager, true},
		{account.RoleCoach, false},
	}
	for _, tt := range tests {
		a := account.Account{Role: tt.role}
		if got := a.CanEdit(); got != tt.want {
			t.Errorf("CanEdit() for %s = %v, want %v", tt.role, got, tt.want)
		}
	}
}
