package domain

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@b.co",
		"first.last@example.com",
		"user_name-1@sub.domain.org",
	}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", e, err)
		}
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@example",
		"user@example.toolong",
		"user@@example.com",
	}
	for _, e := range invalid {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{"abc123", "PASSWORD", "000000", "longerPassword99"}
	for _, p := range valid {
		if err := ValidatePassword(p); err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", "abc12", "with space7", "symbols!!", "pass-word"}
	for _, p := range invalid {
		if err := ValidatePassword(p); err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error", p)
		}
	}
}

func TestValidateRegistration(t *testing.T) {
	if err := ValidateRegistration("a@b.co", "secret1", RoleManager); err != nil {
		t.Errorf("ValidateRegistration = %v, want nil", err)
	}
	if err := ValidateRegistration("a@b.co", "secret1", Role(2)); err != ErrInvalidRole {
		t.Errorf("ValidateRegistration with role 2 = %v, want ErrInvalidRole", err)
	}
	if err := ValidateRegistration("nope", "secret1", RoleEmployee); err != ErrInvalidEmail {
		t.Errorf("ValidateRegistration with bad email = %v, want ErrInvalidEmail", err)
	}
}

func TestRoleString(t *testing.T) {
	if RoleEmployee.String() != "employee" || RoleManager.String() != "manager" {
		t.Error("Role.String mismatch for known roles")
	}
	if Role(7).String() != "unknown" {
		t.Error("Role.String for unknown role should be \"unknown\"")
	}
}
