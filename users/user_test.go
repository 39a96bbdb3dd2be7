package users

import (
	"errors"
	"testing"
)

func validUser() User {
	return User{ID: "1", Name: "John", Email: "john@x.com", Age: 30}
}

func TestUserValidate_Valid(t *testing.T) {
	if err := validUser().Validate(); err != nil {
		t.Errorf("expected valid user, got error: %v", err)
	}
}

func TestUserValidate_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*User)
	}{
		{"empty id", func(u *User) { u.ID = "" }},
		{"empty name", func(u *User) { u.Name = "" }},
		{"empty email", func(u *User) { u.Email = "" }},
		{"negative age", func(u *User) { u.Age = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(&u)
			if err := u.Validate(); err == nil {
				t.Errorf("expected validation error for %s, got nil", tc.name)
			}
		})
	}
}

func TestUserValidate_ZeroAgeAllowed(t *testing.T) {
	u := validUser()
	u.Age = 0
	if err := u.Validate(); err != nil {
		t.Errorf("age 0 should be valid, got error: %v", err)
	}
}

func TestValidateBatch_Empty(t *testing.T) {
	if err := ValidateBatch(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestValidateBatch_ReportsOffendingRecord(t *testing.T) {
	batch := []User{
		validUser(),
		{ID: "", Name: "Nameless", Email: "n@x.com", Age: 20},
	}

	err := ValidateBatch(batch)
	if err == nil {
		t.Fatal("expected validation error for record with empty id")
	}

	var recErr *RecordError
	if !errors.As(err, &recErr) {
		t.Fatalf("expected *RecordError, got %T", err)
	}
	if recErr.Index != 1 {
		t.Errorf("expected index 1, got %d", recErr.Index)
	}
}

func TestValidateBatch_AllValid(t *testing.T) {
	batch := []User{
		{ID: "1", Name: "John", Email: "john@x.com", Age: 30},
		{ID: "2", Name: "Jane", Email: "jane@x.com", Age: 25},
	}
	if err := ValidateBatch(batch); err != nil {
		t.Errorf("expected valid batch, got error: %v", err)
	}
}
