package users

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// User is the single aggregate row this service manages. The identifier is
// the only unique key; name, email and age are overwritten wholesale on
// upsert.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID    string `json:"id" bun:"id,pk"`
	Name  string `json:"name" bun:"name,notnull"`
	Email string `json:"email" bun:"email,notnull"`
	Age   int    `json:"age" bun:"age,notnull"`
}

// Validate checks the record before it is allowed anywhere near persistence.
// Email format and uniqueness are storage-layer concerns and are not checked
// here.
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.ID, validation.Required),
		validation.Field(&u.Name, validation.Required),
		validation.Field(&u.Email, validation.Required),
		validation.Field(&u.Age, validation.Min(0)),
	)
}

// ValidateBatch applies Validate to every record and rejects empty batches.
func ValidateBatch(batch []User) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}
	for i, u := range batch {
		if err := u.Validate(); err != nil {
			return &RecordError{Index: i, ID: u.ID, Err: err}
		}
	}
	return nil
}
