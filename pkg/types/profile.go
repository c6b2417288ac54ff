package types

import "time"

// Profile is the local, on-device user record. The assessment reads the
// date of birth from it to pre-fill the age question.
type Profile struct {
	ID          string     `db:"id" json:"id"`
	DisplayName *string    `db:"display_name" json:"displayName,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
