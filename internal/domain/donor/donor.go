package donor

import (
	"database/sql"
)

// Profile represents a donor profile, keyed by name in queries.
// Corresponds to the 'donor_profiles' table.
type Profile struct {
	ID                      int64
	Name                    string
	Email                   sql.NullString
	Phone                   sql.NullString
	Address                 sql.NullString
	PreferredCategory       sql.NullString
	TotalDonations          float64
	LastDonationDate        sql.NullString // Stored in donation.DateLayout format
	NotificationPreferences sql.NullString
}

// UpsertFields carries the profile fields refreshed when a donation is
// submitted. Blank contact fields never erase previously stored values;
// PreferredCategory and LastDonationDate are always refreshed.
type UpsertFields struct {
	Email             string
	Phone             string
	Address           string
	PreferredCategory string
	LastDonationDate  string
}

// UpdateFields carries the optional fields of a partial donor update.
// Nil pointers mean "leave unchanged".
type UpdateFields struct {
	Email                   *string
	Phone                   *string
	Address                 *string
	PreferredCategory       *string
	NotificationPreferences *string
}

// Empty reports whether no field is supplied.
func (f UpdateFields) Empty() bool {
	return f.Email == nil && f.Phone == nil && f.Address == nil &&
		f.PreferredCategory == nil && f.NotificationPreferences == nil
}
