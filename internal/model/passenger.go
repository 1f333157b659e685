package model

// Passenger holds the travel-document identity captured for one seat of a
// booking.  Rows are created fresh per reservation and never deduplicated.
//
// Fields:
//
//	ID            – primary key identifier.
//	FirstName     – given name as on the passport.
//	LastName      – family name as on the passport.
//	Gender        – Male, Female or Other.
//	Age           – age in years, 0–120.
//	PassportNo    – passport number.
//	ContactNumber – phone number used for travel notices.
type Passenger struct {
	ID            uint64 // passengers.id
	FirstName     string // passengers.first_name
	LastName      string // passengers.last_name
	Gender        string // passengers.gender
	Age           int    // passengers.age
	PassportNo    string // passengers.passport_no
	ContactNumber string // passengers.contact_number
}
