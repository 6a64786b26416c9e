package model

import "time"

// User represents a registered teacher or staff member as stored in the
// `users` table. The json tags are omitted because handlers expose their
// own response types; PasswordHash must never leave the service.
//
// Fields:
//
//	ID           – auto-generated primary key.
//	Phone        – 8-digit mobile number, unique; the login identifier.
//	NationalID   – national identity number (NNI), digits only, unique.
//	EmployeeID   – employer-issued matricule, unique.
//	FullName     – display name, NFC-normalized.
//	PasswordHash – bcrypt hash.
//	UserCategory – professor | instructor | administration.
//	SpecificRole – role within the category.
//	Region       – wilaya.
//	SubRegion    – moughataa within the region.
//	School       – school name as typed or picked.
//	IsNewSchool  – whether the user introduced the school.
type User struct {
	ID           uint64    // users.id
	Phone        string    // users.phone
	NationalID   string    // users.national_id
	EmployeeID   string    // users.employee_id
	FullName     string    // users.full_name
	PasswordHash string    // users.password_hash
	UserCategory string    // users.user_category
	SpecificRole string    // users.specific_role
	Region       string    // users.region
	SubRegion    string    // users.sub_region
	School       string    // users.school
	IsNewSchool  bool      // users.is_new_school
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
