// Package validation checks submitted registration and login fields. It is
// pure: nothing here touches storage.
package validation

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/iliyamo/tedris-portal/internal/catalog"
)

// Phone numbers are eight digits inside the national mobile range.
const (
	PhoneLength       = 8
	MinPhone          = 22000000
	MaxPhone          = 49999999
	MinPasswordLength = 6
)

// MaxPasswordBytes is the bcrypt input limit; longer passwords cannot be hashed.
const MaxPasswordBytes = 72

// Code is a field-level error code returned to clients verbatim.
type Code string

const (
	CodeRequired         Code = "field-required"
	CodeInvalidRange     Code = "invalid-range"
	CodeInvalidFormat    Code = "invalid-format"
	CodeInvalidSelection Code = "invalid-selection"
	CodeTooShort         Code = "too-short"
	CodeTooLong          Code = "too-long"
)

// fieldOrder fixes which failing field Errors.Code reports first.
var fieldOrder = []string{
	"phone", "nationalId", "employeeId", "fullName", "password",
	"userCategory", "specificRole", "region", "subRegion", "school",
}

// Errors maps a field name to its error code.
type Errors map[string]Code

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+string(e[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Code returns the code of the first failing field.
func (e Errors) Code() Code {
	for _, f := range fieldOrder {
		if c, ok := e[f]; ok {
			return c
		}
	}
	for _, c := range e {
		return c
	}
	return ""
}

// RegistrationInput carries the raw registration form.
type RegistrationInput struct {
	Phone        string `json:"phone" form:"phone"`
	NationalID   string `json:"nationalId" form:"nationalId"`
	EmployeeID   string `json:"employeeId" form:"employeeId"`
	FullName     string `json:"fullName" form:"fullName"`
	Password     string `json:"password" form:"password"`
	UserCategory string `json:"userCategory" form:"userCategory"`
	SpecificRole string `json:"specificRole" form:"specificRole"`
	Region       string `json:"region" form:"region"`
	SubRegion    string `json:"subRegion" form:"subRegion"`
	School       string `json:"school" form:"school"`
	IsNewSchool  bool   `json:"isNewSchool" form:"isNewSchool"`
}

// ValidateRegistration returns the normalized input, or Errors when any
// field is rejected. The password is passed through untouched.
func ValidateRegistration(in RegistrationInput) (RegistrationInput, error) {
	out := RegistrationInput{
		Phone:        strings.TrimSpace(in.Phone),
		NationalID:   strings.TrimSpace(in.NationalID),
		EmployeeID:   strings.TrimSpace(in.EmployeeID),
		FullName:     normalizeText(in.FullName),
		Password:     in.Password,
		UserCategory: strings.TrimSpace(in.UserCategory),
		SpecificRole: strings.TrimSpace(in.SpecificRole),
		Region:       strings.TrimSpace(in.Region),
		SubRegion:    strings.TrimSpace(in.SubRegion),
		School:       normalizeText(in.School),
		IsNewSchool:  in.IsNewSchool,
	}
	errs := Errors{}

	if c := checkPhone(out.Phone, true); c != "" {
		errs["phone"] = c
	}
	switch {
	case out.NationalID == "":
		errs["nationalId"] = CodeRequired
	case !allDigits(out.NationalID):
		errs["nationalId"] = CodeInvalidFormat
	}
	required(errs, "employeeId", out.EmployeeID)
	required(errs, "fullName", out.FullName)
	required(errs, "school", out.School)

	switch {
	case out.Password == "":
		errs["password"] = CodeRequired
	case utf8.RuneCountInString(out.Password) < MinPasswordLength:
		errs["password"] = CodeTooShort
	case len(out.Password) > MaxPasswordBytes:
		errs["password"] = CodeTooLong
	}

	checkSelection(errs, "userCategory", out.UserCategory, "specificRole", out.SpecificRole,
		catalog.KnownCategory, catalog.ValidRole)
	checkSelection(errs, "region", out.Region, "subRegion", out.SubRegion,
		catalog.KnownRegion, catalog.ValidSubRegion)

	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// ValidateLogin checks the login form shape. The phone range is not
// enforced here: a well-formed phone that matches no user must fail the
// same way a wrong password does.
func ValidateLogin(phone, password string) (string, error) {
	phone = strings.TrimSpace(phone)
	errs := Errors{}
	if c := checkPhone(phone, false); c != "" {
		errs["phone"] = c
	}
	if password == "" {
		errs["password"] = CodeRequired
	}
	if len(errs) > 0 {
		return phone, errs
	}
	return phone, nil
}

// PhoneInRange reports whether phone is an 8-digit number inside
// [MinPhone, MaxPhone].
func PhoneInRange(phone string) bool { return checkPhone(phone, true) == "" }

func checkPhone(phone string, withRange bool) Code {
	if phone == "" {
		return CodeRequired
	}
	if len(phone) != PhoneLength || !allDigits(phone) {
		return CodeInvalidFormat
	}
	if !withRange {
		return ""
	}
	n, err := strconv.Atoi(phone)
	if err != nil || n < MinPhone || n > MaxPhone {
		return CodeInvalidRange
	}
	return ""
}

func checkSelection(errs Errors, parentField, parent, childField, child string,
	known func(string) bool, member func(string, string) bool) {
	switch {
	case parent == "":
		errs[parentField] = CodeRequired
	case !known(parent):
		errs[parentField] = CodeInvalidSelection
	}
	switch {
	case child == "":
		errs[childField] = CodeRequired
	case known(parent) && !member(parent, child):
		errs[childField] = CodeInvalidSelection
	}
}

func required(errs Errors, field, v string) {
	if v == "" {
		errs[field] = CodeRequired
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// normalizeText trims, collapses inner whitespace and composes Unicode so
// the same Arabic name typed on two keyboards compares equal.
func normalizeText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
