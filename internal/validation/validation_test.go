package validation

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func validInput() RegistrationInput {
	return RegistrationInput{
		Phone:        "30000000",
		NationalID:   "123456",
		EmployeeID:   "EMP1",
		FullName:     "Ahmed Salem",
		Password:     "secret1",
		UserCategory: "professor",
		SpecificRole: "prof_1er_cycle",
		Region:       "Nouakchott-Nord",
		SubRegion:    "Dar Naim",
		School:       "Ecole A",
		IsNewSchool:  true,
	}
}

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	return errs
}

func TestValidateRegistrationAcceptsValidInput(t *testing.T) {
	out, err := ValidateRegistration(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Phone != "30000000" || !out.IsNewSchool {
		t.Errorf("unexpected normalized output: %+v", out)
	}
}

func TestPhoneBounds(t *testing.T) {
	cases := []struct {
		phone string
		want  Code
	}{
		{"22000000", ""},
		{"49999999", ""},
		{"21999999", CodeInvalidRange},
		{"50000000", CodeInvalidRange},
		{"00000000", CodeInvalidRange},
		{"2200000", CodeInvalidFormat},
		{"220000000", CodeInvalidFormat},
		{"+2200000", CodeInvalidFormat},
		{"3000a000", CodeInvalidFormat},
		{"", CodeRequired},
	}
	for _, tc := range cases {
		in := validInput()
		in.Phone = tc.phone
		_, err := ValidateRegistration(in)
		if tc.want == "" {
			if err != nil {
				t.Errorf("phone %q: unexpected error %v", tc.phone, err)
			}
			continue
		}
		if got := fieldErrors(t, err)["phone"]; got != tc.want {
			t.Errorf("phone %q: code = %q, want %q", tc.phone, got, tc.want)
		}
	}
}

func TestPhoneInRangeMatchesBounds(t *testing.T) {
	for _, n := range []int{MinPhone - 1, MinPhone, 30000000, MaxPhone, MaxPhone + 1} {
		p := strconv.Itoa(n)
		want := n >= MinPhone && n <= MaxPhone
		if got := PhoneInRange(p); got != want {
			t.Errorf("PhoneInRange(%s) = %v, want %v", p, got, want)
		}
	}
}

func TestFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RegistrationInput)
		field  string
		want   Code
	}{
		{"nni letters", func(in *RegistrationInput) { in.NationalID = "12a4" }, "nationalId", CodeInvalidFormat},
		{"nni empty", func(in *RegistrationInput) { in.NationalID = " " }, "nationalId", CodeRequired},
		{"employee empty", func(in *RegistrationInput) { in.EmployeeID = "" }, "employeeId", CodeRequired},
		{"name blank", func(in *RegistrationInput) { in.FullName = "   " }, "fullName", CodeRequired},
		{"school empty", func(in *RegistrationInput) { in.School = "" }, "school", CodeRequired},
		{"password short", func(in *RegistrationInput) { in.Password = "12345" }, "password", CodeTooShort},
		{"password over bcrypt limit", func(in *RegistrationInput) { in.Password = strings.Repeat("كلمة", 10) }, "password", CodeTooLong},
		{"password empty", func(in *RegistrationInput) { in.Password = "" }, "password", CodeRequired},
		{"role of other category", func(in *RegistrationInput) { in.SpecificRole = "inst_arabe" }, "specificRole", CodeInvalidSelection},
		{"unknown category", func(in *RegistrationInput) { in.UserCategory = "student" }, "userCategory", CodeInvalidSelection},
		{"sub-region of other region", func(in *RegistrationInput) { in.SubRegion = "Arafat" }, "subRegion", CodeInvalidSelection},
		{"unknown region", func(in *RegistrationInput) { in.Region = "Atlantis" }, "region", CodeInvalidSelection},
		{"region empty", func(in *RegistrationInput) { in.Region = "" }, "region", CodeRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := ValidateRegistration(in)
			errs := fieldErrors(t, err)
			if got := errs[tc.field]; got != tc.want {
				t.Errorf("%s = %q, want %q (all: %v)", tc.field, got, tc.want, errs)
			}
		})
	}
}

func TestPasswordLengthCountsCharacters(t *testing.T) {
	in := validInput()
	in.Password = "كلمةسر"
	if _, err := ValidateRegistration(in); err != nil {
		t.Fatalf("six Arabic letters rejected: %v", err)
	}
}

func TestNormalizesText(t *testing.T) {
	in := validInput()
	in.FullName = "  Ahmed   Salem "
	in.School = "E\u0301cole  A"
	out, err := ValidateRegistration(in)
	if err != nil {
		t.Fatal(err)
	}
	if out.FullName != "Ahmed Salem" {
		t.Errorf("FullName = %q", out.FullName)
	}
	if out.School != "\u00c9cole A" {
		t.Errorf("School = %q, want composed form", out.School)
	}
}

func TestErrorsCodeFollowsFieldOrder(t *testing.T) {
	errs := Errors{"school": CodeRequired, "phone": CodeInvalidRange}
	if errs.Code() != CodeInvalidRange {
		t.Errorf("Code() = %q", errs.Code())
	}
	if errs.Error() != "validation failed: phone: invalid-range, school: field-required" {
		t.Errorf("Error() = %q", errs.Error())
	}
}

func TestValidateLogin(t *testing.T) {
	if _, err := ValidateLogin("00000000", "x"); err != nil {
		t.Errorf("well-formed unknown phone should pass form validation: %v", err)
	}
	if _, err := ValidateLogin("1234", "x"); err == nil {
		t.Error("short phone accepted")
	}
	if _, err := ValidateLogin("30000000", ""); err == nil {
		t.Error("empty password accepted")
	}
	phone, err := ValidateLogin(" 30000000 ", "pw")
	if err != nil || phone != "30000000" {
		t.Errorf("ValidateLogin trimmed = %q, %v", phone, err)
	}
}

func TestPasswordLimitCountsBytes(t *testing.T) {
	in := validInput()
	in.Password = strings.Repeat("a", MaxPasswordBytes)
	if _, err := ValidateRegistration(in); err != nil {
		t.Fatalf("%d-byte password rejected: %v", MaxPasswordBytes, err)
	}
	// Arabic letters are two bytes each.
	in.Password = strings.Repeat("ك", 36)
	if _, err := ValidateRegistration(in); err != nil {
		t.Fatalf("72-byte Arabic password rejected: %v", err)
	}
	in.Password += "a"
	errs := fieldErrors(t, mustErr(t, in))
	if errs["password"] != CodeTooLong {
		t.Fatalf("password = %q, want %q", errs["password"], CodeTooLong)
	}
}

func mustErr(t *testing.T, in RegistrationInput) error {
	t.Helper()
	_, err := ValidateRegistration(in)
	if err == nil {
		t.Fatal("expected validation error")
	}
	return err
}
