package checkout

import (
	"regexp"
	"strings"
)

// Validation messages.
const (
	MsgNameRequired    = "Name is required."
	MsgEmailRequired   = "Email is required."
	MsgEmailInvalid    = "Email is invalid."
	MsgAddressRequired = "Address is required."
	MsgCityRequired    = "City is required."
	MsgZipRequired     = "Zip Code is required."
	MsgZipInvalid      = "Zip Code is invalid."
)

var (
	// emailPattern is unanchored: any substring match passes. Its runs of
	// non-space exclude Unicode separators and BOM, not only ASCII space.
	emailPattern = regexp.MustCompile(`[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Errors maps a field to its validation message.
// An empty Errors means the form is valid.
type Errors map[Field]string

// Valid reports whether there are no errors.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Validate checks f and returns every failing field. It is pure: the same
// form always yields the same errors. The payment method is never checked.
//
// Required checks use the trimmed value; format checks run on the value as
// entered, so " 12345" is an invalid zip.
func Validate(f Form) Errors {
	errs := make(Errors)

	if blank(f.Name) {
		errs[FieldName] = MsgNameRequired
	}

	switch {
	case blank(f.Email):
		errs[FieldEmail] = MsgEmailRequired
	case !emailPattern.MatchString(f.Email):
		errs[FieldEmail] = MsgEmailInvalid
	}

	if blank(f.Address) {
		errs[FieldAddress] = MsgAddressRequired
	}

	if blank(f.City) {
		errs[FieldCity] = MsgCityRequired
	}

	switch {
	case blank(f.Zip):
		errs[FieldZip] = MsgZipRequired
	case !zipPattern.MatchString(f.Zip):
		errs[FieldZip] = MsgZipInvalid
	}

	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
