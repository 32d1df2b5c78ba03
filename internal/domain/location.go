package domain

import (
	"regexp"
	"strings"
)

// UN/LOCODE: a two letter country code followed by a three character location code.
type UnLocode string

var unLocodePattern = regexp.MustCompile(`^[A-Z]{2}[A-Z2-9]{3}$`)

// Normalize and validate a raw location code.
func ParseUnLocode(s string) (UnLocode, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if !unLocodePattern.MatchString(code) {
		return "", invalidArgument("malformed UN/LOCODE %q", s)
	}
	return UnLocode(code), nil
}

func (c UnLocode) String() string { return string(c) }

// Location is immutable reference data, looked up by code and never derived.
type Location struct {
	UnLocode UnLocode
	Name     string
}

// UnknownLocation is the zero Location. It stands for "no location known yet".
var UnknownLocation = Location{}

func NewLocation(code UnLocode, name string) (Location, error) {
	if code == "" {
		return UnknownLocation, invalidArgument("location code is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownLocation, invalidArgument("location name is required")
	}
	return Location{UnLocode: code, Name: name}, nil
}

func (l Location) IsUnknown() bool { return l.UnLocode == "" }

// Locations are entities: two values are the same location when their codes match.
func (l Location) SameIdentityAs(other Location) bool {
	return l.UnLocode == other.UnLocode
}

func (l Location) DisplayName() string {
	if l.IsUnknown() {
		return "Unknown location"
	}
	return l.Name
}
