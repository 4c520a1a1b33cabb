package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playasoft/camp-registration-api/internal/models"
)

// Profile holds the registrant details checked when leaving the profile
// step. Values come from the user account, not the catalog.
type Profile struct {
	FirstName        string
	LastName         string
	Phone            string
	EmergencyContact string
}

// Selection is the mutable subject under validation: which camping options
// the registrant picked, their answers to option-specific custom fields,
// their chosen jobs, and whether they accepted the terms.
type Selection struct {
	OptionIDs     map[uint]bool
	FieldValues   map[uint]FieldValue
	JobIDs        map[uint]bool
	AcceptedTerms bool
}

// NewSelection returns an empty selection, as created at session start.
func NewSelection() *Selection {
	return &Selection{
		OptionIDs:   make(map[uint]bool),
		FieldValues: make(map[uint]FieldValue),
		JobIDs:      make(map[uint]bool),
	}
}

// FieldKind discriminates the variants of FieldValue.
type FieldKind int

const (
	KindEmpty FieldKind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

// FieldValue is a typed custom-field answer. Exactly one variant is
// meaningful per kind. A numeric zero is a present value; only KindEmpty
// and an empty string count as missing.
type FieldValue struct {
	Kind FieldKind
	Str  string
	Num  float64
	Bool bool
	Date time.Time
}

func StringValue(s string) FieldValue  { return FieldValue{Kind: KindString, Str: s} }
func NumberValue(n float64) FieldValue { return FieldValue{Kind: KindNumber, Num: n} }
func BoolValue(b bool) FieldValue      { return FieldValue{Kind: KindBool, Bool: b} }
func DateValue(t time.Time) FieldValue { return FieldValue{Kind: KindDate, Date: t} }

// Empty reports whether the value counts as unanswered.
func (v FieldValue) Empty() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindString:
		return v.Str == ""
	}
	return false
}

// ParseFieldValue converts a raw wire value into the typed variant the
// field's data type calls for. An empty raw value parses to an empty
// value regardless of type; required-ness is the validator's concern.
func ParseFieldValue(field models.CustomField, raw string) (FieldValue, error) {
	if strings.TrimSpace(raw) == "" {
		return FieldValue{}, nil
	}
	switch field.DataType {
	case models.FieldString, models.FieldMultilineString:
		return StringValue(raw), nil
	case models.FieldInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return FieldValue{}, fmt.Errorf("%s must be a whole number", field.DisplayName)
		}
		return NumberValue(float64(n)), nil
	case models.FieldNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return FieldValue{}, fmt.Errorf("%s must be a number", field.DisplayName)
		}
		return NumberValue(n), nil
	case models.FieldBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return FieldValue{}, fmt.Errorf("%s must be true or false", field.DisplayName)
		}
		return BoolValue(b), nil
	case models.FieldDate:
		t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			return FieldValue{}, fmt.Errorf("%s must be a date (YYYY-MM-DD)", field.DisplayName)
		}
		return DateValue(t), nil
	}
	return FieldValue{}, fmt.Errorf("unknown data type %q", field.DataType)
}
