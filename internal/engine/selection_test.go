package engine

import (
	"testing"

	"github.com/playasoft/camp-registration-api/internal/models"
)

func TestParseFieldValue(t *testing.T) {
	field := func(dataType string) models.CustomField {
		return models.CustomField{DisplayName: "Answer", DataType: dataType}
	}

	t.Run("EmptyRawIsEmptyValue", func(t *testing.T) {
		for _, dt := range []string{models.FieldString, models.FieldInteger, models.FieldBoolean, models.FieldDate} {
			v, err := ParseFieldValue(field(dt), "  ")
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", dt, err)
			}
			if !v.Empty() {
				t.Errorf("%s: expected empty value", dt)
			}
		}
	})

	t.Run("Integer", func(t *testing.T) {
		v, err := ParseFieldValue(field(models.FieldInteger), "0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Empty() {
			t.Error("0 must parse as a present value")
		}
		if v.Kind != KindNumber || v.Num != 0 {
			t.Errorf("unexpected value: %+v", v)
		}

		if _, err := ParseFieldValue(field(models.FieldInteger), "2.5"); err == nil {
			t.Error("expected error for non-integer input")
		}
	})

	t.Run("Number", func(t *testing.T) {
		v, err := ParseFieldValue(field(models.FieldNumber), "2.5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Num != 2.5 {
			t.Errorf("expected 2.5, got %v", v.Num)
		}
	})

	t.Run("Boolean", func(t *testing.T) {
		v, err := ParseFieldValue(field(models.FieldBoolean), "true")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Kind != KindBool || !v.Bool {
			t.Errorf("unexpected value: %+v", v)
		}
	})

	t.Run("Date", func(t *testing.T) {
		v, err := ParseFieldValue(field(models.FieldDate), "2026-08-20")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Kind != KindDate || v.Date.Year() != 2026 {
			t.Errorf("unexpected value: %+v", v)
		}

		if _, err := ParseFieldValue(field(models.FieldDate), "next tuesday"); err == nil {
			t.Error("expected error for unparseable date")
		}
	})

	t.Run("MultilineKeepsWhitespace", func(t *testing.T) {
		v, err := ParseFieldValue(field(models.FieldMultilineString), "line one\nline two")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Str != "line one\nline two" {
			t.Errorf("unexpected value: %q", v.Str)
		}
	})
}
