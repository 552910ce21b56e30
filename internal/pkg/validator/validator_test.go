package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "01-01-2023", "2023/01/01", "", "yesterday"}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "09:00", "23:59"}
	invalid := []string{"24:00", "9:00:00 AM", "nine", ""}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsValidLatitudeLongitude(t *testing.T) {
	if !IsValidLatitude(37.5665) || !IsValidLatitude(-90) || !IsValidLatitude(90) {
		t.Error("expected valid latitudes to pass")
	}
	if IsValidLatitude(90.1) || IsValidLatitude(-91) {
		t.Error("expected out-of-range latitudes to fail")
	}
	if !IsValidLongitude(126.978) || !IsValidLongitude(-180) || !IsValidLongitude(180) {
		t.Error("expected valid longitudes to pass")
	}
	if IsValidLongitude(180.1) || IsValidLongitude(-181) {
		t.Error("expected out-of-range longitudes to fail")
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"123e4567-e89b-12d3-a456-426614174000",
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567e89b12d3a456426614174000",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "must be between -90 and 90"},
		{Field: "action", Message: "is required"},
	}
	m := errs.ToMap()
	if len(m) != 2 || m["latitude"] == "" || m["action"] == "" {
		t.Errorf("unexpected map: %v", m)
	}
	if errs.Error() == "" {
		t.Error("expected non-empty error string")
	}
}
