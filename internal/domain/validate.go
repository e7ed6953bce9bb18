package domain

import "strings"

// maxVictimAge bounds the optional age field.
const maxVictimAge = 150

// ValidateDraft checks a draft in form order and returns a *ValidationError
// for the first missing field, or nil. Later fields are not inspected once
// one fails, so the user fixes one message at a time.
func ValidateDraft(d ReportDraft) error {
	switch {
	case strings.TrimSpace(d.Crime) == "":
		return &ValidationError{Field: "crime", Message: "Please select a crime type"}
	case d.Location == nil || d.Location.Coordinates == nil || !d.Location.Coordinates.Valid():
		return &ValidationError{Field: "location", Message: "Please select a location"}
	case strings.TrimSpace(d.Description) == "":
		return &ValidationError{Field: "crimeDescription", Message: "Please provide a crime description"}
	case strings.TrimSpace(d.VictimName) == "":
		return &ValidationError{Field: "victimName", Message: "Please enter victim's name"}
	case strings.TrimSpace(d.VictimContact) == "":
		return &ValidationError{Field: "victimContact", Message: "Please enter contact information"}
	case d.VictimAge != nil && (*d.VictimAge < 0 || *d.VictimAge > maxVictimAge):
		return &ValidationError{Field: "victimAge", Message: "Please enter a valid age"}
	}
	return nil
}
