package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// StoredRecord is the persisted shape of a report. Field names are the
// literal keys already present in the store.
type StoredRecord struct {
	Crime            string         `json:"crime"`
	Location         StoredLocation `json:"location"`
	CrimeDescription string         `json:"crimeDescription"`
	VictimName       string         `json:"victimName"`
	VictimContact    string         `json:"victimContact"`
	VictimAge        *int           `json:"victimAge,omitempty"`
	CreatedAt        string         `json:"created_at"`
}

// StoredLocation is the persisted location object.
type StoredLocation struct {
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates"`
}

// timestampLayout matches JavaScript's Date.prototype.toISOString, which
// produced every created_at already in the store.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Repair names a fix applied while normalizing a stored record.
type Repair string

const (
	RepairNotObject          Repair = "not_object"
	RepairCrimeMissing       Repair = "crime_missing"
	RepairCrimeUnknown       Repair = "crime_unknown"
	RepairCoordinatesInvalid Repair = "coordinates_invalid"
	RepairCreatedAtInvalid   Repair = "created_at_invalid"
	RepairAgeInvalid         Repair = "age_invalid"
	RepairFieldType          Repair = "field_type"
)

// EncodeRecord serializes a report into its stored shape.
func EncodeRecord(r Report) ([]byte, error) {
	rec := StoredRecord{
		Crime:            string(r.Crime),
		Location:         StoredLocation{Address: r.Location.Address, Coordinates: []float64{}},
		CrimeDescription: r.Description,
		VictimName:       r.Victim.Name,
		VictimContact:    r.Victim.Contact,
		VictimAge:        r.Victim.Age,
	}
	if r.Location.Coordinates != nil {
		rec.Location.Coordinates = []float64{r.Location.Coordinates.Lat, r.Location.Coordinates.Lng}
	}
	if !r.CreatedAt.IsZero() {
		rec.CreatedAt = r.CreatedAt.UTC().Format(timestampLayout)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode report %s: %w", r.ID, err)
	}
	return data, nil
}

// NormalizeRecord turns one stored value into a Report keyed by id. It never
// fails: malformed fields are repaired in place and listed in the returned
// slice so callers can log them.
func NormalizeRecord(id string, raw []byte) (Report, []Repair) {
	report := Report{ID: id, Crime: Other}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return report, []Repair{RepairNotObject}
	}

	var repairs []Repair
	note := func(r Repair) { repairs = append(repairs, r) }

	crime, ok := stringField(fields, "crime")
	if !ok {
		note(RepairFieldType)
	}
	report.Crime = Classify(crime)
	switch {
	case crime == "":
		note(RepairCrimeMissing)
	case string(report.Crime) != crime:
		note(RepairCrimeUnknown)
	}

	var textOK [3]bool
	report.Description, textOK[0] = stringField(fields, "crimeDescription")
	report.Victim.Name, textOK[1] = stringField(fields, "victimName")
	report.Victim.Contact, textOK[2] = stringField(fields, "victimContact")
	if !textOK[0] || !textOK[1] || !textOK[2] {
		note(RepairFieldType)
	}

	age, ok := parseAge(fields["victimAge"])
	if !ok {
		note(RepairAgeInvalid)
	}
	report.Victim.Age = age

	loc, locRepairs := parseLocation(fields["location"])
	report.Location = loc
	repairs = append(repairs, locRepairs...)

	if createdAt, present := fields["created_at"]; present && createdAt != nil {
		s, _ := createdAt.(string)
		t, ok := ParseTimestamp(s)
		if !ok {
			note(RepairCreatedAtInvalid)
		}
		report.CreatedAt = t
	}

	return report, repairs
}

// ParseTimestamp reads an ISO-8601 timestamp in any of the forms seen in
// stored data: full RFC 3339, local date-time without zone, or a bare date.
// The result is in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// stringField reads a text field. Numbers are accepted and formatted, since
// some legacy contact fields were stored as numbers. ok is false when the
// value had an unusable type.
func stringField(fields map[string]any, key string) (string, bool) {
	switch v := fields[key].(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// parseAge accepts a non-negative whole number or a numeric string. Empty
// values mean "not given" and are not a repair.
func parseAge(v any) (*int, bool) {
	var n float64
	switch val := v.(type) {
	case nil:
		return nil, true
	case float64:
		n = val
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return nil, true
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, false
		}
		n = f
	default:
		return nil, false
	}
	if n < 0 || n > maxVictimAge || n != math.Trunc(n) {
		return nil, false
	}
	age := int(n)
	return &age, true
}

// parseLocation reads the location object. A bare string is taken as the
// address. Empty or absent coordinates are simply not plottable; a present
// but malformed pair is reported as a repair.
func parseLocation(v any) (Location, []Repair) {
	switch val := v.(type) {
	case nil:
		return Location{}, nil
	case string:
		return Location{Address: val}, nil
	case map[string]any:
		var repairs []Repair
		address, ok := stringField(val, "address")
		if !ok {
			repairs = append(repairs, RepairFieldType)
		}
		loc := Location{Address: address}
		coords, present := parseCoordinates(val["coordinates"])
		if coords == nil && present {
			repairs = append(repairs, RepairCoordinatesInvalid)
		}
		loc.Coordinates = coords
		return loc, repairs
	default:
		return Location{}, []Repair{RepairFieldType}
	}
}

// parseCoordinates returns the pair when v is exactly two finite in-range
// numbers. present is false for null and empty arrays.
func parseCoordinates(v any) (coords *LatLng, present bool) {
	if v == nil {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, true
	}
	if len(list) == 0 {
		return nil, false
	}
	if len(list) != 2 {
		return nil, true
	}
	lat, okLat := list[0].(float64)
	lng, okLng := list[1].(float64)
	if !okLat || !okLng {
		return nil, true
	}
	p := LatLng{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil, true
	}
	return &p, true
}
