// Package domain models citizen crime reports and the rules that keep them
// consistent.
//
// # Data Source
//
// Reports are stored in a key-value collection (historically a Firebase
// Realtime Database under the "reports" path). Each child key is the report
// ID and each value is a flat JSON object written by the submission form.
//
// # Stored Record Conventions
//
// Wire keys are fixed by existing data and must not change:
//
//	{
//	  "crime": "Theft",
//	  "location": {"address": "Connaught Place, New Delhi", "coordinates": [28.6315, 77.2167]},
//	  "crimeDescription": "Phone snatched near the metro exit",
//	  "victimName": "A. Kumar",
//	  "victimContact": "+91 98xxxxxx10",
//	  "victimAge": 34,
//	  "created_at": "2024-03-02T18:45:10.120Z"
//	}
//
// Legacy records are loosely typed:
//
//   - victimAge may be a number, a numeric string, or "".
//   - coordinates may be [], null, strings, or out of range.
//   - created_at may be missing; older records only carry the ID.
//   - crime may be empty or a label outside the taxonomy.
//
// [NormalizeRecord] is the only place that reads the loose shape. It repairs
// records in place (unknown crime becomes [Other], bad coordinates become nil)
// and never drops a record.
//
// # ID Generation
//
// IDs are decimal Unix milliseconds, matching the keys already in the store.
// [IDGenerator] bumps the value when two reports land in the same millisecond,
// so IDs are unique and sort in creation order. See [CompareIDs].
//
// # Coordinates
//
// Coordinates are WGS-84 [lat, lng] pairs. Latitude must lie in [-90, 90]
// and longitude in [-180, 180]. A report without valid coordinates is not
// plottable but still counts in statistics.
package domain
