// Package domain models college football recruiting data and the territory
// computations built on it.
//
// # Data Source
//
// Two CSV files drive everything:
//
//	recruits: year, stars, position, name, city, lat, lng, committedTo, count
//	teams:    school, color, lat, lng, logos
//
// Both are read once per process and treated as immutable. Every filter run
// derives new slices; nothing here mutates a loaded [Dataset].
//
// # Data Conventions
//
// Hometown format:
//
//	"<City>, <ST>"  →  e.g. "Austin, TX"
//	Coordinates are city-level decimal degrees. A (0, 0) pair means unknown
//	and is forward geocoded when a [Geocoder] is configured.
//
// Count column:
//
//	Some recruit files store one row per athlete, others store pre-summed
//	counts per hometown/position/year. When the column is absent every row
//	counts as 1 (see [RecruitSchema]).
//
// Logos column:
//
//	A serialized list literal, e.g. "['http://a.png', 'http://b.png']".
//	Parsed by [ParseLogos] with a small quoted-string scanner; only the first
//	entry is used for display.
//
// Commit column:
//
//	Empty (or "NaN" as written by pandas) when the recruit is uncommitted.
//	Values that name no known team are handled by an [OrphanPolicy].
//
// # Distances
//
// [GreatCircle] uses the spherical law of cosines with a fixed Earth radius of
// 3958.756 statute miles. Connections are evaluated for every selected team
// against every filtered hometown; distances are memoized per distinct
// (team, hometown) pair within a run.
package domain
