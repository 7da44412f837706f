package domain

import "errors"

var (
	// ErrNoData marks a drill-down view with no rows after filtering.
	ErrNoData = errors.New("no data available for this selection")

	// ErrUnknownTeam is returned when a filter names a school missing from the teams table.
	ErrUnknownTeam = errors.New("unknown team")

	// ErrInvalidFilter wraps every filter validation failure.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrOrphanCommit is returned by the reject policy when recruits commit to unknown teams.
	ErrOrphanCommit = errors.New("recruit committed to unknown team")
)
