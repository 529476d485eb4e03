package team

import "errors"

var (
	// ErrTeamNotFound indicates the team doesn't exist or is not visible.
	ErrTeamNotFound = errors.New("team not found")
	// ErrMemberNotFound indicates the user is not in the team.
	ErrMemberNotFound = errors.New("team member not found")
	// ErrInvalidInput indicates invalid team input.
	ErrInvalidInput = errors.New("invalid team input")
)
