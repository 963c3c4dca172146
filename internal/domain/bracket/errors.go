package bracket

import "errors"

var (
	ErrUnknownMatchup  = errors.New("unknown matchup")
	ErrInvalidMatchups = errors.New("invalid matchups")
	ErrInvalidResult   = errors.New("invalid result")
)
