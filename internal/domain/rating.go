package domain

import (
	"errors"
	"time"
)

// Rating is a patron review of a material, tied to the borrow that earned the
// right to review. One rating per borrow.
type Rating struct {
	ID         string
	UserID     string
	MaterialID string
	HoldID     string // the returned borrow hold
	Rating     int    // 1..5
	Review     string
	CreatedAt  time.Time
}

var (
	ErrRatingNotEligible = errors.New("rating requires a returned borrow of this material")
	ErrAlreadyRated      = errors.New("this borrow has already been rated")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)
