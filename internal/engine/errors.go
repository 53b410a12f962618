package engine

import (
	"errors"

	"github.com/zapponejosh/liturgical-calendar/internal/i18n"
	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

// Errors that abort a computation. Coincidences never surface as errors;
// they are resolved by policy and reported as advisories.
var (
	// ErrYearOutOfRange is returned for years before 1970 or after 9999.
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrInvalidParams is returned for malformed calendar parameters.
	ErrInvalidParams = errors.New("invalid calendar parameters")

	// ErrUnknownNation is returned when no national calendar exists for a nation.
	ErrUnknownNation = errors.New("unknown nation")

	// ErrUnknownDiocese is returned for a diocese missing from the diocese
	// index or belonging to another nation than the one requested.
	ErrUnknownDiocese = errors.New("unknown diocese")

	// ErrDecreeTargetMissing is returned when a decree must modify a
	// celebration that is neither active nor suppressed.
	ErrDecreeTargetMissing = errors.New("decree target missing")

	// ErrUnsupportedLocale is returned when the scope supports no locale
	// matching the request.
	ErrUnsupportedLocale = i18n.ErrUnsupportedLocale

	// ErrInvalidDateRule is returned when a date rule yields no valid date.
	ErrInvalidDateRule = refdata.ErrInvalidDateRule
)
