package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sharedmodels "flightlink/shared/models"

	"github.com/go-playground/validator/v10"
)

// MissingCitiesWarning is shown to the user when origin or destination is blank.
const MissingCitiesWarning = "Please enter both From and To cities."

const allSites = "all"

var ErrMissingCities = errors.New("origin and destination are required")

var validate = validator.New(validator.WithRequiredStructEnabled())

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError lists every field that failed its constraint.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "invalid search: " + strings.Join(parts, "; ")
}

// ApplyDefaults fills the fields the form pre-selects: today's date, one
// traveller, Economy and MakeMyTrip.
func ApplyDefaults(form *sharedmodels.SearchForm, today time.Time) {
	if form.Date == "" {
		form.Date = today.Format(time.DateOnly)
	}
	if form.Passengers == 0 {
		form.Passengers = 1
	}
	if form.Class == "" {
		form.Class = string(sharedmodels.Economy)
	}
	if len(form.Sites) == 0 {
		form.Sites = []string{string(sharedmodels.MakeMyTrip)}
	}
}

// Validate checks a defaulted form. Blank cities are reported with
// ErrMissingCities ahead of any other problem.
func Validate(form sharedmodels.SearchForm) error {
	if form.From == "" || form.To == "" {
		return ErrMissingCities
	}

	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: message(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}
	return out
}

// ToRequest defaults, validates and converts a form into a SearchRequest.
// Site names are not checked here; unknown ones are rejected by the formatter.
func ToRequest(form sharedmodels.SearchForm, today time.Time) (sharedmodels.SearchRequest, error) {
	ApplyDefaults(&form, today)
	if err := Validate(form); err != nil {
		return sharedmodels.SearchRequest{}, err
	}

	date, err := time.Parse(time.DateOnly, form.Date)
	if err != nil {
		return sharedmodels.SearchRequest{}, fmt.Errorf("parse departure date: %w", err)
	}

	return sharedmodels.SearchRequest{
		From:       form.From,
		To:         form.To,
		Date:       date,
		Passengers: form.Passengers,
		Class:      sharedmodels.CabinClass(form.Class),
		Sites:      expandSites(form.Sites),
	}, nil
}

func expandSites(names []string) []sharedmodels.Site {
	for _, n := range names {
		if strings.EqualFold(n, allSites) {
			return append([]sharedmodels.Site(nil), sharedmodels.AllSites...)
		}
	}
	sites := make([]sharedmodels.Site, 0, len(names))
	for _, n := range names {
		sites = append(sites, sharedmodels.Site(n))
	}
	return sites
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
