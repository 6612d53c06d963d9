package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// SelectionRequest is the filter body of the dashboard, export and report
// endpoints. Dates are calendar days and both ends are inclusive.
type SelectionRequest struct {
	Property       string   `json:"property" validate:"max=200"`
	Fixtures       []string `json:"fixtures" validate:"max=500,dive,required,max=200"`
	Start          string   `json:"start" validate:"required_with=End,omitempty,datetime=2006-01-02"`
	End            string   `json:"end" validate:"required_with=Start,omitempty,datetime=2006-01-02,not_before_start"`
	IncludeRecords bool     `json:"include_records"`
}

// Selection converts a validated request
func (r SelectionRequest) Selection() models.Selection {
	sel := models.Selection{Property: strings.TrimSpace(r.Property)}
	for _, f := range r.Fixtures {
		if f = strings.TrimSpace(f); f != "" {
			sel.Fixtures = append(sel.Fixtures, f)
		}
	}
	if r.Start != "" && r.End != "" {
		sel.Start, _ = time.Parse(dateLayout, r.Start)
		end, _ := time.Parse(dateLayout, r.End)
		sel.End = end.Add(24*time.Hour - time.Nanosecond)
	}
	return sel
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("not_before_start", validateNotBeforeStart); err != nil {
		panic(fmt.Sprintf("register not_before_start validation: %v", err))
	}
	return v
}

// validateNotBeforeStart checks End against the sibling Start field
func validateNotBeforeStart(fl validator.FieldLevel) bool {
	start := fl.Parent().FieldByName("Start").String()
	end := fl.Field().String()
	if start == "" || end == "" {
		return true
	}
	s, err1 := time.Parse(dateLayout, start)
	e, err2 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil {
		return true
	}
	return !e.Before(s)
}

// describe turns validator errors into one readable message
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date formatted YYYY-MM-DD", field))
		case "required_with":
			msgs = append(msgs, fmt.Sprintf("%s is required when a date range is given", field))
		case "not_before_start":
			msgs = append(msgs, "end must not be before start")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds the maximum of %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
