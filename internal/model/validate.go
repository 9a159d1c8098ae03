package model

import "fmt"

// Validate checks the constraints the store enforces on a document. Date
// ordering is not one of them; see CheckRange.
func (d Document) Validate() error {
	if d.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrValidation)
	}
	if d.EndDate.IsZero() {
		return fmt.Errorf("%w: endDate is required", ErrValidation)
	}
	return nil
}

// CheckRange reports an end before the start. Stores accept such documents;
// interactive front ends use this to warn before saving.
func (d Document) CheckRange() error {
	if d.EndDate.Before(d.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrValidation)
	}
	return nil
}
