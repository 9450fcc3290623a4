package moderation

import (
	"maps"
	"slices"
	"strings"

	"pharmaduty-go/internal/validation"
)

const (
	FieldName         = "name"
	FieldPharmacyName = "pharmacy_name"
	FieldOwnerName    = "owner_name"
	FieldAddress      = "address"
)

type IssueKind string

const (
	IssueInappropriate IssueKind = "inappropriate"
	IssueInvalid       IssueKind = "invalid"
)

// RegistrationFields holds the free-text registration inputs; nil fields are not checked.
type RegistrationFields struct {
	Name         *string
	PharmacyName *string
	OwnerName    *string
	Address      *string
}

type Issue struct {
	Field   string    `json:"field"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

type Result struct {
	IsClean     bool    `json:"is_clean"`
	Issues      []Issue `json:"issues"`
	NeedsReview bool    `json:"needs_review"`
}

// Messages returns the issue messages of the given kind, in field order.
func (r Result) Messages(kind IssueKind) []string {
	var messages []string
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			messages = append(messages, issue.Message)
		}
	}
	return messages
}

var fieldLabels = map[string]string{
	FieldName:         "name",
	FieldPharmacyName: "pharmacy name",
	FieldOwnerName:    "owner name",
	FieldAddress:      "address",
}

// ValidateRegistrationData applies the moderation gate to registration input.
// Bad words set NeedsReview and are meant to block the submission upstream; plain
// invalidity only adds an issue, which downgrades auto-approval to pending review.
func (g *Gate) ValidateRegistrationData(fields RegistrationFields) Result {
	result := Result{Issues: []Issue{}}

	check := func(field string, value *string, valid func(string) bool) {
		if value == nil {
			return
		}
		label := fieldLabels[field]
		switch {
		case g.ContainsBadWords(*value):
			result.Issues = append(result.Issues, Issue{
				Field:   field,
				Kind:    IssueInappropriate,
				Message: "The " + label + " contains inappropriate words",
			})
			result.NeedsReview = true
		case !valid(*value):
			result.Issues = append(result.Issues, Issue{
				Field:   field,
				Kind:    IssueInvalid,
				Message: "The " + label + " looks invalid",
			})
		}
	}

	check(FieldName, fields.Name, g.IsValidName)
	check(FieldPharmacyName, fields.PharmacyName, g.IsValidName)
	check(FieldOwnerName, fields.OwnerName, g.IsValidName)
	check(FieldAddress, fields.Address, g.IsValidAddress)

	result.IsClean = len(result.Issues) == 0
	return result
}

// CheckText returns an inappropriate-content issue for every labelled value containing a bad word.
// Profile edits and reviews use it as a hard gate.
func (g *Gate) CheckText(values map[string]string) []Issue {
	var issues []Issue
	for _, field := range slices.Sorted(maps.Keys(values)) {
		if g.ContainsBadWords(values[field]) {
			label := fieldLabels[field]
			if label == "" {
				label = strings.ReplaceAll(field, "_", " ")
			}
			issues = append(issues, Issue{
				Field:   field,
				Kind:    IssueInappropriate,
				Message: "The " + label + " contains inappropriate words",
			})
		}
	}
	return issues
}

// ContentErrors renders the inappropriate-word issues under the "content" field.
func ContentErrors(issues []Issue) validation.Errors {
	errs := validation.Errors{}
	for _, issue := range issues {
		if issue.Kind == IssueInappropriate {
			errs.Add("content", issue.Message)
		}
	}
	return errs
}
