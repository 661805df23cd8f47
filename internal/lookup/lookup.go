// Package lookup resolves user selections against reference dictionaries.
package lookup

import (
	"fmt"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/canon"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

// CurrencyNameFields are searched when a currency is given by name rather
// than by code.
var CurrencyNameFields = []domain.NameField{domain.NameFieldCNName, domain.NameFieldENName, domain.NameFieldCode}

// ResolveByCode returns the option whose code equals code. An empty code
// selects the first option.
func ResolveByCode(options []domain.ReferenceOption, code, label string) (domain.ReferenceOption, error) {
	if len(options) == 0 {
		return domain.ReferenceOption{}, noOptions(label)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return options[0], nil
	}
	for _, opt := range options {
		if opt.Code == code {
			return opt, nil
		}
	}
	return domain.ReferenceOption{}, &domain.Error{
		Kind:    domain.KindInvalidSelection,
		Message: fmt.Sprintf("invalid %s code: %s", label, code),
		Field:   label,
	}
}

// ResolveByName matches name against the given display-name fields, or
// domain.DefaultNameFields when none are given. Exact normalized matches are
// preferred; substring matches are consulted only when there are no exact
// ones. More than one match in the deciding tier is ambiguous. An empty name
// selects the first option.
func ResolveByName(options []domain.ReferenceOption, name, label string, fields ...domain.NameField) (domain.ReferenceOption, error) {
	if strings.TrimSpace(name) == "" {
		if len(options) == 0 {
			return domain.ReferenceOption{}, noOptions(label)
		}
		return options[0], nil
	}
	if len(fields) == 0 {
		fields = domain.DefaultNameFields
	}
	needle := canon.NormalizeText(name)

	var exact, contains []int
	for i, opt := range options {
		exactHit, containsHit := false, false
		for _, f := range fields {
			v := opt.DisplayName(f)
			if v == "" {
				continue
			}
			hay := canon.NormalizeText(v)
			if hay == needle {
				exactHit = true
			} else if strings.Contains(hay, needle) {
				containsHit = true
			}
		}
		if exactHit {
			exact = append(exact, i)
		}
		if containsHit {
			contains = append(contains, i)
		}
	}

	switch {
	case len(exact) == 1:
		return options[exact[0]], nil
	case len(exact) > 1:
		return domain.ReferenceOption{}, ambiguous(options, exact, name, label)
	case len(contains) == 1:
		return options[contains[0]], nil
	case len(contains) > 1:
		return domain.ReferenceOption{}, ambiguous(options, contains, name, label)
	}
	return domain.ReferenceOption{}, &domain.Error{
		Kind:    domain.KindInvalidSelection,
		Message: fmt.Sprintf("invalid %s name: %s", label, name),
		Field:   label,
	}
}

// ResolveCurrency accepts an ISO code or a currency name. The input is first
// normalized and tried as a code; failing that it is matched by name over
// cnname, enname and code.
func ResolveCurrency(options []domain.ReferenceOption, input string) (domain.ReferenceOption, error) {
	code, _ := canon.NormalizeCurrency(input)
	opt, err := ResolveByCode(options, code, "insurancecurrency")
	if err == nil {
		return opt, nil
	}
	if domain.KindOf(err) != domain.KindInvalidSelection || len(options) == 0 {
		return domain.ReferenceOption{}, err
	}
	return ResolveByName(options, input, "insurancecurrency", CurrencyNameFields...)
}

func noOptions(label string) error {
	return &domain.Error{
		Kind:    domain.KindInvalidSelection,
		Message: fmt.Sprintf("no options available for %s", label),
		Field:   label,
	}
}

func ambiguous(options []domain.ReferenceOption, idx []int, name, label string) error {
	candidates := make([]string, 0, len(idx))
	for _, i := range idx {
		candidates = append(candidates, options[i].Label())
	}
	return &domain.Error{
		Kind:       domain.KindAmbiguousSelection,
		Message:    fmt.Sprintf("ambiguous %s name: %s", label, name),
		Field:      label,
		Candidates: candidates,
	}
}
