package payload

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

// Validate re-checks the structural shape of a built payload and returns
// every violation found. It is independent of Build's field checks.
func Validate(p *domain.OrderPayload) []error {
	if p == nil {
		return []error{errors.New("payload is required")}
	}
	var errs []error

	if p.Authorization == nil {
		errs = append(errs, errors.New("authorization must be an object"))
	} else {
		if p.Authorization.Code == "" {
			errs = append(errs, errors.New("authorization.code is required"))
		}
		if p.Authorization.Token == "" {
			errs = append(errs, errors.New("authorization.token is required"))
		}
	}

	if len(p.Datas) == 0 {
		return append(errs, errors.New("datas must be a non-empty array"))
	}
	first := p.Datas[0]
	if first.Order == nil {
		return append(errs, errors.New("datas[0].order must be an object"))
	}

	for _, rf := range requiredOrderFields(first.Order) {
		if rf.value == "" {
			errs = append(errs, fmt.Errorf("datas[0].order.%s is required", rf.name))
		}
	}

	if len(first.Volumes) == 0 {
		errs = append(errs, errors.New("datas[0].volumes must be a non-empty array"))
	}
	if len(first.Items) == 0 {
		errs = append(errs, errors.New("datas[0].items must be a non-empty array"))
	}
	return errs
}

type orderField struct {
	name  string
	value string
}

// A zero quantity counts as missing.
func requiredOrderFields(o *domain.OrderRecord) []orderField {
	number := ""
	if o.Number != 0 {
		number = strconv.Itoa(o.Number)
	}
	return []orderField{
		{"channelid", o.ChannelID},
		{"customernumber1", o.CustomerNumber1},
		{"number", number},
		{"forecastweight", o.ForecastWeight},
		{"countrycode", o.CountryCode},
		{"consigneename", o.ConsigneeName},
		{"consigneeaddress1", o.ConsigneeAddress1},
		{"consigneecity", o.ConsigneeCity},
		{"consigneezipcode", o.ConsigneeZipCode},
		{"consigneeprovince", o.ConsigneeProvince},
	}
}

// ValidationError wraps violations into a ValidationFailed error, or returns
// nil when there are none.
func ValidationError(violations []error) error {
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Error()
	}
	return &domain.Error{
		Kind:       domain.KindValidationFailed,
		Message:    "payload validation failed",
		Violations: msgs,
		Err:        errors.Join(violations...),
	}
}
