package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/backend"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/idempotency"
	"github.com/jamesfeng2009/forecastdesk/internal/lookup"
	"github.com/jamesfeng2009/forecastdesk/internal/payload"
	"go.uber.org/zap"
)

// ErrNoOrderIdentifiers is returned by last-order capture when a successful
// result names no order. It is logged and never fails the submission.
var ErrNoOrderIdentifiers = errors.New("result carries no order identifiers")

// submit fingerprints fields and either replays the cached submission or
// runs the create pipeline. Fresh successes update the last order.
func (s *Session) submit(ctx context.Context, fields domain.OrderFields) (domain.Submission, error) {
	fp, err := idempotency.Fingerprint(fields.Canonical(s.desk.defaults))
	if err != nil {
		return domain.Submission{}, err
	}
	sub, replay, err := s.cache.SubmitOrReplay(ctx, fp, func(ctx context.Context) (domain.Submission, error) {
		return s.desk.createOrder(ctx, fields)
	})
	if err != nil {
		return domain.Submission{}, err
	}
	if replay {
		s.desk.logger.Debug("idempotent replay", zap.String("request_id", fp))
		return sub, nil
	}
	if err := s.captureLastOrder(sub); err != nil {
		s.desk.logger.Warn("last order not recorded", zap.String("request_id", fp), zap.Error(err))
	}
	return sub, nil
}

func (s *Session) captureLastOrder(sub domain.Submission) error {
	first := sub.Result.First()
	if first == nil || (first.SystemNumber == "" && first.WaybillNumber == "" && first.CustomerNumber == "") {
		return ErrNoOrderIdentifiers
	}
	s.last = &domain.LastOrder{
		CustomerNumber: first.CustomerNumber,
		SystemNumber:   first.SystemNumber,
		WaybillNumber:  first.WaybillNumber,
		Code:           first.Code,
		Message:        first.Message,
		RequestID:      sub.RequestID,
	}
	return nil
}

// createOrder resolves selections, builds and validates the payload and
// calls the backend once. A backend result with a non-zero code is a
// failure, so it is never cached.
func (d *Desk) createOrder(ctx context.Context, fields domain.OrderFields) (domain.Submission, error) {
	fields = fields.WithDefaults(d.defaults)
	p, _, err := d.buildPayload(ctx, fields)
	if err != nil {
		return domain.Submission{}, err
	}

	result, err := d.api.CreateForecastOrder(ctx, domain.CreateOrderRequest{
		Payload:         p,
		OriginCity:      domain.StrValue(fields.OriginCity),
		DestinationCity: domain.StrValue(fields.DestinationCity),
	})
	if err != nil {
		return domain.Submission{}, domain.BackendFailed("failed to create forecast order", err)
	}
	if !result.Succeeded() {
		msg := result.Message
		if first := result.First(); first != nil && first.Message != "" {
			msg = first.Message
		}
		return domain.Submission{}, &domain.Error{
			Kind:    domain.KindBackendCallFailed,
			Message: fmt.Sprintf("backend rejected order (code %d): %s", result.Code, msg),
			Field:   domain.FieldCustomerNumber1,
		}
	}

	sub := domain.Submission{RequestPayload: p, Result: result}
	applyIdentifiers(&sub, result.First())
	d.logger.Info("forecast order created",
		zap.String("order_id", sub.OrderID),
		zap.String("tracking_id", sub.TrackingID),
		zap.Bool("waybill_pending", sub.WaybillPending),
	)
	return sub, nil
}

func applyIdentifiers(sub *domain.Submission, first *domain.CreatedOrder) {
	if first == nil {
		sub.WaybillPending = true
		return
	}
	sub.OrderID = first.SystemNumber
	sub.TrackingID = first.WaybillNumber
	sub.WaybillPending = first.WaybillNumber == ""
	for _, c := range first.Childs {
		if tn := strings.TrimSpace(c.TrackNumber); tn != "" {
			sub.ChildTrackingIDs = append(sub.ChildTrackingIDs, tn)
		}
	}
}

// buildPayload resolves codes and returns a validated payload.
func (d *Desk) buildPayload(ctx context.Context, fields domain.OrderFields) (*domain.OrderPayload, domain.ResolvedCodes, error) {
	codes, err := d.resolveCodes(ctx, fields)
	if err != nil {
		return nil, codes, err
	}
	p, err := payload.Build(fields, codes, d.auth, d.defaults)
	if err != nil {
		return nil, codes, err
	}
	if err := payload.ValidationError(payload.Validate(p)); err != nil {
		return nil, codes, err
	}
	return p, codes, nil
}

// resolveCodes maps named selections to dictionary codes. Insurance type and
// currency are only resolved when insurance is enabled.
func (d *Desk) resolveCodes(ctx context.Context, f domain.OrderFields) (domain.ResolvedCodes, error) {
	var codes domain.ResolvedCodes

	declareOpts, err := d.options(ctx, backend.DictDeclareType)
	if err != nil {
		return codes, err
	}
	declare, err := lookup.ResolveByName(declareOpts, domain.StrValue(f.DeclareTypeName), "declaretype")
	if err != nil {
		return codes, err
	}
	codes.DeclareType = declare.Code

	productOpts, err := d.options(ctx, backend.DictProductType)
	if err != nil {
		return codes, err
	}
	product, err := lookup.ResolveByName(productOpts, domain.StrValue(f.ProductTypeName), "producttype")
	if err != nil {
		return codes, err
	}
	codes.ProductType = product.Code

	if !f.InsuranceOn() {
		return codes, nil
	}
	if f.InsuranceValue == nil {
		return codes, domain.MissingField(domain.FieldInsuranceValue, "insurance_value is required when insurance is enabled")
	}
	insuranceOpts, err := d.options(ctx, backend.DictInsurance)
	if err != nil {
		return codes, err
	}
	insurance, err := lookup.ResolveByName(insuranceOpts, domain.StrValue(f.InsuranceTypeName), "insurance", domain.NameFieldName)
	if err != nil {
		return codes, err
	}
	currencyOpts, err := d.options(ctx, backend.DictCurrency)
	if err != nil {
		return codes, err
	}
	currency, err := lookup.ResolveCurrency(currencyOpts, domain.StrValue(f.InsuranceCurrencyCode))
	if err != nil {
		return codes, err
	}
	codes.InsuranceType = insurance.Code
	codes.Currency = currency.Code
	return codes, nil
}

func (d *Desk) options(ctx context.Context, dict backend.Dictionary) ([]domain.ReferenceOption, error) {
	opts, err := d.api.Options(ctx, dict)
	if err != nil {
		return nil, domain.BackendFailed(fmt.Sprintf("failed to load %s options", dict), err)
	}
	return opts, nil
}
