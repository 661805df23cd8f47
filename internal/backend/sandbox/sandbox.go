// Package sandbox is an in-process booking service backed by SQLite. It
// serves the CLI, the HTTP surface and tests with deterministic
// identifiers.
package sandbox

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jamesfeng2009/forecastdesk/internal/backend"
	"github.com/jamesfeng2009/forecastdesk/internal/db"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed dictionaries.yaml
var dictionaryYAML []byte

// Result codes and messages returned by the sandbox.
const (
	CodeOK             = 0
	CodeDuplicate      = 1
	CodeUnauthorized   = 2
	CodeInvalidPayload = 3

	msgCallOK       = "调用成功"
	msgOrderCreated = "下单成功"
	msgInvalidTrack = "无效的单号"
	msgUnknownRef   = "客户单号不存在"
)

// FixtureWaybill always has a tracking itinerary.
const FixtureWaybill = "12345"

// Config controls sandbox behaviour.
type Config struct {
	CustomerCode string
	Token        string
	// DeferWaybill leaves waybills empty at creation; the first
	// WaybillNumbers call for the order assigns one.
	DeferWaybill bool
	Now          func() time.Time
}

// DefaultConfig returns the sandbox credentials used when none are configured.
func DefaultConfig() Config {
	return Config{CustomerCode: "KJHB", Token: "mock-token", Now: time.Now}
}

// Sandbox implements backend.LogisticsAPI.
type Sandbox struct {
	cfg     Config
	orders  repository.ForecastOrderRepo
	uow     db.UnitOfWork
	newRepo func(db.DBTX) repository.ForecastOrderRepo
	dicts   map[backend.Dictionary][]domain.ReferenceOption
	logger  *zap.Logger
}

var _ backend.LogisticsAPI = (*Sandbox)(nil)

// New creates a sandbox over an opened store.
func New(conn db.DBTX, uow db.UnitOfWork, cfg Config, logger *zap.Logger) (*Sandbox, error) {
	dicts, err := loadDictionaries(dictionaryYAML)
	if err != nil {
		return nil, err
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sandbox{
		cfg:    cfg,
		orders: repository.NewSQLiteForecastOrderRepo(conn),
		uow:    uow,
		newRepo: func(tx db.DBTX) repository.ForecastOrderRepo {
			return repository.NewSQLiteForecastOrderRepo(tx)
		},
		dicts:  dicts,
		logger: logger.Named("sandbox"),
	}, nil
}

// Authorization returns the credentials the sandbox accepts.
func (s *Sandbox) Authorization() domain.Authorization {
	return domain.Authorization{Code: s.cfg.CustomerCode, Token: s.cfg.Token}
}

func loadDictionaries(raw []byte) (map[backend.Dictionary][]domain.ReferenceOption, error) {
	var parsed map[string][]domain.ReferenceOption
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing dictionaries: %w", err)
	}
	out := make(map[backend.Dictionary][]domain.ReferenceOption, len(parsed))
	for name, opts := range parsed {
		d, err := backend.ParseDictionary(name)
		if err != nil {
			return nil, fmt.Errorf("parsing dictionaries: %w", err)
		}
		out[d] = opts
	}
	for _, d := range backend.Dictionaries {
		if len(out[d]) == 0 {
			return nil, fmt.Errorf("dictionary %s is empty", d)
		}
	}
	return out, nil
}

func (s *Sandbox) Options(ctx context.Context, dict backend.Dictionary) ([]domain.ReferenceOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, ok := s.dicts[dict]
	if !ok {
		return nil, fmt.Errorf("unknown dictionary %q", dict)
	}
	return append([]domain.ReferenceOption(nil), opts...), nil
}

func (s *Sandbox) CreateForecastOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Payload == nil || len(req.Payload.Datas) == 0 || req.Payload.Datas[0].Order == nil {
		return failure(CodeInvalidPayload, "请求数据为空", ""), nil
	}
	if auth := req.Payload.Authorization; auth == nil || auth.Code != s.cfg.CustomerCode || auth.Token != s.cfg.Token {
		return failure(CodeUnauthorized, "鉴权失败", ""), nil
	}

	rec := req.Payload.Datas[0].Order
	customer := rec.CustomerNumber1
	system := "SYS" + stableID(req.OriginCity, req.DestinationCity, customer)
	waybill := ""
	if !s.cfg.DeferWaybill {
		waybill = waybillFor(system)
	}
	order := &domain.ForecastOrder{
		SystemNumber:    system,
		CustomerNumber:  customer,
		WaybillNumber:   waybill,
		ChannelID:       rec.ChannelID,
		CountryCode:     rec.CountryCode,
		OriginCity:      req.OriginCity,
		DestinationCity: req.DestinationCity,
		Payload:         req.Payload,
		Children: []domain.ChildShipment{{
			CustomerNumber: customer + "-1",
			SystemNumber:   system + "-1",
			TrackNumber:    "1Z" + strings.ToUpper(stableID(system, "1")),
		}},
		CreatedAt: s.cfg.Now().UTC(),
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.newRepo(tx).Create(ctx, order)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		s.logger.Info("duplicate customer number", zap.String("customernumber", customer))
		return failure(CodeDuplicate, "客户单号已存在: "+customer, customer), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storing forecast order: %w", err)
	}

	s.logger.Debug("forecast order created",
		zap.String("systemnumber", system),
		zap.String("customernumber", customer),
		zap.Bool("waybill_pending", waybill == ""),
	)
	return &domain.CreateOrderResult{
		Code:    CodeOK,
		Message: msgCallOK,
		Data: []domain.CreatedOrder{{
			Code:           CodeOK,
			Message:        msgOrderCreated,
			CustomerNumber: customer,
			SystemNumber:   system,
			WaybillNumber:  waybill,
			Childs:         order.Children,
			OriginCity:     req.OriginCity,
			Destination:    req.DestinationCity,
			CreatedAt:      order.CreatedAt,
		}},
	}, nil
}

func failure(code int, msg, customer string) *domain.CreateOrderResult {
	return &domain.CreateOrderResult{
		Code:    code,
		Message: msg,
		Data:    []domain.CreatedOrder{{Code: code, Message: msg, CustomerNumber: customer}},
	}
}

func (s *Sandbox) WaybillNumbers(ctx context.Context, customerNumbers []string) ([]domain.WaybillRecord, error) {
	out := make([]domain.WaybillRecord, 0, len(customerNumbers))
	for _, cn := range customerNumbers {
		o, err := s.orders.GetByCustomerNumber(ctx, cn)
		if errors.Is(err, repository.ErrNotFound) {
			out = append(out, domain.WaybillRecord{CustomerNumber: cn, Message: msgUnknownRef})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", cn, err)
		}
		if o.WaybillPending() {
			o.WaybillNumber = waybillFor(o.SystemNumber)
			if err := s.orders.AssignWaybill(ctx, o.SystemNumber, o.WaybillNumber); err != nil {
				return nil, err
			}
			s.logger.Debug("waybill assigned", zap.String("systemnumber", o.SystemNumber))
		}
		out = append(out, domain.WaybillRecord{
			CustomerNumber: cn,
			SystemNumber:   o.SystemNumber,
			WaybillNumber:  o.WaybillNumber,
		})
	}
	return out, nil
}

func (s *Sandbox) Track(ctx context.Context, waybill string) (*domain.TrackResult, error) {
	number := strings.TrimPrefix(strings.TrimSpace(waybill), "#")
	if number == FixtureWaybill {
		return fixtureTrack(), nil
	}
	invalid := &domain.TrackResult{SearchNumber: number, WaybillNumber: number, Invalid: true, ErrorMessage: msgInvalidTrack}
	if number == "" {
		return invalid, nil
	}

	o, err := s.orders.GetByWaybill(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tracking %s: %w", number, err)
	}

	var trackNumber string
	if len(o.Children) > 0 {
		trackNumber = o.Children[0].TrackNumber
	}
	return &domain.TrackResult{
		SearchNumber:    number,
		SystemNumber:    o.SystemNumber,
		WaybillNumber:   o.WaybillNumber,
		TrackNumber:     trackNumber,
		CountryCode:     o.CountryCode,
		OrderStatus:     "InTransit",
		OrderStatusName: "运输中",
		Events:          itinerary(o.OriginCity, o.DestinationCity, o.CreatedAt),
	}, nil
}

const trackDateLayout = "2006-01-02 15:04:05"

func itinerary(origin, destination string, created time.Time) []domain.TrackEvent {
	cst := time.FixedZone("UTC+8", 8*60*60)
	at := func(d time.Duration) string { return created.Add(d).In(cst).Format(trackDateLayout) }
	return []domain.TrackEvent{
		{Location: origin, TrackDate: at(0), Info: "已揽收", ResponseCode: "OT001"},
		{Location: "Hong Kong, CN", TrackDate: at(15*time.Hour + 20*time.Minute), Info: "离港", ResponseCode: "OT001"},
		{Location: destination, TrackDate: at(47*time.Hour + 15*time.Minute), Info: "抵达目的地分拨中心", ResponseCode: "OT001"},
	}
}

func fixtureTrack() *domain.TrackResult {
	return &domain.TrackResult{
		SearchNumber:    FixtureWaybill,
		SystemNumber:    "SYS" + stableID(FixtureWaybill),
		WaybillNumber:   FixtureWaybill,
		TrackNumber:     "1Z" + strings.ToUpper(stableID(FixtureWaybill, "track")),
		CountryCode:     "US",
		OrderStatus:     "InTransit",
		OrderStatusName: "运输中",
		Events: []domain.TrackEvent{
			{Location: "Shenzhen, CN", TrackDate: "2025-12-10 10:00:00", Info: "已揽收", ResponseCode: "OT001"},
			{Location: "Hong Kong, CN", TrackDate: "2025-12-11 01:20:00", Info: "离港", ResponseCode: "OT001"},
			{Location: "Los Angeles, CA, US", TrackDate: "2025-12-12 09:15:00", Info: "抵达目的地分拨中心", ResponseCode: "OT001"},
		},
	}
}

func waybillFor(system string) string {
	return "EV" + strings.ToUpper(stableID(system)) + "CN"
}

// stableID is the first 12 hex characters of sha256 over the parts joined
// with "|".
func stableID(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:12]
}
