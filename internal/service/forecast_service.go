package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/demand-forecast/internal/cache"
	"github.com/andresuchdata/demand-forecast/internal/domain"
	"github.com/andresuchdata/demand-forecast/internal/forecast"
	"github.com/andresuchdata/demand-forecast/internal/repository"
)

const defaultHistoryWindowDays = 90

type ForecastService struct {
	source     HistorySource
	engine     *forecast.Engine
	cache      cache.ForecastCache
	windowDays int
	now        func() time.Time
}

func NewForecastService(source HistorySource, engine *forecast.Engine, cacheImpl cache.ForecastCache, windowDays int) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	if engine == nil {
		engine = forecast.NewEngine(forecast.DefaultConfig())
	}
	if windowDays <= 0 {
		windowDays = defaultHistoryWindowDays
	}
	return &ForecastService{
		source:     source,
		engine:     engine,
		cache:      cacheImpl,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Products lists every product the source knows about.
func (s *ForecastService) Products(ctx context.Context) ([]domain.ProductKey, error) {
	return s.source.ListProducts(ctx)
}

// HorizonDays is the default forecast horizon.
func (s *ForecastService) HorizonDays() int {
	return s.engine.Config().ForecastDays
}

// Forecast computes the forecast for key as of the given date with the
// default horizon.
func (s *ForecastService) Forecast(ctx context.Context, key domain.ProductKey, asOf time.Time) (*domain.ForecastRecord, error) {
	return s.ForecastHorizon(ctx, key, asOf, s.HorizonDays())
}

// ForecastHorizon computes the forecast for key covering the horizonDays
// after asOf.
func (s *ForecastService) ForecastHorizon(ctx context.Context, key domain.ProductKey, asOf time.Time, horizonDays int) (*domain.ForecastRecord, error) {
	if horizonDays <= 0 {
		horizonDays = s.HorizonDays()
	}
	day := truncateDay(asOf)

	in, err := s.load(ctx, key, day)
	if err != nil {
		return nil, err
	}
	result := s.compute(ctx, in, horizonDays)

	return &domain.ForecastRecord{
		ID:            uuid.NewString(),
		SellerID:      key.SellerID,
		ProductID:     key.ProductID,
		ForecastDate:  day,
		ForecastStart: day.AddDate(0, 0, 1),
		ForecastEnd:   day.AddDate(0, 0, horizonDays),
		HorizonDays:   horizonDays,
		Stock:         in.Stock,
		Result:        *result,
		CreatedAt:     s.now().UTC(),
	}, nil
}

// Trend returns the chart series for key as of the given date.
func (s *ForecastService) Trend(ctx context.Context, key domain.ProductKey, asOf time.Time) (*domain.TrendSeries, error) {
	day := truncateDay(asOf)
	horizonDays := s.HorizonDays()

	in, err := s.load(ctx, key, day)
	if err != nil {
		return nil, err
	}
	result := s.compute(ctx, in, horizonDays)

	series := s.engine.TrendSeries(in.Series, *result, horizonDays, day)
	return &series, nil
}

// load reads and validates the history window ending on day (inclusive).
func (s *ForecastService) load(ctx context.Context, key domain.ProductKey, day time.Time) (cache.Query, error) {
	to := day.AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -s.windowDays)

	series, err := s.source.SalesHistory(ctx, key, from, to)
	if err != nil {
		return cache.Query{}, fmt.Errorf("load sales history: %w", err)
	}
	series = forecast.TrimHistory(series, day, s.windowDays)
	if err := forecast.ValidateSeries(series); err != nil {
		return cache.Query{}, fmt.Errorf("%s: %w", key, err)
	}

	stock, err := s.source.StockLevels(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return cache.Query{}, fmt.Errorf("load stock levels: %w", err)
		}
		log.Warn().Str("seller_id", key.SellerID).Str("product_id", key.ProductID).
			Msg("forecast: no stock levels, assuming empty inventory")
	}
	if err := forecast.ValidateStock(stock); err != nil {
		return cache.Query{}, fmt.Errorf("%s: %w", key, err)
	}

	return cache.Query{
		Product: key,
		AsOf:    day,
		Stock:   stock,
		Series:  series,
	}, nil
}

func (s *ForecastService) compute(ctx context.Context, q cache.Query, horizonDays int) *domain.ForecastResult {
	q.HorizonDays = horizonDays

	if result, ok, err := s.cache.Get(ctx, q); err == nil && ok {
		return result
	} else if err != nil {
		log.Warn().Err(err).Str("seller_id", q.Product.SellerID).Str("product_id", q.Product.ProductID).
			Msg("forecast: cache get failed")
	}

	result := s.engine.ForecastHorizon(q.Series, q.Stock, horizonDays)

	if err := s.cache.Set(ctx, q, &result); err != nil {
		log.Warn().Err(err).Str("seller_id", q.Product.SellerID).Str("product_id", q.Product.ProductID).
			Msg("forecast: cache set failed")
	}

	return &result
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
