package service

import (
	"context"
	"errors"
	"strings"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

var ErrLocationRequired = errors.New("city or lat and lon must be provided")

// ReportQuery selects a place either by name or by coordinates. Coordinates
// take precedence when both are set.
type ReportQuery struct {
	City       string
	Coordinate *weather.Coordinate
}

type WeatherService interface {
	GetReport(ctx context.Context, query ReportQuery) (Report, error)
}

type weatherService struct {
	provider   providers.WeatherProvider
	aggregator ReportAggregator
}

func NewWeatherService(provider providers.WeatherProvider, aggregator ReportAggregator) WeatherService {
	return &weatherService{
		provider:   provider,
		aggregator: aggregator,
	}
}

func (s *weatherService) GetReport(ctx context.Context, query ReportQuery) (Report, error) {
	var coord weather.Coordinate

	switch city := strings.TrimSpace(query.City); {
	case query.Coordinate != nil:
		coord = *query.Coordinate
	case city != "":
		resolved, err := s.provider.ResolveCoordinates(ctx, city, 1)
		if err != nil {
			return Report{}, err
		}
		coord = resolved
	default:
		return Report{}, ErrLocationRequired
	}

	responseChan, err := s.aggregator.AddRequest(ctx, coord)
	if err != nil {
		return Report{}, err
	}

	select {
	case response, ok := <-responseChan:
		if !ok {
			return Report{}, ErrShuttingDown
		}
		if response.Err != nil {
			return Report{}, response.Err
		}
		return response.Report, nil
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
}
