package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

var ErrShuttingDown = errors.New("report aggregator is shutting down")

type ReportResponse struct {
	Coordinate weather.Coordinate
	Report     Report
	Err        error
}

// ReportAggregator coalesces concurrent report requests for one coordinate
// into a single provider round trip.
type ReportAggregator interface {
	AddRequest(ctx context.Context, coord weather.Coordinate) (<-chan ReportResponse, error)
	Shutdown()
}

type coordinateQueue struct {
	coord    weather.Coordinate
	channels []chan ReportResponse
}

type reportAggregator struct {
	provider     providers.WeatherProvider
	queues       map[string]*coordinateQueue
	queueMutex   sync.Mutex
	buildTimeout time.Duration
	closed       bool
}

// NewReportAggregator returns an aggregator whose builds run detached from
// any single caller, bounded by buildTimeout.
func NewReportAggregator(provider providers.WeatherProvider, buildTimeout time.Duration) ReportAggregator {
	return &reportAggregator{
		provider:     provider,
		queues:       make(map[string]*coordinateQueue),
		buildTimeout: buildTimeout,
	}
}

func (a *reportAggregator) AddRequest(_ context.Context, coord weather.Coordinate) (<-chan ReportResponse, error) {
	// buffered so the fan-out never blocks on a caller that gave up
	responseChan := make(chan ReportResponse, 1)
	key := coord.Key()

	a.queueMutex.Lock()
	defer a.queueMutex.Unlock()

	if a.closed {
		return nil, ErrShuttingDown
	}

	queue, exists := a.queues[key]
	if !exists {
		queue = &coordinateQueue{coord: coord}
		a.queues[key] = queue
		go a.processQueue(key, queue)
	}
	queue.channels = append(queue.channels, responseChan)

	return responseChan, nil
}

func (a *reportAggregator) processQueue(key string, queue *coordinateQueue) {
	ctx, cancel := context.WithTimeout(context.Background(), a.buildTimeout)
	defer cancel()

	report, err := buildReport(ctx, a.provider, queue.coord)

	a.queueMutex.Lock()
	if a.queues[key] == queue {
		delete(a.queues, key)
	}
	channels := queue.channels
	queue.channels = nil
	a.queueMutex.Unlock()

	if len(channels) > 1 {
		log.Debug().Str("coord", queue.coord.String()).Int("waiters", len(channels)).Msg("coalesced report requests")
	}

	for _, ch := range channels {
		ch <- ReportResponse{
			Coordinate: queue.coord,
			Report:     report,
			Err:        err,
		}
		close(ch)
	}
}

// Shutdown rejects new requests and releases every waiter without a result.
func (a *reportAggregator) Shutdown() {
	a.queueMutex.Lock()
	defer a.queueMutex.Unlock()

	a.closed = true
	for _, queue := range a.queues {
		for _, ch := range queue.channels {
			close(ch)
		}
		queue.channels = nil
	}

	a.queues = make(map[string]*coordinateQueue)
}
