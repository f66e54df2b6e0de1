package session

import (
	"context"
	"errors"
	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/model"
	"go-weather/internal/domain/usecase/weather"
	"go-weather/pkg/log"
	"go-weather/pkg/msg"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Session turns repository calls into a sequence of States. A new search cancels the
// one in flight and the superseded result is discarded.
type Session struct {
	repository weather.UseCase

	mu          sync.Mutex
	state       State
	generation  uint64
	cancel      context.CancelFunc
	subscribers map[uint64]chan State
	nextSub     uint64
	closed      bool
	running     sync.WaitGroup
}

func New(repository weather.UseCase) *Session {
	return &Session{
		repository:  repository,
		state:       Loading(),
		subscribers: make(map[uint64]chan State),
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FetchWeather runs a search for city and returns the state it produced.
// When a newer search superseded it, the current state is returned instead.
func (s *Session) FetchWeather(ctx context.Context, city string) State {
	search, ok := s.begin(ctx, city)
	if !ok {
		return s.State()
	}
	defer s.running.Done()
	return s.run(search)
}

// Submit starts a search without waiting for it. Searches submitted later always win.
func (s *Session) Submit(city string) {
	search, ok := s.begin(context.Background(), city)
	if !ok {
		return
	}
	go func() {
		defer s.running.Done()
		s.run(search)
	}()
}

// Start resumes the last searched city, or fails with "No previous city found".
func (s *Session) Start(ctx context.Context) State {
	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	lastCity, err := s.repository.GetLastCity(ctx)
	if err != nil {
		log.Warnw("last city lookup failed", "error", err)
	}
	if lastCity == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		// a search submitted meanwhile takes precedence
		if generation == s.generation && !s.closed {
			s.setLocked(Failure(msg.GetMessage("session.error.no-previous-city")))
		}
		return s.state
	}

	log.Infow("resuming last city", "city", lastCity.CityName)
	return s.FetchWeather(ctx, lastCity.CityName)
}

// Subscribe returns a channel receiving the current state and every later change.
// A slow reader loses the oldest pending states, never the latest.
func (s *Session) Subscribe(buffer int) (<-chan State, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan State, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch <- s.state
	if s.closed {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close cancels the search in flight, waits for submitted searches and closes every subscription
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.running.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

type search struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	city       string
	requestID  string
}

// begin supersedes the search in flight and moves to LOADING. The running group is
// joined under the same lock so Close cannot miss the search; callers must call Done.
func (s *Session) begin(ctx context.Context, city string) (search, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return search{}, false
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.generation++
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running.Add(1)

	next := search{
		ctx:        fetchCtx,
		cancel:     cancel,
		generation: s.generation,
		city:       strings.TrimSpace(city),
		requestID:  uuid.NewString(),
	}
	log.Infow("weather search started", "request_id", next.requestID, "city", next.city, "generation", next.generation)

	s.setLocked(Loading())
	return next, true
}

func (s *Session) run(search search) State {
	defer search.cancel()

	state := s.fetch(search)

	s.mu.Lock()
	defer s.mu.Unlock()
	if search.generation == s.generation {
		s.cancel = nil
		s.setLocked(state)
	} else {
		log.Debugw("superseded search discarded", "request_id", search.requestID, "city", search.city)
	}
	return s.state
}

// fetch asks for weather and forecast concurrently. isOffline is true when either came from cache.
func (s *Session) fetch(search search) State {
	var (
		current     *model.Fetched[entity.WeatherSnapshot]
		forecast    *model.Fetched[[]entity.ForecastEntry]
		currentErr  error
		forecastErr error
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.repository.FetchCurrentWeather(search.ctx, search.city)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.repository.FetchForecast(search.ctx, search.city)
	}()
	wg.Wait()

	if currentErr != nil {
		log.Warnw("weather search failed", "request_id", search.requestID, "city", search.city, "error", currentErr)
		return Failure(failureMessage(search.city, currentErr))
	}

	isOffline := current.FromCache()
	var entries []entity.ForecastEntry
	if forecastErr != nil {
		log.Infow("forecast unavailable", "request_id", search.requestID, "city", search.city, "error", forecastErr)
	} else {
		entries = forecast.Data
		isOffline = isOffline || forecast.FromCache()
	}

	log.Infow("weather search finished", "request_id", search.requestID, "city", search.city,
		"offline", isOffline, "forecast_entries", len(entries))
	return Success(current.Data, entries, isOffline)
}

func failureMessage(city string, err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidCity):
		return msg.GetMessage("session.error.invalid-city")
	case model.IsConnectivityFailure(err):
		return msg.GetMessage("session.error.offline-no-cache", city)
	default:
		return msg.GetMessage("session.error.fetch-failed", city)
	}
}

// setLocked replaces the state and notifies subscribers. s.mu must be held.
func (s *Session) setLocked(next State) {
	if !canTransition(s.state.Status, next.Status) {
		return
	}
	s.state = next
	for _, ch := range s.subscribers {
		select {
		case ch <- next:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}
