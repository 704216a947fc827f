package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
	"github.com/kthandra777/hotelfinder-pro/internal/providers"
)

// State is the iterative fetch controller's position in its lifecycle.
type State int

const (
	// StateInitialSearch runs the first merge over all providers.
	StateInitialSearch State = iota
	// StateAwaitingDecision blocks on the external continue/stop signal.
	StateAwaitingDecision
	// StateFetchingMore re-fetches one provider and folds in new names.
	StateFetchingMore
	// StateDone is terminal: the accumulated set is re-ranked and returned.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitialSearch:
		return "initial_search"
	case StateAwaitingDecision:
		return "awaiting_decision"
	case StateFetchingMore:
		return "fetching_more"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// DecisionFunc supplies the external continue/stop signal as free text.
// The same session logic runs against a terminal prompt, an HTTP query
// parameter, or a test double.
type DecisionFunc func(ctx context.Context) (string, error)

// continueResponses is the allow-list of affirmative answers. Anything
// else, after trimming and lowercasing, means stop.
var continueResponses = map[string]bool{
	"yes":      true,
	"y":        true,
	"continue": true,
	"proceed":  true,
	"go on":    true,
	"iterate":  true,
}

// ShouldContinue interprets a free-text decision response.
func ShouldContinue(response string) bool {
	return continueResponses[strings.ToLower(strings.TrimSpace(response))]
}

// DefaultMaxRounds bounds the fetch-more loop when the caller does not
// choose a limit. The loop is otherwise bounded only by the external
// signal and the no-new-records auto-stop.
const DefaultMaxRounds = 5

// Session drives one search: an initial merge over all providers, then
// zero or more fetch-more rounds against a single designated provider,
// folding in only records whose names are not already present.
type Session struct {
	agg       *Aggregator
	more      providers.Provider
	decide    DecisionFunc
	maxRounds int
	logger    *slog.Logger

	state   State
	records []hotel.Record
}

// NewSession creates a session. more is the provider re-fetched on
// extra rounds; decide supplies the continue/stop signal. maxRounds
// caps the loop as a safety net, 0 means unbounded.
func NewSession(agg *Aggregator, more providers.Provider, decide DecisionFunc, maxRounds int, logger *slog.Logger) *Session {
	return &Session{
		agg:       agg,
		more:      more,
		decide:    decide,
		maxRounds: maxRounds,
		logger:    logger,
		state:     StateInitialSearch,
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Run executes the session to completion and returns the final ranked
// result. Duplicate names never re-enter the set: a round that adds
// nothing forces termination without consulting the decision source
// again.
func (s *Session) Run(ctx context.Context, params providers.Params) (*Result, error) {
	result, err := s.agg.Search(ctx, params)
	if err != nil {
		s.state = StateDone
		return nil, err
	}
	s.records = result.Hotels
	rounds := 1
	s.state = StateAwaitingDecision

	for s.state != StateDone {
		if s.maxRounds > 0 && rounds >= s.maxRounds {
			s.logger.Info("fetch round cap reached", "rounds", rounds)
			s.state = StateDone
			break
		}

		response, err := s.decide(ctx)
		if err != nil {
			s.logger.Warn("decision source failed, stopping", "error", err)
			s.state = StateDone
			break
		}
		if !ShouldContinue(response) {
			s.state = StateDone
			break
		}

		s.state = StateFetchingMore
		added := s.fetchMore(ctx, params)
		rounds++
		if added == 0 {
			// No point asking again; the source has nothing new.
			s.logger.Info("no new hotels found, stopping", "rounds", rounds)
			s.state = StateDone
		} else {
			s.logger.Info("folded in new hotels", "added", added, "rounds", rounds)
			s.state = StateAwaitingDecision
		}
	}

	SortAndRank(s.records)
	result.Hotels = s.records
	result.Rounds = rounds
	return result, nil
}

// fetchMore re-fetches the designated provider with identical params
// and appends only records whose name is not already present. The name
// match is exact and case-sensitive: a deliberately crude duplicate
// policy, not a content comparison. A failed fetch degrades to zero
// additions.
func (s *Session) fetchMore(ctx context.Context, params providers.Params) int {
	raw, err := s.more.Fetch(ctx, params)
	if err != nil {
		s.logger.Warn("fetch-more round failed",
			"provider", s.more.Name(),
			"error", err)
		return 0
	}

	seen := make(map[string]bool, len(s.records))
	for _, rec := range s.records {
		seen[rec.Name] = true
	}

	added := 0
	for _, rec := range hotel.Sanitize(raw, s.more.Name()) {
		if seen[rec.Name] {
			continue
		}
		seen[rec.Name] = true
		s.records = append(s.records, hotel.Normalize(rec))
		added++
	}
	return added
}
