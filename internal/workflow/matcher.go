package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/collection"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/library"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/matchcache"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/matching"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/notifications"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/queue"
)

// Matcher drives one upload item through parsing, cache lookup, scoring, the
// auto-apply decision, and collection routing.
type Matcher struct {
	cfg      *config.Config
	parser   *parsing.Parser
	cache    *matchcache.Cache
	notifier notifications.Service
	weights  matching.Weights
	logger   *slog.Logger
}

// NewMatcher wires a Matcher from its collaborators. A nil notifier or logger
// degrades to a no-op.
func NewMatcher(cfg *config.Config, parser *parsing.Parser, cache *matchcache.Cache, notifier notifications.Service, logger *slog.Logger) *Matcher {
	if notifier == nil {
		notifier = notifications.NewService(&config.Config{})
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Matcher{
		cfg:      cfg,
		parser:   parser,
		cache:    cache,
		notifier: notifier,
		weights:  weightsFromConfig(cfg),
		logger:   logging.NewComponentLogger(logger, "workflow"),
	}
}

func weightsFromConfig(cfg *config.Config) matching.Weights {
	w := matching.Weights{}
	if cfg != nil {
		w.AutoApplyConfidence = cfg.Matching.AutoApplyConfidence
		w.SuggestionFloor = cfg.Matching.SuggestionFloor
		w.MaxAlternatives = cfg.Matching.MaxSuggestions
	}
	return w
}

// TryMatchLibrary mutates the item in place with the match outcome. The only
// hard failure is an empty candidate list; parse failures and low-confidence
// outcomes degrade to a manual-selection flag so the batch keeps moving.
func (m *Matcher) TryMatchLibrary(ctx context.Context, item *queue.Item, libraries []library.Library) error {
	parsed := m.parser.Parse(item.Filename, m.cfg.Academic.DefaultYear)
	item.AcademicYear = parsed.AcademicYear

	log := logging.WithItem(m.logger, item.ID).With(
		logging.String(logging.FieldFilename, item.Filename))

	if parsed.AcademicYear == parsing.YearError {
		m.flagManualSelection(ctx, item, parsed, nil)
		log.Warn("filename parse failed, flagged for manual selection")
		return nil
	}

	if cached, source, ok := m.cache.Lookup(item.Filename, parsed); ok {
		m.applyMatch(ctx, item, parsed, cached.LibraryID, cached.LibraryName, cached.Confidence, "cache:"+string(source))
		log.Info("matched from cache",
			logging.String(logging.FieldLibrary, cached.LibraryName),
			logging.Int(logging.FieldConfidence, cached.Confidence),
			logging.String(logging.FieldReason, string(source)))
		return nil
	}

	match, err := matching.FindMatchingLibrary(parsed, libraries, m.parser.Grammar(), m.weights)
	if err != nil {
		return fmt.Errorf("match %q: %w", item.Filename, err)
	}

	decision := matching.Decide(parsed, match, m.parser.Grammar(), m.weights)
	if decision.AutoApply && match.Best != nil {
		m.cache.RecordMatch(parsed, match.Best.ID, match.Best.Name, match.Confidence)
		m.applyMatch(ctx, item, parsed, match.Best.ID, match.Best.Name, match.Confidence, decision.Reason)
		log.Info("auto-matched",
			logging.String(logging.FieldLibrary, match.Best.Name),
			logging.Int(logging.FieldConfidence, match.Confidence),
			logging.String(logging.FieldReason, decision.Reason))
		return nil
	}

	suggestions := matching.Suggestions(match, m.weights)
	if len(suggestions) == 0 {
		// Nothing cleared the suggestion floor; fall back to raw name
		// similarity so the operator still gets a short list to pick from.
		for _, lib := range matching.SimilarLibraries(item.Filename, libraries, 3) {
			suggestions = append(suggestions, matching.ScoredLibrary{Library: lib})
		}
	}
	m.flagManualSelection(ctx, item, parsed, suggestions)
	log.Info("needs manual selection",
		logging.Int(logging.FieldConfidence, match.Confidence),
		logging.Int("suggestions", len(suggestions)))
	return nil
}

func (m *Matcher) applyMatch(ctx context.Context, item *queue.Item, parsed parsing.ParsedFilename, libraryID int64, libraryName string, confidence int, source string) {
	item.Status = queue.StatusMatched
	item.NeedsManualSelection = false
	item.LibraryID = libraryID
	item.LibraryName = libraryName
	item.Confidence = confidence
	item.MatchSource = source

	route := collection.Determine(parsed, m.cfg.Academic.DefaultYear)
	item.CollectionName = route.Name
	item.CollectionReason = route.Reason

	if err := m.notifier.NotifyAutoMatched(ctx, item.Filename, libraryName, route.Name, confidence); err != nil {
		m.logger.Warn("auto-match notification failed", logging.Error(err))
	}
}

func (m *Matcher) flagManualSelection(ctx context.Context, item *queue.Item, parsed parsing.ParsedFilename, suggestions []matching.ScoredLibrary) {
	item.Status = queue.StatusNeedsSelection
	item.NeedsManualSelection = true
	item.LibraryID = 0
	item.LibraryName = ""
	item.Confidence = 0
	item.MatchSource = ""

	queued := make([]queue.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		queued = append(queued, queue.Suggestion{
			LibraryID:   s.Library.ID,
			LibraryName: s.Library.Name,
			Score:       s.Score,
		})
	}
	if err := item.SetSuggestions(queued); err != nil {
		m.logger.Warn("attach suggestions failed", logging.Error(err))
	}

	route := collection.Determine(parsed, m.cfg.Academic.DefaultYear)
	item.CollectionName = route.Name
	item.CollectionReason = route.Reason

	if err := m.notifier.NotifyManualSelectionNeeded(ctx, item.Filename, len(queued)); err != nil {
		m.logger.Warn("manual-selection notification failed", logging.Error(err))
	}
}

// LearnFromManualSelection records an operator's library choice so future
// files with the same filename or keyword profile match automatically.
func (m *Matcher) LearnFromManualSelection(filename string, libraryID int64, libraryName string) error {
	if err := m.cache.RecordUserSelection(filename, libraryID, libraryName); err != nil {
		return fmt.Errorf("record user selection: %w", err)
	}
	if err := m.cache.Learn(filename, libraryID, libraryName); err != nil {
		return fmt.Errorf("learn keyword mapping: %w", err)
	}
	parsed := m.parser.Parse(filename, m.cfg.Academic.DefaultYear)
	if parsed.AcademicYear != parsing.YearError {
		m.cache.RecordMatch(parsed, libraryID, libraryName, matchcache.UserSelectionConfidence)
	}
	m.logger.Info("learned manual selection",
		logging.String(logging.FieldFilename, filename),
		logging.String(logging.FieldLibrary, libraryName))
	return nil
}
