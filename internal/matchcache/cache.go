package matchcache

import (
	"log/slog"
	"sync"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/kvstore"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

// UserSelectionConfidence is the confidence assigned to exact-filename user
// selections; it matches the scorer's clamp ceiling so a user choice always
// outranks anything the scorer could produce.
const UserSelectionConfidence = 200

// alternateKeyReduction is subtracted from the confidence of matches stored
// under relaxed alternate keys.
const alternateKeyReduction = 15

// Match is a cached library assignment.
type Match struct {
	LibraryID   int64  `json:"library_id"`
	LibraryName string `json:"library_name"`
	Confidence  int    `json:"confidence"`
}

// Source identifies which cache tier produced a lookup hit.
type Source string

const (
	SourceUser     Source = "user"
	SourceLearned  Source = "learned"
	SourceConflict Source = "conflict"
	SourcePattern  Source = "pattern"
)

// Cache owns the session-lifetime match caches and the persisted learning
// store. It is an explicitly constructed object handed to the orchestration
// layer; nothing here is global.
type Cache struct {
	logger *slog.Logger
	store  *kvstore.Store

	mu       sync.RWMutex
	pattern  map[string]Match
	user     map[string]Match
	conflict map[string]Match
	learned  map[string]Match
}

const (
	storeKeyLearned        = "learned"
	storeKeyUserSelections = "user_selections"
)

// New constructs a Cache and loads the persisted learning store and user
// selections from the backing key-value store.
func New(store *kvstore.Store, logger *slog.Logger) *Cache {
	c := &Cache{
		logger:   logging.NewComponentLogger(logger, "matchcache"),
		store:    store,
		pattern:  make(map[string]Match),
		user:     make(map[string]Match),
		conflict: make(map[string]Match),
		learned:  make(map[string]Match),
	}
	c.Load()
	return c
}

// Load replaces the learned and user-selection tables with the persisted
// ones. Missing or corrupt persisted data leaves the tables empty.
func (c *Cache) Load() {
	if c.store == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	learned := make(map[string]Match)
	if c.store.Get(storeKeyLearned, &learned) {
		c.learned = learned
	}
	user := make(map[string]Match)
	if c.store.Get(storeKeyUserSelections, &user) {
		c.user = user
	}
}

// Persist writes the learned and user-selection tables to durable storage.
func (c *Cache) Persist() error {
	if c.store == nil {
		return nil
	}
	c.mu.RLock()
	learned := c.learned
	user := c.user
	c.mu.RUnlock()

	if err := c.store.Set(storeKeyLearned, learned); err != nil {
		return err
	}
	return c.store.Set(storeKeyUserSelections, user)
}

// RecordMatch writes a successful match into every applicable cache tier:
// the primary pattern key, the enhanced key when the parse carries at least
// two significant fields, relaxed alternate keys at reduced confidence, and
// the conflict key for two-subject filenames. Last write wins on every key.
func (c *Cache) RecordMatch(parsed parsing.ParsedFilename, libraryID int64, libraryName string, confidence int) {
	match := Match{LibraryID: libraryID, LibraryName: libraryName, Confidence: confidence}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pattern[PrimaryKey(parsed)] = match

	if SignificantFields(parsed) >= 2 {
		c.pattern[EnhancedKey(parsed)] = match
	}

	reduced := match
	reduced.Confidence = confidence - alternateKeyReduction
	if reduced.Confidence < 0 {
		reduced.Confidence = 0
	}
	for _, key := range AlternateKeys(parsed) {
		c.pattern[key] = reduced
	}

	if key := ConflictKey(parsed); key != "" {
		c.conflict[key] = match
	}
}

// RecordUserSelection pins an exact filename to a library at maximal
// confidence and persists the selection.
func (c *Cache) RecordUserSelection(filename string, libraryID int64, libraryName string) error {
	c.mu.Lock()
	c.user[filename] = Match{
		LibraryID:   libraryID,
		LibraryName: libraryName,
		Confidence:  UserSelectionConfidence,
	}
	c.mu.Unlock()
	return c.Persist()
}

// Lookup consults the cache tiers in priority order: exact-filename user
// selection (short-circuits everything), learned keyword mapping, conflict
// key, then the primary pattern key.
func (c *Cache) Lookup(filename string, parsed parsing.ParsedFilename) (Match, Source, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if match, ok := c.user[filename]; ok {
		return match, SourceUser, true
	}
	if key := LearningKey(filename); key != "" {
		if match, ok := c.learned[key]; ok {
			return match, SourceLearned, true
		}
	}
	if key := ConflictKey(parsed); key != "" {
		if match, ok := c.conflict[key]; ok {
			return match, SourceConflict, true
		}
	}
	if match, ok := c.pattern[PrimaryKey(parsed)]; ok {
		return match, SourcePattern, true
	}
	return Match{}, "", false
}

// Learn stores a keyword-set mapping derived from a manually-corrected
// filename. First write wins: an established learned mapping is never
// silently overridden by a later correction for a similar file. The learned
// table is persisted immediately.
func (c *Cache) Learn(filename string, libraryID int64, libraryName string) error {
	key := LearningKey(filename)
	if key == "" {
		return nil
	}

	c.mu.Lock()
	if _, exists := c.learned[key]; exists {
		c.mu.Unlock()
		return nil
	}
	c.learned[key] = Match{
		LibraryID:   libraryID,
		LibraryName: libraryName,
		Confidence:  UserSelectionConfidence,
	}
	c.mu.Unlock()

	c.logger.Info("learned keyword mapping",
		logging.String("key", key),
		logging.String(logging.FieldLibrary, libraryName))
	return c.Persist()
}

// Stats reports entry counts per cache tier.
type Stats struct {
	Pattern  int
	User     int
	Conflict int
	Learned  int
}

// Stats returns current entry counts.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Pattern:  len(c.pattern),
		User:     len(c.user),
		Conflict: len(c.conflict),
		Learned:  len(c.learned),
	}
}

// Clear empties every tier and the persisted tables. This is the only
// deletion path; entries are never evicted automatically.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.pattern = make(map[string]Match)
	c.user = make(map[string]Match)
	c.conflict = make(map[string]Match)
	c.learned = make(map[string]Match)
	c.mu.Unlock()
	return c.Persist()
}
