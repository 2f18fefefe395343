package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/library"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/notifications"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/queue"
)

// Processor drains pending queue items through the Matcher.
type Processor struct {
	matcher   *Matcher
	store     *queue.Store
	directory library.Directory
	notifier  notifications.Service
	logger    *slog.Logger
}

// NewProcessor wires a Processor over the queue store and library directory.
func NewProcessor(matcher *Matcher, store *queue.Store, directory library.Directory, notifier notifications.Service, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		matcher:   matcher,
		store:     store,
		directory: directory,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "processor"),
	}
}

// BatchResult summarizes one ProcessPending pass.
type BatchResult struct {
	Processed int
	Failed    int
	Duration  time.Duration
}

// ProcessPending works through every pending item sequentially. A failure on
// one item marks that item failed and moves on; the batch never aborts for a
// single bad filename. The candidate library list is fetched once per pass so
// every item in a batch matches against the same snapshot.
func (p *Processor) ProcessPending(ctx context.Context) (BatchResult, error) {
	start := time.Now()
	var result BatchResult

	libraries, err := p.directory.Libraries(ctx)
	if err != nil {
		return result, err
	}

	for {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		item, err := p.store.NextPending(ctx)
		if err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		if item == nil {
			break
		}

		if err := p.processOne(ctx, item, libraries); err != nil {
			result.Failed++
		} else {
			result.Processed++
		}
	}

	result.Duration = time.Since(start)
	if result.Processed+result.Failed > 0 && p.notifier != nil {
		if err := p.notifier.NotifyBatchCompleted(ctx, result.Processed, result.Failed, result.Duration); err != nil {
			p.logger.Warn("batch notification failed", logging.Error(err))
		}
	}
	return result, nil
}

func (p *Processor) processOne(ctx context.Context, item *queue.Item, libraries []library.Library) error {
	log := logging.WithItem(p.logger, item.ID).With(
		logging.String(logging.FieldFilename, item.Filename))

	matchErr := p.matcher.TryMatchLibrary(ctx, item, libraries)
	if matchErr != nil {
		item.Status = queue.StatusFailed
		item.ErrorMessage = matchErr.Error()
		log.Error("match failed", logging.Error(matchErr))
	}
	if err := p.store.Update(ctx, item); err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			log.Warn("item vanished mid-batch")
			return err
		}
		log.Error("persist item failed", logging.Error(err))
		return err
	}
	return matchErr
}
