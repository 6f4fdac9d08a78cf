// Package purge implements the search-paginate-filter-delete control loop.
package purge

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ShivamB25/undiscord-cli/model"
)

// forbiddenCeiling is how many consecutive 403 responses abort the run.
const forbiddenCeiling = 5

// ErrForbiddenCeiling is returned when the consecutive-403 ceiling is hit,
// meaning the credential most likely lacks delete rights for what remains.
var ErrForbiddenCeiling = errors.New("too many consecutive forbidden responses")

// Client is the remote operation surface the loop drives.
type Client interface {
	Search(ctx context.Context, criteria model.Criteria, offset int) (*model.Page, error)
	Delete(ctx context.Context, messageID string) (model.Outcome, error)
}

// Counters accumulates per-run results. Consecutive403 resets to zero on
// every successful delete and only on a successful delete.
type Counters struct {
	Deleted        int
	Failed         int
	Consecutive403 int
}

// Purger owns one purge run. Execution is strictly sequential: the remote
// service enforces per-route rate limits, so the only pacing controls are
// the two limiters.
type Purger struct {
	client        Client
	criteria      model.Criteria
	searchLimiter *rate.Limiter
	deleteLimiter *rate.Limiter
	log           *log.Entry
}

// New creates a Purger that paces searches and deletes by the given delays.
func New(client Client, criteria model.Criteria, searchDelay, deleteDelay time.Duration, logger *log.Entry) *Purger {
	return &Purger{
		client:        client,
		criteria:      criteria,
		searchLimiter: rate.NewLimiter(rate.Every(searchDelay), 1),
		deleteLimiter: rate.NewLimiter(rate.Every(deleteDelay), 1),
		log:           logger,
	}
}

// Run sweeps the channel in passes until a pass deletes nothing, the
// forbidden ceiling is reached, search fails, or ctx is cancelled. The
// returned counters are valid in every case.
//
// A pass that deleted anything is always followed by another pass from
// offset 0: deletions shift the remote search index, so messages beyond
// the last offset may have moved into already-visited positions.
func (p *Purger) Run(ctx context.Context) (Counters, error) {
	var c Counters
	for pass := 1; ; pass++ {
		deleted, err := p.runPass(ctx, &c, pass)
		if err != nil {
			return c, err
		}
		if deleted == 0 {
			p.log.WithField("passes", pass).Info("Nothing left to delete.")
			return c, nil
		}
	}
}

// runPass is one full sweep from offset 0 until an empty page. It returns
// how many messages this pass deleted.
func (p *Purger) runPass(ctx context.Context, c *Counters, pass int) (int, error) {
	offset := 0
	deleted := 0
	for {
		if err := p.searchLimiter.Wait(ctx); err != nil {
			return deleted, err
		}

		page, err := p.client.Search(ctx, p.criteria, offset)
		if err != nil {
			if ctx.Err() != nil {
				return deleted, ctx.Err()
			}
			// The loop cannot proceed without knowing what remains.
			return deleted, errors.Wrap(err, "search messages")
		}

		msgs := page.Flatten()
		if len(msgs) == 0 {
			p.log.WithField("pass", pass).Info("No more messages found.")
			return deleted, nil
		}

		for _, m := range msgs {
			if ctx.Err() != nil {
				return deleted, ctx.Err()
			}
			if !p.shouldDelete(m) {
				continue
			}

			if err := p.deleteLimiter.Wait(ctx); err != nil {
				return deleted, err
			}

			out, err := p.client.Delete(ctx, m.ID)
			if err != nil {
				return deleted, err
			}

			switch out.Kind {
			case model.OutcomeDeleted:
				c.Deleted++
				deleted++
				c.Consecutive403 = 0
				p.log.WithField("id", m.ID).Info("Successfully erased!")
			case model.OutcomeForbidden:
				c.Failed++
				c.Consecutive403++
				p.log.WithField("id", m.ID).Warn("Forbidden. Missing permission to delete this message.")
				if c.Consecutive403 >= forbiddenCeiling {
					return deleted, ErrForbiddenCeiling
				}
			case model.OutcomeNetworkFailure:
				c.Failed++
				p.log.WithField("id", m.ID).Errorf("Fail erase: %s.", out)
			default:
				c.Failed++
				p.log.WithFields(log.Fields{"id": m.ID, "status": out.Status}).Error("Fail erase.")
			}
		}

		offset += len(msgs)
		p.log.WithFields(log.Fields{
			"pass":    pass,
			"offset":  offset,
			"deleted": c.Deleted,
			"failed":  c.Failed,
		}).Info("Progress.")
	}
}

// shouldDelete applies the filters the search endpoint cannot express:
// pinned status and the content regex.
func (p *Purger) shouldDelete(m model.Message) bool {
	if m.Pinned && !p.criteria.IncludePinned {
		return false
	}
	if p.criteria.Pattern != nil && !p.criteria.Pattern.MatchString(m.Content) {
		return false
	}
	return true
}
