// Package assignworker runs automatic translator assignment in the
// background. Project creation enqueues the project id on a buffered channel
// and a single worker goroutine drains it, so matching never runs on the
// request path. A cron sweep re-enqueues projects that stayed pending, which
// covers queue overflow and projects that found no translator on the first
// try.
package assignworker

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
)

const queueCapacity = 256

// Assigner assigns a translator to a single project.
type Assigner interface {
	Assign(ctx context.Context, projectID int64) (domain.AssignTxResult, error)
}

// PendingLister lists projects still waiting for a translator.
type PendingLister interface {
	ListPendingUnassigned(ctx context.Context) ([]domain.Project, error)
}

// Worker drains the assignment queue.
type Worker struct {
	assigner Assigner
	pending  PendingLister
	logger   zerolog.Logger
	queue    chan int64
	cron     *cron.Cron
	stop     chan struct{}
	done     chan struct{}
}

func New(assigner Assigner, pending PendingLister, logger zerolog.Logger) *Worker {
	return &Worker{
		assigner: assigner,
		pending:  pending,
		logger:   logger,
		queue:    make(chan int64, queueCapacity),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Enqueue schedules the project for assignment. It never blocks; when the
// queue is full the project is left for the retry sweep.
func (w *Worker) Enqueue(projectID int64) {
	select {
	case w.queue <- projectID:
	default:
		w.logger.Warn().Int64("project_id", projectID).Msg("assignment queue full")
	}
}

// Start launches the worker goroutine and the retry sweep. The spec argument
// is a cron expression such as "@every 1m".
func (w *Worker) Start(ctx context.Context, spec string) error {
	w.cron = cron.New()

	if _, err := w.cron.AddFunc(spec, func() {
		w.sweep(ctx)
	}); err != nil {
		return err
	}

	w.cron.Start()

	go w.run(ctx)

	return nil
}

// Stop shuts the worker down and waits for the in-flight assignment.
func (w *Worker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}

	close(w.stop)
	<-w.done
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ctx = w.logger.WithContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case projectID := <-w.queue:
			w.assign(ctx, projectID)
		}
	}
}

func (w *Worker) assign(ctx context.Context, projectID int64) {
	_, err := w.assigner.Assign(ctx, projectID)

	switch err {
	case nil, domain.ErrNoEligibleTranslator, domain.ErrProjectAlreadyAssigned:
	default:
		w.logger.Error().Err(err).Int64("project_id", projectID).Msg("assignment failed")
	}
}

// sweep re-enqueues every project still pending without a translator.
func (w *Worker) sweep(ctx context.Context) {
	ctx = w.logger.WithContext(ctx)

	projects, err := w.pending.ListPendingUnassigned(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("pending sweep failed")
		return
	}

	for _, p := range projects {
		w.Enqueue(p.ID)
	}
}
