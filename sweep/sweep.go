// Package sweep runs a simulation for every (d, p, method) combination of a
// Config and collects the results in a stable order.
package sweep

import (
	"context"
	"errors"

	log "github.com/harlequix/paritysim/log"
	"github.com/harlequix/paritysim/simulation"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var logger = log.NewLogger("Sweep")

// Run executes the sweep on up to cfg.Workers goroutines. Runs that hit the
// attempt cap are kept in the results with Converged unset; any other
// failure cancels the remaining runs.
func Run(ctx context.Context, cfg Config, opts ...simulation.Option) ([]*simulation.Result, error) {
	jobs, err := cfg.Jobs()
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"jobs":    len(jobs),
		"workers": cfg.workers(),
	}).Info("starting sweep")

	results := make([]*simulation.Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			fields := logrus.Fields{"d": job.D, "p": job.P, "method": job.Method}
			sim, err := simulation.New(job, nil, opts...)
			if err != nil {
				return err
			}
			logger.WithFields(fields).Debug("run started")
			res, err := sim.Run(ctx)
			if err != nil && !errors.Is(err, simulation.ErrNotConverged) {
				return err
			}
			if err != nil {
				logger.WithFields(fields).WithError(err).Warn("run did not converge")
			}
			results[i] = res
			logger.WithFields(fields).WithField("attempts", res.Attempts).Debug("run finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.WithField("jobs", len(jobs)).Info("sweep finished")
	return results, nil
}
