// Package batch runs a sequence of independent trials and names their
// outputs.
package batch

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/datarecording"
	"github.com/sarchlab/motorclutch/monitoring"
	"github.com/sarchlab/motorclutch/trial"
)

// RecorderFactory creates the recorder of one trial.
type RecorderFactory func(name string) (datarecording.DataRecorder, error)

// Runner runs trials FirstIndex to FirstIndex+Trials-1 one after another.
// Trial i is seeded with BaseSeed+i.
type Runner struct {
	Config     clutch.Config
	RunConfig  trial.RunConfig
	Trials     int
	BaseSeed   int64
	FirstIndex int
	Label      string

	// NewRecorder is optional. Without it, snapshots are not stored.
	NewRecorder RecorderFactory

	// NewRandSource is optional and defaults to clutch.NewRandSource.
	NewRandSource func(seed int64) clutch.RandSource

	// Monitor is optional.
	Monitor *monitoring.Monitor

	Logger    *log.Logger
	LogEvents bool
}

// TrialResult describes one finished trial.
type TrialResult struct {
	Index       int
	Name        string
	Seed        int64
	Samples     int
	Detachments int
	Halted      bool
}

// Summary describes a finished batch.
type Summary struct {
	Completed   int
	Halted      int
	Detachments int
	Trials      []TrialResult
}

// TrialName returns the table and file name of a trial.
func TrialName(index int, label string) string {
	return fmt.Sprintf("%04d_factor_%s", index, label)
}

// Run runs the batch. A cancelled context stops the batch before the next
// trial starts. A trial halted by detachment does not stop the batch.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{}

	logger := r.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	var batchBar *monitoring.ProgressBar
	if r.Monitor != nil {
		batchBar = r.Monitor.CreateProgressBar("Trials", uint64(r.Trials))
		defer r.Monitor.CompleteProgressBar(batchBar)
	}

	for i := r.FirstIndex; i < r.FirstIndex+r.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if batchBar != nil {
			batchBar.IncrementInProgress(1)
		}

		result, err := r.runTrial(i, logger)
		if err != nil {
			return summary, err
		}

		if batchBar != nil {
			batchBar.MoveInProgressToFinished(1)
		}

		summary.Trials = append(summary.Trials, result)
		summary.Detachments += result.Detachments

		if result.Halted {
			summary.Halted++
		} else {
			summary.Completed++
		}

		logger.Printf("%s: finished, %d samples, %d detachments",
			result.Name, result.Samples, result.Detachments)
	}

	return summary, nil
}

func (r *Runner) runTrial(
	index int,
	logger *log.Logger,
) (result TrialResult, err error) {
	name := TrialName(index, r.Label)
	seed := r.BaseSeed + int64(index)

	result = TrialResult{Index: index, Name: name, Seed: seed}

	b := trial.MakeBuilder().
		WithName(name).
		WithConfig(r.Config).
		WithRunConfig(r.RunConfig).
		WithSeed(seed).
		WithLogger(logger)

	if r.NewRandSource != nil {
		b = b.WithRandSource(r.NewRandSource(seed))
	}

	if r.LogEvents {
		b = b.WithEventLogging()
	}

	var bar *monitoring.ProgressBar
	if r.Monitor != nil {
		bar = r.Monitor.CreateProgressBar(name, 0)
		defer r.Monitor.CompleteProgressBar(bar)

		b = b.WithProgress(bar)
	}

	if r.NewRecorder != nil {
		var recorder datarecording.DataRecorder

		recorder, err = r.NewRecorder(name)
		if err != nil {
			return result, fmt.Errorf("%s: %w", name, err)
		}

		defer func() {
			closeErr := recorder.Close()
			if closeErr != nil && err == nil {
				err = fmt.Errorf("%s: %w", name, closeErr)
			}
		}()

		b = b.WithRecorder(recorder).WithTableName(name)
	}

	t, err := b.Build()
	if err != nil {
		return result, fmt.Errorf("%s: %w", name, err)
	}

	if bar != nil {
		bar.SetTotal(t.TotalSteps())
	}

	if r.Monitor != nil {
		r.Monitor.RegisterTrial(t)
	}

	logger.Printf("%s: started, seed %d", name, seed)

	err = t.Run()

	result.Samples = t.Samples()
	result.Detachments = len(t.Detachments())
	result.Halted = t.Halted()

	if err != nil {
		if !t.Halted() {
			return result, fmt.Errorf("%s: %w", name, err)
		}

		logger.Printf("%s: halted: %v", name, err)
	}

	return result, nil
}
