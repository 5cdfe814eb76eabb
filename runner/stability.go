package runner

import (
	"context"
	"math"
	"sort"

	"github.com/hupe1980/meetinglens/suite"
)

// Stability ratings.
const (
	RatingHigh   = "High"
	RatingMedium = "Medium"
	RatingLow    = "Low"
)

// PromptStability quantifies the variance of one prompt across trials.
// Metrics cover only successful trials; failures are counted separately so
// gaps stay visible.
type PromptStability struct {
	AlwaysSelected        []string `json:"always_selected"`
	SometimesSelected     []string `json:"sometimes_selected"`
	TaskCounts            []int    `json:"task_counts"`
	AverageTaskCount      float64  `json:"average_task_count"`
	StdDev                float64  `json:"std_dev"`
	ConsistencyPercentage float64  `json:"consistency_percentage"`
	SuccessfulTrials      int      `json:"successful_trials"`
	FailedTrials          int      `json:"failed_trials"`
}

// StabilityAggregate averages the per-prompt metrics and grades them.
type StabilityAggregate struct {
	AverageTaskCount   float64 `json:"average_task_count"`
	AverageConsistency float64 `json:"average_consistency"`
	AverageStdDev      float64 `json:"average_std_dev"`
	Rating             string  `json:"rating"`
}

// StabilityReport is the full result of a stability run.
type StabilityReport struct {
	Trials    int                         `json:"trials"`
	Timestamp string                      `json:"timestamp"`
	PerPrompt map[string]*PromptStability `json:"per_prompt"`
	Aggregate StabilityAggregate          `json:"aggregate"`
}

// Stability runs the composition batch Trials times with identical options
// and computes per-prompt and aggregate variance metrics. Trials run
// sequentially with the configured interval between them; trial artifacts
// are emitted in trial order.
func (r *Runner) Stability(ctx context.Context, prompts []suite.HeroPrompt) *StabilityReport {
	trials := make([]*CompositionBatch, 0, r.opts.Trials)
	for t := 0; t < r.opts.Trials; t++ {
		if t > 0 {
			if err := r.sleep(ctx, r.opts.TrialInterval); err != nil {
				r.logger.Warn("stability run interrupted", "completed_trials", t)
				break
			}
		}
		r.logger.Info("stability trial", "trial", t+1, "of", r.opts.Trials)
		trials = append(trials, r.ComposeBatch(ctx, prompts))
	}

	report := r.buildReport(prompts, trials)
	r.write("stability_report", "", report)
	return report
}

func (r *Runner) buildReport(prompts []suite.HeroPrompt, trials []*CompositionBatch) *StabilityReport {
	report := &StabilityReport{
		Trials:    len(trials),
		Timestamp: r.timestamp(),
		PerPrompt: make(map[string]*PromptStability, len(prompts)),
	}

	var sumCount, sumConsistency, sumStdDev float64
	graded := 0
	for i, p := range prompts {
		ps := promptStability(trials, i)
		report.PerPrompt[p.ID] = ps
		if ps.SuccessfulTrials > 0 {
			sumCount += ps.AverageTaskCount
			sumConsistency += ps.ConsistencyPercentage
			sumStdDev += ps.StdDev
			graded++
		}
	}

	if graded > 0 {
		report.Aggregate = StabilityAggregate{
			AverageTaskCount:   sumCount / float64(graded),
			AverageConsistency: sumConsistency / float64(graded),
			AverageStdDev:      sumStdDev / float64(graded),
		}
	}
	report.Aggregate.Rating = rating(report.Aggregate.AverageConsistency)
	return report
}

// promptStability computes the metrics for the prompt at input position idx.
func promptStability(trials []*CompositionBatch, idx int) *PromptStability {
	ps := &PromptStability{
		AlwaysSelected:    []string{},
		SometimesSelected: []string{},
		TaskCounts:        []int{},
	}

	var sets []map[string]bool
	for _, trial := range trials {
		if idx >= len(trial.Compositions) {
			continue
		}
		comp := trial.Compositions[idx]
		if comp.Failed() {
			ps.FailedTrials++
			continue
		}
		sets = append(sets, comp.TaskSet())
		ps.TaskCounts = append(ps.TaskCounts, len(comp.TasksCovered))
	}
	ps.SuccessfulTrials = len(sets)
	if len(sets) == 0 {
		return ps
	}

	intersection, union := setBounds(sets)
	ps.AlwaysSelected = sortedKeys(intersection)
	for id := range intersection {
		delete(union, id)
	}
	ps.SometimesSelected = sortedKeys(union)

	ps.AverageTaskCount, ps.StdDev = meanStdDev(ps.TaskCounts)
	totalUnion := len(intersection) + len(union)
	if totalUnion == 0 {
		// All trials selected nothing; identical is maximally consistent.
		ps.ConsistencyPercentage = 100
	} else {
		ps.ConsistencyPercentage = 100 * float64(len(intersection)) / float64(totalUnion)
	}
	return ps
}

// setBounds returns the intersection and union of the task sets.
func setBounds(sets []map[string]bool) (intersection, union map[string]bool) {
	intersection = make(map[string]bool)
	union = make(map[string]bool)
	for id := range sets[0] {
		intersection[id] = true
	}
	for _, set := range sets {
		for id := range set {
			union[id] = true
		}
		for id := range intersection {
			if !set[id] {
				delete(intersection, id)
			}
		}
	}
	return intersection, union
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(counts []int) (mean, stdDev float64) {
	if len(counts) == 0 {
		return 0, 0
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean = float64(sum) / float64(len(counts))
	var sq float64
	for _, c := range counts {
		d := float64(c) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(counts)))
}

func rating(consistency float64) string {
	switch {
	case consistency >= 90:
		return RatingHigh
	case consistency >= 75:
		return RatingMedium
	default:
		return RatingLow
	}
}
