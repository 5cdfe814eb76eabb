// Package compare computes set-theoretic agreement between composition
// batches over the same prompt suite. A gold-standard batch is just a
// specially tagged batch; the comparison is symmetric.
package compare

import (
	"sort"

	"github.com/hupe1980/meetinglens/runner"
)

// PromptComparison holds the tasks_covered set algebra for one prompt id.
type PromptComparison struct {
	Intersection []string `json:"intersection"`
	OnlyInA      []string `json:"only_in_a"`
	OnlyInB      []string `json:"only_in_b"`
	Jaccard      float64  `json:"jaccard"`
}

// Report is the full comparison of two batches.
type Report struct {
	SourceA        string                       `json:"source_a"`
	SourceB        string                       `json:"source_b"`
	PerPrompt      map[string]*PromptComparison `json:"per_prompt"`
	TaskUsageA     map[string]int               `json:"task_usage_a"`
	TaskUsageB     map[string]int               `json:"task_usage_b"`
	AverageJaccard float64                      `json:"average_jaccard"`
	// MissingFrom lists prompt ids present in one batch but not the other.
	MissingFromA []string `json:"missing_from_a,omitempty"`
	MissingFromB []string `json:"missing_from_b,omitempty"`
}

// Batches compares the tasks_covered sets of two composition batches keyed
// by prompt id. Failed compositions participate with empty sets.
func Batches(a, b *runner.CompositionBatch) *Report {
	setsA, usageA := index(a)
	setsB, usageB := index(b)

	report := &Report{
		SourceA:    a.Metadata.Source,
		SourceB:    b.Metadata.Source,
		PerPrompt:  make(map[string]*PromptComparison),
		TaskUsageA: usageA,
		TaskUsageB: usageB,
	}

	var jaccardSum float64
	shared := 0
	for id, setA := range setsA {
		setB, ok := setsB[id]
		if !ok {
			report.MissingFromB = append(report.MissingFromB, id)
			continue
		}
		pc := comparePrompt(setA, setB)
		report.PerPrompt[id] = pc
		jaccardSum += pc.Jaccard
		shared++
	}
	for id := range setsB {
		if _, ok := setsA[id]; !ok {
			report.MissingFromA = append(report.MissingFromA, id)
		}
	}
	sort.Strings(report.MissingFromA)
	sort.Strings(report.MissingFromB)

	if shared > 0 {
		report.AverageJaccard = jaccardSum / float64(shared)
	}
	return report
}

func comparePrompt(setA, setB map[string]bool) *PromptComparison {
	pc := &PromptComparison{
		Intersection: []string{},
		OnlyInA:      []string{},
		OnlyInB:      []string{},
	}
	union := 0
	for id := range setA {
		if setB[id] {
			pc.Intersection = append(pc.Intersection, id)
		} else {
			pc.OnlyInA = append(pc.OnlyInA, id)
		}
		union++
	}
	for id := range setB {
		if !setA[id] {
			pc.OnlyInB = append(pc.OnlyInB, id)
			union++
		}
	}
	sort.Strings(pc.Intersection)
	sort.Strings(pc.OnlyInA)
	sort.Strings(pc.OnlyInB)

	if union == 0 {
		// Two empty selections agree perfectly.
		pc.Jaccard = 1
	} else {
		pc.Jaccard = float64(len(pc.Intersection)) / float64(union)
	}
	return pc
}

// index maps prompt id -> task set and accumulates per-task usage counts.
func index(batch *runner.CompositionBatch) (map[string]map[string]bool, map[string]int) {
	sets := make(map[string]map[string]bool, len(batch.Compositions))
	usage := make(map[string]int)
	for _, comp := range batch.Compositions {
		sets[comp.PromptID] = comp.TaskSet()
		for _, id := range comp.TasksCovered {
			usage[id]++
		}
	}
	return sets, usage
}
