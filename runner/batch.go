package runner

import (
	"context"

	"github.com/hupe1980/meetinglens/classifier"
	"github.com/hupe1980/meetinglens/composer"
	"github.com/hupe1980/meetinglens/registry"
	"github.com/hupe1980/meetinglens/suite"
)

// Metadata summarizes one batch run.
type Metadata struct {
	Source                string `json:"source"`
	Model                 string `json:"model"`
	ModelName             string `json:"model_name"`
	Timestamp             string `json:"timestamp"`
	TotalPrompts          int    `json:"total_prompts"`
	Successful            int    `json:"successful"`
	Failed                int    `json:"failed"`
	CanonicalTasksVersion string `json:"canonical_tasks_version"`
	TotalCanonicalTasks   int    `json:"total_canonical_tasks"`
}

// CompositionBatch is the record of one composer batch run. Compositions
// appear in input order.
type CompositionBatch struct {
	Metadata     Metadata                         `json:"metadata"`
	Compositions []*composer.ExecutionComposition `json:"compositions"`
}

// ClassifiedEvent pairs a suite event with its classification.
type ClassifiedEvent struct {
	ID             string                     `json:"id"`
	Event          classifier.Event           `json:"event"`
	Classification *classifier.Classification `json:"classification"`
}

// ClassificationBatch is the record of one classifier batch run.
// Classifications appear in input order.
type ClassificationBatch struct {
	Metadata        Metadata          `json:"metadata"`
	Classifications []ClassifiedEvent `json:"classifications"`
}

func (r *Runner) metadata(total, successful int) Metadata {
	return Metadata{
		Source:                r.opts.Source,
		Model:                 r.opts.Source,
		ModelName:             r.opts.ModelName,
		Timestamp:             r.timestamp(),
		TotalPrompts:          total,
		Successful:            successful,
		Failed:                total - successful,
		CanonicalTasksVersion: registry.Version,
		TotalCanonicalTasks:   registry.Tasks().Len(),
	}
}

// ComposeBatch runs the composer over the prompt suite sequentially,
// preserving input order. Items that fail are recorded with their error and
// counted; the batch always completes.
func (r *Runner) ComposeBatch(ctx context.Context, prompts []suite.HeroPrompt) *CompositionBatch {
	batch := &CompositionBatch{
		Compositions: make([]*composer.ExecutionComposition, 0, len(prompts)),
	}
	successful := 0
	for _, p := range prompts {
		comp := r.composer.Compose(ctx, p.PromptText, p.ID)
		if !comp.Failed() {
			successful++
		}
		batch.Compositions = append(batch.Compositions, comp)
		r.write("composition", p.ID, comp)
		r.logger.Info("composed prompt",
			"prompt_id", p.ID, "failed", comp.Failed(), "tasks", len(comp.TasksCovered))
	}
	batch.Metadata = r.metadata(len(prompts), successful)
	r.write("composition_batch", "", batch)
	return batch
}

// ClassifyBatch runs the classifier over the event suite sequentially,
// preserving input order.
func (r *Runner) ClassifyBatch(ctx context.Context, events []suite.MeetingEvent) *ClassificationBatch {
	batch := &ClassificationBatch{
		Classifications: make([]ClassifiedEvent, 0, len(events)),
	}
	successful := 0
	for _, e := range events {
		ev := classifier.Event{
			Subject:         e.Subject,
			Description:     e.Description,
			Attendees:       e.Attendees,
			DurationMinutes: e.DurationMinutes,
		}
		cl := r.classifier.Classify(ctx, ev)
		if cl.SpecificType != registry.Unknown {
			successful++
		}
		batch.Classifications = append(batch.Classifications, ClassifiedEvent{
			ID:             e.ID,
			Event:          ev,
			Classification: cl,
		})
		r.write("classification", e.ID, cl)
		r.logger.Info("classified event",
			"event_id", e.ID, "specific_type", cl.SpecificType, "method", cl.Method)
	}
	batch.Metadata = r.metadata(len(events), successful)
	r.write("classification_batch", "", batch)
	return batch
}
