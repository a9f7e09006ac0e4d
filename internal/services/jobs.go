package services

import (
	"context"

	"reddit-ideas/internal/worker"
)

// JobFuncs binds the job names to their runs
func JobFuncs(generator *Generator, dispatcher *Dispatcher) map[string]worker.JobFunc {
	return map[string]worker.JobFunc{
		worker.JobGenerateIdeas: func(ctx context.Context) (interface{}, error) {
			return generator.Run(ctx)
		},
		worker.JobPersonalized: func(ctx context.Context) (interface{}, error) {
			return dispatcher.Dispatch(ctx, PersonalizedPolicy)
		},
		worker.JobNewsletter: func(ctx context.Context) (interface{}, error) {
			return dispatcher.Dispatch(ctx, NewsletterPolicy)
		},
	}
}
