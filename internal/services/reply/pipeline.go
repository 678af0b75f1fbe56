package reply

import (
	"context"
	"sync"

	"github.com/xelth-com/shopreply/internal/delivery"
	"github.com/xelth-com/shopreply/internal/models"
)

// IntentClassifier assigns a category to an email body
type IntentClassifier interface {
	Classify(ctx context.Context, body string) (models.Category, error)
}

// ContextResolver looks up order facts; nil means none available
type ContextResolver interface {
	Resolve(ctx context.Context, orderID, customerEmail string) *models.OrderContext
}

// Drafter composes the reply text
type Drafter interface {
	Compose(ctx context.Context, category models.Category, body string, oc *models.OrderContext) (string, error)
}

// Pipeline runs classification, order enrichment and composition for one email.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	classifier IntentClassifier
	resolver   ContextResolver
	composer   Drafter
}

// NewPipeline wires the pipeline stages
func NewPipeline(classifier IntentClassifier, resolver ContextResolver, composer Drafter) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		resolver:   resolver,
		composer:   composer,
	}
}

// Process drafts the reply for email.
// Errors: models.ErrInput for an empty body (nothing is called),
// classification errors as returned by the classifier, *CompositionError.
func (p *Pipeline) Process(ctx context.Context, email models.InboundEmail) (*models.ComposedReply, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		oc       *models.OrderContext
		category models.Category
		classErr error
	)

	// Lookup does not depend on the category, so it overlaps classification
	if p.resolver != nil && (email.OrderID != "" || email.SenderEmail != "") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			oc = p.resolver.Resolve(ctx, email.OrderID, email.SenderEmail)
		}()
	}

	category, classErr = p.classifier.Classify(ctx, email.Body)
	wg.Wait()

	if classErr != nil {
		return nil, classErr
	}

	delivery.Apply(category, email.Body, oc)

	draft, err := p.composer.Compose(ctx, category, email.Body, oc)
	if err != nil {
		return nil, err
	}

	return &models.ComposedReply{
		Category:    category,
		Body:        AppendIfNeeded(draft, category, email.Body),
		ContextUsed: oc,
	}, nil
}
