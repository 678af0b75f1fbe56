package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xelth-com/shopreply/internal/ai"
	"github.com/xelth-com/shopreply/internal/models"
)

// Classifier maps raw email text onto the fixed intent taxonomy
type Classifier struct {
	llm ai.TextGenerator
}

// NewClassifier creates a classifier backed by a generative text model
func NewClassifier(llm ai.TextGenerator) *Classifier {
	return &Classifier{llm: llm}
}

// Classify returns the category for body. The caller guarantees body is non-empty.
// Backend failures propagate; unparseable answers become CategoryOther.
func (c *Classifier) Classify(ctx context.Context, body string) (models.Category, error) {
	raw, err := c.llm.Complete(ctx, ai.ClassifierSystemPrompt, body)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}

	category := models.ParseCategory(raw)
	if category == models.CategoryOther && !strings.EqualFold(strings.TrimSpace(raw), string(models.CategoryOther)) {
		log.Printf("🏷️ Classifier: unmapped answer %q, using %s", truncate(raw, 80), category)
	}
	return category, nil
}

// truncate shortens s to n runes for log lines
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
