package generator

import (
	"context"
	"fmt"
	"strings"

	"ragpartner/internal/domain"
)

// InsufficientInfoMessage is returned whenever retrieval produces nothing to
// ground an answer in. The language model is not consulted in that case.
const InsufficientInfoMessage = "I'm sorry, I couldn't find any relevant information in the documents to answer your question."

const promptTemplate = `You are a helpful assistant that answers questions strictly based on the provided context.

INSTRUCTIONS:
1. Use the provided context to answer the user's question.
2. If the answer is not contained within the context, gracefully state that you do not have enough information to answer. Do not make up an answer.
3. Every claim you make must be followed by an inline citation in brackets, e.g., [1], [2].
4. Match these numbers to the order of the source documents provided below.

CONTEXT:
%s

QUESTION:
%s

HELPFUL ANSWER:
`

// Answerer turns retrieved chunks into a cited natural-language answer.
type Answerer struct {
	model domain.Generator
}

func NewAnswerer(model domain.Generator) *Answerer {
	return &Answerer{model: model}
}

// Answer numbers the retrieved chunks by rank, prompts the model with the
// numbered context block and returns its text with the source list. Citation
// numbers in the returned text are not validated against the block.
func (a *Answerer) Answer(ctx context.Context, query string, results []domain.SearchResult) (domain.Answer, error) {
	if len(results) == 0 {
		return domain.Answer{Text: InsufficientInfoMessage}, nil
	}

	contextBlock, sources := BuildContext(results)
	prompt := fmt.Sprintf(promptTemplate, contextBlock, query)

	text, err := a.model.Generate(ctx, prompt)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	return domain.Answer{Text: text, Sources: sources}, nil
}

// BuildContext renders the numbered context block and the matching source
// list. Citation numbers are 1-based in rank order and recomputed per query.
func BuildContext(results []domain.SearchResult) (string, []domain.Source) {
	var sb strings.Builder
	sources := make([]domain.Source, 0, len(results))
	for i, r := range results {
		citation := i + 1
		fmt.Fprintf(&sb, "[%d] %s\n\n", citation, r.Chunk.Text)
		sources = append(sources, domain.Source{
			Citation:   citation,
			SourceName: r.Chunk.SourceName,
			Title:      r.Chunk.Title,
			Text:       r.Chunk.Text,
		})
	}
	return sb.String(), sources
}
