package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/knowledge"
	"github.com/askdb/askdb/internal/logging"
	"github.com/askdb/askdb/internal/schema"
)

// RetrievedContext is the bounded context document handed to the generator:
// rendered schema text plus the knowledge snippets most similar to the
// question.
type RetrievedContext struct {
	SchemaText    string
	Snippets      []knowledge.SearchResult
	OmittedTables []string
}

// KnowledgeIDs lists the ids of the retrieved snippets in rank order
func (c *RetrievedContext) KnowledgeIDs() []string {
	ids := make([]string, 0, len(c.Snippets))
	for _, snippet := range c.Snippets {
		ids = append(ids, snippet.Entry.ID)
	}
	return ids
}

// Assembler builds retrieval contexts from profiled schema and the knowledge
// store. When the full schema rendering exceeds the character budget, tables
// are ranked by keyword overlap with the question and the least relevant are
// dropped; the tables that survive keep their original order.
type Assembler struct {
	store    *knowledge.Store
	maxChars int
	topK     int
}

// NewAssembler creates an assembler over a knowledge store
func NewAssembler(store *knowledge.Store, ctxCfg config.ContextConfig, knowledgeCfg config.KnowledgeConfig) *Assembler {
	return &Assembler{
		store:    store,
		maxChars: ctxCfg.MaxChars,
		topK:     knowledgeCfg.TopK,
	}
}

// BuildContext assembles the context document for a question
func (a *Assembler) BuildContext(ctx context.Context, question string, profiles []*schema.TableProfile) (*RetrievedContext, error) {
	snippets, err := a.store.Search(ctx, question, a.topK)
	if err != nil {
		return nil, err
	}

	schemaText, omitted := a.renderSchema(question, profiles)

	if len(omitted) > 0 {
		logging.Warnf("Context budget dropped %d of %d tables: %s",
			len(omitted), len(profiles), strings.Join(omitted, ", "))
	}

	return &RetrievedContext{
		SchemaText:    schemaText,
		Snippets:      snippets,
		OmittedTables: omitted,
	}, nil
}

// Document renders the final context text included in generation prompts
func (c *RetrievedContext) Document() string {
	var b strings.Builder

	b.WriteString("DATABASE SCHEMA:\n")
	b.WriteString(c.SchemaText)

	if len(c.Snippets) > 0 {
		b.WriteString("\nRELEVANT KNOWLEDGE:\n")
		for _, snippet := range c.Snippets {
			fmt.Fprintf(&b, "- %s\n", snippet.Entry.Content)
		}
	}

	return b.String()
}

// renderSchema renders table summaries within the character budget
func (a *Assembler) renderSchema(question string, profiles []*schema.TableProfile) (string, []string) {
	full := schema.SummaryAll(profiles)
	if a.maxChars <= 0 || len(full) <= a.maxChars {
		return full, nil
	}

	questionTokens := tokenSet(question)

	type ranked struct {
		profile  *schema.TableProfile
		summary  string
		overlap  int
		position int
	}

	candidates := make([]ranked, len(profiles))
	for i, profile := range profiles {
		summary := schema.Summary(profile)
		candidates[i] = ranked{
			profile:  profile,
			summary:  summary,
			overlap:  overlapScore(questionTokens, summary),
			position: i,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].position < candidates[j].position
	})

	// Admit tables by relevance until the budget runs out. Separator cost is
	// the blank line SummaryAll inserts between tables.
	included := make(map[int]bool)
	budget := a.maxChars

	for _, candidate := range candidates {
		cost := len(candidate.summary)
		if len(included) > 0 {
			cost++
		}

		if cost > budget {
			continue
		}

		included[candidate.position] = true
		budget -= cost
	}

	var kept []*schema.TableProfile
	var omitted []string

	for i, profile := range profiles {
		if included[i] {
			kept = append(kept, profile)
		} else {
			omitted = append(omitted, profile.TableName)
		}
	}

	return schema.SummaryAll(kept), omitted
}

// tokenSet lowercases and splits text into a set of word tokens
func tokenSet(text string) map[string]bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}

// overlapScore counts how many question tokens appear in the summary
func overlapScore(questionTokens map[string]bool, summary string) int {
	summaryTokens := tokenSet(summary)

	score := 0
	for token := range questionTokens {
		if summaryTokens[token] {
			score++
		}
	}
	return score
}
