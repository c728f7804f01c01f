// Package kb provides semantic retrieval over the company knowledge base.
//
// The corpus lives in content.go and is indexed into a chromem-go collection
// at startup. Retrieval degrades to empty results on error so the caller can
// still answer from the model's own knowledge.
package kb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/philippgille/chromem-go"
)

// DefaultCollection is the collection name used for the company corpus.
const DefaultCollection = "instalogic-kb"

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 3

// Chunk is one retrieved knowledge base passage.
type Chunk struct {
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
	Source string  `json:"source"`
}

// Result is the outcome of a retrieval: the matched chunks, the deduplicated
// website sources behind them, and the chunk texts joined for prompt assembly.
type Result struct {
	Chunks  []Chunk
	Sources []string
	Context string
}

// Opts holds configuration options for the retriever.
type Opts struct {
	PersistPath   string
	Collection    string
	EmbeddingFunc chromem.EmbeddingFunc
}

// Option defines a functional option for retriever configuration.
type Option func(*Opts)

// WithPersistPath stores the index on disk instead of in memory.
func WithPersistPath(path string) Option {
	return func(o *Opts) { o.PersistPath = path }
}

// WithCollection overrides the collection name.
func WithCollection(name string) Option {
	return func(o *Opts) { o.Collection = name }
}

// WithEmbeddingFunc sets the embedding function. Defaults to OpenAI embeddings
// using the OPENAI_API_KEY environment variable.
func WithEmbeddingFunc(fn chromem.EmbeddingFunc) Option {
	return func(o *Opts) { o.EmbeddingFunc = fn }
}

// Retriever answers semantic queries against the seeded company corpus.
type Retriever struct {
	collection *chromem.Collection
	docCount   int
}

// NewRetriever opens (or creates) the vector collection and seeds it with the
// company corpus.
func NewRetriever(ctx context.Context, opts ...Option) (*Retriever, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}

	var db *chromem.DB
	var err error
	if cfg.PersistPath != "" {
		db, err = chromem.NewPersistentDB(cfg.PersistPath, false)
		if err != nil {
			slog.Error("KB retriever failed to open persistent DB", "error", err, "path", cfg.PersistPath)
			return nil, fmt.Errorf("failed to open vector DB: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	name := cfg.Collection
	if name == "" {
		name = DefaultCollection
	}
	collection, err := db.GetOrCreateCollection(name, nil, cfg.EmbeddingFunc)
	if err != nil {
		slog.Error("KB retriever failed to open collection", "error", err, "collection", name)
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}

	r := &Retriever{collection: collection}
	if err := r.seed(ctx); err != nil {
		return nil, err
	}
	slog.Info("KB retriever ready", "collection", name, "documents", r.docCount)
	return r, nil
}

// seed indexes the company corpus. Existing documents with matching IDs are
// overwritten, so reseeding a persistent index is safe.
func (r *Retriever) seed(ctx context.Context) error {
	docs := make([]chromem.Document, 0, len(seedCorpus))
	for _, d := range seedCorpus {
		docs = append(docs, chromem.Document{
			ID:      d.ID,
			Content: d.Content,
			Metadata: map[string]string{
				"source": PageForContent(d.Content),
			},
		})
	}
	if err := r.collection.AddDocuments(ctx, docs, 2); err != nil {
		slog.Error("KB retriever seeding failed", "error", err)
		return fmt.Errorf("failed to seed knowledge base: %w", err)
	}
	r.docCount = len(docs)
	return nil
}

// Retrieve returns the top k passages for the query. Errors degrade to an
// empty Result so answering can proceed without grounding.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) Result {
	if k <= 0 {
		k = DefaultTopK
	}
	if k > r.docCount {
		k = r.docCount
	}

	results, err := r.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		slog.Error("KB retrieval failed, degrading to empty context", "error", err, "query_length", len(query))
		return Result{}
	}

	var out Result
	seen := make(map[string]bool)
	var contextParts []string
	for _, res := range results {
		source := res.Metadata["source"]
		if source == "" {
			source = PageForContent(res.Content)
		}
		out.Chunks = append(out.Chunks, Chunk{
			Text:   res.Content,
			Score:  res.Similarity,
			Source: source,
		})
		contextParts = append(contextParts, res.Content)
		if source != "" && !seen[source] {
			seen[source] = true
			out.Sources = append(out.Sources, source)
		}
	}
	out.Context = strings.Join(contextParts, "\n\n")
	slog.Debug("KB retrieval succeeded", "chunks", len(out.Chunks), "sources", len(out.Sources))
	return out
}

// EnhancePrompt appends retrieved context to the base system prompt.
func EnhancePrompt(systemPrompt, retrievedContext string) string {
	if retrievedContext == "" {
		return systemPrompt
	}
	return fmt.Sprintf(`%s

RETRIEVED CONTEXT FROM KNOWLEDGE BASE:
%s

Use the above context to answer the user's question. If the context doesn't contain relevant information, use your general knowledge about InstaLogic.`, systemPrompt, retrievedContext)
}

// PageForContent maps a knowledge base passage to the website page that
// covers the same topic. The keyword lists are checked in order and the
// homepage is the fallback.
func PageForContent(content string) string {
	lower := strings.ToLower(content)
	pages := []struct {
		keywords []string
		url      string
	}{
		{[]string{"case study", "case studies", "project", "client work", "success story"}, "https://www.instalogic.in/case-studies/"},
		{[]string{"service", "offering", "solution", "capability", "what we do"}, "https://www.instalogic.in/our-services/"},
		{[]string{"career", "job", "hiring", "position", "opening", "work with us", "join our team"}, "https://www.instalogic.in/careers/"},
		{[]string{"about us", "our story", "history", "mission", "vision", "values"}, "https://www.instalogic.in/our-story/"},
		{[]string{"contact", "reach us", "get in touch", "email", "phone", "address"}, "https://www.instalogic.in/contact-us/"},
	}
	for _, p := range pages {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.url
			}
		}
	}
	return "https://www.instalogic.in/"
}
