// Package summarize produces short natural-language summaries of consumer
// source files through the Gemini API. Summaries are best-effort decoration:
// every failure mode degrades to a sentinel placeholder and never aborts an
// analysis.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	genai "google.golang.org/genai"
)

// Sentinel placeholder values reported instead of a summary.
const (
	SummaryEmptyFile = "[File is empty or contains only whitespace]"
	SummaryBlocked   = "[Summary generation blocked or failed]"
	SummaryNone      = "[No summary generated]"
	SummaryAPIError  = "[Error during summarization]"
	SummaryReadError = "[Error Reading File]"
)

// maxPromptBytes caps how much of a file is sent per request.
const maxPromptBytes = 20000

const cacheSize = 1024

// Summarizer is a construct-once client passed by reference through call
// chains; it holds no analysis state beyond its response cache.
type Summarizer struct {
	cli   *genai.Client
	model string
	cache *lru.Cache[uint64, string]
	log   *slog.Logger
}

// New creates a Summarizer. The API key may be empty if the environment
// provides one (GOOGLE_API_KEY); client construction fails otherwise.
func New(ctx context.Context, apiKey, model string, log *slog.Logger) (*Summarizer, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure Gemini client: %w", err)
	}

	cache, err := lru.New[uint64, string](cacheSize)
	if err != nil {
		return nil, err
	}

	return &Summarizer{cli: cli, model: model, cache: cache, log: log}, nil
}

// Model returns the configured model name.
func (s *Summarizer) Model() string {
	return s.model
}

// SummarizeSource summarizes one file's source text. Identical content is
// summarized once per run; repeats are served from the cache.
func (s *Summarizer) SummarizeSource(ctx context.Context, source, pathForLog string) string {
	if strings.TrimSpace(source) == "" {
		s.log.Warn("skipping summarization of empty file", "path", pathForLog)
		return SummaryEmptyFile
	}

	key := xxhash.Sum64String(source)
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	summary := s.generate(ctx, source, pathForLog)
	s.cache.Add(key, summary)
	return summary
}

func (s *Summarizer) generate(ctx context.Context, source, pathForLog string) string {
	if len(source) > maxPromptBytes {
		source = source[:maxPromptBytes]
	}

	prompt := fmt.Sprintf(`Analyze the following C# code from the file '%s':

`+"```csharp\n%s\n```"+`

Please provide a concise summary (2-3 sentences) explaining the primary purpose of the C# code in this file. Focus on what the main classes/structs/interfaces/enums declared within this specific file *do*. Do not list methods or properties unless essential for the summary.`,
		filepath.Base(pathForLog), source)

	s.log.Info("requesting summary", "path", pathForLog, "model", s.model)
	resp, err := s.cli.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		s.log.Error("Gemini request failed", "path", pathForLog, "error", err)
		return SummaryAPIError
	}

	if len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		s.log.Warn("Gemini response was empty or blocked", "path", pathForLog)
		return SummaryBlocked
	}

	summary := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return SummaryNone
	}
	return summary
}
