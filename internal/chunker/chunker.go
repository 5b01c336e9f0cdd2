// Package chunker splits normalised text into overlapping, sentence-bounded
// chunks sized for the active embedding profile.
package chunker

import (
	"strings"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// DefaultChunkSize is the default target number of characters per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default overlap window between consecutive chunks.
const DefaultOverlap = 100

// sentenceTerminators end a sentence for splitting purposes.
// Covers both ASCII and CJK punctuation.
const sentenceTerminators = "。！？；.!?;"

// Chunker produces overlapping chunks, preferring sentence boundaries.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap window in characters.
// Zero disables overlap seeding entirely.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for new content in every chunk
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits text into chunks for the document identified by contentHash.
// Chunk IDs are derived deterministically from the hash and the ordinal, so
// re-ingesting identical content is idempotent. The caller-supplied metadata
// is merged into every chunk alongside the chunk index and size.
//
// A single sentence longer than the chunk size is emitted as its own
// oversized chunk rather than being split mid-sentence; this is a documented
// trade-off, not an error.
func (c *Chunker) Chunk(text, contentHash string, meta map[string]any) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := splitSentences(text)

	var texts []string
	var buf []rune

	for _, sentence := range sentences {
		runes := []rune(sentence)

		if len(buf)+len(runes)+1 > c.chunkSize && len(buf) > 0 {
			texts = append(texts, strings.TrimSpace(string(buf)))

			buf = buf[:0]
			if c.overlap > 0 {
				seed := overlapWindow(texts[len(texts)-1], c.overlap)
				if seed != "" {
					buf = append(buf, []rune(seed)...)
					buf = append(buf, ' ')
				}
			}
			buf = append(buf, runes...)
			continue
		}

		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, runes...)
	}

	if len(buf) > 0 {
		texts = append(texts, strings.TrimSpace(string(buf)))
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		md := make(map[string]any, len(meta)+2)
		for k, v := range meta {
			md[k] = v
		}
		md["chunk_index"] = i
		md["chunk_size"] = len([]rune(t))

		chunks[i] = domain.Chunk{
			ID:           domain.ChunkID(contentHash, i),
			DocumentHash: contentHash,
			Text:         t,
			Ordinal:      i,
			TotalChunks:  len(texts),
			Metadata:     md,
		}
	}

	return chunks
}

// splitSentences splits text on sentence terminators, keeping the
// terminator attached so chunk concatenation preserves the source text.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	inTerminator := false

	for _, r := range text {
		isTerm := strings.ContainsRune(sentenceTerminators, r)
		if inTerminator && !isTerm {
			// Terminator run ended: close the sentence
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
		current.WriteRune(r)
		inTerminator = isTerm
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// overlapWindow takes the tail of the previous chunk to seed the next one.
// The window is trimmed back to the nearest sentence boundary when one
// exists past the midpoint of the span; otherwise the raw tail is used.
func overlapWindow(prev string, overlap int) string {
	runes := []rune(prev)
	if len(runes) <= overlap {
		return prev
	}

	window := runes[len(runes)-overlap:]

	// A terminator at the very end of the window is the previous chunk's own
	// closing punctuation, not a boundary to trim at.
	boundary := -1
	for i := 0; i < len(window)-1; i++ {
		if strings.ContainsRune(sentenceTerminators, window[i]) {
			boundary = i
		}
	}

	if boundary > overlap/2 {
		return strings.TrimSpace(string(window[boundary+1:]))
	}
	return strings.TrimSpace(string(window))
}
