package chunking

import (
	"strings"

	"github.com/akarasev/docsearch/internal/core/domain"
	"github.com/akarasev/docsearch/internal/core/ports"
)

type Config struct {
	ChunkSizeTokens int
	OverlapTokens   int
	// SentenceAware disables sentence-boundary preference when false: the
	// whole input is windowed at the token level (the offset-only mode).
	SentenceAware bool
}

func DefaultConfig() Config {
	return Config{
		ChunkSizeTokens: 512,
		OverlapTokens:   64,
		SentenceAware:   true,
	}
}

// Splitter produces token-bounded, overlapping chunks, preferring sentence
// boundaries. It is pure: no I/O, no failure modes on any string input.
type Splitter struct {
	cfg Config
	tok ports.Tokenizer
}

func NewSplitter(tok ports.Tokenizer, cfg Config) *Splitter {
	if cfg.ChunkSizeTokens <= 0 {
		cfg.ChunkSizeTokens = DefaultConfig().ChunkSizeTokens
	}
	if cfg.OverlapTokens < 0 {
		cfg.OverlapTokens = 0
	}
	// An overlap >= chunk size would never advance; clamp instead.
	if cfg.OverlapTokens >= cfg.ChunkSizeTokens {
		cfg.OverlapTokens = cfg.ChunkSizeTokens - 1
	}
	return &Splitter{cfg: cfg, tok: tok}
}

func (s *Splitter) Split(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if !s.cfg.SentenceAware {
		return s.hardSplit(text, nil)
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	size := s.cfg.ChunkSizeTokens
	overlap := s.cfg.OverlapTokens

	var out []domain.Chunk
	var buf []string
	seedLen := 0 // leading sentences carried over as overlap only

	emit := func() {
		if len(buf) == 0 || seedLen == len(buf) {
			return
		}
		content := strings.Join(buf, " ")
		out = append(out, s.newChunk(len(out), content, s.tok.Count(content), false))
	}

	for _, sentence := range sentences {
		if s.tok.Count(sentence) > size {
			// The sentence alone blows the budget: flush what we have and
			// window the sentence at the token level.
			emit()
			out = s.hardSplit(sentence, out)
			buf, seedLen = nil, 0
			continue
		}

		candidate := joinCount(s.tok, buf, sentence)
		if candidate > size && len(buf) > 0 {
			if seedLen == len(buf) {
				// Only overlap seed so far; shrink it rather than emitting
				// a chunk that duplicates the previous tail.
				for len(buf) > 0 && joinCount(s.tok, buf, sentence) > size {
					buf = buf[1:]
					seedLen--
				}
			} else {
				emit()
				buf = overlapSeed(s.tok, buf, overlap)
				seedLen = len(buf)
				for len(buf) > 0 && joinCount(s.tok, buf, sentence) > size {
					buf = buf[1:]
					seedLen--
				}
			}
		}
		buf = append(buf, sentence)
	}
	emit()

	return out
}

// hardSplit windows the token stream into chunks of ChunkSizeTokens,
// each window starting ChunkSizeTokens-OverlapTokens after the previous
// one. Appends to out so chunk indices stay continuous.
func (s *Splitter) hardSplit(text string, out []domain.Chunk) []domain.Chunk {
	ids := s.tok.Encode(text)
	if len(ids) == 0 {
		return out
	}

	size := s.cfg.ChunkSizeTokens
	stride := size - s.cfg.OverlapTokens
	if stride <= 0 {
		stride = size
	}

	for start := 0; start < len(ids); start += stride {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		content := strings.TrimSpace(s.tok.Decode(ids[start:end]))
		if content != "" {
			out = append(out, s.newChunk(len(out), content, end-start, true))
		}
		if end == len(ids) {
			break
		}
	}
	return out
}

func (s *Splitter) newChunk(index int, content string, tokenCount int, hardSplit bool) domain.Chunk {
	return domain.Chunk{
		Index:      index,
		Content:    content,
		TokenCount: tokenCount,
		HardSplit:  hardSplit,
		Location: map[string]any{
			domain.LocationTokenCount: tokenCount,
			domain.LocationHardSplit:  hardSplit,
		},
	}
}

// overlapSeed walks the closed chunk's sentences backward until the
// accumulated token count reaches overlap; the last sentence added may
// push past it.
func overlapSeed(tok ports.Tokenizer, buf []string, overlap int) []string {
	if overlap <= 0 {
		return nil
	}
	total := 0
	i := len(buf)
	for i > 0 {
		i--
		total += tok.Count(buf[i])
		if total >= overlap {
			break
		}
	}
	seed := make([]string, len(buf)-i)
	copy(seed, buf[i:])
	return seed
}

func joinCount(tok ports.Tokenizer, buf []string, next string) int {
	if len(buf) == 0 {
		return tok.Count(next)
	}
	return tok.Count(strings.Join(buf, " ") + " " + next)
}
