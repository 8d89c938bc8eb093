package tokenizer

import (
	"context"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/davidbz/tokentoll/internal/domain"
	"github.com/davidbz/tokentoll/internal/observability"
)

// fallbackEncoding is the general-purpose encoding used when no
// model-specific encoding is registered.
const fallbackEncoding = "cl100k_base"

// Service selects token encoders by model name. Encoder selection never
// fails: unregistered models fall back to the default encoding.
type Service struct{}

// NewService creates a tokenizer service (DI constructor).
func NewService() *Service {
	return &Service{}
}

// EncoderFor returns the encoder for the given model, stripping any
// "provider." qualifier before lookup.
func (s *Service) EncoderFor(ctx context.Context, model string) domain.TokenEncoder {
	logger := observability.FromContext(ctx)

	if i := strings.Index(model, "."); i >= 0 {
		model = model[i+1:]
	}

	tk, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return &encoder{tk: tk}
	}

	logger.Debug("no encoding registered for model, using fallback",
		observability.String("model", model),
		observability.String("fallback", fallbackEncoding))

	tk, err = tiktoken.GetEncoding(fallbackEncoding)
	if err != nil {
		// The fallback encoding could not be loaded at all (e.g. no BPE
		// data available). Counting degrades to zero rather than failing
		// the request.
		logger.Warn("failed to load fallback encoding",
			observability.Error(err))
		return noopEncoder{}
	}

	return &encoder{tk: tk}
}

type encoder struct {
	tk *tiktoken.Tiktoken
}

// Count returns the length of the encoded token sequence for text.
func (e *encoder) Count(text string) int {
	return len(e.tk.Encode(text, nil, nil))
}

type noopEncoder struct{}

func (noopEncoder) Count(string) int { return 0 }
