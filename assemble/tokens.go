package assemble

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	encoder *tiktoken.Tiktoken
)

// estimateTokens counts tokens with the cl100k_base encoding when the
// encoder is available, falling back to the chars/4 heuristic (the
// budget itself is always enforced in characters).
func estimateTokens(content string) int {
	encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err == nil {
			encoder = enc
		}
	})
	if encoder != nil {
		return len(encoder.Encode(content, nil, nil))
	}
	return (len(content) + 3) / 4
}
