package inquiry

import "context"

// Summarizer asks the text generator to turn an inquiry into the JSON
// object described by instruction.
type Summarizer interface {
	SummarizeInquiry(ctx context.Context, instruction, query string) (string, error)
}
