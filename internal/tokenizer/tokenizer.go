// Package tokenizer estimates prompt sizes so the orchestrator can trim
// history to a model's context budget before dispatch. Counts are estimates:
// cl100k_base is used for every provider, which is close enough for
// budgeting even where the provider tokenizes differently.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/minhuy206/chatsapp/providers/ai"
)

// perMessageOverhead approximates the role/separator framing cost each
// message adds on top of its content tokens.
const perMessageOverhead = 4

// replyPrimingOverhead approximates the trailing assistant-priming tokens
// appended to the whole conversation.
const replyPrimingOverhead = 3

// Estimator counts tokens with a fixed encoding. It is immutable after
// construction and safe for concurrent use.
type Estimator struct {
	encoding *tiktoken.Tiktoken
}

// NewEstimator creates an Estimator backed by the cl100k_base encoding.
func NewEstimator() (*Estimator, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &Estimator{encoding: encoding}, nil
}

// CountText returns the token count of a single text fragment.
func (e *Estimator) CountText(text string) int {
	return len(e.encoding.Encode(text, nil, nil))
}

// CountMessages returns the estimated prompt size of a message list,
// including per-message framing overhead.
func (e *Estimator) CountMessages(messages []ai.Message) int {
	tokens := replyPrimingOverhead
	for _, message := range messages {
		tokens += perMessageOverhead
		tokens += e.CountText(message.Content)
		tokens += e.CountText(string(message.Role))
	}
	return tokens
}

// TrimToBudget drops the oldest non-system messages until the estimated
// prompt size fits the budget. The system message (and relative order of
// everything kept) is preserved. A budget of zero or less disables
// trimming. The most recent message is always kept, even when it alone
// exceeds the budget.
func (e *Estimator) TrimToBudget(messages []ai.Message, budget int) []ai.Message {
	if budget <= 0 || e.CountMessages(messages) <= budget {
		return messages
	}

	var system []ai.Message
	var turns []ai.Message
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			system = append(system, message)
		} else {
			turns = append(turns, message)
		}
	}

	for len(turns) > 1 {
		candidate := append(append([]ai.Message{}, system...), turns...)
		if e.CountMessages(candidate) <= budget {
			break
		}
		turns = turns[1:]
	}

	return append(append([]ai.Message{}, system...), turns...)
}
