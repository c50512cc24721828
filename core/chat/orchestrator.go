// Package chat drives one end-to-end chat turn: load history, resolve the
// adapter, stream the completion under the retry policy, relay tokens to the
// caller's sink in emission order, and accumulate the final reply.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/core/registry"
	"github.com/minhuy206/chatsapp/core/retry"
	"github.com/minhuy206/chatsapp/internal/tokenizer"
	"github.com/minhuy206/chatsapp/providers/ai"
	"github.com/minhuy206/chatsapp/providers/memory"
)

// genericErrorMessage is rendered when a failure is not a taxonomy error
// (persistence, cancellation). Internal detail stays in the logs.
const genericErrorMessage = "Something went wrong. Please try again."

// Result is the outcome of a successful turn.
type Result struct {
	// Content is the full assistant reply: the concatenation of every
	// relayed token in emission order.
	Content string
	// LatencyMs is the elapsed wall time of the turn in milliseconds.
	LatencyMs int64
	// Usage is the provider-reported token usage, when available.
	Usage *ai.Usage
}

// Orchestrator coordinates the core components for one turn at a time. It
// holds no per-turn state and is safe for concurrent use.
type Orchestrator struct {
	registry  *registry.Registry
	store     memory.Store
	retrier   *retry.Driver
	policy    retry.Policy
	estimator *tokenizer.Estimator
	logger    *slog.Logger
}

// NewOrchestrator wires the orchestrator's collaborators. The estimator is
// optional: a nil estimator disables history trimming. A nil logger falls
// back to slog.Default().
func NewOrchestrator(reg *registry.Registry, store memory.Store, retrier *retry.Driver, estimator *tokenizer.Estimator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		registry:  reg,
		store:     store,
		retrier:   retrier,
		policy:    retry.DefaultPolicy(),
		estimator: estimator,
		logger:    logger,
	}
}

// WithPolicy overrides the default retry policy.
func (o *Orchestrator) WithPolicy(policy retry.Policy) *Orchestrator {
	o.policy = policy
	return o
}

// StreamTurn runs one chat turn for the conversation against the given
// model and relays boundary events to sink as they occur.
//
// Event sequence on success: metadata, one token event per provider delta
// in emission order, a completion token carrying the turn latency, then
// done. On failure an error event with the safe user message is emitted
// instead of the completion token, and the underlying error is returned
// unchanged for the boundary to map to a transport status.
//
// The provider call — including full stream consumption — runs inside the
// retry driver, so a retryable mid-stream failure restarts the stream; the
// accumulation buffer is reset per attempt so the final content never mixes
// attempts. Tokens are relayed synchronously on the calling goroutine.
// Cancelling ctx stops token delivery without a retry.
//
// The orchestrator persists nothing: whether to store an assistant message
// (or a partial one after a mid-stream failure) is the boundary's decision.
func (o *Orchestrator) StreamTurn(ctx context.Context, conversationID, model string, sink Sink) (*Result, error) {
	start := time.Now()

	stored, err := o.store.Messages(ctx, conversationID)
	if err != nil {
		sink(errorEvent(genericErrorMessage))
		return nil, err
	}
	history := memory.History(stored)

	if o.estimator != nil {
		if budget := o.registry.ContextTokens(model); budget > 0 {
			trimmed := o.estimator.TrimToBudget(history, budget)
			if len(trimmed) < len(history) {
				o.logger.Debug("trimmed history to context budget",
					"conversation_id", conversationID,
					"model", model,
					"dropped", len(history)-len(trimmed),
				)
			}
			history = trimmed
		}
	}

	adapter, err := o.registry.Resolve(model)
	if err != nil {
		sink(o.failureEvent(err))
		return nil, err
	}

	sink(metadataEvent(conversationID, model))

	request := ai.ChatRequest{
		Model:    model,
		Messages: history,
	}

	var content strings.Builder
	var usage *ai.Usage

	attempt := func() error {
		// Reset per attempt so a retried stream does not append to the
		// previous partial reply.
		content.Reset()
		usage = nil

		stream, err := adapter.StreamMessage(ctx, request)
		if err != nil {
			return err
		}

		for event, iterErr := range stream.Iter() {
			if iterErr != nil {
				return iterErr
			}

			switch event.Type {
			case ai.StreamEventContent:
				content.WriteString(event.Content)
				sink(tokenEvent(event.Content))
			case ai.StreamEventUsage:
				usage = event.Usage
			case ai.StreamEventDone:
				// Finish reason is provider detail; nothing to relay.
			}
		}

		return nil
	}

	if err := o.retrier.Do(ctx, o.policy, attempt); err != nil {
		sink(o.failureEvent(err))
		return nil, err
	}

	latencyMs := time.Since(start).Milliseconds()
	sink(completionEvent(latencyMs))
	sink(doneEvent())

	o.logger.Info("chat turn completed",
		"conversation_id", conversationID,
		"model", model,
		"latency_ms", latencyMs,
		"reply_chars", content.Len(),
	)

	return &Result{
		Content:   content.String(),
		LatencyMs: latencyMs,
		Usage:     usage,
	}, nil
}

// failureEvent renders the safe user-facing message for err: the taxonomy
// user message when the error is a taxonomy instance, a generic message
// otherwise.
func (o *Orchestrator) failureEvent(err error) Event {
	var taxonomyErr *llmerr.Error
	if errors.As(err, &taxonomyErr) {
		return errorEvent(taxonomyErr.UserMessage())
	}
	return errorEvent(genericErrorMessage)
}
