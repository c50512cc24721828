package ai

import (
	"errors"
	"testing"
)

// TestChatStream_Collect verifies that content events concatenate in order
// and the final usage is captured.
func TestChatStream_Collect(t *testing.T) {
	stream := NewChatStream(func(yield func(StreamEvent, error) bool) {
		events := []StreamEvent{
			{Type: StreamEventContent, Content: "Hel"},
			{Type: StreamEventContent, Content: "lo"},
			{Type: StreamEventUsage, Usage: &Usage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7}},
			{Type: StreamEventDone, FinishReason: "stop"},
		}
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
	})

	content, usage, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if content != "Hello" {
		t.Errorf("content = %q, want Hello", content)
	}
	if usage == nil || usage.TotalTokens != 7 {
		t.Errorf("usage = %+v, want TotalTokens 7", usage)
	}
}

// TestChatStream_CollectMidStreamError verifies that an error terminates
// collection and the partial content is still returned.
func TestChatStream_CollectMidStreamError(t *testing.T) {
	streamErr := errors.New("stream interrupted")
	stream := NewChatStream(func(yield func(StreamEvent, error) bool) {
		if !yield(StreamEvent{Type: StreamEventContent, Content: "partial"}, nil) {
			return
		}
		yield(StreamEvent{}, streamErr)
	})

	content, _, err := stream.Collect()
	if !errors.Is(err, streamErr) {
		t.Fatalf("Collect returned %v, want the stream error", err)
	}
	if content != "partial" {
		t.Errorf("content = %q, want the partial accumulation", content)
	}
}

// TestChatStream_IterEarlyBreak verifies that breaking out of the range loop
// stops the iterator.
func TestChatStream_IterEarlyBreak(t *testing.T) {
	yielded := 0
	stream := NewChatStream(func(yield func(StreamEvent, error) bool) {
		for i := 0; i < 10; i++ {
			yielded++
			if !yield(StreamEvent{Type: StreamEventContent, Content: "x"}, nil) {
				return
			}
		}
	})

	seen := 0
	for range stream.Iter() {
		seen++
		if seen == 3 {
			break
		}
	}

	if yielded != 3 {
		t.Errorf("iterator yielded %d events after break, want 3", yielded)
	}
}
