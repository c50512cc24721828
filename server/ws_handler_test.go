package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/minhuy206/chatsapp/core/chat"
	"github.com/minhuy206/chatsapp/providers/ai"
)

// dialWS upgrades a test connection against the given path with the bearer
// token attached.
func dialWS(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + path
	header := http.Header{"Authorization": []string{"Bearer " + testToken}}

	conn, response, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		status := 0
		if response != nil {
			status = response.StatusCode
		}
		t.Fatalf("websocket dial failed (status %d): %v", status, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// TestChatWS_Success verifies that the WebSocket transport carries the same
// event sequence as SSE and persists both sides of the turn.
func TestChatWS_Success(t *testing.T) {
	handler, store := newTestServer(t, &stubProvider{reply: "Hello there"})
	server := httptest.NewServer(handler)
	defer server.Close()

	conversation, err := store.CreateConversation(context.Background(), "chat")
	if err != nil {
		t.Fatal(err)
	}

	conn := dialWS(t, server, "/api/conversations/"+conversation.ID+"/ws")

	if err := conn.WriteJSON(chatRequest{Message: "hi", Model: "gpt-4o"}); err != nil {
		t.Fatalf("failed to send chat request: %v", err)
	}

	var events []chat.Event
	for {
		var event chat.Event
		if err := conn.ReadJSON(&event); err != nil {
			break // server closed after the final event
		}
		events = append(events, event)
		if event.Type == chat.EventDone || event.Type == chat.EventError {
			break
		}
	}

	if len(events) < 4 {
		t.Fatalf("got %d events, want the full sequence: %+v", len(events), events)
	}
	if events[0].Type != chat.EventMetadata {
		t.Errorf("first event = %+v, want metadata", events[0])
	}
	if events[len(events)-1].Type != chat.EventDone {
		t.Errorf("last event = %+v, want done", events[len(events)-1])
	}

	messages, err := store.Messages(context.Background(), conversation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 || messages[1].Role != ai.RoleAssistant {
		t.Errorf("stored messages = %+v, want user and assistant", messages)
	}
}

// TestChatWS_InvalidFirstFrame verifies that a frame without message and
// model gets an error event.
func TestChatWS_InvalidFirstFrame(t *testing.T) {
	handler, store := newTestServer(t, &stubProvider{reply: "ok"})
	server := httptest.NewServer(handler)
	defer server.Close()

	conversation, err := store.CreateConversation(context.Background(), "chat")
	if err != nil {
		t.Fatal(err)
	}

	conn := dialWS(t, server, "/api/conversations/"+conversation.ID+"/ws")

	if err := conn.WriteJSON(chatRequest{Message: "hi"}); err != nil {
		t.Fatal(err)
	}

	var event chat.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("failed to read error event: %v", err)
	}
	if event.Type != chat.EventError {
		t.Errorf("event = %+v, want error", event)
	}
}

// TestChatWS_UnknownConversation verifies the pre-upgrade existence check.
func TestChatWS_UnknownConversation(t *testing.T) {
	handler, _ := newTestServer(t, &stubProvider{reply: "ok"})
	server := httptest.NewServer(handler)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/conversations/missing/ws"
	header := http.Header{"Authorization": []string{"Bearer " + testToken}}

	_, response, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		t.Fatal("expected the dial to fail for an unknown conversation")
	}
	if response == nil || response.StatusCode != http.StatusNotFound {
		t.Errorf("handshake response = %+v, want 404", response)
	}
}
