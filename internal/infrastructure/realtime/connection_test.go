package realtime

import (
	"testing"

	"github.com/gorilla/websocket"
)

func TestConnectionStartsConnecting(t *testing.T) {
	conn := NewConnection("u1", nil)
	if conn.State() != StateConnecting {
		t.Fatalf("expected StateConnecting, got %v", conn.State())
	}
	if conn.ID == "" {
		t.Error("connection ID is empty")
	}
	if conn.IdentityID != "u1" {
		t.Errorf("expected identity u1, got %q", conn.IdentityID)
	}
}

func TestConnectionAdmit(t *testing.T) {
	conn := NewConnection("u1", nil)
	conn.Admit()
	if conn.State() != StateAdmitted {
		t.Fatalf("expected StateAdmitted, got %v", conn.State())
	}
}

func TestConnectionCloseIsTerminal(t *testing.T) {
	conn := NewConnection("u1", nil)
	conn.Admit()
	conn.Close(websocket.CloseNormalClosure, "bye")
	if conn.State() != StateDisconnected {
		t.Fatalf("expected StateDisconnected, got %v", conn.State())
	}

	// Admit must not resurrect a closed connection.
	conn.Admit()
	if conn.State() != StateDisconnected {
		t.Errorf("Admit after Close changed state to %v", conn.State())
	}

	// Close is idempotent.
	conn.Close(websocket.CloseNormalClosure, "again")
}

func TestConnectionSendAfterClose(t *testing.T) {
	conn := NewConnection("u1", nil)
	conn.Close(websocket.CloseNormalClosure, "bye")
	if err := conn.Send([]byte("late")); err == nil {
		t.Error("expected Send after Close to fail")
	}
}

func TestConnectionSendEnqueues(t *testing.T) {
	conn := NewConnection("u1", nil)
	if err := conn.Send([]byte("hello")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	select {
	case msg := <-conn.send:
		if string(msg) != "hello" {
			t.Errorf("expected hello, got %q", msg)
		}
	default:
		t.Error("no payload enqueued")
	}
}
