package livewire

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "vip1",
	}

	hub.register <- client

	hub.Broadcast(Update{Action: "result", Category: "vip1", GameID: "g1", Status: "won"})

	select {
	case got := <-client.Send:
		var u Update
		if err := json.Unmarshal(got, &u); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if u.Action != "result" || u.GameID != "g1" || u.Status != "won" {
			t.Fatalf("unexpected update: %+v", u)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for update")
	}

	hub.unregister <- client
}

func TestBroadcastSkipsOtherRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	vip2 := &Client{Send: make(chan []byte, 10), Room: "vip2"}
	hub.register <- vip2

	hub.Broadcast(Update{Action: "result", Category: "vip1", GameID: "g1"})

	select {
	case <-vip2.Send:
		t.Fatal("vip2 must not receive vip1 updates")
	case <-time.After(100 * time.Millisecond):
	}
}
