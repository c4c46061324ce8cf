package app

import "testing"

func TestHubRoleTargeting(t *testing.T) {
	hub := NewHub()

	adminCh, cancelAdmin := hub.Subscribe(RoleAdmin, "")
	defer cancelAdmin()
	playerCh, cancelPlayer := hub.Subscribe(RolePlayer, "u1")
	defer cancelPlayer()

	hub.Broadcast(Event{Type: "questions"}.To(RoleAdmin))

	if ev := <-adminCh; ev.Type != "questions" {
		t.Fatalf("admin: got %s", ev.Type)
	}
	select {
	case ev := <-playerCh:
		t.Fatalf("player received admin-only event %s", ev.Type)
	default:
	}
}

func TestHubUserTargeting(t *testing.T) {
	hub := NewHub()

	aliceCh, cancelAlice := hub.Subscribe(RolePlayer, "alice")
	defer cancelAlice()
	bobCh, cancelBob := hub.Subscribe(RolePlayer, "bob")
	defer cancelBob()

	hub.Broadcast(Event{Type: "revealResult"}.ToUser("alice"))

	if ev := <-aliceCh; ev.Type != "revealResult" {
		t.Fatalf("alice: got %s", ev.Type)
	}
	select {
	case ev := <-bobCh:
		t.Fatalf("bob received alice's event %s", ev.Type)
	default:
	}
}

func TestHubDropsStaleForSlowSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(RoleWall, "")
	defer cancel()

	// Overflow the buffer without reading; the broadcast must not block.
	for i := 0; i < 40; i++ {
		hub.Broadcast(Event{Type: "tick", Payload: i})
	}

	// The newest event survives even though older ones were dropped.
	var last Event
	for {
		select {
		case ev := <-ch:
			last = ev
			continue
		default:
		}
		break
	}
	if last.Payload != 39 {
		t.Fatalf("newest event lost, last seen %v", last.Payload)
	}
}

func TestHubCancelIsIdempotent(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe(RoleWall, "")
	cancel()
	cancel()
	if n := hub.SubscriberCount(""); n != 0 {
		t.Fatalf("subscribers left after cancel: %d", n)
	}
}
