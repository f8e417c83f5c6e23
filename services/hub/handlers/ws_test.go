package handlers

import (
	"testing"
	"time"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

func TestAlertHub_Broadcast(t *testing.T) {
	t.Run("delivers to subscribers", func(t *testing.T) {
		hub := NewAlertHub()
		ch := hub.subscribe()
		defer hub.unsubscribe(ch)

		update := datatypes.RegulationUpdate{Version: "v-1", Reason: "mudança"}
		hub.Broadcast(update)

		select {
		case got := <-ch:
			if got.Version != "v-1" {
				t.Errorf("expected version v-1, got %q", got.Version)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for broadcast")
		}
	})

	t.Run("drops messages for a full subscriber instead of blocking", func(t *testing.T) {
		hub := NewAlertHub()
		ch := hub.subscribe()
		defer hub.unsubscribe(ch)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < cap(ch)+5; i++ {
				hub.Broadcast(datatypes.RegulationUpdate{Version: "v-flood"})
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Broadcast blocked on a slow subscriber")
		}
	})

	t.Run("broadcast with no subscribers is a no-op", func(t *testing.T) {
		hub := NewAlertHub()
		hub.Broadcast(datatypes.RegulationUpdate{Version: "v-1"})
	})
}
