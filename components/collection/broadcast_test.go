package collection

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish(Event{Resource: "leads", Reason: ReasonCommit, ItemID: "l1"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case event := <-ch:
			if event.ItemID != "l1" {
				t.Fatalf("subscriber %d got %#v", i, event)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}

func TestBroadcasterCancelClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	// Publishing after cancel must not panic.
	b.Publish(Event{Resource: "leads", Reason: ReasonLoad})
}

func TestBroadcasterDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroadcaster()
	_, cancel := b.Subscribe()
	defer cancel()
	for i := 0; i < 64; i++ {
		b.Publish(Event{Resource: "leads", Reason: ReasonOptimistic})
	}
}

func TestServeSSEStreamsEvents(t *testing.T) {
	b := NewBroadcaster()
	server := httptest.NewServer(http.HandlerFunc(b.ServeSSE))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
	defer resp.Body.Close()

	go func() {
		// Give the handler a beat to subscribe before publishing.
		time.Sleep(50 * time.Millisecond)
		b.Publish(Event{Resource: "partners", Reason: ReasonReconcile, ItemID: "p9"})
	}()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read returned error: %v", err)
	}
	if !strings.HasPrefix(line, "data: ") || !strings.Contains(line, `"p9"`) {
		t.Fatalf("unexpected SSE line: %q", line)
	}
}
