package main

import (
	"testing"
	"time"
)

func TestAnalyticsTrackAndFlush(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)

	a.Track(EvtPlayerKill, 1, "sess1", "")
	a.Track(EvtPlayerDeath, 2, "sess1", "")
	a.Track(EvtSessionStart, 0, "sess1", "")

	// Stop drains and flushes the queue
	a.Stop()

	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatalf("event counts: %v", err)
	}
	if counts[EvtPlayerKill] != 1 || counts[EvtPlayerDeath] != 1 || counts[EvtSessionStart] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestAnalyticsDAU(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)

	a.Track(EvtLogin, 1, "", "")
	a.Track(EvtPlayerKill, 1, "s", "")
	a.Track(EvtLogin, 2, "", "")
	a.Stop()

	dau, err := a.DAUCount()
	if err != nil {
		t.Fatalf("dau: %v", err)
	}
	if dau != 2 {
		t.Errorf("expected 2 distinct players, got %d", dau)
	}
}

func TestAnalyticsLiveMetrics(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Stop()

	a.SetConcurrentPeers(7)
	a.SetActiveSessions(3)
	peers, sessions := a.GetLiveMetrics()
	if peers != 7 || sessions != 3 {
		t.Errorf("expected (7, 3), got (%d, %d)", peers, sessions)
	}
}

func TestAnalyticsDropWhenFull(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Stop()

	// Far more events than the queue holds; Track must never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5000; i++ {
			a.Track(EvtPickup, int64(i), "s", "")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Track blocked on a full queue")
	}
}
