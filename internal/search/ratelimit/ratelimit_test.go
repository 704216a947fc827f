package ratelimit

import (
	"testing"
	"time"
)

func TestAllow_ConsumesBurst(t *testing.T) {
	l := New(3, time.Minute)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request beyond burst allowed")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Close()

	if !l.Allow("1.2.3.4") {
		t.Fatal("first key denied")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("second key denied after first key's token was spent")
	}
	if l.Allow("1.2.3.4") {
		t.Error("exhausted key allowed")
	}
}

func TestAllow_Refills(t *testing.T) {
	// 50 tokens per second refills one within 20ms.
	l := New(50, time.Second)
	defer l.Close()

	for i := 0; i < 50; i++ {
		l.Allow("k")
	}
	if l.Allow("k") {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(50 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("bucket did not refill")
	}
}
