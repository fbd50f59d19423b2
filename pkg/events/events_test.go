package events

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/luxury-stays/pkg/logger"
)

func TestNewMsg_CarriesRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-7")
	evt := ReservationConfirmedEvent{ReservationID: "res-1", Guests: 2, Total: 640, Currency: "USD"}

	msg, err := newMsg(ctx, ReservationConfirmed, evt)
	if err != nil {
		t.Fatalf("newMsg: %v", err)
	}
	if msg.Subject != ReservationConfirmed || msg.Header.Get("X-Request-ID") != "req-7" {
		t.Errorf("subject=%q header=%v", msg.Subject, msg.Header)
	}

	got := wrap(msg)
	if got.ID != "req-7" {
		t.Errorf("ID = %q", got.ID)
	}
	var back ReservationConfirmedEvent
	if err := got.Decode(&back); err != nil {
		t.Fatal(err)
	}
	if back.ReservationID != "res-1" || back.Total != 640 || back.Guests != 2 {
		t.Errorf("decoded = %+v", back)
	}
}

func TestNewMsg_RejectsUnencodable(t *testing.T) {
	if _, err := newMsg(context.Background(), InquiryReceived, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestWrap_WithoutHeaderGetsID(t *testing.T) {
	before := time.Now()
	m := wrap(&nats.Msg{Subject: InquiryReceived, Data: []byte(`{"kind":"contact"}`)})
	if m.ID == "" {
		t.Error("missing fallback id")
	}
	if m.Timestamp.Before(before) {
		t.Errorf("timestamp = %v", m.Timestamp)
	}
	var e InquiryReceivedEvent
	if err := m.Decode(&e); err != nil || e.Kind != "contact" {
		t.Errorf("decode = %+v, %v", e, err)
	}
}
