package event

import (
	"reflect"
	"testing"
)

type ping struct{ n int }
type pong struct{ n int }

func TestPublishInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(ping) { got = append(got, "a") })
	Subscribe(b, func(ping) { got = append(got, "b") })
	Subscribe(b, func(ping) { got = append(got, "c") })

	Publish(b, ping{n: 1})

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order=%v want=%v", got, want)
	}
}

func TestPublishIsDepthFirst(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(p ping) {
		got = append(got, "ping-1")
		Publish(b, pong{n: p.n})
	})
	Subscribe(b, func(ping) { got = append(got, "ping-2") })
	Subscribe(b, func(pong) { got = append(got, "pong") })

	Publish(b, ping{n: 7})

	want := []string{"ping-1", "pong", "ping-2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order=%v want=%v", got, want)
	}
	if b.MaxDepth() != 2 {
		t.Fatalf("max depth=%d want=2", b.MaxDepth())
	}
	if b.Depth() != 0 {
		t.Fatalf("depth=%d want=0 after publish", b.Depth())
	}
}

func TestPublishWithoutHandlers(t *testing.T) {
	b := NewBus()
	Publish(b, ping{n: 1})
	if HandlerCount[ping](b) != 0 {
		t.Fatalf("handler count=%d want=0", HandlerCount[ping](b))
	}
}

func TestSubscribeDuringPublishDoesNotReceiveCurrentEvent(t *testing.T) {
	b := NewBus()
	late := 0
	Subscribe(b, func(ping) {
		Subscribe(b, func(ping) { late++ })
	})

	Publish(b, ping{})
	if late != 0 {
		t.Fatalf("late handler called %d times during its own registration publish", late)
	}
	Publish(b, ping{})
	if late != 1 {
		t.Fatalf("late handler calls=%d want=1", late)
	}
}

func TestEventsAreKeyedByType(t *testing.T) {
	b := NewBus()
	pings, pongs := 0, 0
	Subscribe(b, func(ping) { pings++ })
	Subscribe(b, func(pong) { pongs++ })

	Publish(b, pong{})
	Publish(b, pong{})
	Publish(b, ping{})

	if pings != 1 || pongs != 2 {
		t.Fatalf("pings=%d pongs=%d want=1,2", pings, pongs)
	}
}

func TestTapSeesEventsInPublishOrder(t *testing.T) {
	b := NewBus()
	Subscribe(b, func(p ping) { Publish(b, pong{n: p.n}) })
	var got []string
	b.Tap(func(e any) {
		switch e.(type) {
		case ping:
			got = append(got, "ping")
		case pong:
			got = append(got, "pong")
		}
	})

	Publish(b, ping{n: 1})

	want := []string{"ping", "pong"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order=%v want=%v", got, want)
	}
}
