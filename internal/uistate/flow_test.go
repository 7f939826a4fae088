package uistate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFlowStartsEmpty(t *testing.T) {
	f := NewFlow[contact]()
	require.Equal(t, KindEmpty, f.Value().Kind())
}

func TestFlowSetSkipsEqualValues(t *testing.T) {
	f := NewFlow[contact]()
	require.True(t, f.Set(Loading[contact]{}))
	require.False(t, f.Set(Loading[contact]{}))
	require.True(t, f.Set(Succeed(contact{Name: "Ada"})))
	require.False(t, f.Set(Succeed(contact{Name: "Ada"})))
}

func TestFlowDeliversEveryTransitionInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFlow[contact]()
	ch := f.Subscribe(ctx)

	// writer runs ahead of the reader
	f.Set(Loading[contact]{})
	f.Set(Succeed(contact{Name: "Ada"}))
	f.Set(Fail[contact]("save failed"))
	f.Set(Succeed(contact{Name: "Ada"}))

	want := []string{"Empty", "Loading", "Success", `Error("save failed")`, "Success"}
	for _, w := range want {
		select {
		case s := <-ch:
			require.Equal(t, w, Describe(s))
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", w)
		}
	}
}

func TestFlowSubscriptionClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := NewFlow[contact]()
	ch := f.Subscribe(ctx)
	<-ch // initial value
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.subs) == 0
	}, time.Second, 5*time.Millisecond)
}
