package uistate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type contact struct {
	Name string
}

func TestEqualComparesEmptyAndLoadingByKind(t *testing.T) {
	require.True(t, Equal[contact](Empty[contact]{}, Empty[contact]{}))
	require.True(t, Equal[[]contact](Loading[[]contact]{}, Loading[[]contact]{}))
	require.False(t, Equal[contact](Empty[contact]{}, Loading[contact]{}))

	// kinds line up across payload types
	require.Equal(t, Empty[contact]{}.Kind(), Empty[[]contact]{}.Kind())
}

func TestEqualComparesSuccessPayloadAndSignal(t *testing.T) {
	a := Succeed(contact{Name: "Ada"})
	require.True(t, Equal[contact](a, Succeed(contact{Name: "Ada"})))
	require.False(t, Equal[contact](a, Succeed(contact{Name: "Bob"})))
	require.False(t, Equal[contact](a, SucceedAdvance(contact{Name: "Ada"})))

	list := Succeed([]contact{{Name: "Ada"}})
	require.True(t, Equal[[]contact](list, Succeed([]contact{{Name: "Ada"}})))
}

func TestErrorSignals(t *testing.T) {
	plain := Fail[contact]("boom")
	require.False(t, plain.Advance())
	require.False(t, plain.Retreat())
	require.Equal(t, "boom", plain.Message())

	back := FailRetreat[contact]("not found")
	require.True(t, back.Retreat())
	require.False(t, back.Advance())

	fwd := FailAdvance[contact]("saved with warnings")
	require.True(t, fwd.Advance())
	require.False(t, fwd.Retreat())

	require.False(t, Equal[contact](plain, back))
	require.True(t, Equal[contact](back, FailRetreat[contact]("not found")))
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "Empty", Describe[contact](Empty[contact]{}))
	require.Equal(t, "Loading", Describe[contact](Loading[contact]{}))
	require.Equal(t, "Success(advance)", Describe[contact](SucceedAdvance(contact{})))
	require.Equal(t, `Error("not found", retreat)`, Describe[contact](FailRetreat[contact]("not found")))
}
