package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/uistate"
)

type currentStateMsg struct{ state uistate.State[domain.Person] }

type listStateMsg struct{ state uistate.State[[]domain.Person] }

type countMsg int

// waitCurrent blocks on the next detail state transition.
func waitCurrent(ch <-chan uistate.State[domain.Person]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return currentStateMsg{s}
	}
}

// waitList blocks on the next list state transition.
func waitList(ch <-chan uistate.State[[]domain.Person]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return listStateMsg{s}
	}
}
