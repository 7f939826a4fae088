package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/service"
	"github.com/jask/jaskcontacts/internal/uistate"
	"github.com/jask/jaskcontacts/internal/validation"
	"github.com/jask/jaskcontacts/internal/viewmodel"
)

type screen string

const (
	screenList   screen = "list"
	screenDetail screen = "detail"
)

// notice is a dismissible error carrying the navigation to run on dismissal.
type notice struct {
	message string
	advance bool
	retreat bool
	list    bool
}

// App renders the people coordinator and routes key presses to it.
type App struct {
	ctx    context.Context
	vm     *viewmodel.People
	keys   *KeyRegistry
	screen screen

	currentCh <-chan uistate.State[domain.Person]
	listCh    <-chan uistate.State[[]domain.Person]
	current   uistate.State[domain.Person]
	listState uistate.State[[]domain.Person]

	people    []domain.Person
	count     int
	cursor    int
	search    textinput.Model
	searching bool
	detail    *detailScreen
	notice    *notice
	status    string
}

// New subscribes to vm for the lifetime of ctx.
func New(ctx context.Context, vm *viewmodel.People) *App {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search name, email, phone"
	return &App{
		ctx:       ctx,
		vm:        vm,
		keys:      NewKeyRegistry(),
		screen:    screenList,
		currentCh: vm.Current().Subscribe(ctx),
		listCh:    vm.List().Subscribe(ctx),
		current:   vm.Current().Value(),
		listState: vm.List().Value(),
		search:    search,
	}
}

func (a *App) Init() tea.Cmd {
	a.vm.LoadAll()
	return tea.Batch(waitCurrent(a.currentCh), waitList(a.listCh))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case currentStateMsg:
		a.onCurrent(m.state)
		return a, waitCurrent(a.currentCh)
	case listStateMsg:
		return a, tea.Batch(waitList(a.listCh), a.onList(m.state))
	case countMsg:
		a.count = int(m)
	case tea.KeyMsg:
		scope := a.scope()
		action := a.keys.Lookup(m.String(), scope)
		if action == actionQuit {
			return a, tea.Quit
		}
		switch scope {
		case scopeNotice:
			return a.handleNoticeKey(action)
		case scopeDetail:
			return a.handleDetailKey(m, action)
		case scopeSearch:
			return a.handleSearchKey(m, action)
		}
		return a.handleListKey(action)
	}
	return a, nil
}

func (a *App) onCurrent(s uistate.State[domain.Person]) {
	a.current = s
	switch st := s.(type) {
	case uistate.Success[domain.Person]:
		if a.screen != screenDetail || a.detail == nil {
			return
		}
		if st.Advance() {
			a.status = "saved " + st.Data.FullName()
			a.leaveDetail()
			return
		}
		if a.detail.loading {
			a.detail.fill(a.vm.Fields())
		}
	case uistate.Error[domain.Person]:
		if a.detail != nil {
			a.detail.errs = a.vm.FieldErrors()
		}
		a.notice = &notice{message: st.Message(), advance: st.Advance(), retreat: st.Retreat()}
	}
}

func (a *App) onList(s uistate.State[[]domain.Person]) tea.Cmd {
	a.listState = s
	switch st := s.(type) {
	case uistate.Success[[]domain.Person]:
		a.people = st.Data
	case uistate.Empty[[]domain.Person]:
		a.people = nil
	case uistate.Error[[]domain.Person]:
		a.notice = &notice{message: st.Message(), list: true}
		return nil
	default:
		return nil
	}
	a.clampCursor()
	return a.countCmd()
}

func (a *App) visible() []domain.Person {
	return service.Filter(a.people, a.search.Value())
}

func (a *App) clampCursor() {
	n := len(a.visible())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// leaveDetail returns to the list and discards the detail state.
func (a *App) leaveDetail() {
	a.screen = screenList
	a.detail = nil
	a.vm.ClearState()
}

// scope names the key scope that currently owns input.
func (a *App) scope() string {
	switch {
	case a.notice != nil:
		return scopeNotice
	case a.screen == screenDetail && a.detail != nil:
		return scopeDetail
	case a.searching:
		return scopeSearch
	}
	return scopeList
}

func (a *App) handleNoticeKey(action Action) (tea.Model, tea.Cmd) {
	if action != actionDismiss {
		return a, nil
	}
	n := a.notice
	a.notice = nil
	if n.list {
		a.vm.AcknowledgeList()
		return a, nil
	}
	a.vm.Acknowledge()
	switch {
	case n.retreat:
		a.status = n.message
		a.leaveDetail()
	case n.advance:
		a.leaveDetail()
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg, action Action) (tea.Model, tea.Cmd) {
	switch action {
	case actionCancel:
		a.search.SetValue("")
		fallthrough
	case actionApply:
		a.searching = false
		a.search.Blur()
		a.clampCursor()
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	a.cursor = 0
	return a, cmd
}

func (a *App) handleListKey(action Action) (tea.Model, tea.Cmd) {
	visible := a.visible()
	switch action {
	case actionSearch:
		a.searching = true
		return a, a.search.Focus()
	case actionUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case actionDown:
		if a.cursor < len(visible)-1 {
			a.cursor++
		}
	case actionNew:
		a.vm.ClearState()
		a.detail = newDetailScreen(nil, validation.Fields{})
		a.screen = screenDetail
		a.status = ""
	case actionOpen:
		if len(visible) == 0 {
			return a, nil
		}
		id := visible[a.cursor].ID
		a.detail = newDetailScreen(&id, validation.Fields{})
		a.screen = screenDetail
		a.status = ""
		return a, a.readCmd(id)
	case actionDelete:
		if len(visible) == 0 {
			return a, nil
		}
		return a, a.removeCmd(visible[a.cursor])
	case actionReload:
		a.vm.LoadAll()
		a.status = "reloading"
	}
	return a, nil
}

func (a *App) handleDetailKey(m tea.KeyMsg, action Action) (tea.Model, tea.Cmd) {
	switch action {
	case actionBack:
		a.leaveDetail()
		return a, nil
	case actionNext:
		a.detail.move(1)
		return a, nil
	case actionPrev:
		a.detail.move(-1)
		return a, nil
	case actionSave:
		if a.detail.loading || a.current.Kind() == uistate.KindLoading {
			return a, nil
		}
		return a, a.saveCmd(a.detail.id)
	}
	if a.detail.loading {
		return a, nil
	}
	field, value, changed, cmd := a.detail.edit(m)
	if changed {
		a.vm.OnFieldChange(field, value)
		a.detail.errs = a.vm.FieldErrors()
	}
	return a, cmd
}

// commands

func (a *App) readCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		a.vm.ReadByID(a.ctx, id)
		return nil
	}
}

func (a *App) saveCmd(id *uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		if id == nil {
			a.vm.Add(a.ctx)
		} else {
			a.vm.Update(a.ctx, *id)
		}
		return nil
	}
}

func (a *App) removeCmd(p domain.Person) tea.Cmd {
	return func() tea.Msg {
		a.vm.Remove(a.ctx, p)
		return nil
	}
}

func (a *App) countCmd() tea.Cmd {
	return func() tea.Msg {
		return countMsg(a.vm.Count(a.ctx))
	}
}

func (a *App) View() string {
	var body string
	if a.screen == screenDetail && a.detail != nil {
		body = a.detail.view(a.current)
	} else {
		body = a.renderList()
	}
	if a.status != "" {
		body += "\n\n" + mutedStyle.Render(a.status)
	}
	if a.notice != nil {
		body += "\n\n" + noticeStyle.Render(a.notice.message)
	}
	return body + "\n\n" + renderFooter(a.keys.HelpBindings(a.scope()))
}

func (a *App) renderList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Contacts (%d)", a.count)))
	b.WriteString("\n\n")
	if a.searching || a.search.Value() != "" {
		b.WriteString(a.search.View())
		b.WriteString("\n\n")
	}
	switch a.listState.Kind() {
	case uistate.KindLoading:
		b.WriteString(mutedStyle.Render("loading..."))
		b.WriteString("\n")
	case uistate.KindEmpty:
		b.WriteString(mutedStyle.Render("no contacts yet, press n to add one"))
		b.WriteString("\n")
	}
	for i, p := range a.visible() {
		line := "  " + p.FullName()
		if i == a.cursor {
			line = cursorStyle.Render("> " + p.FullName())
		}
		if email := domain.Deref(p.Email); email != "" {
			line += mutedStyle.Render("  " + email)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
