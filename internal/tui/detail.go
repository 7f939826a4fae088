package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/uistate"
	"github.com/jask/jaskcontacts/internal/validation"
)

var detailFields = []validation.Field{
	validation.FirstName,
	validation.LastName,
	validation.Email,
	validation.Phone,
	validation.ImagePath,
}

// detailScreen edits one person. A nil id means a new person.
type detailScreen struct {
	id      *uuid.UUID
	inputs  []textinput.Model
	focus   int
	loading bool
	errs    validation.FieldErrors
}

func newDetailScreen(id *uuid.UUID, fs validation.Fields) *detailScreen {
	d := &detailScreen{id: id, loading: id != nil, errs: validation.FieldErrors{}}
	d.inputs = make([]textinput.Model, 0, len(detailFields))
	for i, f := range detailFields {
		inp := textinput.New()
		inp.Prompt = f.String() + ": "
		inp.SetValue(fs.Get(f))
		if i == 0 {
			inp.Focus()
		}
		d.inputs = append(d.inputs, inp)
	}
	return d
}

func (d *detailScreen) fill(fs validation.Fields) {
	for i, f := range detailFields {
		d.inputs[i].SetValue(fs.Get(f))
	}
	d.loading = false
}

func (d *detailScreen) move(dir int) {
	d.inputs[d.focus].Blur()
	d.focus = (d.focus + dir + len(d.inputs)) % len(d.inputs)
	d.inputs[d.focus].Focus()
}

// edit feeds a key to the focused input and reports whether its value changed.
func (d *detailScreen) edit(msg tea.KeyMsg) (validation.Field, string, bool, tea.Cmd) {
	before := d.inputs[d.focus].Value()
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	after := d.inputs[d.focus].Value()
	return detailFields[d.focus], after, after != before, cmd
}

func (d *detailScreen) view(current uistate.State[domain.Person]) string {
	title := "New contact"
	if d.id != nil {
		title = "Edit contact"
	}
	lines := []string{titleStyle.Render(title), ""}
	if d.loading || current.Kind() == uistate.KindLoading {
		lines = append(lines, mutedStyle.Render("loading..."), "")
	}
	for i, f := range detailFields {
		line := d.inputs[i].View()
		if msg, ok := d.errs[f]; ok {
			line += "  " + fieldErrStyle.Render(msg)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
