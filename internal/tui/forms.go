package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jtallard/biblio/internal/tui/styles"
)

// form is a vertical stack of labeled text inputs with one focused field
// and per-field validation errors rendered inline.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	errors map[string]string
	keys   []string // field keys matching validation error keys
}

func newForm(title string, fields ...formField) *form {
	f := &form{
		title:  title,
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
		keys:   make([]string, len(fields)),
		errors: map[string]string{},
	}
	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.placeholder
		ti.CharLimit = 200
		ti.Width = 40
		if field.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if field.value != "" {
			ti.SetValue(field.value)
		}
		if i == 0 {
			ti.Focus()
		}
		f.labels[i] = field.label
		f.inputs[i] = ti
		f.keys[i] = field.key
	}
	return f
}

type formField struct {
	key         string
	label       string
	placeholder string
	value       string
	secret      bool
}

// Update routes key events to the focused input and handles tab cycling.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) setFocus(i int) {
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// value returns the trimmed value of the field with the given key.
func (f *form) value(key string) string {
	for i, k := range f.keys {
		if k == key {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

// rawValue returns the untrimmed value (passwords keep their spaces).
func (f *form) rawValue(key string) string {
	for i, k := range f.keys {
		if k == key {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f *form) setErrors(errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	f.errors = errs
}

// View renders the form with inline field errors.
func (f *form) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(f.title))
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			b.WriteString(styles.AccentStyle.Render("▸ " + label))
		} else {
			b.WriteString(styles.SubtitleStyle.Render("  " + label))
		}
		b.WriteString("\n  ")
		b.WriteString(input.View())
		b.WriteString("\n")
		if msg, ok := f.errors[f.keys[i]]; ok && msg != "" {
			b.WriteString("  " + styles.ErrorStyle.Render(msg) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter submit · tab next field · esc cancel"))
	return b.String()
}
