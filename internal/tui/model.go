// Package tui is the terminal rendition of the soil health screen.
package tui

import (
	"context"
	"errors"
	"strings"

	"soil_health"
	"soil_health/internal/form"
	"soil_health/internal/render"
	"soil_health/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	labelWidth   = 26
	defaultWidth = 80
	inFlightNote = "An analysis is already running."
	helpText     = "tab/↑↓ move · enter next/analyze · ctrl+s analyze · esc quit"
)

type (
	sloganMsg         service.Slogan
	sloganClosedMsg   struct{}
	submissionDoneMsg service.Status
)

// Model is the bubbletea model of one screen instance.
type Model struct {
	ctx      context.Context
	svc      *service.Service
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   styles

	slogans <-chan service.Slogan
	slogan  service.Slogan
	status  service.Status
	notice  string // validation or in-flight notice of the last submit attempt
	width   int
}

// New builds the model. Advances received on slogans are shown in the header.
func New(ctx context.Context, svc *service.Service, slogans <-chan service.Slogan) Model {
	st := defaultStyles()
	current := svc.Form.Snapshot()

	inputs := make([]textinput.Model, soil_health.FieldCount)
	for i, f := range soil_health.Fields {
		ti := textinput.New()
		ti.Placeholder = f.Label
		ti.Prompt = "│ "
		ti.CharLimit = 64
		ti.Width = 24
		ti.SetValue(current[i])
		inputs[i] = ti
	}
	inputs[0].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Spinner

	return Model{
		ctx:      ctx,
		svc:      svc,
		inputs:   inputs,
		spinner:  sp,
		renderer: newRenderer(defaultWidth),
		styles:   st,
		slogans:  slogans,
		slogan:   svc.Slogans.Current(),
		status:   svc.Submission.Status(),
		width:    defaultWidth,
	}
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSlogan(m.slogans))
}

// waitForSlogan blocks until the next rotation.
func waitForSlogan(ch <-chan service.Slogan) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return sloganClosedMsg{}
		}
		return sloganMsg(s)
	}
}

func (m Model) busy() bool { return m.status.State == soil_health.InFlight }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m.moveFocus(1), nil
			}
			return m.submit()
		case "ctrl+s":
			return m.submit()
		}
		return m.updateInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.renderer = newRenderer(msg.Width)
		return m, nil

	case sloganMsg:
		m.slogan = service.Slogan(msg)
		return m, waitForSlogan(m.slogans)

	case sloganClosedMsg:
		m.slogans = nil
		return m, nil

	case submissionDoneMsg:
		m.status = service.Status(msg)
		return m, nil

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

// updateInput forwards msg to the focused input and stores any edit.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		// Keys come from the fixed set, Set cannot fail here.
		_ = m.svc.Form.Set(soil_health.Fields[m.focus].Key, after)
	}
	return m, cmd
}

// submit starts one analysis. The button is disabled while one is in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}
	pending, err := m.svc.BeginAnalysis()
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		m.notice = verr.Notice()
		return m, nil
	case errors.Is(err, service.ErrSubmissionInFlight):
		m.notice = inFlightNote
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	m.status = m.svc.Submission.Status()
	return m, tea.Batch(m.spinner.Tick, m.run(pending))
}

func (m Model) run(p *service.Pending) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return submissionDoneMsg(p.Run(ctx))
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Soil Health Diagnostics"))
	b.WriteString("\n")
	b.WriteString(m.styles.Slogan.Render(m.slogan.Text))
	b.WriteString("\n")

	for i, f := range soil_health.Fields {
		label := f.Label
		if f.Unit != "" {
			label += " (" + f.Unit + ")"
		}
		style := m.styles.Label
		if i == m.focus {
			style = m.styles.Focused
		}
		b.WriteString(style.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	v := render.Result(m.status.State, m.status.Result, m.status.Failure)
	if v.Busy {
		b.WriteString(m.spinner.View() + " " + m.styles.Disabled.Render(v.ButtonLabel))
	} else {
		b.WriteString(m.styles.Button.Render(v.ButtonLabel))
	}
	b.WriteString("\n\n")

	for _, n := range []string{m.notice, v.Notice} {
		if n != "" {
			b.WriteString(m.styles.Notice.Render(n))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.styles.Status.Render(v.StatusLine))
	b.WriteString("\n")
	if v.Recommendations != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Heading.Render("Recommendations"))
		b.WriteString("\n")
		b.WriteString(m.recommendations(v.Recommendations))
	}

	b.WriteString(m.styles.Help.Render(helpText))
	return b.String()
}

func (m Model) recommendations(doc *render.Document) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(doc.Markdown()); err == nil {
			return out
		}
	}
	return doc.Text() + "\n"
}

// Run shows the screen until the user quits or ctx is done.
func Run(ctx context.Context, svc *service.Service) error {
	slogans, unsubscribe := svc.Slogans.Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(New(ctx, svc, slogans), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
