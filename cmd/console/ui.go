package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/amix-engine/internal/app"
	"github.com/jwebster45206/amix-engine/pkg/pet"
	"github.com/jwebster45206/amix-engine/pkg/textfilter"
)

const (
	minSideWidth = 30
	maxEnergyBar = 20
)

// ConsoleUI is the BubbleTea model that hosts the pet.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx      context.Context
	app      *app.App
	tickRate time.Duration

	logViewport viewport.Model
	history     []pet.Event
	status      string
	ready       bool
	width       int
	height      int

	showQuitModal bool
}

type frameMsg struct{}

var (
	sidePanelStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingRight(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	alienStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	translatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	energyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(ctx context.Context, a *app.App, tickRate time.Duration) ConsoleUI {
	vp := viewport.New(minSideWidth, 10)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		ctx:         ctx,
		app:         a,
		tickRate:    tickRate,
		logViewport: vp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.frame()
}

func (m ConsoleUI) frame() tea.Cmd {
	return tea.Tick(m.tickRate, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case frameMsg:
		m.app.Pet.Tick(m.ctx, m.tickRate)
		m.record(m.app.Flush(m.ctx))
		return m, m.frame()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = m.sideWidth() - 3
		m.logViewport.Height = max(3, m.height-18)
		m.ready = true
		m.writeLog()

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if hitsPet(msg.X, msg.Y, m.app.Pet.View().Patrol.Position) {
				m.app.Pet.Click()
			}
			return m, nil
		}
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		return m, vpCmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.showQuitModal = true
			return m, nil
		case "t":
			m.app.Pet.Talk(m.ctx)
			m.status = ""
		case "d":
			m.app.Pet.Dance()
			m.status = ""
		case "l":
			if _, err := m.app.Pet.DropItem(); errors.Is(err, pet.ErrItemPresent) {
				m.status = "There is already a leaf on the ground."
			} else {
				m.status = ""
			}
		case "p":
			if m.app.Pet.Paused() {
				m.app.Pet.Resume()
				m.status = ""
			} else {
				m.app.Pet.Pause()
				m.status = "Paused."
			}
		case "c":
			m.status = m.copySpeech()
		default:
			m.logViewport, vpCmd = m.logViewport.Update(msg)
			return m, vpCmd
		}
		m.record(m.app.Flush(m.ctx))
		return m, nil
	}

	m.logViewport, vpCmd = m.logViewport.Update(msg)
	return m, vpCmd
}

func (m ConsoleUI) copySpeech() string {
	speech := m.app.Pet.Speech()
	if speech == "" {
		return "Nothing to copy yet."
	}
	if err := clipboard.WriteAll(speech); err != nil {
		m.app.Logger.Warn("Failed to copy speech", "error", err)
		return "Clipboard unavailable."
	}
	return "Copied to clipboard."
}

// record keeps speech events for the log panel.
func (m *ConsoleUI) record(events []pet.Event) {
	changed := false
	for _, e := range events {
		if e.Type == pet.EventTypeSpeech || e.Type == pet.EventTypeItemConsumed {
			m.history = append(m.history, e)
			changed = true
		}
	}
	if changed {
		m.writeLog()
	}
}

func (m *ConsoleUI) writeLog() {
	width := max(10, m.logViewport.Width)
	var content strings.Builder
	for _, e := range m.history {
		stamp := labelStyle.Render(fmt.Sprintf("%6.1fs ", e.At.Seconds()))
		switch e.Type {
		case pet.EventTypeSpeech:
			text, _ := e.Data["text"].(string)
			content.WriteString(stamp + wordwrap.String(text, width-8) + "\n")
		case pet.EventTypeItemConsumed:
			content.WriteString(stamp + translatedStyle.Render("*munch*") + "\n")
		}
	}
	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m ConsoleUI) sideWidth() int {
	return max(minSideWidth, m.width-groundCols-4)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		// Keep the pet alive behind the modal.
		m.app.Pet.Tick(m.ctx, m.tickRate)
		m.record(m.app.Flush(m.ctx))
		return m, m.frame()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "y", "Y", "enter":
			return m, tea.Quit
		case "n", "N", "esc":
			m.showQuitModal = false
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave Amix?"))
	content.WriteString("\n\n")
	content.WriteString("Amix will be alone in the void again.")
	content.WriteString("\n\n")
	content.WriteString(labelStyle.Render("Press Y to quit, N to stay, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStatus(v pet.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(v.Identity.Name)) + "\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s from %s", v.Identity.Species, v.Identity.Homeworld)) + "\n\n")

	filled := v.Energy * maxEnergyBar / 100
	bar := energyStyle.Render(strings.Repeat("█", filled)) + labelStyle.Render(strings.Repeat("░", maxEnergyBar-filled))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Mood:  "), v.Mood))
	b.WriteString(fmt.Sprintf("%s %s %d\n", labelStyle.Render("Energy:"), bar, v.Energy))
	b.WriteString(fmt.Sprintf("%s %s / %s", labelStyle.Render("State: "), v.Patrol.State, v.Animation))
	if v.ResumeIn > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf(" (%.1fs)", v.ResumeIn.Seconds())))
	}
	b.WriteString("\n")
	return b.String()
}

// renderSpeech shows the last line in the alien script, or in plain text
// while translation is on.
func (m ConsoleUI) renderSpeech(v pet.View) string {
	if v.Speech == "" {
		return labelStyle.Render("Click Amix or press t to talk.")
	}
	width := m.sideWidth() - 6
	if v.Translated {
		return bubbleStyle.Render(translatedStyle.Render(wordwrap.String(v.Speech, width)))
	}
	return bubbleStyle.Render(alienStyle.Render(wordwrap.String(textfilter.Alienize(v.Speech), width)))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	v := m.app.Pet.View()

	side := lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatus(v),
		m.renderSpeech(v),
		"",
		titleStyle.Render("Heard so far"),
		m.logViewport.View(),
	)

	help := labelStyle.Render("t talk • d dance • l leaf • c copy • p pause • click pet • q quit")
	if m.status != "" {
		help = statusStyle.Render(m.status) + "  " + help
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		renderGround(v),
		sidePanelStyle.Width(m.sideWidth()).Render(side),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}
