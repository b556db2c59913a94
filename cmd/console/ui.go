package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/ai-dungeon-master/internal/game"
	"github.com/jwebster45206/ai-dungeon-master/pkg/actor"
	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/muesli/reflow/wordwrap"
)

const (
	Title           = "AI DUNGEON MASTER"
	PlaceHolderText = "What do you do? (type help for commands)"
)

type entryKind int

const (
	entryPlayer entryKind = iota
	entryGame
	entryError
	entryInfo
)

// entry is one block of the transcript.
type entry struct {
	kind entryKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx          context.Context
	engine       *game.Engine
	log          *slog.Logger
	playerName   string
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool

	transcript []entry
	lastOutput string
	// meta is rebuilt only while no engine call is in flight.
	meta string

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int

	copyToClipboard func(string) error
}

type engineResultMsg struct {
	action game.Action
	text   string
	err    error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

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

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(ctx context.Context, engine *game.Engine, playerName string, log *slog.Logger) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		ctx:             ctx,
		engine:          engine,
		log:             log,
		playerName:      playerName,
		textarea:        ta,
		chatViewport:    chatVp,
		metaViewport:    metaVp,
		loading:         true,
		copyToClipboard: clipboard.WriteAll,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.startGame(), progressTick())
}

func (m ConsoleUI) startGame() tea.Cmd {
	return func() tea.Msg {
		text, err := m.engine.NewGame(m.ctx, m.playerName)
		return engineResultMsg{action: game.ActionUnknown, text: text, err: err}
	}
}

// runCommand executes cmd off the UI goroutine. Input stays locked until the
// result arrives, so the engine only ever sees one call at a time.
func (m ConsoleUI) runCommand(cmd game.Command) tea.Cmd {
	return func() tea.Msg {
		text, err := m.engine.Execute(m.ctx, cmd)
		return engineResultMsg{action: cmd.Action, text: text, err: err}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.72) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.meta)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.submit(input)
		}

	case engineResultMsg:
		m.loading = false
		m.handleResult(msg)
		m.refreshMeta()
		m.writeChatContent()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// submit handles one line of player input. Console-only commands are answered
// here; everything else goes to the engine.
func (m ConsoleUI) submit(input string) (tea.Model, tea.Cmd) {
	m.transcript = append(m.transcript, entry{kind: entryPlayer, text: input})
	cmd := game.ParseCommand(input)

	switch cmd.Action {
	case game.ActionQuit:
		m.showQuitModal = true
		m.writeChatContent()
		return m, nil
	case game.ActionHelp:
		m.transcript = append(m.transcript, entry{kind: entryInfo, text: game.HelpText})
		m.writeChatContent()
		return m, nil
	case game.ActionCopy:
		m.copyLastOutput()
		m.writeChatContent()
		return m, nil
	}

	m.loading = true
	m.progressTick = 0
	m.writeChatContent()
	return m, tea.Batch(m.runCommand(cmd), progressTick())
}

func (m *ConsoleUI) handleResult(msg engineResultMsg) {
	if msg.err != nil {
		m.log.Debug("Command failed", "action", msg.action.String(), "error", msg.err)
		text := "Error: " + msg.err.Error()
		if errors.Is(msg.err, game.ErrUnknownCommand) {
			text += "\nType help for commands."
		}
		m.transcript = append(m.transcript, entry{kind: entryError, text: text})
		return
	}

	text := strings.TrimRight(msg.text, "\n")
	if text != "" {
		m.transcript = append(m.transcript, entry{kind: entryGame, text: text})
		m.lastOutput = text
	}
	if m.engine.Over() {
		m.transcript = append(m.transcript, entry{kind: entryInfo, text: "Type load to restore your last save, or quit."})
	}
}

func (m *ConsoleUI) copyLastOutput() {
	if m.lastOutput == "" {
		m.transcript = append(m.transcript, entry{kind: entryInfo, text: "Nothing to copy yet."})
		return
	}
	if err := m.copyToClipboard(m.lastOutput); err != nil {
		m.log.Warn("Clipboard unavailable", "error", err)
		m.transcript = append(m.transcript, entry{kind: entryError, text: "Error: could not copy to clipboard: " + err.Error()})
		return
	}
	m.transcript = append(m.transcript, entry{kind: entryInfo, text: "Copied the last output to the clipboard."})
}

func (m *ConsoleUI) refreshMeta() {
	m.meta = writeMetadata(m.engine)
	m.metaViewport.SetContent(m.meta)
}

// writeChatContent rebuilds the transcript for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(Title) + "\n\n")
	content.WriteString("Explore the dungeon one room at a time. Type help for commands.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, e := range m.transcript {
		content.WriteString(formatEntry(e, chatWidth) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func formatEntry(e entry, width int) string {
	switch e.kind {
	case entryPlayer:
		return userStyle.Render("> ") + wordwrap.String(e.text, width-2)
	case entryError:
		return errorStyle.Render(wordwrap.String(e.text, width))
	case entryInfo:
		return promptStyle.Render(e.text)
	default:
		return formatGameText(e.text, width)
	}
}

// formatGameText wraps engine output and highlights room headings
// ("Room 3 - Room 4: ...").
func formatGameText(text string, width int) string {
	lines := strings.Split(wordwrap.String(text, width), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "Room ") {
			lines[i] = narratorStyle.Render(line)
			continue
		}
		if idx := strings.Index(line, ":"); idx > 0 {
			lines[i] = roomStyle.Render(line[:idx+1]) + narratorStyle.Render(line[idx+1:])
			continue
		}
		lines[i] = narratorStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

func writeMetadata(engine *game.Engine) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURER") + "\n\n")

	if engine == nil || !engine.Started() {
		content.WriteString(loadingStyle.Render("Entering the dungeon...") + "\n")
		return content.String()
	}

	p := engine.Player()
	content.WriteString(p.Name() + "\n")
	content.WriteString(fmt.Sprintf("Level %d\n", p.Level()))
	content.WriteString(fmt.Sprintf("XP %d/%d\n\n", p.XP(), actor.LevelUpXP))

	content.WriteString("Health:\n")
	content.WriteString(healthBar(p.Health(), p.MaxHealth(), 12) + "\n")
	content.WriteString(fmt.Sprintf("%d/%d\n\n", p.Health(), p.MaxHealth()))

	if room, ok := engine.Graph().Room(p.RoomID()); ok {
		content.WriteString("Location:\n")
		content.WriteString(room.Name + "\n\n")
		content.WriteString("Exits:\n")
		for _, d := range dungeon.Directions {
			if _, ok := room.Exits[d]; ok {
				content.WriteString("• " + string(d) + "\n")
			}
		}
		content.WriteString("\n")
	}
	content.WriteString(fmt.Sprintf("Rooms discovered: %d\n\n", engine.Graph().Len()))

	if enemy := engine.Enemy(); enemy != nil {
		content.WriteString(errorStyle.Render("Battle!") + "\n")
		content.WriteString(enemy.Name + "\n")
		content.WriteString(healthBar(enemy.HP, enemy.MaxHP, 12) + "\n")
		content.WriteString(fmt.Sprintf("%d/%d\n\n", enemy.HP, enemy.MaxHP))
	}

	content.WriteString("Inventory:\n")
	items := p.Inventory()
	if len(items) == 0 {
		content.WriteString("Empty\n")
	}
	for _, item := range items {
		content.WriteString("• " + item + "\n")
	}

	if engine.Over() {
		content.WriteString("\n" + errorStyle.Render("GAME OVER") + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Keys:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")

	return content.String()
}

// healthBar renders current/max as a fixed-width bar.
func healthBar(current, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	current = min(max(current, 0), total)
	filled := current * width / total
	if current > 0 && filled == 0 {
		filled = 1
	}
	return narratorStyle.Render(strings.Repeat("█", filled)) + separatorStyle.Render(strings.Repeat("░", width-filled))
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case engineResultMsg:
		// Keep the transcript current behind the modal.
		m.loading = false
		m.handleResult(msg)
		m.refreshMeta()
		m.writeChatContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				if m.loading {
					// Ticks were dropped while the modal was up.
					return m, tea.Batch(textarea.Blink, progressTick())
				}
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost. Type save first to keep it.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
