package tui

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/MMHameed52/Inventory-Tracker/internal/api"
	"github.com/MMHameed52/Inventory-Tracker/internal/backup"
	"github.com/MMHameed52/Inventory-Tracker/internal/controller"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Screen int

const (
	MenuScreen Screen = iota
	BrowseScreen
	UploadScreen
	AppendScreen
	BackupScreen
	RestoreScreen
)

type Options struct {
	StrictSchema bool
	BackupDir    string
	Logger       *slog.Logger
}

// Notices collects acknowledgments raised while a command runs. The root
// model turns them into alerts once the command's result arrives.
type Notices struct {
	mu    sync.Mutex
	items []string
}

func (n *Notices) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, message)
}

func (n *Notices) drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	items := n.items
	n.items = nil
	return items
}

// session is shared by every screen.
type session struct {
	ctx       context.Context
	ctrl      *controller.Controller
	backups   *backup.Service
	backupDir string
	logger    *slog.Logger
	pending   atomic.Int32
}

type op int

const (
	opLoad op = iota
	opSelect
	opParse
	opUpload
	opAppend
	opSell
	opRestore
)

// StateMsg carries the controller state after an operation finished.
type StateMsg struct {
	Op    op
	State controller.State
	Err   error
}

// run performs a controller operation off the event loop.
func (s *session) run(kind op, fn func(ctx context.Context) (controller.State, error)) tea.Cmd {
	s.pending.Add(1)
	return func() tea.Msg {
		defer s.pending.Add(-1)
		state, err := fn(s.ctx)
		return StateMsg{Op: kind, State: state, Err: err}
	}
}

// uploadParsedMsg carries a parsed file that has not been sent yet.
type uploadParsedMsg struct {
	upload controller.Upload
	state  controller.State
	err    error
}

// parse reads the selected file off the event loop.
func (s *session) parse() tea.Cmd {
	s.pending.Add(1)
	return func() tea.Msg {
		defer s.pending.Add(-1)
		upload, state, err := s.ctrl.PrepareUpload()
		return uploadParsedMsg{upload: upload, state: state, err: err}
	}
}

func (s *session) busy() bool {
	return s.pending.Load() > 0
}

type Model struct {
	session       *session
	notices       *Notices
	state         controller.State
	currentScreen Screen
	menuModel     *MenuModel
	browseModel   *BrowseModel
	uploadModel   *UploadModel
	appendModel   *AppendModel
	backupModel   *BackupModel
	restoreModel  *RestoreModel
	spinner       spinner.Model
	alerts        []string
	prompt        *promptModel
	err           error
	quitting      bool
	width         int
	height        int
}

func NewModel(ctx context.Context, client *api.Client, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	notices := &Notices{}
	s := &session{
		ctx: ctx,
		ctrl: controller.New(client,
			controller.WithLogger(logger),
			controller.WithNotifier(notices),
			controller.WithStrictSchema(opts.StrictSchema),
		),
		backups:   backup.NewService(backup.Remote(client)),
		backupDir: opts.BackupDir,
		logger:    logger,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = labelStyle

	return Model{
		session:       s,
		notices:       notices,
		state:         s.ctrl.State(),
		currentScreen: MenuScreen,
		menuModel:     NewMenuModel(),
		browseModel:   NewBrowseModel(s),
		uploadModel:   NewUploadModel(s),
		appendModel:   NewAppendModel(s),
		backupModel:   NewBackupModel(s),
		restoreModel:  NewRestoreModel(s),
		spinner:       sp,
	}
}

// Run starts the interactive client and blocks until the user quits.
func Run(ctx context.Context, client *api.Client, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, client, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.session.run(opLoad, m.session.ctrl.LoadCsvList),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menuModel.SetSize(msg.Width, msg.Height)
		m.browseModel.SetSize(msg.Width, msg.Height)
		m.uploadModel.SetSize(msg.Width, msg.Height)
		m.appendModel.SetSize(msg.Width, msg.Height)
		m.backupModel.SetSize(msg.Width, msg.Height)
		m.restoreModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateMsg:
		m.setState(msg.State)
		m.alerts = append(m.alerts, m.notices.drain()...)
		return m, m.forward(msg)

	case uploadParsedMsg:
		m.setState(msg.state)
		_, cmd := m.uploadModel.Update(msg)
		return m, cmd

	case backupStepMsg:
		_, cmd := m.backupModel.Update(msg)
		return m, cmd

	case RestoreCompleteMsg:
		_, cmd := m.restoreModel.Update(msg)
		return m, cmd

	case SellRequestMsg:
		m.prompt = newPromptModel(msg)
		return m, m.prompt.input.Focus()

	case ScreenChangeMsg:
		m.currentScreen = msg.Screen
		m.err = nil
		return m, m.enterScreen(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if len(m.alerts) > 0 {
			switch msg.String() {
			case "enter", "esc", " ":
				m.alerts = m.alerts[1:]
			}
			return m, nil
		}
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "q":
			if m.currentScreen == MenuScreen || m.currentScreen == BrowseScreen {
				m.quitting = true
				return m, tea.Quit
			}
		case "esc":
			if m.currentScreen != MenuScreen && !m.screenCapturesEsc() {
				m.currentScreen = MenuScreen
				m.err = nil
				return m, nil
			}
		}
	}

	return m, m.forward(msg)
}

func (m *Model) setState(state controller.State) {
	m.state = state
	m.browseModel.SetState(state)
	m.appendModel.SetState(state)
	m.backupModel.SetState(state)
}

// forward hands msg to the active screen.
func (m Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.currentScreen {
	case MenuScreen:
		_, cmd = m.menuModel.Update(msg)
	case BrowseScreen:
		_, cmd = m.browseModel.Update(msg)
	case UploadScreen:
		_, cmd = m.uploadModel.Update(msg)
	case AppendScreen:
		_, cmd = m.appendModel.Update(msg)
	case BackupScreen:
		_, cmd = m.backupModel.Update(msg)
	case RestoreScreen:
		_, cmd = m.restoreModel.Update(msg)
	}
	return cmd
}

func (m Model) enterScreen(screen Screen) tea.Cmd {
	switch screen {
	case UploadScreen:
		return m.uploadModel.Init()
	case AppendScreen:
		return m.appendModel.Init()
	case BackupScreen:
		return m.backupModel.Init()
	case RestoreScreen:
		return m.restoreModel.Init()
	}
	return nil
}

// screenCapturesEsc reports whether the active screen uses esc itself,
// for example to close a file picker.
func (m Model) screenCapturesEsc() bool {
	switch m.currentScreen {
	case UploadScreen:
		return m.uploadModel.state == UploadFileSelectState
	case RestoreScreen:
		return m.restoreModel.state == RestoreFileSelectState
	}
	return false
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		req, answer := m.prompt.request, m.prompt.input.Value()
		m.prompt = nil
		return m, m.sell(req, controller.Answer(answer))
	case "esc":
		req := m.prompt.request
		m.prompt = nil
		cancelled := controller.PromptFunc(func(string) (string, bool) { return "", false })
		return m, m.sell(req, cancelled)
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m Model) sell(req SellRequestMsg, prompter controller.Prompter) tea.Cmd {
	ctrl := m.session.ctrl
	return m.session.run(opSell, func(ctx context.Context) (controller.State, error) {
		return ctrl.SellProduct(ctx, req.ProductID, req.AvailableQty, req.Price, prompter)
	})
}

func (m Model) View() string {
	if m.quitting {
		return "Goodbye from Inventory Tracker!\n"
	}

	if len(m.alerts) > 0 {
		return m.place(renderAlert(m.alerts[0], m.width))
	}
	if m.prompt != nil {
		return m.place(m.prompt.View(m.width))
	}

	var content string
	switch m.currentScreen {
	case MenuScreen:
		content = m.menuModel.View()
	case BrowseScreen:
		content = m.browseModel.View()
	case UploadScreen:
		content = m.uploadModel.View()
	case AppendScreen:
		content = m.appendModel.View()
	case BackupScreen:
		content = m.backupModel.View()
	case RestoreScreen:
		content = m.restoreModel.View()
	}

	if m.session.busy() || m.state.Loading {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.spinner.View()+" Working...")
	}
	if m.err != nil {
		content += "\n" + errorStyle.Render("Error: "+m.err.Error())
	}

	return content
}

func (m Model) place(box string) string {
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

type ScreenChangeMsg struct {
	Screen Screen
}

type ErrorMsg struct {
	Err error
}

func ChangeScreen(screen Screen) tea.Cmd {
	return func() tea.Msg {
		return ScreenChangeMsg{Screen: screen}
	}
}

func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}
