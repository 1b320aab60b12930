package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/agentdash/agent-dash/internal/ansi"
	"github.com/agentdash/agent-dash/internal/clipboard"
	"github.com/agentdash/agent-dash/internal/config"
	"github.com/agentdash/agent-dash/internal/logging"
	"github.com/agentdash/agent-dash/internal/session"
	"github.com/agentdash/agent-dash/internal/tmux"
)

var homeLog = logging.ForComponent(logging.CompUI)

// Version is stamped by the build; shown in the status bar.
var Version = "dev"

// Mode is the input mode the dashboard is in. Exactly one mode is
// current at a time and it alone decides how keys are interpreted.
type Mode int

const (
	ModeNormal Mode = iota
	ModeConfirmClose
	ModeHelp
	ModeHelpFilter
)

// Focus selects which panel receives navigation keys in normal mode.
type Focus int

const (
	FocusList Focus = iota
	FocusPreview
)

// toastDuration is how long transient notices stay visible.
const toastDuration = 1500 * time.Millisecond

// commandTimeout bounds every tmux subprocess spawned by the UI.
const commandTimeout = 10 * time.Second

type tickMsg time.Time

type sessionsMsg struct {
	result session.DiscoveryResult
	err    error
}

type previewMsg struct {
	paneID  string
	content string
}

type toastExpiredMsg struct {
	seq int
}

type stateReloadMsg struct{}

type paneCreatedMsg struct {
	created *tmux.CreatedPane
	err     error
}

// Home is the root bubbletea model: it owns the poll loop, the unread
// store, and the sub-views.
type Home struct {
	cfg        *config.Config
	discoverer *session.Discoverer
	store      *session.Store
	state      session.State
	watcher    *StateWatcher

	list    *List
	preview *Preview
	help    *HelpOverlay
	confirm *ConfirmDialog

	sessions     []session.Session
	displayNames map[string]string
	collapsed    map[string]bool
	flatView     bool

	focus        Focus
	mode         Mode
	exitOnSwitch bool

	// previewLimiter throttles capture-pane subprocesses when the
	// selection changes rapidly.
	previewLimiter *rate.Limiter

	toast    string
	toastSeq int

	width   int
	height  int
	pollErr string
	polled  bool // first discovery completed
}

// HomeOptions are the startup knobs wired from main.
type HomeOptions struct {
	ExitOnSwitch bool
}

// NewHome builds the root model, primed with cached sessions and the
// persisted unread state so the first frame is not empty.
func NewHome(cfg *config.Config, opts HomeOptions) *Home {
	store := session.NewStore()

	h := &Home{
		cfg:            cfg,
		discoverer:     session.NewDiscoverer(cfg.AgentCommand, cfg.SessionNameFormatter),
		store:          store,
		state:          store.Load(),
		list:           NewList(),
		preview:        NewPreview(),
		help:           NewHelpOverlay(),
		confirm:        NewConfirmDialog(),
		displayNames:   map[string]string{},
		collapsed:      map[string]bool{},
		exitOnSwitch:   opts.ExitOnSwitch || cfg.ExitOnSwitch,
		previewLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}

	if cached := session.LoadCachedSessions(); cached != nil {
		h.sessions = cached.Sessions
		h.displayNames = cached.DisplayNames
		h.rebuild()
	}

	if path := store.Path(); path != "" {
		if watcher, err := NewStateWatcher(path); err == nil {
			h.watcher = watcher
			watcher.Start()
		} else {
			homeLog.Debug("state_watcher_unavailable", slog.Any("error", err))
		}
	}

	return h
}

// Mode returns the current input mode.
func (h *Home) Mode() Mode {
	switch {
	case h.confirm.IsVisible():
		return ModeConfirmClose
	case h.help.IsVisible() && h.help.IsFiltering():
		return ModeHelpFilter
	case h.help.IsVisible():
		return ModeHelp
	default:
		return ModeNormal
	}
}

// Init starts the poll loop.
func (h *Home) Init() tea.Cmd {
	cmds := []tea.Cmd{h.pollCmd(), h.tickCmd()}
	if h.watcher != nil {
		cmds = append(cmds, h.watchStateCmd())
	}
	return tea.Batch(cmds...)
}

func (h *Home) pollInterval() time.Duration {
	return time.Duration(h.cfg.PollIntervalSeconds) * time.Second
}

func (h *Home) tickCmd() tea.Cmd {
	return tea.Tick(h.pollInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (h *Home) pollCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		result, err := h.discoverer.Discover(ctx)
		return sessionsMsg{result: result, err: err}
	}
}

func (h *Home) previewCmd(paneID, target string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return previewMsg{paneID: paneID, content: tmux.CapturePane(ctx, target)}
	}
}

func (h *Home) watchStateCmd() tea.Cmd {
	return func() tea.Msg {
		<-h.watcher.ReloadChannel()
		return stateReloadMsg{}
	}
}

func (h *Home) toastCmd(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// showToast sets a transient notice and returns its expiry command.
func (h *Home) showToast(text string) tea.Cmd {
	h.toast = text
	h.toastSeq++
	return h.toastCmd(h.toastSeq)
}

// Update is the single message dispatcher.
func (h *Home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		h.layout()
		return h, nil

	case tickMsg:
		return h, tea.Batch(h.pollCmd(), h.tickCmd())

	case sessionsMsg:
		return h, h.handlePoll(msg)

	case previewMsg:
		// Drop captures for a pane the cursor has already left.
		if sel := h.list.Selected(); sel != nil && sel.Kind == session.ItemSessionRow && sel.Session.PaneID == msg.paneID {
			h.preview.SetContent(msg.paneID, msg.content)
		}
		return h, nil

	case stateReloadMsg:
		h.state = h.store.Load()
		h.rebuild()
		return h, h.watchStateCmd()

	case toastExpiredMsg:
		if msg.seq == h.toastSeq {
			h.toast = ""
		}
		return h, nil

	case paneCreatedMsg:
		return h, h.handlePaneCreated(msg)

	case tea.KeyMsg:
		return h.handleKey(msg)
	}
	return h, nil
}

// handlePoll folds a completed discovery cycle into the model.
func (h *Home) handlePoll(msg sessionsMsg) tea.Cmd {
	if msg.err != nil {
		// Keep the previous list on a failed cycle; a transient tmux
		// error must not blank the dashboard.
		h.pollErr = msg.err.Error()
		homeLog.Debug("poll_failed", slog.String("error", h.pollErr))
		return nil
	}
	h.pollErr = ""

	h.sessions = msg.result.Sessions
	h.displayNames = msg.result.DisplayNames
	h.state = h.state.Update(h.sessions)
	h.persistState()
	session.SaveCachedSessions(session.CachedSessions{
		Sessions:     h.sessions,
		DisplayNames: h.displayNames,
	})

	firstPoll := !h.polled
	h.polled = true
	h.rebuild()

	if firstPoll {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		paneID, owner := tmux.FocusedPane(ctx)
		cancel()
		h.list.SetCursor(session.AutoSelect(h.list.Items(), paneID, owner))
	}

	return h.refreshPreview()
}

func (h *Home) handlePaneCreated(msg paneCreatedMsg) tea.Cmd {
	if msg.err != nil {
		homeLog.Debug("create_failed", slog.Any("error", msg.err))
		return h.showToast("Failed to create session")
	}
	created := session.Session{
		PaneID:     msg.created.ID,
		PaneTarget: msg.created.Target,
		Title:      msg.created.Title,
		Owner:      msg.created.Owner,
		Status:     session.ParseStatus(msg.created.Title),
	}
	h.state = h.state.Observe(created)
	h.persistState()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := tmux.SwitchClient(ctx, created.PaneTarget); err != nil {
		homeLog.Debug("switch_failed", slog.String("target", created.PaneTarget), slog.Any("error", err))
	} else if h.exitOnSwitch {
		return tea.Quit
	}
	return tea.Batch(h.showToast("Session created"), h.pollCmd())
}

// persistState writes the unread store, flagging the watcher first so
// the write is not reported back as an external change.
func (h *Home) persistState() {
	if h.watcher != nil {
		h.watcher.NotifySave()
	}
	h.store.Save(h.state)
}

// rebuild recomputes the display list and re-resolves the selection.
func (h *Home) rebuild() {
	old := h.list.Items()
	oldCursor := h.list.Cursor()

	var items []session.VisibleItem
	if h.flatView {
		items = session.BuildFlatVisible(h.sessions, h.state.Unread, h.state.UnreadOrder, h.displayNames)
	} else {
		items = session.BuildVisible(session.GroupByOwner(h.sessions), h.collapsed, h.state.Unread, h.displayNames)
	}

	h.list.SetItems(items)
	h.list.SetCursor(session.ResolveSelection(items, old, oldCursor))
}

// refreshPreview captures the selected pane, throttled so rapid cursor
// movement does not fork a capture-pane per keypress.
func (h *Home) refreshPreview() tea.Cmd {
	sel := h.list.Selected()
	if sel == nil || sel.Kind != session.ItemSessionRow {
		h.preview.Clear()
		return nil
	}
	if sel.Session.PaneID == h.preview.Target() {
		// Same pane: refresh only on poll cadence, not keypress.
		if !h.previewLimiter.Allow() {
			return nil
		}
	}
	return h.previewCmd(sel.Session.PaneID, sel.Session.PaneTarget)
}

func (h *Home) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch h.Mode() {
	case ModeConfirmClose:
		return h.handleConfirmKey(msg)
	case ModeHelp, ModeHelpFilter:
		help, cmd := h.help.Update(msg)
		h.help = help
		return h, cmd
	}
	return h.handleNormalKey(msg)
}

func (h *Home) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return h, h.closePane()
	case "n", "esc", "q":
		h.confirm.Hide()
	}
	return h, nil
}

func (h *Home) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return h, tea.Quit
	case "?":
		h.help.SetSize(h.width, h.height)
		h.help.Show()
		return h, nil
	case "0":
		h.focus = FocusPreview
		return h, nil
	case "1":
		h.focus = FocusList
		return h, nil
	case "`":
		h.flatView = !h.flatView
		h.rebuild()
		return h, h.refreshPreview()
	case "o", "enter":
		return h.activateSelection(msg.String() == "enter")
	case "O":
		return h, h.openPopup()
	case "y":
		return h, h.copyPreview()
	}

	if h.focus == FocusPreview {
		return h, h.handlePreviewKey(msg)
	}
	return h, h.handleListKey(msg)
}

func (h *Home) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		h.list.MoveDown()
		return h.refreshPreview()
	case "k", "up":
		h.list.MoveUp()
		return h.refreshPreview()
	case "h":
		h.collapseSelection()
		return h.refreshPreview()
	case "l":
		h.expandSelection()
		return h.refreshPreview()
	case "r":
		return h.markSelectionRead()
	case "c":
		return h.createSession()
	case "x":
		h.requestClose()
		return nil
	}
	return nil
}

func (h *Home) handlePreviewKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		h.preview.ScrollDown(1)
	case "k", "up":
		h.preview.ScrollUp(1)
	case "ctrl+d", "pgdown":
		h.preview.ScrollDown(10)
	case "ctrl+u", "pgup":
		h.preview.ScrollUp(10)
	case "g":
		h.preview.ScrollUp(1 << 30)
	case "G":
		h.preview.ScrollToBottom()
	}
	return nil
}

// collapseSelection collapses the selected group. On a session row the
// cursor first moves up to the row's group header, then collapses it.
func (h *Home) collapseSelection() {
	if h.flatView {
		return
	}
	sel := h.list.Selected()
	if sel == nil {
		return
	}
	owner := sel.Owner
	h.collapsed[owner] = true
	h.rebuild()
	for i, item := range h.list.Items() {
		if item.Kind == session.ItemGroupHeader && item.Owner == owner {
			h.list.SetCursor(i)
			break
		}
	}
}

func (h *Home) expandSelection() {
	if h.flatView {
		return
	}
	sel := h.list.Selected()
	if sel == nil {
		return
	}
	delete(h.collapsed, sel.Owner)
	h.rebuild()
}

// activateSelection switches the attached client to the selected pane.
// Enter on a group header toggles collapse instead.
func (h *Home) activateSelection(enterKey bool) (tea.Model, tea.Cmd) {
	sel := h.list.Selected()
	if sel == nil {
		return h, nil
	}
	if sel.Kind == session.ItemGroupHeader {
		if !enterKey {
			return h, nil
		}
		if h.collapsed[sel.Owner] {
			delete(h.collapsed, sel.Owner)
		} else {
			h.collapsed[sel.Owner] = true
		}
		h.rebuild()
		return h, h.refreshPreview()
	}

	// Switching counts as viewing: the pane leaves the unread set.
	h.state = h.state.MarkRead(sel.Session.PaneID)
	h.persistState()
	h.rebuild()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := tmux.SwitchClient(ctx, sel.Session.PaneTarget); err != nil {
		homeLog.Debug("switch_failed", slog.String("target", sel.Session.PaneTarget), slog.Any("error", err))
		return h, h.showToast("Failed to switch pane")
	}
	if h.exitOnSwitch {
		return h, tea.Quit
	}
	return h, nil
}

func (h *Home) openPopup() tea.Cmd {
	sel := h.list.Selected()
	if sel == nil || sel.Kind != session.ItemSessionRow {
		return nil
	}
	target := sel.Session.PaneTarget
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()
		if err := tmux.OpenPopup(ctx, target); err != nil {
			homeLog.Debug("popup_failed", slog.String("target", target), slog.Any("error", err))
		}
		return nil
	}
}

func (h *Home) markSelectionRead() tea.Cmd {
	sel := h.list.Selected()
	if sel == nil || sel.Kind != session.ItemSessionRow {
		return nil
	}
	h.state = h.state.MarkRead(sel.Session.PaneID)
	h.persistState()
	h.rebuild()
	return h.showToast("Marked read")
}

// createSession opens a new window running the agent in the selected
// group's tmux session, inheriting the selected pane's directory.
func (h *Home) createSession() tea.Cmd {
	sel := h.list.Selected()
	if sel == nil {
		return nil
	}
	owner := sel.Owner
	var cwdTarget string
	if sel.Kind == session.ItemSessionRow {
		cwdTarget = sel.Session.PaneTarget
	}
	command := h.cfg.AgentCommand

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		var cwd string
		if cwdTarget != "" {
			cwd, _ = tmux.PaneCwd(ctx, cwdTarget)
		}
		created, err := tmux.NewWindow(ctx, owner, command, cwd)
		return paneCreatedMsg{created: created, err: err}
	}
}

func (h *Home) requestClose() {
	sel := h.list.Selected()
	if sel == nil || sel.Kind != session.ItemSessionRow {
		return
	}
	h.confirm.SetSize(h.width, h.height)
	h.confirm.ShowClosePane(sel.Session.PaneID, sel.Session.PaneTarget, sel.Session.Title)
}

func (h *Home) closePane() tea.Cmd {
	paneID := h.confirm.PaneID()
	h.confirm.Hide()

	var target string
	for _, s := range h.sessions {
		if s.PaneID == paneID {
			target = s.PaneTarget
			break
		}
	}
	if target == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := tmux.KillPane(ctx, target); err != nil {
		homeLog.Debug("kill_failed", slog.String("target", target), slog.Any("error", err))
		return h.showToast("Failed to close pane")
	}

	h.state = h.state.Forget(paneID)
	h.persistState()

	// Drop the pane locally so the list is right before the next poll.
	kept := h.sessions[:0]
	for _, s := range h.sessions {
		if s.PaneID != paneID {
			kept = append(kept, s)
		}
	}
	h.sessions = kept
	h.rebuild()
	return tea.Batch(h.showToast("Pane closed"), h.refreshPreview())
}

func (h *Home) copyPreview() tea.Cmd {
	sel := h.list.Selected()
	if sel == nil || sel.Kind != session.ItemSessionRow {
		return nil
	}
	target := sel.Session.PaneTarget

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	content := ansi.Strip(tmux.CapturePane(ctx, target))

	result, err := clipboard.Copy(content)
	if err != nil {
		homeLog.Debug("copy_failed", slog.Any("error", err))
		return h.showToast("Copy failed")
	}
	return h.showToast(fmt.Sprintf("Copied %d lines (%s)", result.LineCount, result.Method))
}

// layout distributes the window between the two panels.
func (h *Home) layout() {
	listWidth := h.width * 2 / 5
	if listWidth < 24 {
		listWidth = 24
	}
	previewWidth := h.width - listWidth - 4
	if previewWidth < 0 {
		previewWidth = 0
	}
	contentHeight := h.height - 4
	if contentHeight < 1 {
		contentHeight = 1
	}

	h.list.SetSize(listWidth, contentHeight)
	h.preview.SetSize(previewWidth, contentHeight)
	h.help.SetSize(h.width, h.height)
	h.confirm.SetSize(h.width, h.height)
}

// View renders the dashboard.
func (h *Home) View() string {
	if h.confirm.IsVisible() {
		return h.confirm.View()
	}
	if h.help.IsVisible() {
		return h.help.View()
	}

	listStyle := BlurredBorderStyle
	previewStyle := BlurredBorderStyle
	if h.focus == FocusList {
		listStyle = FocusedBorderStyle
	} else {
		previewStyle = FocusedBorderStyle
	}

	listWidth := h.width * 2 / 5
	if listWidth < 24 {
		listWidth = 24
	}
	previewWidth := h.width - listWidth - 4
	if previewWidth < 0 {
		previewWidth = 0
	}
	contentHeight := h.height - 4
	if contentHeight < 1 {
		contentHeight = 1
	}

	left := listStyle.Width(listWidth).Height(contentHeight).Render(h.list.View())
	right := previewStyle.Width(previewWidth).Height(contentHeight).Render(h.preview.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, body, h.statusBar())
}

func (h *Home) statusBar() string {
	if h.toast != "" {
		return ToastStyle.Render(h.toast)
	}
	status := fmt.Sprintf("agent-dash %s • %d sessions • ? help", Version, len(h.sessions))
	if h.pollErr != "" {
		status += " • poll error"
	}
	return StatusBarStyle.Render(status)
}
