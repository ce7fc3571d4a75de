package ui

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/catalog"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/pipeline"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/review"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TitleListView ViewState = iota
	ConfirmView
	ProcessView
	ResultView
	ReviewView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	selection  *catalog.Selection
	controller *pipeline.Controller
	workflow   *review.Workflow

	width  int
	height int

	titleList    list.Model
	reviewList   list.Model
	progressChan chan pipeline.ProgressUpdate
	progress     pipeline.ProgressUpdate
	result       *pipeline.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg pipeline.ProgressUpdate

type runCompleteMsg struct {
	result *pipeline.RunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, titles []models.ExtractedTitle, controller *pipeline.Controller) *Model {
	m := &Model{
		ctx:        ctx,
		view:       TitleListView,
		selection:  catalog.NewSelection(titles),
		controller: controller,
		help:       help.New(),
		keys:       newKeyMap(),
	}

	m.titleList = list.New(m.titleItems(), list.NewDefaultDelegate(), 0, 0)
	m.titleList.Title = "Extracted Titles"

	return m
}

// Init implements [tea.Model]. All data is loaded before the program starts.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.titleList.SetSize(msg.Width-4, msg.Height-8)
		if m.reviewList.Width() == 0 {
			m.reviewList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TitleListView:
			return m.handleTitleListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ProcessView:
			return m.handleProcessKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case ReviewView:
			return m.handleReviewKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = pipeline.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TitleListView:
		return m.renderTitleList()
	case ConfirmView:
		return m.renderConfirm()
	case ProcessView:
		return m.renderProcess()
	case ResultView:
		return m.renderResult()
	case ReviewView:
		return m.renderReview()
	default:
		return ""
	}
}

func (m *Model) handleTitleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list's filter input is active, keystrokes belong to it.
	if m.titleList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.titleList, cmd = m.titleList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if selected, ok := m.titleList.SelectedItem().(titleItem); ok {
			m.selection.Toggle(catalog.NormalizeKey(selected.title.Title))
			m.refreshTitleItems()
		}
		return m, nil
	case "a":
		m.selection.SelectAll()
		m.refreshTitleItems()
		return m, nil
	case "x":
		m.selection.ClearAll()
		m.refreshTitleItems()
		return m, nil
	case "enter":
		if m.selection.Count() == 0 {
			return m, nil
		}
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.titleList, cmd = m.titleList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TitleListView
		return m, nil
	case "y":
		m.view = ProcessView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleProcessKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		m.controller.Pause()
	case "r":
		m.controller.Resume()
	case "c":
		m.controller.Cancel()
	case "q", "ctrl+c":
		m.controller.Cancel()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "v":
		if m.result != nil && m.err == nil {
			m.enterReview()
			return m, nil
		}
	case "r":
		m.view = TitleListView
		m.result = nil
		m.err = nil
		m.controller.Reset()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ResultView
		return m, nil
	case "y":
		m.decide(m.workflow.Validate)
		return m, nil
	case "n":
		m.decide(m.workflow.Reject)
		return m, nil
	}

	var cmd tea.Cmd
	m.reviewList, cmd = m.reviewList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TitleListView:
		m.titleList, cmd = m.titleList.Update(msg)
	case ReviewView:
		m.reviewList, cmd = m.reviewList.Update(msg)
	}
	return m, cmd
}

func (m *Model) titleItems() []list.Item {
	titles := m.selection.Filtered()
	items := make([]list.Item, len(titles))
	for i, t := range titles {
		items[i] = titleItem{
			title:    t,
			selected: m.selection.IsSelected(catalog.NormalizeKey(t.Title)),
		}
	}
	return items
}

func (m *Model) refreshTitleItems() {
	index := m.titleList.Index()
	m.titleList.SetItems(m.titleItems())
	m.titleList.Select(index)
}

func (m *Model) startRun() tea.Cmd {
	items := catalog.Items(m.selection.Selected())
	m.progressChan = make(chan pipeline.ProgressUpdate, 50)

	ch := m.progressChan
	go func() {
		result, err := m.controller.Submit(m.ctx, items, ch)
		ch <- pipeline.ProgressUpdate{Phase: pipeline.RunCompleted, Data: runCompleteMsg{result: result, err: err}}
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-ch
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		if done, ok := update.Data.(runCompleteMsg); ok {
			return done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) enterReview() {
	items := make([]models.MusicItem, 0, len(m.result.Items))
	for _, item := range m.result.Items {
		items = append(items, *item)
	}

	m.workflow = review.NewWorkflow(review.NewMemoryStore(items))
	m.reviewList = list.New(m.reviewItems(), list.NewDefaultDelegate(), m.width-4, m.height-8)
	m.reviewList.Title = "Review Enriched Items"
	m.view = ReviewView
}

func (m *Model) reviewItems() []list.Item {
	stored, err := m.workflow.List(review.FilterAll)
	if err != nil {
		return nil
	}

	items := make([]list.Item, len(stored))
	for i, item := range stored {
		items[i] = reviewItem{item: item}
	}
	return items
}

func (m *Model) decide(action func(string) (*models.MusicItem, error)) {
	selected, ok := m.reviewList.SelectedItem().(reviewItem)
	if !ok {
		return
	}

	// Invalid transitions (pending items, already decided ones) are ignored.
	if _, err := action(selected.item.ID); err != nil {
		return
	}

	index := m.reviewList.Index()
	m.reviewList.SetItems(m.reviewItems())
	m.reviewList.Select(index)
}

func (m *Model) renderTitleList() string {
	status := fmt.Sprintf("%d of %d selected", m.selection.Count(), len(m.selection.Filtered()))
	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.none, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.titleList.View(), styles.help.Render(status), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Enrich %d selected titles?", m.selection.Count()))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderProcess() string {
	snapshot := m.controller.Snapshot()

	var title string
	switch snapshot.Status {
	case pipeline.StatusPaused:
		title = styles.warn.Render("Run Paused")
	default:
		title = styles.title.Render("Enriching Catalog")
	}

	progress := snapshot.Progress
	line := fmt.Sprintf("%d/%d (%.1f%%)", progress.Current, progress.Total, progress.Percentage)
	if progress.Speed > 0 {
		line = fmt.Sprintf("%s · %.2f items/s · ETA %s", line, progress.Speed, formatETA(progress.ETA))
	}

	helpKeys := []key.Binding{m.keys.pause, m.keys.resume, m.keys.cancel}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, line, m.progress.Message, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v\n\nPress r to restart, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to restart, q to quit")
	}

	var title string
	if m.result.Outcome == models.RunCancelled {
		title = styles.warn.Render("Run Cancelled")
	} else {
		title = styles.ok.Render("✓ Run Complete")
	}

	info := fmt.Sprintf(
		"\nTotal: %d\nAttempted: %d\nEnriched: %d\nFailed: %d",
		m.result.Total,
		m.result.Attempted,
		m.result.Succeeded,
		m.result.Failed,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d items failed:", m.result.Failed)))
		for _, entry := range m.controller.Errors().Entries() {
			failed += fmt.Sprintf("\n  • %s", entry.Message)
		}
	}

	helpKeys := []key.Binding{m.keys.review, m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}

func (m *Model) renderReview() string {
	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.reviewList.View(), helpView)
}

// formatETA renders remaining seconds, with a placeholder while throughput is
// still unknown.
func formatETA(eta float64) string {
	if math.IsInf(eta, 0) || math.IsNaN(eta) {
		return "--"
	}
	return fmt.Sprintf("%.0fs", eta)
}
