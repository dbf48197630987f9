// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policyui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dlclark/regexp2"

	"github.com/bureau-foundation/policyview/lib/aclpolicy"
	"github.com/bureau-foundation/policyview/lib/clock"
	"github.com/bureau-foundation/policyview/lib/reactive"
	"github.com/bureau-foundation/policyview/lib/tui"
)

// FocusRegion identifies which part of the screen receives keys.
type FocusRegion int

const (
	// FocusList means navigation keys move the cursor.
	FocusList FocusRegion = iota
	// FocusSearch means keystrokes edit the search query.
	FocusSearch
)

// chromeHeight is the number of non-list lines without the search bar:
// the header, the bottom separator and the help bar.
const chromeHeight = 3

// ReloadMsg delivers a watcher update into the program. Send it with
// program.Send from the goroutine draining the watcher; the listing is
// applied on the program's goroutine.
type ReloadMsg struct {
	Update aclpolicy.Update
}

// changeTickMsg drives the fade of reloaded rows.
type changeTickMsg struct{}

// Model is the bubbletea model of the policy listing screen.
type Model struct {
	files *aclpolicy.Files
	keys  KeyMap
	theme tui.Theme

	search SearchBox
	focus  FocusRegion

	// cursor indexes files.Visible().
	cursor int
	// scrollOffset is the first rendered line of the list pane.
	scrollOffset int

	// sourceOpen replaces the list pane with the selected document's
	// source; sourceOffset is its first rendered line.
	sourceOpen   bool
	sourceOffset int

	width  int
	height int
	ready  bool

	changes *tui.ChangeTracker
	clock   clock.Clock

	// stale is set by the view subscription whenever the visible
	// documents may have changed; Update then re-anchors the cursor.
	stale        *bool
	subscription *reactive.Subscription

	status         string
	statusLevel    slog.Level
	statusSequence int
}

// NewModel creates the screen over files. Call Close when the program
// exits.
func NewModel(files *aclpolicy.Files) Model {
	stale := new(bool)
	model := Model{
		files:   files,
		keys:    DefaultKeyMap,
		theme:   tui.DefaultTheme,
		search:  NewSearchBox(files.Search, tui.DefaultTheme),
		changes: tui.NewChangeTracker(),
		clock:   clock.Real(),
		stale:   stale,
		subscription: files.View.Subscribe(func() {
			*stale = true
		}),
	}
	model.restoreSelection()
	return model
}

// WithClock returns the model reading the time from c, which drives
// the fade of reloaded rows.
func (model Model) WithClock(c clock.Clock) Model {
	model.clock = c
	return model
}

// Close detaches the model from the view model.
func (model Model) Close() {
	model.subscription.Close()
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var command tea.Cmd

	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true

	case tea.KeyMsg:
		switch {
		case model.focus == FocusSearch:
			command = model.handleSearchKeys(message)
		case model.sourceOpen:
			command = model.handleSourceKeys(message)
		default:
			command = model.handleListKeys(message)
		}

	case ReloadMsg:
		command = model.applyReload(message.Update)

	case changeTickMsg:
		if model.changes.Active(model.clock.Now()) {
			command = scheduleChangeTick()
		}

	case logRecordMsg:
		model.statusSequence++
		model.status = message.Summary
		model.statusLevel = message.Level
		command = scheduleStatusFade(model.statusSequence)

	case logRecordFadeMsg:
		if message.sequence == model.statusSequence {
			model.status = ""
		}
	}

	if *model.stale {
		*model.stale = false
		model.restoreSelection()
	}
	if model.files.Selected.Get() == nil {
		model.sourceOpen = false
	}
	model.ensureCursorVisible()
	return model, command
}

func (model *Model) handleSearchKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case message.Type == tea.KeyCtrlC:
		return tea.Quit

	case key.Matches(message, model.keys.SearchClear):
		// Esc: clear the query first, leave the box on the second press.
		if model.search.Query() != "" {
			model.search.Clear()
		} else {
			model.search.Deactivate()
			model.focus = FocusList
		}
		return nil

	case message.Type == tea.KeyEnter:
		model.search.Deactivate()
		model.focus = FocusList
		return nil
	}
	return model.search.Update(message)
}

func (model *Model) handleSourceKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit
	case key.Matches(message, model.keys.ToggleSource), key.Matches(message, model.keys.SearchClear):
		model.sourceOpen = false
	case key.Matches(message, model.keys.Up):
		model.sourceOffset = max(0, model.sourceOffset-1)
	case key.Matches(message, model.keys.Down):
		model.sourceOffset = min(model.sourceOffset+1, model.maxSourceOffset())
	}
	return nil
}

// sourceLines returns the source pane content: the document name and
// its highlighted wire form.
func (model Model) sourceLines() []string {
	document := model.files.Selected.Get()
	title := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).
		Render(" " + document.Name.Get())

	source, err := renderDocumentSource(document)
	if err != nil {
		source = []string{lipgloss.NewStyle().Foreground(model.theme.Invalid).Render("cannot render source: " + err.Error())}
	}
	return append([]string{title}, source...)
}

func (model Model) maxSourceOffset() int {
	return max(0, len(model.sourceLines())-model.visibleHeight())
}

func (model *Model) handleListKeys(message tea.KeyMsg) tea.Cmd {
	pager := model.files.Pager()
	paging := model.files.View.PagingEnabled.Get()

	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit

	case key.Matches(message, model.keys.SearchActivate):
		model.focus = FocusSearch
		return model.search.Activate()

	case key.Matches(message, model.keys.SearchClear):
		model.search.Clear()

	case key.Matches(message, model.keys.Up):
		model.moveUp()

	case key.Matches(message, model.keys.Down):
		model.moveDown()

	case key.Matches(message, model.keys.NextPage):
		if paging {
			pager.NextPage()
			model.selectIndex(0)
		} else {
			model.selectIndex(model.cursor + max(1, model.visibleHeight()))
		}

	case key.Matches(message, model.keys.PreviousPage):
		if paging {
			pager.PreviousPage()
			model.selectIndex(0)
		} else {
			model.selectIndex(model.cursor - max(1, model.visibleHeight()))
		}

	case key.Matches(message, model.keys.FirstPage):
		if paging {
			pager.FirstPage()
		}
		model.selectIndex(0)

	case key.Matches(message, model.keys.LastPage):
		if paging {
			pager.LastPage()
		}
		model.selectIndex(len(model.files.Visible()) - 1)

	case key.Matches(message, model.keys.TogglePaging):
		model.togglePaging()

	case key.Matches(message, model.keys.ToggleSource):
		if model.files.Selected.Get() != nil {
			model.sourceOpen = true
			model.sourceOffset = 0
		}

	case key.Matches(message, model.keys.ToggleValidation):
		if document := model.files.Selected.Get(); document != nil {
			document.ToggleShowValidation()
		}
	}
	return nil
}

// moveUp moves the cursor up one row, turning to the end of the
// previous page at the top of a page.
func (model *Model) moveUp() {
	if model.cursor > 0 {
		model.selectIndex(model.cursor - 1)
		return
	}
	pager := model.files.Pager()
	if model.files.View.PagingEnabled.Get() && pager.HasPrevious() {
		pager.PreviousPage()
		model.selectIndex(len(model.files.Visible()) - 1)
	}
}

// moveDown moves the cursor down one row, turning to the start of the
// next page at the bottom of a page.
func (model *Model) moveDown() {
	if model.cursor < len(model.files.Visible())-1 {
		model.selectIndex(model.cursor + 1)
		return
	}
	pager := model.files.Pager()
	if model.files.View.PagingEnabled.Get() && pager.HasNext() {
		pager.NextPage()
		model.selectIndex(0)
	}
}

// togglePaging switches paging and keeps the selected document on
// screen: turning paging on opens the page that contains it.
func (model *Model) togglePaging() {
	enabled := !model.files.View.PagingEnabled.Get()
	model.files.View.PagingEnabled.Set(enabled)
	if !enabled {
		return
	}
	selected := model.files.Selected.Get()
	if index := slices.Index(model.files.Filtered(), selected); selected != nil && index >= 0 {
		pager := model.files.Pager()
		pager.GoToPage(index / pager.PageSize())
	}
}

// selectIndex moves the cursor to index, clamped to the visible
// documents, and records the selection.
func (model *Model) selectIndex(index int) {
	visible := model.files.Visible()
	if len(visible) == 0 {
		model.cursor = 0
		model.files.Select(nil)
		return
	}
	model.cursor = max(0, min(index, len(visible)-1))
	model.files.Select(visible[model.cursor])
}

// restoreSelection re-anchors the cursor after the visible documents
// changed: on the selected document when it is still visible,
// otherwise at the same position clamped to the new list.
func (model *Model) restoreSelection() {
	visible := model.files.Visible()
	if index := slices.Index(visible, model.files.Selected.Get()); index >= 0 {
		model.cursor = index
		return
	}
	model.selectIndex(model.cursor)
}

// applyReload loads a watcher update and tints the touched rows.
func (model *Model) applyReload(update aclpolicy.Update) tea.Cmd {
	now := model.clock.Now()
	for _, name := range update.Changed {
		kind := tui.ChangeUpdated
		if _, found := model.files.Find(name); !found {
			kind = tui.ChangeAdded
		}
		model.changes.Mark(name, kind, now)
	}
	model.files.Load(update.Listing)

	model.statusSequence++
	model.status = fmt.Sprintf("reloaded: %d changed, %d removed", len(update.Changed), len(update.Removed))
	model.statusLevel = slog.LevelInfo

	commands := []tea.Cmd{scheduleStatusFade(model.statusSequence)}
	if model.changes.Active(now) {
		commands = append(commands, scheduleChangeTick())
	}
	return tea.Batch(commands...)
}

func scheduleChangeTick() tea.Cmd {
	return tea.Tick(tui.ChangeTickInterval, func(time.Time) tea.Msg {
		return changeTickMsg{}
	})
}

func scheduleStatusFade(sequence int) tea.Cmd {
	return tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
		return logRecordFadeMsg{sequence: sequence}
	})
}

func (model Model) visibleHeight() int {
	height := model.height - chromeHeight
	if model.searchBarShown() {
		height--
	}
	return height
}

func (model Model) searchBarShown() bool {
	return model.search.Active() || model.search.Query() != ""
}

func (model Model) rowWidth() int {
	// One column is reserved for the scrollbar.
	return max(1, model.width-1)
}

// lineSpans returns how many list lines each visible document
// occupies: its row plus, when expanded, its validation lines.
func (model Model) lineSpans() []int {
	documents := model.files.Visible()
	spans := make([]int, len(documents))
	for index, document := range documents {
		spans[index] = 1
		if document.ShowValidation.Get() {
			spans[index] += ValidationLineCount(document)
		}
	}
	return spans
}

// layoutLines renders the list lines in [offset, offset+limit).
// Documents entirely outside the window are not rendered.
func (model Model) layoutLines(spans []int, offset, limit int) []string {
	renderer := NewRowRenderer(model.theme, model.rowWidth(), model.highlightPattern())
	now := model.clock.Now()
	documents := model.files.Visible()

	lines := make([]string, 0, limit)
	start := 0
	for index, document := range documents {
		end := start + spans[index]
		if end <= offset {
			start = end
			continue
		}
		if start >= offset+limit {
			break
		}

		selected := index == model.cursor
		row := renderer.RenderRow(document, selected)
		if !selected {
			name := document.Name.Get()
			if model.changes.Intensity(name, now) > 0 {
				row = lipgloss.NewStyle().
					Background(model.theme.ChangeAccent(model.changes.Kind(name))).
					Width(model.rowWidth()).
					MaxWidth(model.rowWidth()).
					Render(row)
			}
		}
		documentLines := []string{row}
		if document.ShowValidation.Get() {
			documentLines = append(documentLines, renderer.RenderValidation(document)...)
		}
		for line, text := range documentLines {
			if position := start + line; position >= offset && position < offset+limit {
				lines = append(lines, text)
			}
		}
		start = end
	}
	return lines
}

// highlightPattern returns the compiled search query, or nil when
// there is nothing to highlight.
func (model Model) highlightPattern() *regexp2.Regexp {
	return model.files.SearchPattern()
}

// ensureCursorVisible adjusts scrollOffset so the cursor row and, when
// it fits, its expanded validation lines are on screen.
func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	spans := model.lineSpans()

	total, first, last := 0, -1, -1
	for index, span := range spans {
		if index == model.cursor {
			first, last = total, total+span-1
		}
		total += span
	}

	model.scrollOffset = max(0, min(model.scrollOffset, total-visible))
	if first < 0 {
		return
	}
	if last >= model.scrollOffset+visible {
		model.scrollOffset = last - visible + 1
	}
	if first < model.scrollOffset {
		model.scrollOffset = first
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}
	if len(model.files.Policies.Get()) == 0 {
		return model.renderEmpty()
	}

	sections := []string{model.renderHeader()}
	if model.searchBarShown() {
		sections = append(sections, model.search.View(model.theme, model.width, model.files.SearchError()))
	}

	if model.sourceOpen {
		sections = append(sections, model.renderSourcePane())
	} else {
		sections = append(sections, model.renderListPane())
	}

	sections = append(sections, lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width)))

	sections = append(sections, model.renderHelp())
	return strings.Join(sections, "\n")
}

func (model Model) renderListPane() string {
	visible := model.visibleHeight()
	if visible <= 0 {
		return ""
	}
	spans := model.lineSpans()
	total := 0
	for _, span := range spans {
		total += span
	}
	rowStyle := lipgloss.NewStyle().Width(model.rowWidth()).MaxWidth(model.rowWidth())

	rows := make([]string, 0, visible)
	if total == 0 {
		message := "No policy files match the search."
		if model.files.SearchError() != nil {
			message = "The search pattern is invalid."
		}
		rows = append(rows, rowStyle.Foreground(model.theme.FaintText).Render(" "+message))
	}
	for _, line := range model.layoutLines(spans, model.scrollOffset, visible-len(rows)) {
		rows = append(rows, rowStyle.Render(line))
	}
	for len(rows) < visible {
		rows = append(rows, rowStyle.Render(""))
	}

	var region tui.ScrollRegion
	if model.files.View.PagingEnabled.Get() {
		pager := model.files.Pager()
		region = tui.ScrollRegion{Total: pager.Total(), Visible: len(model.files.Visible()), Offset: pager.Offset()}
	} else {
		region = tui.ScrollRegion{Total: total, Visible: visible, Offset: model.scrollOffset}
	}
	scrollbar := tui.RenderScrollbar(model.theme, visible, region)

	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(rows, "\n"), scrollbar)
}

// renderSourcePane shows the selected document's wire form under its
// name.
func (model Model) renderSourcePane() string {
	visible := model.visibleHeight()
	if visible <= 0 {
		return ""
	}
	lines := model.sourceLines()
	offset := max(0, min(model.sourceOffset, len(lines)-visible))
	rowStyle := lipgloss.NewStyle().Width(model.rowWidth()).MaxWidth(model.rowWidth())
	rows := make([]string, 0, visible)
	for index := offset; index < len(lines) && len(rows) < visible; index++ {
		rows = append(rows, rowStyle.Render(ansi.Truncate(lines[index], model.rowWidth(), "…")))
	}
	for len(rows) < visible {
		rows = append(rows, rowStyle.Render(""))
	}

	scrollbar := tui.RenderScrollbar(model.theme, visible, tui.ScrollRegion{Total: len(lines), Visible: visible, Offset: offset})
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(rows, "\n"), scrollbar)
}

// renderHeader shows the listing validity on the left and the page
// indicator on the right.
func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).Render(" Policies ")
	validity := ValiditySummary(model.files)
	banner := lipgloss.NewStyle().Foreground(model.theme.ValidityColor(model.files.Valid())).Render(validity)
	indicator := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(PageIndicator(model.files) + " ")

	left := title + " " + banner
	gap := model.width - ansi.StringWidth(left) - ansi.StringWidth(indicator)
	if gap < 1 {
		return ansi.Truncate(left+" "+indicator, model.width, "…")
	}
	return left + strings.Repeat(" ", gap) + indicator
}

func (model Model) renderHelp() string {
	if model.status != "" {
		color := model.theme.HelpText
		if model.statusLevel >= slog.LevelWarn {
			color = model.theme.Invalid
		}
		return ansi.Truncate(lipgloss.NewStyle().Foreground(color).Render(" "+model.status), model.width, "…")
	}

	focusIndicator := "LIST"
	switch {
	case model.focus == FocusSearch:
		focusIndicator = "SEARCH"
	case model.sourceOpen:
		focusIndicator = "SOURCE"
	}
	parts := []string{fmt.Sprintf(" [%s]", focusIndicator)}
	for _, binding := range model.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	return ansi.Truncate(style.Render(strings.Join(parts, "  ")), model.width, "…")
}

func (model Model) renderEmpty() string {
	return lipgloss.Place(
		model.width, model.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No policy files loaded."),
	)
}
