package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n0roo/kb-console/internal/api"
	"github.com/n0roo/kb-console/internal/catalog"
	"github.com/n0roo/kb-console/internal/lifecycle"
	"github.com/n0roo/kb-console/internal/logger"
	"github.com/n0roo/kb-console/internal/navigation"
	"github.com/n0roo/kb-console/internal/poller"
	"github.com/n0roo/kb-console/internal/prefs"
)

// Client is the part of the API client the console uses
type Client interface {
	lifecycle.Gateway
	catalog.Gateway
	ListProjects(ctx context.Context) ([]api.Project, error)
	ListKnowledgeBases(ctx context.Context, projectID string) ([]api.KnowledgeBase, error)
	CreateKnowledgeBase(ctx context.Context, projectID string, req api.CreateKnowledgeBaseRequest) (*api.KnowledgeBase, error)
}

// Options configures the console
type Options struct {
	Client       Client
	Manager      *lifecycle.Manager
	Prefs        *prefs.Service // nil이면 선택 상태 저장 안 함
	Poller       *poller.Poller // nil이면 상태 폴링 안 함
	Log          *logger.Logger
	PollInterval time.Duration
	APIURL       string
}

// kb_detail 메뉴
const (
	detailDocuments = iota
	detailVersions
	detailItems
)

// confirmation is a lifecycle action waiting for y/n
type confirmation struct {
	action  lifecycle.Action
	version api.KnowledgeBaseVersion
}

// Model is the console TUI model
type Model struct {
	ctx      context.Context
	client   Client
	mgr      *lifecycle.Manager
	prefs    *prefs.Service
	poller   *poller.Poller
	bridge   *bridge
	log      *logger.Logger
	interval time.Duration
	apiURL   string

	// State
	nav       navigation.Context
	gen       uint64
	cursor    int
	pending   int
	status    string
	statusErr bool
	width     int
	height    int
	restore   *prefs.Selection

	// Data
	projects         []api.Project
	kbs              []api.KnowledgeBase
	summaries        []catalog.DocumentSummary
	docVersions      []api.DocumentVersion
	kbVersions       []api.KnowledgeBaseVersion
	kbVersionsLoaded bool
	versionDocs      []catalog.VersionDocument

	// Components
	searching  bool
	search     textinput.Model
	query      string
	kbName     textinput.Model
	draft      *draftEditor
	editTarget *api.KnowledgeBaseVersion
	confirm    *confirmation
	spinner    spinner.Model
}

// NewModel creates the console model
func NewModel(ctx context.Context, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"

	kbName := textinput.New()
	kbName.Placeholder = "knowledge base name"
	kbName.CharLimit = 120

	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	mgr := opts.Manager
	if mgr == nil {
		mgr = lifecycle.NewManager(opts.Client, lifecycle.WithLogger(log))
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	m := Model{
		ctx:      ctx,
		client:   opts.Client,
		mgr:      mgr,
		prefs:    opts.Prefs,
		poller:   opts.Poller,
		bridge:   &bridge{},
		log:      log,
		interval: interval,
		apiURL:   opts.APIURL,
		nav:      navigation.Root(),
		search:   search,
		kbName:   kbName,
		spinner:  s,
	}

	if m.prefs != nil {
		sel, err := m.prefs.LoadSelection()
		if err != nil {
			log.Warn("selection restore failed", "error", err)
		} else if sel.ProjectID != "" {
			m.restore = &sel
		}
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadProjects())
}

// Navigation returns the current selection
func (m Model) Navigation() navigation.Context {
	return m.nav
}

// navigate switches to c, invalidating loads issued for the previous view
func (m *Model) navigate(c navigation.Context) tea.Cmd {
	prevKB := kbID(m.nav)
	m.nav = c
	m.gen++
	m.cursor = 0
	m.pending = 0
	m.query = ""
	m.searching = false
	m.confirm = nil

	if kbID(c) != prevKB {
		m.stopPolling()
		m.summaries = nil
		m.kbVersions = nil
		m.kbVersionsLoaded = false
	}
	if c.Screen != navigation.ScreenCreateKBVersion {
		m.draft = nil
	}
	return m.load()
}

// load issues the requests the current screen needs
func (m *Model) load() tea.Cmd {
	c := m.nav
	var cmds []tea.Cmd

	switch c.Screen {
	case navigation.ScreenProjects:
		cmds = append(cmds, m.loadProjects())
	case navigation.ScreenKnowledgeBases:
		cmds = append(cmds, m.loadKBs(c.Project.ID))
	case navigation.ScreenCreateKB:
		m.kbName.Reset()
		return m.kbName.Focus()
	case navigation.ScreenKBDetail:
		cmds = append(cmds, m.loadSummaries(c.KnowledgeBase.ID), m.loadKBVersions(c.KnowledgeBase.ID))
	case navigation.ScreenDocuments:
		cmds = append(cmds, m.loadSummaries(c.KnowledgeBase.ID))
	case navigation.ScreenDocumentVersions:
		cmds = append(cmds, m.loadDocVersions(c.Document.ID))
	case navigation.ScreenKBVersions:
		cmds = append(cmds, m.loadKBVersions(c.KnowledgeBase.ID))
	case navigation.ScreenKBVersionDetail:
		cmds = append(cmds, m.loadVersionDocs(*c.KBVersion))
	case navigation.ScreenCreateKBVersion:
		cmds = append(cmds, m.loadDraft(c.KnowledgeBase.ID, m.editTarget))
	}

	m.pending = len(cmds)
	return tea.Batch(cmds...)
}

func (m *Model) stopPolling() {
	if m.poller == nil {
		return
	}
	// StopAll은 작업 종료를 기다리므로 Update 루프에서는 Stop만 사용
	for _, key := range m.poller.Active() {
		m.poller.Stop(key)
	}
}

func (m *Model) setStatus(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.log.Warn("console error", "screen", m.nav.Screen, "error", err)
}

// settle marks one load as finished for the current generation
func (m *Model) settle() {
	if m.pending > 0 {
		m.pending--
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case projectsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settle()
		if msg.err != nil {
			m.setError(fmt.Errorf("프로젝트 목록 조회 실패: %w", msg.err))
			return m, nil
		}
		m.projects = msg.projects
		return m, m.restoreProject()

	case kbsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settle()
		if msg.err != nil {
			m.setError(fmt.Errorf("KB 목록 조회 실패: %w", msg.err))
			return m, nil
		}
		m.kbs = msg.kbs
		return m, m.restoreKB()

	case summariesMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settle()
		if msg.err != nil {
			m.setError(fmt.Errorf("문서 목록 조회 실패: %w", msg.err))
			return m, nil
		}
		m.summaries = msg.summaries
		if failed := catalog.Failed(msg.summaries); len(failed) > 0 {
			m.status = fmt.Sprintf("%d개 문서의 버전을 불러오지 못했습니다 (r: 다시 시도)", len(failed))
			m.statusErr = true
		}
		for _, s := range msg.summaries {
			if s.Err == nil && catalog.HasPending(s.Versions) {
				m.watch(kbID(m.nav), s.Document.ID)
			}
		}
		return m, nil

	case docVersionsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settle()
		if msg.err != nil {
			m.setError(fmt.Errorf("문서 버전 조회 실패: %w", msg.err))
			return m, nil
		}
		m.docVersions = msg.versions
		if catalog.HasPending(msg.versions) {
			m.watch(kbID(m.nav), msg.docID)
		}
		return m, nil

	case kbVersionsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settle()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.kbVersions = msg.versions
		m.kbVersionsLoaded = true
		// 상세 화면은 새로 읽은 버전으로 교체
		if m.nav.KBVersion != nil && m.nav.Screen == navigation.ScreenKBVersionDetail {
			for _, v := range msg.versions {
				if v.ID == m.nav.KBVersion.ID {
					v := v
					m.nav = navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectKBVersion, KBVersion: &v})
					m.pending++
					return m, m.loadVersionDocs(v)
				}
			}
		}
		return m, nil

	case versionDocsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settle()
		m.versionDocs = msg.items
		return m, nil

	case draftMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settle()
		if msg.err != nil {
			m.setError(fmt.Errorf("draft 준비 실패: %w", msg.err))
			return m, nil
		}
		m.summaries = msg.summaries
		m.draft = newDraftEditor(kbID(m.nav), msg.summaries, msg.candidates, msg.existing)
		if len(m.draft.missing) > 0 {
			m.status = fmt.Sprintf("%d개 문서 버전을 찾을 수 없어 제외됩니다", len(m.draft.missing))
			m.statusErr = true
		}
		return m, nil

	case kbCreatedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("KB 생성 실패: %w", msg.err))
			return m, nil
		}
		m.setStatus("KB 생성: %s", msg.kb.Name)
		if msg.gen != m.gen {
			return m, nil
		}
		return m, m.navigate(navigation.Back(m.nav))

	case draftSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("draft 저장: %s", msg.result.Version.VersionNumber)
		if len(msg.result.Warnings) > 0 {
			m.status += " (" + strings.Join(msg.result.Warnings, "; ") + ")"
		}
		if msg.gen != m.gen {
			return m, nil
		}
		m.editTarget = nil
		return m, m.navigate(navigation.Back(m.nav))

	case transitionMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("%s: %s", msg.action, msg.version.VersionNumber)
		}
		if msg.gen != m.gen || m.nav.KnowledgeBase == nil {
			return m, nil
		}
		m.pending++
		return m, m.loadKBVersions(m.nav.KnowledgeBase.ID)

	case polledMsg:
		return m.applyPoll(msg), nil
	}

	return m, nil
}

// applyPoll merges polled versions into whatever view still shows the document
func (m Model) applyPoll(msg polledMsg) Model {
	if kbID(m.nav) != msg.kbID {
		return m
	}
	summaries := make([]catalog.DocumentSummary, len(m.summaries))
	for i, s := range m.summaries {
		if s.Document.ID == msg.docID {
			s = catalog.Summarize(s.Document, msg.versions)
		}
		summaries[i] = s
	}
	m.summaries = summaries
	if m.nav.Document != nil && m.nav.Document.ID == msg.docID {
		versions := append([]api.DocumentVersion(nil), msg.versions...)
		catalog.SortDocumentVersions(versions)
		m.docVersions = versions
	}
	if !catalog.HasPending(msg.versions) {
		m.setStatus("문서 처리 완료")
	}
	return m
}

func (m *Model) restoreProject() tea.Cmd {
	if m.restore == nil {
		return nil
	}
	for _, p := range m.projects {
		if p.ID == m.restore.ProjectID {
			p := p
			return m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectProject, Project: &p}))
		}
	}
	m.restore = nil
	return nil
}

func (m *Model) restoreKB() tea.Cmd {
	if m.restore == nil {
		return nil
	}
	want := m.restore.KnowledgeBaseID
	m.restore = nil
	for _, kb := range m.kbs {
		if kb.ID == want {
			kb := kb
			return m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectKnowledgeBase, KnowledgeBase: &kb}))
		}
	}
	return nil
}

func (m *Model) saveSelection() {
	if m.prefs == nil {
		return
	}
	sel := prefs.Selection{}
	if m.nav.Project != nil {
		sel.ProjectID = m.nav.Project.ID
	}
	if m.nav.KnowledgeBase != nil {
		sel.KnowledgeBaseID = m.nav.KnowledgeBase.ID
	}
	if err := m.prefs.SaveSelection(sel); err != nil {
		m.log.Warn("selection save failed", "error", err)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.confirm != nil {
		c := *m.confirm
		m.confirm = nil
		if key == "y" || key == "enter" {
			m.setStatus("%s: %s ...", c.action, c.version.VersionNumber)
			return m, m.transition(c.action, c.version)
		}
		m.setStatus("취소됨")
		return m, nil
	}

	if m.searching {
		switch key {
		case "enter":
			m.query = strings.TrimSpace(m.search.Value())
			m.searching = false
			m.search.Blur()
			m.cursor = 0
			return m, nil
		case "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch m.nav.Screen {
	case navigation.ScreenCreateKB:
		return m.handleCreateKBKey(msg)
	case navigation.ScreenCreateKBVersion:
		if m.typing() {
			return m.handleDraftInputKey(msg)
		}
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		if m.query != "" {
			m.query = ""
			m.cursor = 0
			return m, nil
		}
		return m, m.navigate(navigation.Back(m.nav))
	case "r":
		m.status = ""
		return m, m.load()
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "/":
		if m.searchable() {
			m.searching = true
			m.search.SetValue(m.query)
			return m, m.search.Focus()
		}
		return m, nil
	}

	switch m.nav.Screen {
	case navigation.ScreenProjects:
		if key == "enter" {
			if p, ok := pick(m.visibleProjects(), m.cursor); ok {
				cmd := m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectProject, Project: &p}))
				m.saveSelection()
				return m, cmd
			}
		}

	case navigation.ScreenKnowledgeBases:
		switch key {
		case "enter":
			if kb, ok := pick(m.visibleKBs(), m.cursor); ok {
				cmd := m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectKnowledgeBase, KnowledgeBase: &kb}))
				m.saveSelection()
				return m, cmd
			}
		case "n":
			return m, m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.ShowScreen, Screen: navigation.ScreenCreateKB}))
		}

	case navigation.ScreenKBDetail:
		switch key {
		case "enter":
			screen := navigation.ScreenDocuments
			if m.cursor == detailVersions {
				screen = navigation.ScreenKBVersions
			}
			return m, m.showKeepingData(screen)
		case "n":
			return m.startDraft(nil)
		}

	case navigation.ScreenDocuments:
		if key == "enter" {
			if s, ok := pick(m.visibleSummaries(), m.cursor); ok {
				doc := s.Document
				return m, m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectDocument, Document: &doc}))
			}
		}

	case navigation.ScreenDocumentVersions:
		if key == "enter" {
			if v, ok := pick(m.visibleDocVersions(), m.cursor); ok {
				m.nav = navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectDocumentVersion, DocumentVersion: &v})
			}
		}

	case navigation.ScreenKBVersions:
		v, ok := pick(m.visibleKBVersions(), m.cursor)
		switch key {
		case "enter":
			if ok {
				return m, m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.SelectKBVersion, KBVersion: &v}))
			}
		case "n":
			return m.startDraft(nil)
		case "e":
			if ok {
				return m.startDraft(&v)
			}
		case "p", "s", "a":
			if ok {
				return m.askTransition(key, v)
			}
		}

	case navigation.ScreenKBVersionDetail:
		v := *m.nav.KBVersion
		switch key {
		case "e":
			return m.startDraft(&v)
		case "p", "s", "a":
			return m.askTransition(key, v)
		}

	case navigation.ScreenCreateKBVersion:
		return m.handleDraftKey(msg)
	}

	return m, nil
}

// showKeepingData switches between kb_detail and its children without
// dropping the summaries and versions already loaded for the KB
func (m *Model) showKeepingData(screen navigation.Screen) tea.Cmd {
	return m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.ShowScreen, Screen: screen}))
}

func (m Model) handleCreateKBKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.navigate(navigation.Back(m.nav))
	case "enter":
		name := strings.TrimSpace(m.kbName.Value())
		if name == "" {
			m.setError(errors.New("이름을 입력하세요"))
			return m, nil
		}
		m.setStatus("KB 생성 중: %s", name)
		return m, m.createKB(m.nav.Project.ID, name)
	}
	var cmd tea.Cmd
	m.kbName, cmd = m.kbName.Update(msg)
	return m, cmd
}

// startDraft opens the draft editor. A new draft is refused up front while
// the KB already has one.
func (m Model) startDraft(existing *api.KnowledgeBaseVersion) (tea.Model, tea.Cmd) {
	if existing == nil {
		if !m.kbVersionsLoaded {
			m.setError(errors.New("KB 버전 목록을 불러오는 중입니다"))
			return m, nil
		}
		if d := lifecycle.FindDraft(m.kbVersions); d != nil {
			m.setError(fmt.Errorf("%w (draft %s: e로 편집)", lifecycle.ErrDraftExists, d.VersionNumber))
			return m, nil
		}
	} else if st := lifecycle.Actions(*existing)[lifecycle.ActionEdit]; !st.Enabled {
		m.setError(errors.New(st.Reason))
		return m, nil
	}
	m.editTarget = existing
	return m, m.navigate(navigation.Reduce(m.nav, navigation.Action{Kind: navigation.ShowScreen, Screen: navigation.ScreenCreateKBVersion}))
}

var transitionKeys = map[string]lifecycle.Action{
	"p": lifecycle.ActionPublish,
	"s": lifecycle.ActionSetPrimary,
	"a": lifecycle.ActionArchive,
}

// askTransition checks the action locally and asks for confirmation.
// A disabled action never reaches the network.
func (m Model) askTransition(key string, v api.KnowledgeBaseVersion) (tea.Model, tea.Cmd) {
	action := transitionKeys[key]
	if st := lifecycle.Actions(v)[action]; !st.Enabled {
		m.setError(fmt.Errorf("%s 불가: %s", action, st.Reason))
		return m, nil
	}
	m.confirm = &confirmation{action: action, version: v}
	return m, nil
}

func (m Model) handleDraftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.draft
	if e == nil {
		return m, nil
	}

	var err error
	switch msg.String() {
	case " ", "space", "enter":
		err = e.toggle()
	case "]":
		err = e.cycle(1)
	case "[":
		err = e.cycle(-1)
	case "b":
		e.cycleBump()
	case "l":
		e.cycleAccess()
	case "tab":
		e.nextFocus()
	case "w":
		m.setStatus("draft 저장 중...")
		return m, m.saveDraft(e)
	}
	if err != nil {
		m.setError(err)
	}
	return m, nil
}

func (m Model) handleDraftInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.draft
	switch msg.String() {
	case "tab", "enter":
		e.nextFocus()
		return m, nil
	case "esc":
		e.focus = focusNotes
		e.nextFocus()
		return m, nil
	}

	var cmd tea.Cmd
	if e.focus == focusName {
		e.name, cmd = e.name.Update(msg)
	} else {
		e.notes, cmd = e.notes.Update(msg)
	}
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	if m.nav.Screen == navigation.ScreenCreateKBVersion && m.draft != nil {
		m.draft.move(delta)
		return
	}
	n := m.itemCount()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)
}

func (m Model) itemCount() int {
	switch m.nav.Screen {
	case navigation.ScreenProjects:
		return len(m.visibleProjects())
	case navigation.ScreenKnowledgeBases:
		return len(m.visibleKBs())
	case navigation.ScreenKBDetail:
		return detailItems
	case navigation.ScreenDocuments:
		return len(m.visibleSummaries())
	case navigation.ScreenDocumentVersions:
		return len(m.visibleDocVersions())
	case navigation.ScreenKBVersions:
		return len(m.visibleKBVersions())
	}
	return 0
}

// typing reports whether keys go to a text input
func (m Model) typing() bool {
	if m.searching || m.nav.Screen == navigation.ScreenCreateKB {
		return true
	}
	return m.nav.Screen == navigation.ScreenCreateKBVersion && m.draft != nil && m.draft.focus != focusDocuments
}

func (m Model) searchable() bool {
	switch m.nav.Screen {
	case navigation.ScreenProjects, navigation.ScreenKnowledgeBases, navigation.ScreenDocuments,
		navigation.ScreenDocumentVersions, navigation.ScreenKBVersions:
		return true
	}
	return false
}

func (m Model) visibleProjects() []api.Project {
	if m.query == "" {
		return m.projects
	}
	var out []api.Project
	for _, p := range m.projects {
		if containsFold(p.Name, m.query) || containsFold(p.Description, m.query) {
			out = append(out, p)
		}
	}
	return out
}

func (m Model) visibleKBs() []api.KnowledgeBase {
	if m.query == "" {
		return m.kbs
	}
	var out []api.KnowledgeBase
	for _, kb := range m.kbs {
		if containsFold(kb.Name, m.query) || containsFold(kb.Description, m.query) {
			out = append(out, kb)
		}
	}
	return out
}

func (m Model) visibleSummaries() []catalog.DocumentSummary {
	return catalog.FilterDocuments(m.summaries, m.query)
}

func (m Model) visibleDocVersions() []api.DocumentVersion {
	return catalog.FilterDocumentVersions(m.docVersions, m.query)
}

func (m Model) visibleKBVersions() []api.KnowledgeBaseVersion {
	return catalog.FilterKBVersions(m.kbVersions, m.query)
}

func pick[T any](items []T, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(items) {
		return zero, false
	}
	return items[i], true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func kbID(c navigation.Context) string {
	if c.KnowledgeBase == nil {
		return ""
	}
	return c.KnowledgeBase.ID
}
