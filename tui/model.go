package tui

import (
	"context"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/liststate"
	"github.com/youssefsiam38/storefront/searchsync"
	"github.com/youssefsiam38/storefront/session"
	"github.com/youssefsiam38/storefront/ui/service"
)

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config configures the browser.
type Config struct {
	Service  *service.Service
	Sessions *session.Manager

	// SessionID identifies the persisted session of this terminal.
	SessionID string

	// QuietPeriod is the search debounce window.
	QuietPeriod time.Duration

	// Clock drives the search debounce. Defaults to the wall clock.
	Clock searchsync.Clock

	// Query is the initial catalog URL query, e.g. "sort=top-rated".
	Query string

	Logger Logger
}

type screen int

const (
	screenCatalog screen = iota
	screenProduct
	screenLogin
)

// navBuffer bounds the queued search navigations.
const navBuffer = 8

// Model is the Bubble Tea model of the browser.
type Model struct {
	ctx       context.Context
	svc       *service.Service
	sessions  *session.Manager
	sessionID string
	logger    Logger

	locale i18n.Locale
	t      *i18n.Messages
	user   *storefront.User

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  styles
	width   int
	height  int

	screen screen
	status string

	// Catalog
	search     *searchsync.Synchronizer
	navs       chan string
	auth       chan session.Event
	unsubAuth  func()
	input      textinput.Model
	current    url.Values
	catalog    *service.CatalogView
	catalogErr error
	catalogSeq int
	loading    bool
	cursor     int

	// Product
	productID  string
	product    *storefront.Product
	productErr error
	reviews    *liststate.List[storefront.Review]

	login loginForm
}

// New creates the browser model. The session is read once here; a failure
// leaves the visitor signed out in the default locale.
func New(ctx context.Context, cfg Config) Model {
	m := Model{
		ctx:       ctx,
		svc:       cfg.Service,
		sessions:  cfg.Sessions,
		sessionID: cfg.SessionID,
		logger:    cfg.Logger,
		locale:    cfg.Sessions.DefaultLocale(),
		keys:      defaultKeys(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:    defaultStyles(),
		navs:      make(chan string, navBuffer),
		auth:      make(chan session.Event, navBuffer),
		reviews:   liststate.New[storefront.Review](ctx, cfg.Service.ReviewQuery("")),
	}

	if s, err := cfg.Sessions.Get(ctx, cfg.SessionID); err != nil {
		m.logWarn("failed to load session", err)
	} else {
		m.locale = s.Locale
		m.user = s.User
	}
	m.t = m.svc.Messages(m.locale)

	// The signed-in user shown in the header follows the session's auth
	// events only.
	auth, sessionID := m.auth, m.sessionID
	m.unsubAuth = cfg.Sessions.Subscribe(func(e session.Event) {
		if e.Type == session.EventAuthChanged && e.SessionID == sessionID {
			offer(auth, e)
		}
	})

	opts := []searchsync.Option{
		searchsync.WithQuietPeriod(cfg.QuietPeriod),
		searchsync.WithClock(cfg.Clock),
	}
	if cfg.Logger != nil {
		opts = append(opts, searchsync.WithLogger(cfg.Logger))
	}
	m.search = searchsync.New(searchsync.NavigatorFunc(m.enqueue), opts...)

	m.current, _ = url.ParseQuery(cfg.Query)
	m.search.OnMount(m.current)

	m.input = textinput.New()
	m.input.Prompt = "⌕ "
	m.input.Placeholder = m.t.Search.Placeholder
	m.input.CharLimit = 120
	m.input.SetValue(m.search.Snapshot().RawInput)
	m.input.CursorEnd()

	m.login = newLoginForm(m.t)

	// Init runs on a copy, so the first load is registered here.
	m.catalogSeq = 1
	m.loading = true
	return m
}

// enqueue hands a search navigation to the update loop.
func (m Model) enqueue(target string) {
	offer(m.navs, target)
}

// offer queues v on ch. When ch is full the oldest value is dropped; the
// newest always gets through.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close stops the search debounce, cancels in-flight review requests and
// stops listening for auth changes.
func (m Model) Close() {
	m.search.OnUnmount()
	m.reviews.Close()
	m.unsubAuth()
}

// Init loads the catalog and starts listening for search navigations.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCatalog(m.catalogSeq), waitForNav(m.navs), waitForAuth(m.auth), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.help.Width = msg.Width
		return m, nil

	case navigateMsg:
		u, err := url.Parse(msg.target)
		if err != nil {
			m.logWarn("invalid navigation target", err)
			return m, waitForNav(m.navs)
		}
		cmd := m.navigate(u.Query())
		return m, tea.Batch(cmd, waitForNav(m.navs))

	case catalogMsg:
		if msg.seq != m.catalogSeq {
			return m, nil
		}
		m.loading = false
		m.catalog, m.catalogErr = msg.view, msg.err
		if m.catalog != nil && m.cursor >= len(m.catalog.Products) {
			m.cursor = max(len(m.catalog.Products)-1, 0)
		}
		return m, nil

	case productMsg:
		if msg.id != m.productID {
			return m, nil
		}
		m.product, m.productErr = msg.product, msg.err
		return m, nil

	case reviewsMsg:
		return m, nil

	case authMsg:
		m.user = msg.event.User
		if m.user != nil {
			m.status = m.user.Name
		} else {
			m.status = ""
		}
		return m, waitForAuth(m.auth)

	case loginMsg:
		return m.handleLoginResult(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.screen {
		case screenProduct:
			return m.updateProduct(msg)
		case screenLogin:
			return m.updateLogin(msg)
		default:
			return m.updateCatalog(msg)
		}
	}
	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	var body, helpView string
	switch m.screen {
	case screenProduct:
		body = m.productView()
		helpView = m.help.ShortHelpView(m.keys.productHelp())
	case screenLogin:
		body = m.loginView()
		helpView = m.help.ShortHelpView(m.keys.loginHelp())
	default:
		body = m.catalogView()
		helpView = m.help.ShortHelpView(m.keys.catalogHelp())
	}

	out := m.headerView() + body + "\n"
	if m.status != "" {
		out += m.styles.Muted.Render(m.status) + "\n"
	}
	return out + "\n" + helpView
}

func (m Model) headerView() string {
	right := m.locale.Label()
	if m.user != nil {
		right = m.user.Name + " · " + right
	}
	line := m.styles.Brand.Render(m.t.Header.BrandLabel) + "  " + m.styles.Muted.Render(right)
	return m.styles.Header.Render(line) + "\n"
}

// cycleLocale switches to the next supported locale and stores the choice.
func (m *Model) cycleLocale() {
	locales := i18n.Locales()
	next := locales[0].Code
	for i, info := range locales {
		if info.Code == m.locale {
			next = locales[(i+1)%len(locales)].Code
		}
	}
	if err := m.sessions.SetLocale(m.ctx, m.sessionID, next); err != nil {
		m.logWarn("failed to save locale", err)
	}
	m.locale = next
	m.t = m.svc.Messages(next)
	m.input.Placeholder = m.t.Search.Placeholder
	m.login.relabel(m.t)
}

func (m Model) logWarn(msg string, err error) {
	if m.logger != nil {
		m.logger.Warn(msg, "error", err)
	}
}
