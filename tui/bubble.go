package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/maboroshi-cli/maboroshi/favorites"
	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/internal/ui"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/player"
	"github.com/maboroshi-cli/maboroshi/resolver"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/maboroshi-cli/maboroshi/util"
	"github.com/samber/mo"
)

// nowPlayingLines and logLines are the rows reserved under the list.
const (
	nowPlayingLines = 4
	logLines        = 4
)

type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC   spinner.Model
	inputC     textinput.Model
	favoritesC list.Model
	resultsC   list.Model
	progressC  progress.Model
	helpC      help.Model

	// orchestration; only Update touches these
	machine   *playback.Machine
	favorites *favorites.Queue
	streams   *cache.Cache
	resolver  resolver.Resolver
	searcher  resolver.Searcher
	player    player.Player
	events    *ui.EventLog
	notifier  *ui.Model

	source         track.Source
	query          string
	page           int
	searching      bool
	volume         int
	restarting     bool
	progressStatus string

	lastError        error
	width, height    int
	searchSuggestion mo.Option[string]

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != loadingState && b.state != errorState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if previous, ok := b.statesHistory.Pop().Get(); ok {
		b.setState(previous)
		return
	}
	b.setState(favoritesState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy - nowPlayingLines - logLines

	b.favoritesC.SetSize(listWidth, listHeight)
	b.favoritesC.Help.Width = listWidth
	b.resultsC.SetSize(listWidth, listHeight)
	b.resultsC.Help.Width = listWidth

	b.progressC.Width = max(listWidth/2, 10)

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(options *Options) *statefulBubble {
	options.normalize()

	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{Limit: 16},
		keymap:        keymap,

		favorites: options.Favorites,
		streams:   options.Cache,
		resolver:  options.Resolver,
		searcher:  options.Searcher,
		player:    options.Player,
		events:    ui.NewEventLog(options.LogLines),
		notifier:  &ui.Model{},

		source: options.Source,
		volume: options.Volume,

		options: options,
	}

	bubble.machine = playback.New(options.Mode, bubble.favorites)

	makeList := func(title string, titleColor lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(titleColor).Padding(0, 1)
		listC.Styles.NoItems = paddingStyle
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		listC.SetFilteringEnabled(false)
		listC.SetShowHelp(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.CharLimit = 120
	bubble.inputC.Prompt = "> "

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	bubble.favoritesC = makeList("Favorites", style.Pink)
	bubble.favoritesC.SetStatusBarItemName("track", "tracks")
	bubble.resultsC = makeList("Results", style.Lavender)
	bubble.resultsC.SetStatusBarItemName("result", "results")

	bubble.refreshFavorites()
	bubble.updateSearchPlaceholder()

	for _, warning := range options.Warnings {
		bubble.events.Warn("%s", warning)
	}

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(loadingState)
	bubble.progressStatus = "Starting player"

	return &bubble
}

func (b *statefulBubble) updateSearchPlaceholder() {
	b.inputC.Placeholder = fmt.Sprintf("Search %s", b.source.Name())
}

// refreshFavorites rebuilds list items so marks follow the session.
func (b *statefulBubble) refreshFavorites() {
	current := b.currentID()

	items := make([]list.Item, 0, b.favorites.Len())
	for _, t := range b.favorites.Tracks() {
		items = append(items, &listItem{track: t, playing: t.ID == current})
	}
	b.favoritesC.SetItems(items)

	for _, item := range b.resultsC.Items() {
		if it, ok := item.(*listItem); ok {
			it.favorite = b.favorites.Contains(it.track.ID)
			it.playing = it.track.ID == current
		}
	}
}

func (b *statefulBubble) currentID() string {
	if t, ok := b.machine.Snapshot().Track.Get(); ok {
		return t.ID
	}
	return ""
}
