package tui

type state int

const (
	loadingState state = iota
	errorState
	favoritesState
	searchState
	resultsState
	logState
)
