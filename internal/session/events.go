package session

// Key identifies a keyboard key handled by the query input.
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// Event is a single input to the state machine. All state changes flow
// through Rules.Apply so the transition logic stays testable without timers
// or network calls.
type Event interface {
	isEvent()
}

// QueryChanged records a keystroke updating the query text.
type QueryChanged struct {
	Query string
}

// SuggestionsRequested marks seq as the only suggestion request whose result
// is still welcome. Results carrying any other sequence number are stale and
// dropped on arrival.
type SuggestionsRequested struct {
	Seq uint64
}

// SuggestionsLoaded delivers the titles for suggestion request seq.
type SuggestionsLoaded struct {
	Seq    uint64
	Titles []string
}

// SuggestionsFailed records a failed suggestion request. Autocomplete
// failures are silent: the list closes and typing continues.
type SuggestionsFailed struct {
	Seq uint64
}

// KeyPressed records a navigation or commit key.
type KeyPressed struct {
	Key Key
}

// BlurElapsed fires when the input lost focus and the close delay ran out
// without a suggestion click.
type BlurElapsed struct{}

// SuggestionClicked commits the suggestion at Index into the query.
type SuggestionClicked struct {
	Index int
}

// SearchStarted marks a search in flight.
type SearchStarted struct{}

// SearchLoaded delivers search results.
type SearchLoaded struct {
	Results []Result
}

// SearchFailed delivers a user-facing search error message.
type SearchFailed struct {
	Message string
}

func (QueryChanged) isEvent()         {}
func (SuggestionsRequested) isEvent() {}
func (SuggestionsLoaded) isEvent()    {}
func (SuggestionsFailed) isEvent()    {}
func (KeyPressed) isEvent()           {}
func (BlurElapsed) isEvent()          {}
func (SuggestionClicked) isEvent()    {}
func (SearchStarted) isEvent()        {}
func (SearchFailed) isEvent()         {}
func (SearchLoaded) isEvent()         {}
