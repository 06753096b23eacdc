package structs

// NotificationKind classifies structured side-channel messages forwarded to
// the caller alongside the main message.
type NotificationKind string

const (
	NoteScore   NotificationKind = "score"
	NoteBattery NotificationKind = "battery"
	NoteSanity  NotificationKind = "sanity"
	NoteInfo    NotificationKind = "info"
)

type Notification struct {
	Kind NotificationKind
	Text string
}

// Candidate is one member of an ambiguous resolution. Where distinguishes
// otherwise identical names ("carried" vs the room name).
type Candidate struct {
	ID    string
	Name  string
	Where string
}

// Move relocates one object.
type Move struct {
	Object string
	To     Placement
}

// Result is the delta a handler computes instead of mutating the session.
// The dispatcher folds it into the session at a single point; a result with
// Success false is guaranteed to change nothing.
type Result struct {
	Success       bool
	Message       string
	Room          string
	Moved         []Move
	SetFlags      map[string]FlagValue
	SetState      map[string]string
	SanityDelta   int
	ScoreDelta    int
	ScoreObject   string
	Notifications []Notification
	Candidates    []Candidate
}

// Fail builds a failed result. Every failure carries a non-empty message;
// the engine never silently no-ops.
func Fail(message string) *Result {
	return &Result{Success: false, Message: message}
}

// Say builds a successful result that only talks.
func Say(message string) *Result {
	return &Result{Success: true, Message: message}
}

// Notify appends a notification and returns the result for chaining.
func (r *Result) Notify(kind NotificationKind, text string) *Result {
	r.Notifications = append(r.Notifications, Notification{Kind: kind, Text: text})
	return r
}

// MoveObject appends a placement change and returns the result for chaining.
func (r *Result) MoveObject(objectID string, to Placement) *Result {
	r.Moved = append(r.Moved, Move{Object: objectID, To: to})
	return r
}

// SetFlag records a flag delta.
func (r *Result) SetFlag(name string, val FlagValue) *Result {
	if r.SetFlags == nil {
		r.SetFlags = map[string]FlagValue{}
	}
	r.SetFlags[name] = val
	return r
}

// SetObjectState records an object state delta.
func (r *Result) SetObjectState(objectID, key, val string) *Result {
	if r.SetState == nil {
		r.SetState = map[string]string{}
	}
	r.SetState[StateKey(objectID, key)] = val
	return r
}
