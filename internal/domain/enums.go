package domain

// EventKind determines whether the optimizer may move an event.
type EventKind string

const (
	EventKindFixed     EventKind = "fixed"
	EventKindMalleable EventKind = "malleable"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventKindFixed, EventKindMalleable:
		return true
	}
	return false
}

// EventSource records where an event record came from.
type EventSource string

const (
	EventSourceProvider  EventSource = "provider"
	EventSourceSuggested EventSource = "suggested"
)

func (s EventSource) String() string { return string(s) }

func (s EventSource) IsValid() bool {
	switch s {
	case EventSourceProvider, EventSourceSuggested:
		return true
	}
	return false
}

// BurnoutStatus is the categorical band of a burnout score.
// It is always derived from the score via StatusForScore; a stored status
// is never trusted on its own.
type BurnoutStatus string

const (
	BurnoutStatusStable   BurnoutStatus = "stable"
	BurnoutStatusBuilding BurnoutStatus = "building"
	BurnoutStatusHighRisk BurnoutStatus = "high-risk"
	BurnoutStatusCritical BurnoutStatus = "critical"
)

func (s BurnoutStatus) String() string { return string(s) }

func (s BurnoutStatus) IsValid() bool {
	switch s {
	case BurnoutStatusStable, BurnoutStatusBuilding, BurnoutStatusHighRisk, BurnoutStatusCritical:
		return true
	}
	return false
}

// ChangeAction is the oracle's verdict for a single malleable event.
type ChangeAction string

const (
	ChangeActionKeep ChangeAction = "keep"
	ChangeActionMove ChangeAction = "move"
)

func (a ChangeAction) String() string { return string(a) }

func (a ChangeAction) IsValid() bool {
	switch a {
	case ChangeActionKeep, ChangeActionMove:
		return true
	}
	return false
}
