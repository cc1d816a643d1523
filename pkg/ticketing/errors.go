package ticketing

import "fmt"

// Stage is a step of the ticket workflow.
type Stage string

const (
	StageStart           Stage = "start"
	StageResolveCategory Stage = "resolve_category"
	StagePlanAccess      Stage = "plan_access"
	StageCreateChannel   Stage = "create_channel"
	StageAnnounce        Stage = "announce"
	StageAcknowledge     Stage = "acknowledge"
)

// StageError is returned when the workflow stops at a stage. It records what was left behind so that a failure after
// partial completion can be told apart from a clean one.
type StageError struct {
	// Stage is where the workflow stopped.
	Stage Stage

	// ContainerCreated is set when the tickets category was created by this run.
	ContainerCreated bool

	// ChannelID is the ticket channel created by this run, if any.
	ChannelID string

	// Compensated is set when the ticket channel was deleted again after a later stage failed.
	Compensated bool

	// Err is the underlying error.
	Err error
}

func (e *StageError) Error() string {
	switch {
	case e.ChannelID != "" && e.Compensated:
		return fmt.Sprintf("ticket workflow failed at %s, channel %s rolled back: %v", e.Stage, e.ChannelID, e.Err)
	case e.ChannelID != "":
		return fmt.Sprintf("ticket workflow failed at %s, channel %s left in place: %v", e.Stage, e.ChannelID, e.Err)
	default:
		return fmt.Sprintf("ticket workflow failed at %s: %v", e.Stage, e.Err)
	}
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Partial reports whether the failed run left anything behind.
func (e *StageError) Partial() bool {
	return e.ContainerCreated || e.ChannelLeft()
}

// ChannelLeft reports whether the failed run left a ticket channel behind.
func (e *StageError) ChannelLeft() bool {
	return e.ChannelID != "" && !e.Compensated
}
