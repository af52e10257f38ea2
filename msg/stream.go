package msg

import "github.com/mdxfeed/rwfgo/rwf"

// StreamPhase is a stream's lifecycle position (spec.md §4.5):
//
//	Idle --open/request--> Pending --refresh(complete)--> Open
//	Pending --status(closed)--> Closed
//	Open   --status(closed_recover)--> Pending
//	Open   --close--> Closed
//	Open   --post/gen--> Open
type StreamPhase int

const (
	StreamIdle StreamPhase = iota
	StreamPending
	StreamOpenPhase
	StreamClosedPhase
)

func (p StreamPhase) String() string {
	switch p {
	case StreamIdle:
		return "IDLE"
	case StreamPending:
		return "PENDING"
	case StreamOpenPhase:
		return "OPEN"
	case StreamClosedPhase:
		return "CLOSED"
	default:
		return "PHASE(?)"
	}
}

// Stream tracks one stream's lifecycle phase across the messages it
// sends/receives. Not safe for concurrent use without external locking —
// same contract as the iterators it sits alongside.
type Stream struct {
	ID    int32
	Phase StreamPhase
}

// Advance applies one message's effect on the stream's phase, returning
// RetInvalidArgument for a transition the state machine doesn't define
// (e.g. a Refresh arriving in Idle).
func (s *Stream) Advance(m *Msg) rwf.Ret {
	switch s.Phase {
	case StreamIdle:
		if m.Header.MsgClass == ClassRequest {
			s.Phase = StreamPending
			return rwf.RetSuccess
		}
		return rwf.RetInvalidArgument
	case StreamPending:
		switch m.Header.MsgClass {
		case ClassRefresh:
			if isComplete(m) {
				s.Phase = StreamOpenPhase
			}
			return rwf.RetSuccess
		case ClassStatus:
			if m.State.StreamState == rwf.StreamClosed || m.State.StreamState == rwf.StreamClosedRedirected {
				s.Phase = StreamClosedPhase
			}
			return rwf.RetSuccess
		default:
			return rwf.RetInvalidArgument
		}
	case StreamOpenPhase:
		switch m.Header.MsgClass {
		case ClassStatus:
			switch m.State.StreamState {
			case rwf.StreamClosedRecover:
				s.Phase = StreamPending
			case rwf.StreamClosed, rwf.StreamClosedRedirected:
				s.Phase = StreamClosedPhase
			}
			return rwf.RetSuccess
		case ClassClose:
			s.Phase = StreamClosedPhase
			return rwf.RetSuccess
		case ClassPost, ClassGeneric, ClassUpdate, ClassAck:
			return rwf.RetSuccess
		default:
			return rwf.RetInvalidArgument
		}
	default: // StreamClosedPhase
		return rwf.RetInvalidArgument
	}
}

// isComplete reports whether a Refresh completes the refresh sequence.
// Only PartNum is consulted: a Refresh with PartNum 0 counts as complete,
// any other PartNum does not.
func isComplete(m *Msg) bool {
	return m.PartNum == 0
}
