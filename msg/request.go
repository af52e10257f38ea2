package msg

import "github.com/mdxfeed/rwfgo/rwf"

// RequestFlags are Request's class-specific flag bits (spec.md §4.5).
type RequestFlags uint16

const (
	ReqStreaming RequestFlags = 1 << iota
	ReqHasPriority
	ReqHasQos
	ReqHasWorstQos
	ReqNoRefresh
	ReqPause
	ReqConfInfoInUpdates
	ReqPrivateStream
	ReqHasView
	ReqHasBatch
)

func (f RequestFlags) Has(bit RequestFlags) bool { return f&bit != 0 }

// Timeliness is the application-level QoS timeliness setting a caller
// chooses; ToWireQos maps it to the wire qos/worstQos enums per spec.md
// §4.5's table.
type Timeliness int

const (
	TimelinessRealTimeApp Timeliness = iota
	TimelinessBestDelayed
	TimelinessBestTimeliness
	TimelinessSpecific // up to 65535, carried in TimeInfo
	TimelinessOther
)

// Rate is the application-level QoS rate setting; ToWireQos maps it to
// the wire qos/worstQos enums per spec.md §4.5's table.
type Rate int

const (
	RateTickByTickApp Rate = iota
	RateJustInTimeConflated
	RateBestConflatedRate
	RateBestRateApp
	RateSpecific // up to 65535, carried in RateInfo
	RateOther
)

// ToWireQos maps an app-level timeliness/rate pair to the wire qos and
// worstQos values, following spec.md §4.5's two tables exactly.
func ToWireQos(t Timeliness, timeInfo uint16, r Rate, rateInfo uint16) (qos, worstQos rwf.Qos) {
	switch t {
	case TimelinessRealTimeApp:
		qos.Timeliness = rwf.TimelinessRealTime
	case TimelinessBestDelayed:
		qos.Timeliness = rwf.TimelinessDelayedByInfo
		qos.TimeInfo = 1
		worstQos.Timeliness = rwf.TimelinessDelayedByInfo
		worstQos.TimeInfo = 65535
	case TimelinessBestTimeliness:
		qos.Timeliness = rwf.TimelinessRealTime
		worstQos.Timeliness = rwf.TimelinessDelayedByInfo
		worstQos.TimeInfo = 65535
	case TimelinessSpecific:
		qos.Timeliness = rwf.TimelinessDelayedByInfo
		qos.TimeInfo = timeInfo
	default:
		qos.Timeliness = rwf.TimelinessDelayedUnknown
	}

	switch r {
	case RateTickByTickApp:
		qos.Rate = rwf.RateTickByTick
	case RateJustInTimeConflated:
		qos.Rate = rwf.RateJitConflated
	case RateBestConflatedRate:
		qos.Rate = rwf.RateTimeConflated
		qos.RateInfo = 1
		worstQos.Rate = rwf.RateJitConflated
	case RateBestRateApp:
		qos.Rate = rwf.RateTickByTick
		worstQos.Rate = rwf.RateJitConflated
	case RateSpecific:
		qos.Rate = rwf.RateTimeConflated
		qos.RateInfo = rateInfo
	default:
		qos.Rate = rwf.RateJitConflated
	}
	return qos, worstQos
}
