package rwf

// Enum is a 16-bit unsigned code (spec.md §3).
type Enum uint16

func EncodeEnum(iter *EncodeIterator, e Enum) Ret { return EncodeUInt(iter, uint64(e)) }

func DecodeEnum(iter *DecodeIterator) (Enum, Ret) {
	v, ret := DecodeUInt(iter)
	return Enum(v), ret
}

// EncodeBuffer/DecodeBuffer carry an opaque byte string (also used for
// ASCII_STRING/UTF8_STRING primitive types, which differ only in the
// caller's interpretation of the bytes).
func EncodeBuffer(iter *EncodeIterator, b []byte) Ret {
	n := len(b)
	if n <= lenDiscrMax {
		if ret := iter.WriteByte(byte(n)); ret != RetSuccess {
			return ret
		}
		return iter.WriteRaw(b)
	}
	if ret := iter.WriteByte(lenDiscrMedium); ret != RetSuccess {
		return ret
	}
	if ret := iter.WriteByte(byte(n >> 8)); ret != RetSuccess {
		return ret
	}
	if ret := iter.WriteByte(byte(n)); ret != RetSuccess {
		return ret
	}
	return iter.WriteRaw(b)
}

func DecodeBuffer(iter *DecodeIterator) ([]byte, Ret) {
	b0, ret := iter.ReadByte()
	if ret != RetSuccess {
		return nil, ret
	}
	var n int
	switch {
	case b0 <= lenDiscrMax:
		n = int(b0)
	case b0 == lenDiscrMedium:
		hi, ret := iter.ReadByte()
		if ret != RetSuccess {
			return nil, ret
		}
		lo, ret := iter.ReadByte()
		if ret != RetSuccess {
			return nil, ret
		}
		n = int(hi)<<8 | int(lo)
	default:
		return nil, RetUnsupportedDataType
	}
	if n == 0 {
		return nil, RetBlankData
	}
	return iter.ReadBytes(n)
}

// QosTimeliness/QosRate enumerate the wire QoS axes (spec.md §3, §4.5).
type QosTimeliness uint8

const (
	TimelinessUnspecified QosTimeliness = iota
	TimelinessRealTime
	TimelinessDelayedByInfo
	TimelinessDelayedUnknown
)

type QosRate uint8

const (
	RateUnspecified QosRate = iota
	RateTickByTick
	RateJitConflated
	RateTimeConflated
)

type Qos struct {
	Timeliness QosTimeliness
	Rate       QosRate
	Dynamic    bool
	TimeInfo   uint16
	RateInfo   uint16
}

func EncodeQos(iter *EncodeIterator, q Qos) Ret {
	flags := byte(q.Timeliness)<<4 | byte(q.Rate)
	if q.Dynamic {
		flags |= 0x80
	}
	if ret := iter.WriteByte(flags); ret != RetSuccess {
		return ret
	}
	if q.Timeliness == TimelinessDelayedByInfo {
		if ret := iter.WriteByte(byte(q.TimeInfo >> 8)); ret != RetSuccess {
			return ret
		}
		if ret := iter.WriteByte(byte(q.TimeInfo)); ret != RetSuccess {
			return ret
		}
	}
	if q.Rate == RateTimeConflated {
		if ret := iter.WriteByte(byte(q.RateInfo >> 8)); ret != RetSuccess {
			return ret
		}
		if ret := iter.WriteByte(byte(q.RateInfo)); ret != RetSuccess {
			return ret
		}
	}
	return RetSuccess
}

func DecodeQos(iter *DecodeIterator) (Qos, Ret) {
	flags, ret := iter.ReadByte()
	if ret != RetSuccess {
		return Qos{}, ret
	}
	q := Qos{
		Timeliness: QosTimeliness((flags >> 4) & 0x7),
		Rate:       QosRate(flags & 0xF),
		Dynamic:    flags&0x80 != 0,
	}
	if q.Timeliness == TimelinessDelayedByInfo {
		hi, ret := iter.ReadByte()
		if ret != RetSuccess {
			return Qos{}, ret
		}
		lo, ret := iter.ReadByte()
		if ret != RetSuccess {
			return Qos{}, ret
		}
		q.TimeInfo = uint16(hi)<<8 | uint16(lo)
	}
	if q.Rate == RateTimeConflated {
		hi, ret := iter.ReadByte()
		if ret != RetSuccess {
			return Qos{}, ret
		}
		lo, ret := iter.ReadByte()
		if ret != RetSuccess {
			return Qos{}, ret
		}
		q.RateInfo = uint16(hi)<<8 | uint16(lo)
	}
	return q, RetSuccess
}

// StreamState/DataState enumerate State's two axes (spec.md §3).
type StreamState uint8

const (
	StreamUnspecified StreamState = iota
	StreamOpen
	StreamClosed
	StreamClosedRecover
	StreamClosedRedirected
	StreamNonStreaming
)

type DataState uint8

const (
	DataOK DataState = iota
	DataSuspect
	DataNoChange
)

type State struct {
	StreamState StreamState
	DataState   DataState
	Code        uint8
	Text        string
}

func EncodeState(iter *EncodeIterator, s State) Ret {
	flags := byte(s.StreamState)<<5 | byte(s.DataState)<<3
	if ret := iter.WriteByte(flags); ret != RetSuccess {
		return ret
	}
	if ret := iter.WriteByte(s.Code); ret != RetSuccess {
		return ret
	}
	return EncodeBuffer(iter, []byte(s.Text))
}

func DecodeState(iter *DecodeIterator) (State, Ret) {
	flags, ret := iter.ReadByte()
	if ret != RetSuccess {
		return State{}, ret
	}
	code, ret := iter.ReadByte()
	if ret != RetSuccess {
		return State{}, ret
	}
	text, ret := DecodeBuffer(iter)
	if ret != RetSuccess && ret != RetBlankData {
		return State{}, ret
	}
	return State{
		StreamState: StreamState(flags >> 5),
		DataState:   DataState((flags >> 3) & 0x3),
		Code:        code,
		Text:        string(text),
	}, RetSuccess
}
