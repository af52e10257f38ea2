package rwf

// Date, Time, and DateTime truncate trailing blank fields on encode and
// reconstruct the full struct with zeros/sentinels on decode, per
// spec.md §3/§4.2. Date fields are blank when zero; Time fields use the
// sentinels 255 (hour/minute/second) and 65535
// (millisecond/microsecond/nanosecond) spec.md names for "blank".

type Date struct {
	Year  uint16 // 0 == blank
	Month uint8  // 0 == blank
	Day   uint8  // 0 == blank
}

func (d Date) IsBlank() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

type Time struct {
	Hour        uint8  // 255 == blank
	Minute      uint8  // 255 == blank
	Second      uint8  // 255 == blank
	Millisecond uint16 // 65535 == blank
	Microsecond uint16 // 65535 == blank
	Nanosecond  uint16 // 65535 == blank
}

func BlankTime() Time {
	return Time{Hour: 255, Minute: 255, Second: 255, Millisecond: 65535, Microsecond: 65535, Nanosecond: 65535}
}

func (t Time) IsBlank() bool {
	return t.Hour == 255 && t.Minute == 255 && t.Second == 255 &&
		t.Millisecond == 65535 && t.Microsecond == 65535 && t.Nanosecond == 65535
}

type DateTime struct {
	Date
	Time
}

// EncodeDate writes year(2)/month(1)/day(1), truncating trailing zero
// fields: day is dropped when zero, month too when month and day are both
// zero; year is always written unless the whole date is blank.
func EncodeDate(iter *EncodeIterator, d Date) Ret {
	var b []byte
	switch {
	case d.IsBlank():
		b = nil
	case d.Day != 0:
		b = []byte{byte(d.Year >> 8), byte(d.Year), d.Month, d.Day}
	case d.Month != 0:
		b = []byte{byte(d.Year >> 8), byte(d.Year), d.Month}
	default:
		b = []byte{byte(d.Year >> 8), byte(d.Year)}
	}
	if ret := iter.WriteByte(byte(len(b))); ret != RetSuccess {
		return ret
	}
	return iter.WriteRaw(b)
}

func DecodeDate(iter *DecodeIterator) (Date, Ret) {
	b, ret := readLenPrefixedBytes(iter)
	if ret != RetSuccess {
		return Date{}, ret
	}
	if b == nil {
		return Date{}, RetBlankData
	}
	var d Date
	if len(b) >= 2 {
		d.Year = uint16(b[0])<<8 | uint16(b[1])
	}
	if len(b) >= 3 {
		d.Month = b[2]
	}
	if len(b) >= 4 {
		d.Day = b[3]
	}
	return d, RetSuccess
}

// EncodeTime writes hour/minute/second/ms/us/ns, truncating from the
// tail while every trailing field is blank.
func EncodeTime(iter *EncodeIterator, t Time) Ret {
	if t.IsBlank() {
		return iter.WriteByte(0)
	}
	full := []byte{
		t.Hour, t.Minute, t.Second,
		byte(t.Millisecond >> 8), byte(t.Millisecond),
		byte(t.Microsecond >> 8), byte(t.Microsecond),
		byte(t.Nanosecond >> 8), byte(t.Nanosecond),
	}
	n := len(full)
	switch {
	case t.Nanosecond == 65535 && t.Microsecond == 65535 && t.Millisecond == 65535:
		n = 3
	case t.Nanosecond == 65535 && t.Microsecond == 65535:
		n = 5
	case t.Nanosecond == 65535:
		n = 7
	}
	if ret := iter.WriteByte(byte(n)); ret != RetSuccess {
		return ret
	}
	return iter.WriteRaw(full[:n])
}

func DecodeTime(iter *DecodeIterator) (Time, Ret) {
	b, ret := readLenPrefixedBytes(iter)
	if ret != RetSuccess {
		return Time{}, ret
	}
	if b == nil {
		return BlankTime(), RetBlankData
	}
	t := BlankTime()
	if len(b) >= 1 {
		t.Hour = b[0]
	}
	if len(b) >= 2 {
		t.Minute = b[1]
	}
	if len(b) >= 3 {
		t.Second = b[2]
	}
	if len(b) >= 5 {
		t.Millisecond = uint16(b[3])<<8 | uint16(b[4])
	}
	if len(b) >= 7 {
		t.Microsecond = uint16(b[5])<<8 | uint16(b[6])
	}
	if len(b) >= 9 {
		t.Nanosecond = uint16(b[7])<<8 | uint16(b[8])
	}
	return t, RetSuccess
}

func EncodeDateTime(iter *EncodeIterator, dt DateTime) Ret {
	if ret := EncodeDate(iter, dt.Date); ret != RetSuccess && ret != RetBlankData {
		return ret
	}
	return EncodeTime(iter, dt.Time)
}

func DecodeDateTime(iter *DecodeIterator) (DateTime, Ret) {
	d, ret := DecodeDate(iter)
	if ret != RetSuccess && ret != RetBlankData {
		return DateTime{}, ret
	}
	dateBlank := ret == RetBlankData
	t, ret := DecodeTime(iter)
	if ret != RetSuccess && ret != RetBlankData {
		return DateTime{}, ret
	}
	timeBlank := ret == RetBlankData
	out := DateTime{Date: d, Time: t}
	if dateBlank && timeBlank {
		return out, RetBlankData
	}
	return out, RetSuccess
}
