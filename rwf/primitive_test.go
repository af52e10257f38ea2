package rwf

import (
	"math"
	"testing"
)

func newIters(size int) (*EncodeIterator, *DecodeIterator, []byte) {
	buf := make([]byte, size)
	eit := &EncodeIterator{}
	eit.SetBuffer(NewBuffer(buf))
	eit.SetVersion(MajorVersion, MinorVersion)
	return eit, &DecodeIterator{}, buf
}

func TestIntRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, -128, 32767, -32768, math.MaxInt64, math.MinInt64, 65423}
	for _, v := range cases {
		eit, dit, buf := newIters(32)
		if ret := EncodeInt(eit, v); ret != RetSuccess {
			t.Fatalf("encode %d: %v", v, ret)
		}
		dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
		got, ret := DecodeInt(dit)
		if ret != RetSuccess {
			t.Fatalf("decode %d: %v", v, ret)
		}
		if got != v {
			t.Fatalf("roundtrip %d != %d", got, v)
		}
	}
}

func TestUIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 255, 256, 65535, math.MaxUint64}
	for _, v := range cases {
		eit, dit, buf := newIters(32)
		EncodeUInt(eit, v)
		dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
		got, ret := DecodeUInt(dit)
		if ret != RetSuccess || got != v {
			t.Fatalf("roundtrip %d got %d ret %v", v, got, ret)
		}
	}
}

func TestRealRoundTrip(t *testing.T) {
	r := Real{Hint: HintForExponent(-2), Mantissa: 65423}
	eit, dit, buf := newIters(32)
	if ret := EncodeReal(eit, r); ret != RetSuccess {
		t.Fatalf("encode: %v", ret)
	}
	dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
	got, ret := DecodeReal(dit)
	if ret != RetSuccess {
		t.Fatalf("decode: %v", ret)
	}
	v, ok := got.ToFloat64()
	if !ok || math.Abs(v-654.23) > 1e-9 {
		t.Fatalf("value = %v ok=%v want 654.23", v, ok)
	}
}

func TestRealBlank(t *testing.T) {
	eit, dit, buf := newIters(8)
	EncodeReal(eit, BlankReal())
	dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
	got, ret := DecodeReal(dit)
	if ret != RetBlankData {
		t.Fatalf("expected RetBlankData, got %v", ret)
	}
	if !got.Hint.IsBlank() {
		t.Fatalf("expected blank hint")
	}
}

func TestRealInfinity(t *testing.T) {
	eit, dit, buf := newIters(8)
	EncodeReal(eit, Real{Hint: HintInfinity})
	dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
	got, ret := DecodeReal(dit)
	if ret != RetSuccess || got.Hint != HintInfinity {
		t.Fatalf("got %v ret %v", got, ret)
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	dt := DateTime{Date: Date{Year: 2026, Month: 7, Day: 31}, Time: BlankTime()}
	dt.Time.Hour, dt.Time.Minute, dt.Time.Second = 10, 30, 0
	eit, dit, buf := newIters(32)
	EncodeDateTime(eit, dt)
	dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
	got, ret := DecodeDateTime(dit)
	if ret != RetSuccess {
		t.Fatalf("decode: %v", ret)
	}
	if got.Date != dt.Date {
		t.Fatalf("date mismatch: %+v != %+v", got.Date, dt.Date)
	}
	if got.Time.Hour != 10 || got.Time.Minute != 30 || got.Time.Second != 0 {
		t.Fatalf("time mismatch: %+v", got.Time)
	}
}

func TestFloatDoubleBlank(t *testing.T) {
	eit, dit, buf := newIters(16)
	eit.WriteByte(0) // simulate a blank wire value directly
	dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
	_, ret := DecodeFloat(dit)
	if ret != RetBlankData {
		t.Fatalf("expected RetBlankData, got %v", ret)
	}
}

func TestContainerRollback(t *testing.T) {
	eit, _, buf := newIters(64)
	if ret := eit.PushContainer(0); ret != RetSuccess {
		t.Fatalf("push: %v", ret)
	}
	preLen := eit.GetEncodedLength()
	EncodeInt(eit, 42)
	EncodeInt(eit, -7)
	if ret := eit.PopContainerComplete(false); ret != RetSuccess {
		t.Fatalf("pop(false): %v", ret)
	}
	if eit.GetEncodedLength() != 0 {
		t.Fatalf("expected full rewind to 0, got %d (preLen was %d)", eit.GetEncodedLength(), preLen)
	}
	for _, b := range buf {
		_ = b // buffer content beyond cursor is irrelevant once rolled back
	}
}

func TestContainerCompleteSuccessLength(t *testing.T) {
	eit, dit, buf := newIters(64)
	eit.PushContainer(0)
	EncodeInt(eit, 1)
	EncodeInt(eit, 2)
	if ret := eit.PopContainerComplete(true); ret != RetSuccess {
		t.Fatalf("pop(true): %v", ret)
	}
	dit.SetBuffer(NewBuffer(buf[:eit.GetEncodedLength()]))
	n, ret := dit.PushContainer()
	if ret != RetSuccess {
		t.Fatalf("decode push: %v", ret)
	}
	if n <= 0 {
		t.Fatalf("expected positive entries length, got %d", n)
	}
}
