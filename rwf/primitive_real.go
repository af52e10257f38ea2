package rwf

// RealHint is the 5-bit (bits 0-4) hint carried in a Real's leading byte,
// plus the bit-7 infinity/NaN markers spec.md §4.2 calls out separately.
//
// Ambiguity resolution (documented per spec.md §9's "pick one and
// document" guidance): the worked example in spec.md §8 scenario 1 shows
// wire bytes inconsistent with its own prose mapping ("hint 14 ≡ exponent
// 0"), and is itself flagged as illustrative ("values expressed
// abstractly ... verified against the primitive spec of §4.2"). This
// implementation follows §4.2's abstract mapping literally: hint = 14 +
// exponent for exponent in [-14, 7], hint = 22 + log2(denominator) for
// fraction denominators in {1,2,4,...,256}, hint = 31 for blank. The
// three bit-7 variants set bit 0x80 and use bits 0-1 as a 3-way selector
// (0=Infinity, 1=NegInfinity, 2=NaN) with no mantissa bytes.
type RealHint uint8

const (
	HintExponentMinus14 RealHint = 0
	HintExponent0       RealHint = 14
	HintExponentPlus7   RealHint = 21
	HintFraction1       RealHint = 22
	HintFraction256     RealHint = 30
	HintBlank           RealHint = 31

	hintSpecialBit      RealHint = 0x80
	HintInfinity        RealHint = hintSpecialBit | 0
	HintNegInfinity     RealHint = hintSpecialBit | 1
	HintNaN             RealHint = hintSpecialBit | 2
)

func HintForExponent(exp int) RealHint { return RealHint(14 + exp) }

func ExponentOf(h RealHint) int { return int(h) - 14 }

// HintForFractionDenom maps a power-of-two denominator (1,2,4,...,256) to
// its hint; denom must be a power of two in [1,256] or this returns
// HintBlank.
func HintForFractionDenom(denom int) RealHint {
	p := 0
	d := denom
	for d > 1 {
		d >>= 1
		p++
	}
	if denom != 1<<uint(p) || p > 8 {
		return HintBlank
	}
	return RealHint(22 + p)
}

func FractionDenomOf(h RealHint) int { return 1 << uint(int(h)-22) }

func (h RealHint) IsBlank() bool    { return h == HintBlank }
func (h RealHint) IsSpecial() bool  { return h&hintSpecialBit != 0 }
func (h RealHint) IsExponent() bool { return !h.IsSpecial() && h <= HintExponentPlus7 }
func (h RealHint) IsFraction() bool { return !h.IsSpecial() && h >= HintFraction1 && h <= HintFraction256 }

type Real struct {
	Hint     RealHint
	Mantissa int64
}

func BlankReal() Real { return Real{Hint: HintBlank} }

// ToFloat64 converts a Real to its decimal value; ok is false for blank
// and the infinity/NaN variants (callers should check Hint directly for
// those).
func (r Real) ToFloat64() (v float64, ok bool) {
	switch {
	case r.Hint.IsBlank() || r.Hint.IsSpecial():
		return 0, false
	case r.Hint.IsExponent():
		exp := ExponentOf(r.Hint)
		v = float64(r.Mantissa)
		if exp >= 0 {
			for i := 0; i < exp; i++ {
				v *= 10
			}
		} else {
			for i := 0; i < -exp; i++ {
				v /= 10
			}
		}
		return v, true
	case r.Hint.IsFraction():
		return float64(r.Mantissa) / float64(FractionDenomOf(r.Hint)), true
	default:
		return 0, false
	}
}

func EncodeReal(iter *EncodeIterator, r Real) Ret {
	if ret := iter.WriteByte(byte(r.Hint)); ret != RetSuccess {
		return ret
	}
	if r.Hint.IsBlank() || r.Hint.IsSpecial() {
		return iter.WriteByte(0)
	}
	b := minimizeInt(r.Mantissa)
	if ret := iter.WriteByte(byte(len(b))); ret != RetSuccess {
		return ret
	}
	return iter.WriteRaw(b)
}

func DecodeReal(iter *DecodeIterator) (Real, Ret) {
	hb, ret := iter.ReadByte()
	if ret != RetSuccess {
		return Real{}, ret
	}
	h := RealHint(hb)
	n, ret := iter.ReadByte()
	if ret != RetSuccess {
		return Real{}, ret
	}
	if n == 0 {
		if h.IsBlank() {
			return BlankReal(), RetBlankData
		}
		if h.IsSpecial() {
			return Real{Hint: h}, RetSuccess
		}
		return Real{Hint: h}, RetBlankData
	}
	b, ret := iter.ReadBytes(int(n))
	if ret != RetSuccess {
		return Real{}, ret
	}
	var v int64
	if b[0]&0x80 != 0 {
		v = -1
	}
	for _, x := range b {
		v = v<<8 | int64(x)
	}
	return Real{Hint: h, Mantissa: v}, RetSuccess
}
