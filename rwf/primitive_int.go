package rwf

// Int and UInt are length-minimized, big-endian, with the original value
// reconstructed sign-extended (Int) or zero-extended (UInt) on decode,
// per spec.md §3/§4.2. Both ride on a 1-byte wire length (0 == blank);
// byte-swapping is kept as an unexported implementation detail.

func minimizeUint(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 7 && tmp[i] == 0 {
		i++
	}
	return tmp[i:]
}

func minimizeInt(v int64) []byte {
	u := uint64(v)
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(u)
		u >>= 8
	}
	if v >= 0 {
		i := 0
		for i < 7 && tmp[i] == 0 && (tmp[i+1]&0x80) == 0 {
			i++
		}
		return tmp[i:]
	}
	i := 0
	for i < 7 && tmp[i] == 0xFF && (tmp[i+1]&0x80) != 0 {
		i++
	}
	return tmp[i:]
}

func EncodeUInt(iter *EncodeIterator, v uint64) Ret {
	b := minimizeUint(v)
	if ret := iter.WriteByte(byte(len(b))); ret != RetSuccess {
		return ret
	}
	return iter.WriteRaw(b)
}

func EncodeInt(iter *EncodeIterator, v int64) Ret {
	b := minimizeInt(v)
	if ret := iter.WriteByte(byte(len(b))); ret != RetSuccess {
		return ret
	}
	return iter.WriteRaw(b)
}

func readLenPrefixedBytes(iter *DecodeIterator) ([]byte, Ret) {
	n, ret := iter.ReadByte()
	if ret != RetSuccess {
		return nil, ret
	}
	if n == 0 {
		return nil, RetSuccess
	}
	return iter.ReadBytes(int(n))
}

func DecodeUInt(iter *DecodeIterator) (uint64, Ret) {
	b, ret := readLenPrefixedBytes(iter)
	if ret != RetSuccess {
		return 0, ret
	}
	if b == nil {
		return 0, RetBlankData
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v, RetSuccess
}

func DecodeInt(iter *DecodeIterator) (int64, Ret) {
	b, ret := readLenPrefixedBytes(iter)
	if ret != RetSuccess {
		return 0, ret
	}
	if b == nil {
		return 0, RetBlankData
	}
	var v int64
	if b[0]&0x80 != 0 {
		v = -1
	}
	for _, x := range b {
		v = v<<8 | int64(x)
	}
	return v, RetSuccess
}
