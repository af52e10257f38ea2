package container

import "github.com/mdxfeed/rwfgo/rwf"

// encodeSetDefs writes a SetDefDB's definitions as a length-delimited
// inline section — used both for a container's local HAS_SET_DEFS section
// (this file) and, in rwf/setdb, as the building block for dictionary-wide
// encoding. isElement selects field-id-keyed vs name-keyed entries.
func encodeSetDefs(iter *rwf.EncodeIterator, db *SetDefDB, isElement bool, maxEncodingSize int) rwf.Ret {
	if ret := iter.PushContainer(maxEncodingSize); ret != rwf.RetSuccess {
		return ret
	}
	count := 0
	db.Each(func(*SetDef) { count++ })
	if ret := rwf.EncodeUInt(iter, uint64(count)); ret != rwf.RetSuccess {
		iter.PopContainerComplete(false)
		return ret
	}
	var encErr rwf.Ret
	db.Each(func(def *SetDef) {
		if encErr != rwf.RetSuccess {
			return
		}
		if ret := rwf.EncodeUInt(iter, uint64(def.SetID)); ret != rwf.RetSuccess {
			encErr = ret
			return
		}
		if ret := rwf.EncodeUInt(iter, uint64(len(def.Entries))); ret != rwf.RetSuccess {
			encErr = ret
			return
		}
		for _, e := range def.Entries {
			if isElement {
				if ret := rwf.EncodeBuffer(iter, []byte(e.Name)); ret != rwf.RetSuccess {
					encErr = ret
					return
				}
			} else {
				if ret := rwf.EncodeInt(iter, int64(e.FieldID)); ret != rwf.RetSuccess {
					encErr = ret
					return
				}
			}
			if ret := rwf.EncodeUInt(iter, uint64(e.DataType)); ret != rwf.RetSuccess {
				encErr = ret
				return
			}
		}
	})
	if encErr != rwf.RetSuccess {
		iter.PopContainerComplete(false)
		return encErr
	}
	return iter.PopContainerComplete(true)
}

func decodeSetDefs(iter *rwf.DecodeIterator, isElement bool) (*SetDefDB, rwf.Ret) {
	n, ret := iter.PushContainer()
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	inner := &rwf.DecodeIterator{}
	data, ret := iter.ReadBytes(n)
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	if ret := iter.PopContainer(); ret != rwf.RetSuccess {
		return nil, ret
	}
	inner.SetBuffer(rwf.NewBuffer(data))

	db := &SetDefDB{}
	db.Allocate("")
	count, ret := rwf.DecodeUInt(inner)
	if ret != rwf.RetSuccess {
		return nil, ret
	}
	for i := uint64(0); i < count; i++ {
		setID, ret := rwf.DecodeUInt(inner)
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		entCount, ret := rwf.DecodeUInt(inner)
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		def := &SetDef{SetID: uint16(setID)}
		for j := uint64(0); j < entCount; j++ {
			var e SetDefEntry
			if isElement {
				name, ret := rwf.DecodeBuffer(inner)
				if ret != rwf.RetSuccess && ret != rwf.RetBlankData {
					return nil, ret
				}
				e.Name = string(name)
			} else {
				fid, ret := rwf.DecodeInt(inner)
				if ret != rwf.RetSuccess {
					return nil, ret
				}
				e.FieldID = int16(fid)
			}
			dt, ret := rwf.DecodeUInt(inner)
			if ret != rwf.RetSuccess {
				return nil, ret
			}
			e.DataType = rwf.DataType(dt)
			def.Entries = append(def.Entries, e)
		}
		if ret := db.Add(def); ret != rwf.RetSuccess {
			return nil, rwf.RetFailure
		}
	}
	return db, rwf.RetSuccess
}
