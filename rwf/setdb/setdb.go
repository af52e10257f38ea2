// Package setdb implements global set-definition dictionary exchange
// (spec component C4) on top of rwf/container's local set-def machinery:
// allocate/add/delete/lookup plus multi-part encode/decode of the
// dictionary-wide payload, grounded on the original Real-Time-SDK's
// setDictionary.c (see /root/module/SPEC_FULL.md, SUPPLEMENTED FEATURES).
package setdb

import (
	"github.com/mdxfeed/rwfgo/rwf"
	"github.com/mdxfeed/rwfgo/rwf/container"
)

// Verbosity controls how much of the dictionary encodeDictionary emits.
type Verbosity int

const (
	VerbosityInfo   Verbosity = 0 // summary only
	VerbosityNormal Verbosity = 1
	VerbosityVerbose Verbosity = 2
)

// setDefType distinguishes a field set-def DB (fieldId-keyed) from an
// element set-def DB (name-keyed) — both share container.SetDefDB's
// shape, differing only in which SetDefEntry member is meaningful.
type setDefType int

const (
	typeField   setDefType = 1
	typeElement setDefType = 2
)

// FieldSetDefDB is the global field-set-definition dictionary.
type FieldSetDefDB struct {
	db *container.SetDefDB
}

// ElementSetDefDB is the global element-set-definition dictionary.
type ElementSetDefDB struct {
	db *container.SetDefDB
}

func NewFieldSetDefDB() *FieldSetDefDB     { return &FieldSetDefDB{db: &container.SetDefDB{}} }
func NewElementSetDefDB() *ElementSetDefDB { return &ElementSetDefDB{db: &container.SetDefDB{}} }

func (d *FieldSetDefDB) Allocate(version string) rwf.Ret   { return d.db.Allocate(version) }
func (d *ElementSetDefDB) Allocate(version string) rwf.Ret  { return d.db.Allocate(version) }

// Add returns RetInvalidArgument for a nil definition or a setId above
// RSSLMaxGlobalSetID, and RetFailure for a setId already present.
func (d *FieldSetDefDB) Add(def *container.SetDef) rwf.Ret  { return d.db.Add(def) }
func (d *ElementSetDefDB) Add(def *container.SetDef) rwf.Ret { return d.db.Add(def) }

func (d *FieldSetDefDB) Delete()  { d.db.Delete() }
func (d *ElementSetDefDB) Delete() { d.db.Delete() }

func (d *FieldSetDefDB) Lookup(setID uint16) (*container.SetDef, bool)   { return d.db.Lookup(setID) }
func (d *ElementSetDefDB) Lookup(setID uint16) (*container.SetDef, bool) { return d.db.Lookup(setID) }

func (d *FieldSetDefDB) MaxSetID() uint16  { return d.db.MaxSetID() }
func (d *ElementSetDefDB) MaxSetID() uint16 { return d.db.MaxSetID() }

// DictEncodeCursor tracks progress across successive EncodeDictionary
// calls when the whole dictionary doesn't fit one buffer.
type DictEncodeCursor struct {
	nextSetID int
}

// wireElementNames mirror the well-known summary/entry element names the
// original setDictionary.c dictionary payload uses (spec.md §6 "Set-def
// dictionary payload").
const (
	elemType         = "Type"
	elemVersion      = "Version"
	elemDictionaryID = "DictionaryId"
	elemNumEntries   = "NUMENTRIES"
	elemFIDs         = "FIDS"
	elemNames        = "NAMES"
	elemTypes        = "TYPES"
)

// EncodeDictionary emits the field-set-def dictionary as a Vector of
// ElementList, one entry per setId, each a standard (not set-encoded)
// ElementList of {NUMENTRIES, FIDS, TYPES} — or {NUMENTRIES, NAMES,
// TYPES} for an element-set-def DB. Supports
// multi-part encoding: returns RetDictPartEncoded when more sets remain
// (spec.md §4.4).
func (d *FieldSetDefDB) EncodeDictionary(iter *rwf.EncodeIterator, dictionaryID int, verbosity Verbosity, cursor *DictEncodeCursor, maxEncodingSize int) rwf.Ret {
	return encodeDictionary(iter, d.db, typeField, dictionaryID, verbosity, cursor, maxEncodingSize)
}

func (d *ElementSetDefDB) EncodeDictionary(iter *rwf.EncodeIterator, dictionaryID int, verbosity Verbosity, cursor *DictEncodeCursor, maxEncodingSize int) rwf.Ret {
	return encodeDictionary(iter, d.db, typeElement, dictionaryID, verbosity, cursor, maxEncodingSize)
}

func encodeDictionary(iter *rwf.EncodeIterator, db *container.SetDefDB, dt setDefType, dictionaryID int, verbosity Verbosity, cursor *DictEncodeCursor, maxEncodingSize int) rwf.Ret {
	var defs []*container.SetDef
	db.Each(func(def *container.SetDef) { defs = append(defs, def) })

	summary := encodeDictSummary(dt, db.Version(), dictionaryID)
	vh := container.VectorHeader{
		Flags:         container.HasSummaryData,
		ContainerType: rwf.DataTypeElementList,
	}
	if ret := container.VectorInit(iter, vh, summary, maxEncodingSize); ret != rwf.RetSuccess {
		return ret
	}
	if verbosity == VerbosityInfo {
		return container.VectorComplete(iter, true)
	}

	i := cursor.nextSetID
	for ; i < len(defs); i++ {
		entryBytes, ret := encodeDictEntry(defs[i], dt, maxEncodingSize)
		if ret != rwf.RetSuccess {
			container.VectorComplete(iter, false)
			return ret
		}
		ret = container.VectorEntry(iter, container.VectorActionSet, uint64(defs[i].SetID), nil, 0, entryBytes, maxEncodingSize)
		if ret == rwf.RetBufferTooSmall {
			cursor.nextSetID = i
			container.VectorComplete(iter, true)
			return rwf.RetDictPartEncoded
		}
		if ret != rwf.RetSuccess {
			container.VectorComplete(iter, false)
			return ret
		}
	}
	cursor.nextSetID = len(defs)
	if ret := container.VectorComplete(iter, true); ret != rwf.RetSuccess {
		return ret
	}
	return rwf.RetSuccess
}

func encodeDictSummary(dt setDefType, version string, dictionaryID int) []byte {
	buf := make([]byte, 512)
	it := &rwf.EncodeIterator{}
	it.SetBuffer(rwf.NewBuffer(buf))
	container.ElementListInit(it, container.ElementListHeader{}, 256)
	container.ElementListEntry(it, container.ElementEntry{Name: elemType, DataType: rwf.DataTypeUInt, Data: encodeUInt(uint64(dt))}, 32)
	container.ElementListEntry(it, container.ElementEntry{Name: elemVersion, DataType: rwf.DataTypeAsciiString, Data: encodeBuf([]byte(version))}, 64)
	container.ElementListEntry(it, container.ElementEntry{Name: elemDictionaryID, DataType: rwf.DataTypeUInt, Data: encodeUInt(uint64(dictionaryID))}, 32)
	container.ElementListComplete(it, true)
	return it.Bytes()
}

func encodeDictEntry(def *container.SetDef, dt setDefType, maxEncodingSize int) ([]byte, rwf.Ret) {
	buf := make([]byte, maxEncodingSize)
	it := &rwf.EncodeIterator{}
	it.SetBuffer(rwf.NewBuffer(buf))
	if ret := container.ElementListInit(it, container.ElementListHeader{}, maxEncodingSize); ret != rwf.RetSuccess {
		return nil, ret
	}
	n := len(def.Entries)
	if ret := container.ElementListEntry(it, container.ElementEntry{Name: elemNumEntries, DataType: rwf.DataTypeUInt, Data: encodeUInt(uint64(n))}, 32); ret != rwf.RetSuccess {
		return nil, ret
	}
	keyElem := elemFIDs
	if dt == typeElement {
		keyElem = elemNames
	}
	keyBuf := make([]byte, maxEncodingSize)
	kit := &rwf.EncodeIterator{}
	kit.SetBuffer(rwf.NewBuffer(keyBuf))
	keyType := rwf.DataTypeInt
	if dt == typeElement {
		keyType = rwf.DataTypeAsciiString
	}
	container.ArrayInit(kit, container.ArrayHeader{PrimitiveType: keyType}, maxEncodingSize)
	typeBuf := make([]byte, maxEncodingSize)
	tit := &rwf.EncodeIterator{}
	tit.SetBuffer(rwf.NewBuffer(typeBuf))
	container.ArrayInit(tit, container.ArrayHeader{PrimitiveType: rwf.DataTypeUInt}, maxEncodingSize)
	for _, e := range def.Entries {
		if dt == typeElement {
			container.ArrayEntry(kit, encodeBuf([]byte(e.Name)))
		} else {
			container.ArrayEntry(kit, encodeInt(int64(e.FieldID)))
		}
		container.ArrayEntry(tit, encodeUInt(uint64(e.DataType)))
	}
	container.ArrayComplete(kit, true)
	container.ArrayComplete(tit, true)
	if ret := container.ElementListEntry(it, container.ElementEntry{Name: keyElem, DataType: rwf.DataTypeArray, Data: kit.Bytes()}, maxEncodingSize); ret != rwf.RetSuccess {
		return nil, ret
	}
	if ret := container.ElementListEntry(it, container.ElementEntry{Name: elemTypes, DataType: rwf.DataTypeArray, Data: tit.Bytes()}, maxEncodingSize); ret != rwf.RetSuccess {
		return nil, ret
	}
	if ret := container.ElementListComplete(it, true); ret != rwf.RetSuccess {
		return nil, ret
	}
	return it.Bytes(), rwf.RetSuccess
}

func encodeUInt(v uint64) []byte {
	buf := make([]byte, 16)
	it := &rwf.EncodeIterator{}
	it.SetBuffer(rwf.NewBuffer(buf))
	rwf.EncodeUInt(it, v)
	return it.Bytes()
}

func encodeInt(v int64) []byte {
	buf := make([]byte, 16)
	it := &rwf.EncodeIterator{}
	it.SetBuffer(rwf.NewBuffer(buf))
	rwf.EncodeInt(it, v)
	return it.Bytes()
}

func encodeBuf(v []byte) []byte {
	buf := make([]byte, len(v)+4)
	it := &rwf.EncodeIterator{}
	it.SetBuffer(rwf.NewBuffer(buf))
	rwf.EncodeBuffer(it, v)
	return it.Bytes()
}

// DecodeDictionary accumulates definitions across successive parts into
// db; rejects duplicate setIds and malformed entries. Tolerates the
// NUMENTRIES element arriving before or after FIDS/NAMES/TYPES:
// decodeDictEntry collects the decoded keys and types as they arrive and
// reconciles the counts once the entry is fully read (spec.md §4.4).
func DecodeDictionary(iter *rwf.DecodeIterator, fieldDB *FieldSetDefDB, elemDB *ElementSetDefDB, errText *string) rwf.Ret {
	vh, summary, ret := container.DecodeVector(iter)
	if ret != rwf.RetSuccess {
		*errText = "decodeDictionary: bad vector header"
		return rwf.RetFailure
	}
	dt, version, dictID, ret := decodeDictSummary(summary)
	if ret != rwf.RetSuccess {
		*errText = "decodeDictionary: bad summary"
		return rwf.RetFailure
	}
	var db *container.SetDefDB
	switch dt {
	case typeField:
		if fieldDB.db.Version() == "" {
			fieldDB.Allocate(version)
		}
		db = fieldDB.db
	case typeElement:
		if elemDB.db.Version() == "" {
			elemDB.Allocate(version)
		}
		db = elemDB.db
	default:
		*errText = "decodeDictionary: unknown set-def type"
		return rwf.RetFailure
	}
	_ = dictID
	for {
		entry, ret := container.DecodeVectorEntry(iter, vh.Flags)
		if ret == rwf.RetEndOfContainer {
			break
		}
		if ret != rwf.RetSuccess {
			*errText = "decodeDictionary: bad entry"
			return rwf.RetFailure
		}
		def, ret := decodeDictEntry(entry.Value, entry.Index, dt)
		if ret != rwf.RetSuccess {
			*errText = "decodeDictionary: malformed entry"
			return rwf.RetFailure
		}
		if _, exists := db.Lookup(def.SetID); exists {
			*errText = "decodeDictionary: duplicate setId"
			return rwf.RetDictDuplicateEnumValue
		}
		if ret := db.Add(def); ret != rwf.RetSuccess {
			*errText = "decodeDictionary: add failed"
			return rwf.RetFailure
		}
	}
	return rwf.RetSuccess
}

func decodeDictSummary(data []byte) (setDefType, string, int, rwf.Ret) {
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(data))
	_, ret := container.DecodeElementList(it)
	if ret != rwf.RetSuccess {
		return 0, "", 0, ret
	}
	var dt setDefType
	var version string
	var dictID int
	for {
		e, ret := decodeOneElement(it)
		if ret == rwf.RetEndOfContainer {
			break
		}
		if ret != rwf.RetSuccess {
			return 0, "", 0, ret
		}
		switch e.Name {
		case elemType:
			v, _ := rwf.DecodeUInt(elemIter(e.Data))
			dt = setDefType(v)
		case elemVersion:
			v, _ := rwf.DecodeBuffer(elemIter(e.Data))
			version = string(v)
		case elemDictionaryID:
			v, _ := rwf.DecodeUInt(elemIter(e.Data))
			dictID = int(v)
		}
	}
	return dt, version, dictID, rwf.RetSuccess
}

func decodeOneElement(it *rwf.DecodeIterator) (container.ElementEntry, rwf.Ret) {
	d := container.NewElementListDecoder(it, container.ElementListHeader{}, nil)
	return d.Next()
}

func elemIter(data []byte) *rwf.DecodeIterator {
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(data))
	return it
}

// decodeDictEntry tolerates NUMENTRIES arriving before or after
// FIDS/NAMES/TYPES by decoding all three elements fully, then
// reconciling counts once all are known.
func decodeDictEntry(data []byte, setID uint64, dt setDefType) (*container.SetDef, rwf.Ret) {
	it := &rwf.DecodeIterator{}
	it.SetBuffer(rwf.NewBuffer(data))
	if _, ret := container.DecodeElementList(it); ret != rwf.RetSuccess {
		return nil, ret
	}
	var numEntries int
	var haveNumEntries bool
	var keys []any
	var types []uint64
	for {
		d := container.NewElementListDecoder(it, container.ElementListHeader{}, nil)
		e, ret := d.Next()
		if ret == rwf.RetEndOfContainer {
			break
		}
		if ret != rwf.RetSuccess {
			return nil, ret
		}
		switch e.Name {
		case elemNumEntries:
			v, _ := rwf.DecodeUInt(elemIter(e.Data))
			numEntries = int(v)
			haveNumEntries = true
		case elemFIDs, elemNames:
			aIter := elemIter(e.Data)
			ah, ret := container.DecodeArray(aIter)
			if ret != rwf.RetSuccess {
				return nil, ret
			}
			for {
				b, ret := container.DecodeArrayEntry(aIter, ah)
				if ret == rwf.RetEndOfContainer {
					break
				}
				if ret != rwf.RetSuccess {
					return nil, ret
				}
				v, _ := rwf.DecodePrimitiveType(elemIter(b), ah.PrimitiveType)
				keys = append(keys, v)
			}
		case elemTypes:
			aIter := elemIter(e.Data)
			ah, ret := container.DecodeArray(aIter)
			if ret != rwf.RetSuccess {
				return nil, ret
			}
			for {
				b, ret := container.DecodeArrayEntry(aIter, ah)
				if ret == rwf.RetEndOfContainer {
					break
				}
				if ret != rwf.RetSuccess {
					return nil, ret
				}
				v, _ := rwf.DecodeUInt(elemIter(b))
				types = append(types, v)
			}
		}
	}
	if !haveNumEntries {
		numEntries = len(keys)
	}
	if numEntries != len(keys) || numEntries != len(types) {
		return nil, rwf.RetFailure
	}
	def := &container.SetDef{SetID: uint16(setID)}
	for i := 0; i < numEntries; i++ {
		entry := container.SetDefEntry{DataType: rwf.DataType(types[i])}
		if dt == typeElement {
			entry.Name, _ = keys[i].(string)
			if b, ok := keys[i].([]byte); ok {
				entry.Name = string(b)
			}
		} else {
			if v, ok := keys[i].(int64); ok {
				entry.FieldID = int16(v)
			}
		}
		def.Entries = append(def.Entries, entry)
	}
	return def, rwf.RetSuccess
}
