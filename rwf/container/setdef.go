package container

import (
	"github.com/mdxfeed/rwfgo/rwf"
)

// RSSLMaxGlobalSetID bounds every setId a set-definition DB can hold
// (spec.md §3's set-definition-database invariant).
const RSSLMaxGlobalSetID = 65535

// SetDefEntry names one slot of a set definition: either a field id
// (field set-defs) or a name (element set-defs), plus its declared type.
type SetDefEntry struct {
	FieldID  int16
	Name     string
	DataType rwf.DataType
}

// SetDef is one setId's ordered list of entries — the unit a FieldList or
// ElementList entry omits names/types for when it carries set data
// instead of standard data (spec.md GLOSSARY "Set definition").
type SetDef struct {
	SetID   uint16
	Entries []SetDefEntry
}

// SetDefDB is the dense setId -> definition table shared by the local
// (inline, per-container) and global (dictionary-exchanged) use cases;
// spec.md §9 calls for exactly this shape ("arena of definitions plus a
// dense setId -> index table") instead of a pointer-heavy map of maps.
type SetDefDB struct {
	version string
	table   [RSSLMaxGlobalSetID + 1]*SetDef
	maxSet  uint16
	hasAny  bool
}

func (db *SetDefDB) Allocate(version string) rwf.Ret {
	*db = SetDefDB{version: version}
	return rwf.RetSuccess
}

func (db *SetDefDB) Add(def *SetDef) rwf.Ret {
	if def == nil || int(def.SetID) > RSSLMaxGlobalSetID {
		return rwf.RetInvalidArgument
	}
	if db.table[def.SetID] != nil {
		return rwf.RetFailure
	}
	cp := *def
	cp.Entries = append([]SetDefEntry(nil), def.Entries...)
	db.table[def.SetID] = &cp
	if !db.hasAny || def.SetID > db.maxSet {
		db.maxSet = def.SetID
	}
	db.hasAny = true
	return rwf.RetSuccess
}

func (db *SetDefDB) Delete() {
	*db = SetDefDB{}
}

func (db *SetDefDB) Lookup(setID uint16) (*SetDef, bool) {
	d := db.table[setID]
	return d, d != nil
}

func (db *SetDefDB) MaxSetID() uint16 { return db.maxSet }

func (db *SetDefDB) Version() string { return db.version }

// Each lets callers walk definitions in setId order (used by
// encodeDictionary in rwf/setdb).
func (db *SetDefDB) Each(f func(*SetDef)) {
	for _, d := range db.table {
		if d != nil {
			f(d)
		}
	}
}
