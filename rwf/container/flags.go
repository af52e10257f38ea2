package container

// Flag bits shared across the keyed/indexed containers. Each container
// type only recognizes the subset its header documents; unrecognized
// bits are preserved on re-encode but otherwise ignored (spec.md §4.3).
type Flags uint16

const (
	HasSetData      Flags = 0x01 // entries for this container appear before standard entries
	HasSetID        Flags = 0x02 // header carries an explicit setId (default 0 otherwise)
	HasSummaryData  Flags = 0x04 // Map/Vector/Series/FilterList summary record precedes entries
	HasPermData     Flags = 0x08 // permission-expression blocks present on entries
	HasTotalCountHint Flags = 0x10
	HasKeyFieldID   Flags = 0x20 // Map only: header carries the key's field id
	HasFieldListInfo Flags = 0x40 // FieldList only: dictionaryId + fieldListNum present
	HasElementListInfo Flags = 0x40 // ElementList only: same bit position, element-list info
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }
