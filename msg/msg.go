// Package msg implements the OMM message layer (spec component C5): the
// common header shared by every message class, the message key, and
// per-class flag sets, grounded on rwf's primitive/container codec the
// same way Real-Time-SDK's rsslMsg union sits atop its iterator engine.
package msg

import "github.com/mdxfeed/rwfgo/rwf"

// Class distinguishes the eight message kinds sharing the common header
// (spec.md §3).
type Class uint8

const (
	ClassRequest Class = iota + 1
	ClassRefresh
	ClassStatus
	ClassUpdate
	ClassClose
	ClassAck
	ClassGeneric
	ClassPost
)

func (c Class) String() string {
	switch c {
	case ClassRequest:
		return "REQUEST"
	case ClassRefresh:
		return "REFRESH"
	case ClassStatus:
		return "STATUS"
	case ClassUpdate:
		return "UPDATE"
	case ClassClose:
		return "CLOSE"
	case ClassAck:
		return "ACK"
	case ClassGeneric:
		return "GENERIC"
	case ClassPost:
		return "POST"
	default:
		return "CLASS(?)"
	}
}

// Key is the message key: service/name identity plus an optional
// pre-encoded attrib blob whose type is given by AttribContainerType
// (spec.md §2 "a message key (service/name/attrib)").
type Key struct {
	Flags                KeyFlags
	ServiceID             uint16
	Name                  []byte
	NameType              uint8
	Filter                uint32
	Identifier            int32
	AttribContainerType   rwf.DataType
	Attrib                []byte
}

type KeyFlags uint16

const (
	KeyHasServiceID KeyFlags = 1 << iota
	KeyHasName
	KeyHasNameType
	KeyHasFilter
	KeyHasIdentifier
	KeyHasAttrib
)

func (f KeyFlags) Has(bit KeyFlags) bool { return f&bit != 0 }

// Header is the fixed portion common to every message class (spec.md §3).
type Header struct {
	MsgClass       Class
	StreamID       int32
	DomainType     uint8
	ContainerType  rwf.DataType
	Key            *Key
	ExtendedHeader []byte
}

// Msg is one fully-populated message: header, pre-encoded or yet-to-be-
// encoded payload, plus class-specific fields. Only the fields relevant
// to MsgClass are meaningful, mirroring the wire library's tagged union.
type Msg struct {
	Header Header

	// Request
	RequestFlags RequestFlags
	Priority     Priority
	Qos          rwf.Qos
	WorstQos     rwf.Qos

	// Refresh / Status / Update: State, PartNum, SeqNum.
	// Post: PostUserID, PostUserAddr.
	State       rwf.State
	PostUserID  uint32
	PostUserAddr uint32
	PartNum     uint16
	SeqNum      uint32

	// Ack
	AckID uint32

	EncDataBody []byte
}

// Priority is Request's stream priority negotiation (class, count).
type Priority struct {
	Class uint8
	Count uint16
}
