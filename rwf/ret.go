// Package rwf implements the RWF (wire-format) primitive codec and the
// encode/decode iterator engine that drives it: spec components C1 and C2.
// Containers (C3), the set-definition DB (C4), the OMM message layer (C5),
// and transport (C7-C9) build on top of this package.
package rwf

import "fmt"

// Ret is the return code every public codec entry point produces. Negative
// values are failures; zero and positive values convey success states,
// mirroring the wire-format library this module's wire format is modeled
// on — callers switch on exact values, not just err != nil, because several
// "successes" (END_OF_CONTAINER, DICT_PART_ENCODED, BLANK_DATA) carry
// distinct meaning for the caller's control flow.
type Ret int

const (
	RetSuccess              Ret = 0
	RetEndOfContainer       Ret = 1
	RetSetComplete          Ret = 2
	RetDictPartEncoded      Ret = 3
	RetEncodeMsgKeyOpaque   Ret = 4
	RetEncodeExtendedHeader Ret = 5
	RetBlankData            Ret = 6
	RetReadPing             Ret = 7
	RetReadWouldBlock       Ret = 8

	RetFailure                Ret = -1
	RetBufferTooSmall         Ret = -2
	RetIncompleteData         Ret = -3
	RetUnsupportedDataType    Ret = -4
	RetDictDuplicateEnumValue Ret = -5
	RetInvalidArgument        Ret = -6
	RetConnectionError        Ret = -7
	RetChannelError           Ret = -8
)

var retStrings = map[Ret]string{
	RetSuccess:                "SUCCESS",
	RetEndOfContainer:         "END_OF_CONTAINER",
	RetSetComplete:            "SET_COMPLETE",
	RetDictPartEncoded:        "DICT_PART_ENCODED",
	RetEncodeMsgKeyOpaque:     "ENCODE_MSG_KEY_OPAQUE",
	RetEncodeExtendedHeader:   "ENCODE_EXTENDED_HEADER",
	RetBlankData:              "BLANK_DATA",
	RetReadPing:               "READ_PING",
	RetReadWouldBlock:         "READ_WOULD_BLOCK",
	RetFailure:                "FAILURE",
	RetBufferTooSmall:         "BUFFER_TOO_SMALL",
	RetIncompleteData:         "INCOMPLETE_DATA",
	RetUnsupportedDataType:    "UNSUPPORTED_DATA_TYPE",
	RetDictDuplicateEnumValue: "DICT_DUPLICATE_ENUM_VALUE",
	RetInvalidArgument:        "INVALID_ARGUMENT",
	RetConnectionError:        "CONNECTION_ERROR",
	RetChannelError:           "CHANNEL_ERROR",
}

func (r Ret) String() string {
	if s, ok := retStrings[r]; ok {
		return s
	}
	return fmt.Sprintf("Ret(%d)", int(r))
}

// IsFailure reports whether r represents a failed operation.
func (r Ret) IsFailure() bool { return r < 0 }

// Error implements error so a Ret can be returned/wrapped directly in code
// paths that prefer the standard error interface (e.g. io.Reader adapters).
func (r Ret) Error() string { return r.String() }

// ErrorInfo is an error record carrying channel identity, OS-level errno
// (if any), the RWF/transport error code, and human-readable text that
// Error cuts to 1200 bytes. The codec and transport entry points in this
// module report failure through their Ret alone and do not fill one in;
// NewErrorInfo builds one.
type ErrorInfo struct {
	ChannelID string
	SysError  int
	ErrorID   Ret
	Text      string
}

func (e *ErrorInfo) Error() string {
	if e == nil {
		return ""
	}
	const maxText = 1200
	text := e.Text
	if len(text) > maxText {
		text = text[:maxText]
	}
	if e.ChannelID != "" {
		return fmt.Sprintf("[%s] %s: %s", e.ChannelID, e.ErrorID, text)
	}
	return fmt.Sprintf("%s: %s", e.ErrorID, text)
}

func NewErrorInfo(channelID string, code Ret, format string, args ...any) *ErrorInfo {
	return &ErrorInfo{ChannelID: channelID, ErrorID: code, Text: fmt.Sprintf(format, args...)}
}
