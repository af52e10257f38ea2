package rwf

// DataType enumerates the primitive and container types a container entry,
// field, or element can declare, spanning spec.md §3's primitive list and
// the container list of §3/§4.3.
type DataType uint8

const (
	DataTypeUnknown DataType = 0

	DataTypeInt DataType = iota + 2
	DataTypeUInt
	DataTypeFloat
	DataTypeDouble
	DataTypeReal
	DataTypeDate
	DataTypeTime
	DataTypeDateTime
	DataTypeEnum
	DataTypeQos
	DataTypeState
	DataTypeBuffer
	DataTypeAsciiString
	DataTypeUtf8String

	DataTypeArray
	DataTypeFieldList
	DataTypeElementList
	DataTypeMap
	DataTypeVector
	DataTypeSeries
	DataTypeFilterList
	DataTypeMsg
	DataTypeNoData
)

func (t DataType) String() string {
	switch t {
	case DataTypeUnknown:
		return "UNKNOWN"
	case DataTypeInt:
		return "INT"
	case DataTypeUInt:
		return "UINT"
	case DataTypeFloat:
		return "FLOAT"
	case DataTypeDouble:
		return "DOUBLE"
	case DataTypeReal:
		return "REAL"
	case DataTypeDate:
		return "DATE"
	case DataTypeTime:
		return "TIME"
	case DataTypeDateTime:
		return "DATETIME"
	case DataTypeEnum:
		return "ENUM"
	case DataTypeQos:
		return "QOS"
	case DataTypeState:
		return "STATE"
	case DataTypeBuffer:
		return "BUFFER"
	case DataTypeAsciiString:
		return "ASCII_STRING"
	case DataTypeUtf8String:
		return "UTF8_STRING"
	case DataTypeArray:
		return "ARRAY"
	case DataTypeFieldList:
		return "FIELD_LIST"
	case DataTypeElementList:
		return "ELEMENT_LIST"
	case DataTypeMap:
		return "MAP"
	case DataTypeVector:
		return "VECTOR"
	case DataTypeSeries:
		return "SERIES"
	case DataTypeFilterList:
		return "FILTER_LIST"
	case DataTypeMsg:
		return "MSG"
	case DataTypeNoData:
		return "NO_DATA"
	default:
		return "DATATYPE(?)"
	}
}
