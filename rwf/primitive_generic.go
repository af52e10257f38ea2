package rwf

import "github.com/pkg/errors"

// EncodePrimitiveType and DecodePrimitiveType dispatch on DataType and
// must return results identical to calling the type-specific function
// directly (spec.md §4.2) — used by container entries whose data type is
// only known at runtime (e.g. a FieldList entry resolved via an external
// field dictionary, or an Array's declared primitiveType).

func EncodePrimitiveType(iter *EncodeIterator, t DataType, v any) Ret {
	switch t {
	case DataTypeInt:
		return EncodeInt(iter, v.(int64))
	case DataTypeUInt:
		return EncodeUInt(iter, v.(uint64))
	case DataTypeFloat:
		return EncodeFloat(iter, v.(float32))
	case DataTypeDouble:
		return EncodeDouble(iter, v.(float64))
	case DataTypeReal:
		return EncodeReal(iter, v.(Real))
	case DataTypeDate:
		return EncodeDate(iter, v.(Date))
	case DataTypeTime:
		return EncodeTime(iter, v.(Time))
	case DataTypeDateTime:
		return EncodeDateTime(iter, v.(DateTime))
	case DataTypeEnum:
		return EncodeEnum(iter, v.(Enum))
	case DataTypeQos:
		return EncodeQos(iter, v.(Qos))
	case DataTypeState:
		return EncodeState(iter, v.(State))
	case DataTypeBuffer, DataTypeAsciiString, DataTypeUtf8String:
		return EncodeBuffer(iter, v.([]byte))
	default:
		return RetUnsupportedDataType
	}
}

func DecodePrimitiveType(iter *DecodeIterator, t DataType) (any, Ret) {
	switch t {
	case DataTypeInt:
		return DecodeInt(iter)
	case DataTypeUInt:
		return DecodeUInt(iter)
	case DataTypeFloat:
		return DecodeFloat(iter)
	case DataTypeDouble:
		return DecodeDouble(iter)
	case DataTypeReal:
		return DecodeReal(iter)
	case DataTypeDate:
		return DecodeDate(iter)
	case DataTypeTime:
		return DecodeTime(iter)
	case DataTypeDateTime:
		return DecodeDateTime(iter)
	case DataTypeEnum:
		return DecodeEnum(iter)
	case DataTypeQos:
		return DecodeQos(iter)
	case DataTypeState:
		return DecodeState(iter)
	case DataTypeBuffer, DataTypeAsciiString, DataTypeUtf8String:
		return DecodeBuffer(iter)
	default:
		return nil, RetUnsupportedDataType
	}
}

// WrapErr adapts a Ret failure into a Go error with call-site context,
// the seam where cmn/cos-style typed codes meet github.com/pkg/errors
// wrapping for packages that prefer the error interface.
func WrapErr(ret Ret, context string) error {
	if !ret.IsFailure() {
		return nil
	}
	return errors.Wrapf(ret, "%s", context)
}
