package classfile

import (
	"math"

	"gitlab.com/tozd/go/errors"
)

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

// ConstantRefInfo stands in for every entry kind that declarations never
// point at (member refs, method handles, dynamic constants, modules).
// Only its tag is retained.
type ConstantRefInfo struct {
	Kind ConstantTag
}

func (c *ConstantRefInfo) Tag() ConstantTag { return c.Kind }

type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantUtf8Info); ok {
		return entry.Value
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantClassInfo); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetString(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantStringInfo); ok {
		return cp.GetUtf8(entry.StringIndex)
	}
	return ""
}

// Constant resolves a loadable constant to its Go value: int32, int64,
// float32, float64 or string.
func (cp ConstantPool) Constant(index uint16) (any, error) {
	switch entry := cp.entry(index).(type) {
	case *ConstantIntegerInfo:
		return entry.Value, nil
	case *ConstantLongInfo:
		return entry.Value, nil
	case *ConstantFloatInfo:
		return entry.Value, nil
	case *ConstantDoubleInfo:
		return entry.Value, nil
	case *ConstantStringInfo:
		return cp.GetUtf8(entry.StringIndex), nil
	case *ConstantUtf8Info:
		return entry.Value, nil
	case nil:
		return nil, errors.Errorf("constant pool index %d out of range", index)
	default:
		return nil, errors.Errorf("constant pool index %d is not a loadable constant (tag %d)", index, entry.Tag())
	}
}

func readConstantPoolEntry(r *reader) (ConstantPoolEntry, bool, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, false, r.err
	}

	var entry ConstantPoolEntry
	wide := false
	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		entry = &ConstantUtf8Info{Value: decodeModifiedUtf8(r.readBytes(int(length)))}
	case ConstantInteger:
		entry = &ConstantIntegerInfo{Value: int32(r.readU4())}
	case ConstantFloat:
		entry = &ConstantFloatInfo{Value: math.Float32frombits(r.readU4())}
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		entry = &ConstantLongInfo{Value: int64(uint64(high)<<32 | uint64(low))}
		wide = true
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		entry = &ConstantDoubleInfo{Value: math.Float64frombits(uint64(high)<<32 | uint64(low))}
		wide = true
	case ConstantClass:
		entry = &ConstantClassInfo{NameIndex: r.readU2()}
	case ConstantString:
		entry = &ConstantStringInfo{StringIndex: r.readU2()}
	case ConstantMethodType, ConstantModule, ConstantPackage:
		r.skip(2)
		entry = &ConstantRefInfo{Kind: tag}
	case ConstantMethodHandle:
		r.skip(3)
		entry = &ConstantRefInfo{Kind: tag}
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		r.skip(4)
		entry = &ConstantRefInfo{Kind: tag}
	default:
		return nil, false, errors.Errorf("unknown constant pool tag: %d", tag)
	}
	if r.err != nil {
		return nil, false, r.err
	}
	return entry, wide, nil
}
