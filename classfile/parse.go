package classfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidMagic is returned when the input does not start with 0xCAFEBABE.
var ErrInvalidMagic = errors.Base("invalid class file magic")

type reader struct {
	r   io.Reader
	err error
}

func newByteReader(data []byte) *reader {
	return &reader{r: bytes.NewReader(data)}
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	_, r.err = io.CopyN(io.Discard, r.r, int64(n))
	if r.err == io.EOF {
		r.err = io.ErrUnexpectedEOF
	}
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes the structural layout of a class file. Method bodies are
// skipped without being decoded.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, errors.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, errors.Errorf("%w: 0x%X", ErrInvalidMagic, magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, errors.Errorf("failed to read header: %w", r.err)
	}
	if constantPoolCount == 0 {
		return nil, errors.New("constant pool count is zero")
	}

	cf.ConstantPool = make(ConstantPool, constantPoolCount-1)
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, errors.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i-1] = entry
		if wide {
			// the slot after a long or double is unusable
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	cf.Interfaces = readIndexTable(r)
	if r.err != nil {
		return nil, errors.Errorf("failed to read class info: %w", r.err)
	}

	var err error
	if cf.Fields, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, errors.Errorf("failed to read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, errors.Errorf("failed to read methods: %w", err)
	}
	if cf.Attributes, err = readAttributes(r, cf.ConstantPool); err != nil {
		return nil, errors.Errorf("failed to read class attributes: %w", err)
	}

	return cf, nil
}

func readIndexTable(r *reader) []uint16 {
	count := r.readU2()
	table := make([]uint16, 0, count)
	for i := uint16(0); i < count && r.err == nil; i++ {
		table = append(table, r.readU2())
	}
	return table
}

func readMembers(r *reader, cp ConstantPool) ([]MemberInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	members := make([]MemberInfo, count)
	for i := range members {
		members[i] = MemberInfo{
			AccessFlags:     AccessFlags(r.readU2()),
			NameIndex:       r.readU2(),
			DescriptorIndex: r.readU2(),
		}
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, errors.Errorf("member %d: %w", i, err)
		}
		members[i].Attributes = attrs
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]AttributeInfo, 0, count)
	for i := uint16(0); i < count; i++ {
		nameIndex := r.readU2()
		length := r.readU4()
		name := cp.GetUtf8(nameIndex)
		if skippedAttributes[name] {
			r.skip(int(length))
			if r.err != nil {
				return nil, r.err
			}
			continue
		}
		info := r.readBytes(int(length))
		if r.err != nil {
			return nil, r.err
		}
		attrs = append(attrs, AttributeInfo{Name: name, Info: info})
	}
	return attrs, nil
}

// skippedAttributes never contribute to a declaration and are discarded
// while reading.
var skippedAttributes = map[string]bool{
	"Code":                 true,
	"SourceDebugExtension": true,
	"BootstrapMethods":     true,
	"Module":               true,
	"ModulePackages":       true,
	"ModuleMainClass":      true,
}

func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3] == 0xED {
				low := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
