// Package classtest assembles class files in memory for tests.
package classtest

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
)

type Pool struct {
	buf   bytes.Buffer
	next  uint16
	cache map[string]uint16
}

func newPool() *Pool {
	return &Pool{next: 1, cache: map[string]uint16{}}
}

func (p *Pool) add(key string, slots uint16, write func(w *bytes.Buffer)) uint16 {
	if idx, ok := p.cache[key]; ok {
		return idx
	}
	idx := p.next
	write(&p.buf)
	p.next += slots
	p.cache[key] = idx
	return idx
}

func (p *Pool) Utf8(s string) uint16 {
	return p.add("u:"+s, 1, func(w *bytes.Buffer) {
		w.WriteByte(1)
		u2(w, uint16(len(s)))
		w.WriteString(s)
	})
}

func (p *Pool) Class(name string) uint16 {
	nameIdx := p.Utf8(name)
	return p.add("c:"+name, 1, func(w *bytes.Buffer) {
		w.WriteByte(7)
		u2(w, nameIdx)
	})
}

func (p *Pool) String(s string) uint16 {
	idx := p.Utf8(s)
	return p.add("s:"+s, 1, func(w *bytes.Buffer) {
		w.WriteByte(8)
		u2(w, idx)
	})
}

func (p *Pool) Integer(v int32) uint16 {
	return p.add("i:"+strconv.FormatInt(int64(v), 10), 1, func(w *bytes.Buffer) {
		w.WriteByte(3)
		u4(w, uint32(v))
	})
}

func (p *Pool) Long(v int64) uint16 {
	return p.add("j:"+strconv.FormatInt(v, 10), 2, func(w *bytes.Buffer) {
		w.WriteByte(5)
		u4(w, uint32(uint64(v)>>32))
		u4(w, uint32(v))
	})
}

func (p *Pool) Double(v float64) uint16 {
	bits := math.Float64bits(v)
	return p.add("d:"+strconv.FormatUint(bits, 16), 2, func(w *bytes.Buffer) {
		w.WriteByte(6)
		u4(w, uint32(bits>>32))
		u4(w, uint32(bits))
	})
}

// Methodref adds an entry nothing points at, to exercise pool skipping.
func (p *Pool) Methodref(class, name, desc string) uint16 {
	c := p.Class(class)
	n, d := p.Utf8(name), p.Utf8(desc)
	nt := p.add("nt:"+name+desc, 1, func(w *bytes.Buffer) {
		w.WriteByte(12)
		u2(w, n)
		u2(w, d)
	})
	return p.add("m:"+class+name+desc, 1, func(w *bytes.Buffer) {
		w.WriteByte(10)
		u2(w, c)
		u2(w, nt)
	})
}

// Attribute renders itself against the pool and returns its name and body.
type Attribute func(p *Pool) (string, []byte)

type Member struct {
	Access     uint16
	Name       string
	Descriptor string
	Attributes []Attribute
}

type Class struct {
	Access     uint16
	Name       string
	Super      string
	Interfaces []string
	Fields     []Member
	Methods    []Member
	Attributes []Attribute
	// Refs lists method references added to the pool but never used.
	Refs [][3]string
}

// Bytes assembles the class file.
func (c *Class) Bytes() []byte {
	p := newPool()
	var body bytes.Buffer

	for _, ref := range c.Refs {
		p.Methodref(ref[0], ref[1], ref[2])
	}

	u2(&body, c.Access)
	u2(&body, p.Class(c.Name))
	if c.Super == "" {
		u2(&body, 0)
	} else {
		u2(&body, p.Class(c.Super))
	}
	u2(&body, uint16(len(c.Interfaces)))
	for _, iface := range c.Interfaces {
		u2(&body, p.Class(iface))
	}
	for _, members := range [][]Member{c.Fields, c.Methods} {
		u2(&body, uint16(len(members)))
		for _, m := range members {
			u2(&body, m.Access)
			u2(&body, p.Utf8(m.Name))
			u2(&body, p.Utf8(m.Descriptor))
			writeAttributes(&body, p, m.Attributes)
		}
	}
	writeAttributes(&body, p, c.Attributes)

	var out bytes.Buffer
	u4(&out, 0xCAFEBABE)
	u2(&out, 0)
	u2(&out, 61)
	u2(&out, p.next)
	out.Write(p.buf.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeAttributes(w *bytes.Buffer, p *Pool, attrs []Attribute) {
	u2(w, uint16(len(attrs)))
	for _, attr := range attrs {
		name, info := attr(p)
		u2(w, p.Utf8(name))
		u4(w, uint32(len(info)))
		w.Write(info)
	}
}

func Signature(sig string) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, p.Utf8(sig))
		return "Signature", w.Bytes()
	}
}

func Deprecated() Attribute {
	return func(*Pool) (string, []byte) { return "Deprecated", nil }
}

// Code emits an opaque method body the reader is expected to skip.
func Code() Attribute {
	return func(*Pool) (string, []byte) {
		return "Code", []byte{0, 1, 0, 1, 0, 0, 0, 1, 0xB1, 0, 0, 0, 0}
	}
}

func ConstantInt(v int32) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, p.Integer(v))
		return "ConstantValue", w.Bytes()
	}
}

func ConstantLong(v int64) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, p.Long(v))
		return "ConstantValue", w.Bytes()
	}
}

func ConstantString(s string) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, p.String(s))
		return "ConstantValue", w.Bytes()
	}
}

func Exceptions(names ...string) Attribute {
	return classList("Exceptions", names)
}

func PermittedSubclasses(names ...string) Attribute {
	return classList("PermittedSubclasses", names)
}

func classList(attr string, names []string) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, uint16(len(names)))
		for _, n := range names {
			u2(&w, p.Class(n))
		}
		return attr, w.Bytes()
	}
}

type InnerClass struct {
	Name      string
	Outer     string
	InnerName string
	Access    uint16
}

func InnerClasses(entries ...InnerClass) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, uint16(len(entries)))
		for _, e := range entries {
			u2(&w, p.Class(e.Name))
			u2(&w, optional(e.Outer, p.Class))
			u2(&w, optional(e.InnerName, p.Utf8))
			u2(&w, e.Access)
		}
		return "InnerClasses", w.Bytes()
	}
}

type Parameter struct {
	Name   string
	Access uint16
}

func MethodParameters(params ...Parameter) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		w.WriteByte(byte(len(params)))
		for _, param := range params {
			u2(&w, optional(param.Name, p.Utf8))
			u2(&w, param.Access)
		}
		return "MethodParameters", w.Bytes()
	}
}

func optional(s string, index func(string) uint16) uint16 {
	if s == "" {
		return 0
	}
	return index(s)
}

func u2(w *bytes.Buffer, v uint16) {
	_ = binary.Write(w, binary.BigEndian, v)
}

func u4(w *bytes.Buffer, v uint32) {
	_ = binary.Write(w, binary.BigEndian, v)
}
