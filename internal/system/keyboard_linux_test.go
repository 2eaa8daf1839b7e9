//go:build linux

package system

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func event(l eventLayout, typ, code uint16, value int32) []byte {
	rec := make([]byte, l.size)
	binary.LittleEndian.PutUint16(rec[l.tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[l.tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[l.tvSize+4:], uint32(value))
	return rec
}

func TestEventLayoutPresses(t *testing.T) {
	l := newEventLayout()
	var buf []byte
	buf = append(buf, event(l, evKey, KeySpace, 1)...)
	buf = append(buf, event(l, evKey, KeySpace, 0)...) // release
	buf = append(buf, event(l, 0x00, 0, 0)...)         // EV_SYN
	buf = append(buf, event(l, evKey, KeyF4, 2)...)    // auto-repeat
	buf = append(buf, event(l, evKey, KeyF4, 1)...)
	buf = append(buf, event(l, evKey, KeyN, 1)...)
	buf = append(buf, 0x01, 0x02) // partial record

	assert.Equal(t, []uint16{KeySpace, KeyF4}, l.presses(buf, []uint16{KeyF4, KeySpace}))
	assert.Nil(t, l.presses(buf, []uint16{KeyA}))
}
