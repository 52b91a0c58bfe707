package journal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"

	"tradecore/internal/model/event"
)

const (
	recordVersion      uint16 = 1
	recordHeaderSize          = 44
	recordChecksumSize        = 4
)

var (
	recordMagic = [4]byte{'T', 'C', 'J', '1'}
	crcTable    = crc32.MakeTable(crc32.Castagnoli)
)

var (
	ErrInvalidMagic            = errors.New("journal: invalid magic")
	ErrUnsupportedRecordVer    = errors.New("journal: unsupported record version")
	ErrInvalidRecordHeaderSize = errors.New("journal: invalid header size")
	ErrInvalidKind             = errors.New("journal: invalid event kind")
)

// Header is the fixed part of a record.
type Header struct {
	Kind    event.Kind
	Flags   uint16
	Seq     uint64
	TsEvent uint64
	TsInit  uint64
}

// HeaderFor describes ev as record seq.
func HeaderFor(ev event.OrderEvent, seq uint64) Header {
	h := ev.Head()
	return Header{Kind: ev.Kind(), Seq: seq, TsEvent: h.TsEvent, TsInit: h.TsInit}
}

func encodeHeader(dst []byte, header Header, payloadLen int) {
	_ = dst[recordHeaderSize-1]
	copy(dst[0:4], recordMagic[:])
	binary.LittleEndian.PutUint16(dst[4:6], recordVersion)
	binary.LittleEndian.PutUint16(dst[6:8], uint16(recordHeaderSize))
	binary.LittleEndian.PutUint16(dst[8:10], uint16(header.Kind))
	binary.LittleEndian.PutUint16(dst[10:12], header.Flags)
	binary.LittleEndian.PutUint32(dst[12:16], uint32(payloadLen))
	binary.LittleEndian.PutUint64(dst[16:24], header.Seq)
	binary.LittleEndian.PutUint64(dst[24:32], header.TsEvent)
	binary.LittleEndian.PutUint64(dst[32:40], header.TsInit)
	binary.LittleEndian.PutUint32(dst[40:44], 0)
}

func checksum(header []byte, payload []byte) uint32 {
	crc := crc32.Update(0, crcTable, header)
	return crc32.Update(crc, crcTable, payload)
}

func decodeRecordHeader(src []byte) (Header, uint32, error) {
	if len(src) < recordHeaderSize {
		return Header{}, 0, ErrInvalidRecordHeaderSize
	}
	if !bytes.Equal(src[0:4], recordMagic[:]) {
		return Header{}, 0, ErrInvalidMagic
	}
	if ver := binary.LittleEndian.Uint16(src[4:6]); ver != recordVersion {
		return Header{}, 0, ErrUnsupportedRecordVer
	}
	if headerSize := binary.LittleEndian.Uint16(src[6:8]); headerSize != recordHeaderSize {
		return Header{}, 0, ErrInvalidRecordHeaderSize
	}
	kind := binary.LittleEndian.Uint16(src[8:10])
	if kind > 0xff || !event.Kind(kind).IsAvailable() {
		return Header{}, 0, ErrInvalidKind
	}
	h := Header{
		Kind:    event.Kind(kind),
		Flags:   binary.LittleEndian.Uint16(src[10:12]),
		Seq:     binary.LittleEndian.Uint64(src[16:24]),
		TsEvent: binary.LittleEndian.Uint64(src[24:32]),
		TsInit:  binary.LittleEndian.Uint64(src[32:40]),
	}
	return h, binary.LittleEndian.Uint32(src[12:16]), nil
}

// Decode turns a record payload back into its event.
func Decode(header Header, payload []byte) (event.OrderEvent, error) {
	return event.Envelope{Kind: header.Kind, Data: payload}.Unwrap()
}
