package journal

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
)

func header(ts uint64) event.Header {
	return event.NewHeader("TESTER-000", "S-001", identifier.MustParseInstrumentID("AUD/USD.SIM"), "O-1", ts, ts+1)
}

func sampleEvents() []event.OrderEvent {
	posID := identifier.PositionID("P-1")
	return []event.OrderEvent{
		event.Submitted{Header: header(10), AccountID: "SIM-001"},
		event.Accepted{Header: header(20), VenueOrderID: "V-1", AccountID: "SIM-001"},
		event.Filled{
			Header:        header(30),
			VenueOrderID:  "V-1",
			AccountID:     "SIM-001",
			TradeID:       "E-1",
			PositionID:    &posID,
			OrderSide:     enum.OrderSideBuy,
			OrderType:     enum.OrderTypeMarket,
			LastQty:       types.MustParseQuantity("100000"),
			LastPx:        types.MustParsePrice("1.00001"),
			Currency:      types.USD,
			LiquiditySide: enum.LiquiditySideTaker,
		},
	}
}

func writeAll(t *testing.T, cfg Config, evs []event.OrderEvent) {
	t.Helper()
	w, err := NewWriter(cfg)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Append(evs[0], 1), ErrNotStarted)
	require.NoError(t, w.Start(t.Context()))
	assert.ErrorIs(t, w.Start(t.Context()), ErrAlreadyStarted)
	for i, ev := range evs {
		require.NoError(t, w.Append(ev, uint64(i+1)))
	}
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Append(evs[0], 99), ErrClosed)
}

func TestWriteAndPlayback(t *testing.T) {
	dir := t.TempDir()
	evs := sampleEvents()
	writeAll(t, DefaultConfig(dir), evs)

	p, err := NewPlayback(PlaybackConfig{Dir: dir})
	require.NoError(t, err)
	var got []event.OrderEvent
	var seqs []uint64
	last, err := p.Run(t.Context(), func(h Header, ev event.OrderEvent) error {
		seqs = append(seqs, h.Seq)
		got = append(got, ev)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
	assert.Equal(t, evs, got)
}

func TestSegmentRotation(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.SegmentMaxBytes = 1
	evs := sampleEvents()
	writeAll(t, cfg, evs)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(evs), "one record per segment")

	p, err := NewPlayback(PlaybackConfig{Dir: dir})
	require.NoError(t, err)
	count := 0
	_, err = p.Run(t.Context(), func(Header, event.OrderEvent) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, len(evs), count)
}

func encodeRecord(t *testing.T, ev event.OrderEvent, seq uint64) []byte {
	t.Helper()
	payload, err := sonic.Marshal(ev)
	require.NoError(t, err)
	buf := make([]byte, recordHeaderSize)
	encodeHeader(buf, HeaderFor(ev, seq), len(payload))
	sum := checksum(buf, payload)
	buf = append(buf, payload...)
	return binary.LittleEndian.AppendUint32(buf, sum)
}

func TestReaderErrors(t *testing.T) {
	ev := sampleEvents()[0]
	record := encodeRecord(t, ev, 7)

	r := NewReader(bytes.NewReader(record), ReaderOptions{})
	h, got, err := r.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), h.Seq)
	assert.Equal(t, event.KindSubmitted, h.Kind)
	assert.Equal(t, uint64(10), h.TsEvent)
	assert.Equal(t, ev, got)
	_, _, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)

	corrupt := bytes.Clone(record)
	corrupt[recordHeaderSize] ^= 0xff
	_, _, err = NewReader(bytes.NewReader(corrupt), ReaderOptions{}).Next()
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	badMagic := bytes.Clone(record)
	badMagic[0] = 'X'
	_, _, err = NewReader(bytes.NewReader(badMagic), ReaderOptions{}).Next()
	assert.ErrorIs(t, err, ErrInvalidMagic)

	badKind := bytes.Clone(record)
	binary.LittleEndian.PutUint16(badKind[8:10], 0)
	_, _, err = NewReader(bytes.NewReader(badKind), ReaderOptions{}).Next()
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, _, err = NewReader(bytes.NewReader(record[:len(record)-2]), ReaderOptions{}).Next()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, _, err = NewReader(bytes.NewReader(record), ReaderOptions{MaxPayloadSize: 1}).Next()
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

type recordingClock struct {
	sleeps []time.Duration
}

func (c *recordingClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return nil
}

func TestPlaybackPacing(t *testing.T) {
	dir := t.TempDir()
	var data []byte
	for i, ev := range sampleEvents() {
		data = append(data, encodeRecord(t, ev, uint64(i+1))...)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal-20260101-000000-000001"+segmentExt), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("skip"), 0o644))

	clock := &recordingClock{}
	p, err := NewPlayback(PlaybackConfig{Dir: dir, Speed: 2})
	require.NoError(t, err)
	_, err = p.WithClock(clock).Run(t.Context(), func(Header, event.OrderEvent) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5, 5}, clock.sleeps)
}

func TestPlaybackStopsOnHandlerError(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, DefaultConfig(dir), sampleEvents())

	p, err := NewPlayback(PlaybackConfig{Dir: dir})
	require.NoError(t, err)
	stop := assert.AnError
	last, err := p.Run(t.Context(), func(h Header, _ event.OrderEvent) error {
		if h.Seq == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, uint64(1), last)
}

func TestConfigValidate(t *testing.T) {
	assert.EqualError(t, Config{}.Validate(), "invalid journal config: Dir is empty")
	cfg := DefaultConfig("x")
	cfg.QueueSize = -1
	assert.EqualError(t, cfg.Validate(), "invalid journal config: QueueSize must be > 0")
	_, err := NewPlayback(PlaybackConfig{Dir: "x", Speed: -1})
	assert.EqualError(t, err, "invalid playback config: Speed must be >= 0")

	p, err := NewPlayback(PlaybackConfig{Dir: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	last, err := p.Run(t.Context(), func(Header, event.OrderEvent) error { return nil })
	require.NoError(t, err)
	assert.Zero(t, last)
}

func BenchmarkEncodeRecord(b *testing.B) {
	ev := sampleEvents()[2]
	payload, err := sonic.Marshal(ev)
	require.NoError(b, err)
	buf := make([]byte, recordHeaderSize)
	h := HeaderFor(ev, 1)
	for b.Loop() {
		encodeHeader(buf, h, len(payload))
		_ = checksum(buf, payload)
	}
}
