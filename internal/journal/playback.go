package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tradecore/internal/model/event"
)

// PlaybackConfig controls journal playback.
type PlaybackConfig struct {
	Dir        string
	FilePrefix string
	// Speed paces playback on ts_event; 0 replays as fast as possible.
	Speed           float64
	DisableChecksum bool
	MaxPayloadSize  int
}

// Clock allows deterministic playback control.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Playback replays journal records in file order.
type Playback struct {
	cfg   PlaybackConfig
	clock Clock
}

func NewPlayback(cfg PlaybackConfig) (*Playback, error) {
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = defaultFilePrefix
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Playback{cfg: cfg, clock: realClock{}}, nil
}

// WithClock swaps the clock implementation.
func (p *Playback) WithClock(clock Clock) *Playback {
	if clock != nil {
		p.clock = clock
	}
	return p
}

func (c PlaybackConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("invalid playback config: Dir is empty")
	}
	if c.Speed < 0 {
		return fmt.Errorf("invalid playback config: Speed must be >= 0")
	}
	if c.MaxPayloadSize < 0 {
		return fmt.Errorf("invalid playback config: MaxPayloadSize must be >= 0")
	}
	return nil
}

// Run decodes every record and hands it to handler. It stops at the first
// handler error. The last sequence number read is returned either way.
func (p *Playback) Run(ctx context.Context, handler func(Header, event.OrderEvent) error) (uint64, error) {
	if handler == nil {
		return 0, errors.New("journal: playback handler is nil")
	}
	files, err := p.collectFiles()
	if err != nil {
		return 0, err
	}

	var lastSeq, prevTS uint64
	for _, path := range files {
		if err := p.playFile(ctx, path, handler, &lastSeq, &prevTS); err != nil {
			return lastSeq, err
		}
	}
	return lastSeq, nil
}

func (p *Playback) collectFiles() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	prefix := p.cfg.FilePrefix + "-"
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, segmentExt) {
			continue
		}
		files = append(files, filepath.Join(p.cfg.Dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (p *Playback) playFile(ctx context.Context, path string, handler func(Header, event.OrderEvent) error, lastSeq, prevTS *uint64) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := NewReader(file, ReaderOptions{
		DisableChecksum: p.cfg.DisableChecksum,
		MaxPayloadSize:  p.cfg.MaxPayloadSize,
	})
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, ev, err := reader.NextEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := p.pace(ctx, header, prevTS); err != nil {
			return err
		}
		if err := handler(header, ev); err != nil {
			return err
		}
		*lastSeq = header.Seq
	}
}

func (p *Playback) pace(ctx context.Context, header Header, prevTS *uint64) error {
	if p.cfg.Speed <= 0 || header.TsEvent == 0 {
		return nil
	}
	if *prevTS > 0 && header.TsEvent > *prevTS {
		sleep := time.Duration(float64(header.TsEvent-*prevTS) / p.cfg.Speed)
		if err := p.clock.Sleep(ctx, sleep); err != nil {
			return err
		}
	}
	*prevTS = header.TsEvent
	return nil
}
