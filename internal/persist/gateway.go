package persist

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/clock"
	"github.com/roach88/pixelgrid/internal/store"
)

// DefaultRecord is the name of the durable record. It matches the key the
// browser build writes, so both read the same data.
const DefaultRecord = "multi-pixel-grid-data-v2"

// Durable is a named-record store. Get returns store.ErrNotFound for a
// record that was never written.
type Durable interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, body []byte) error
}

// Source names the channel a session was loaded from.
type Source string

const (
	SourceLink    Source = "link"
	SourceDurable Source = "durable"
	SourceDefault Source = "default"
)

// Gateway loads and saves dashboards across the persistence channels.
type Gateway struct {
	durable Durable
	record  string
	clock   clock.Clock
	log     log.FieldLogger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRecord overrides the durable record name.
func WithRecord(name string) Option {
	return func(g *Gateway) {
		if name != "" {
			g.record = name
		}
	}
}

// WithClock sets the clock used to date backup files.
func WithClock(c clock.Clock) Option {
	return func(g *Gateway) { g.clock = c }
}

// WithLogger sets the logger for fallthrough and size warnings.
func WithLogger(l log.FieldLogger) Option {
	return func(g *Gateway) { g.log = l }
}

// New creates a gateway over the durable channel.
func New(durable Durable, opts ...Option) *Gateway {
	if durable == nil {
		panic("persist.New: durable store is nil")
	}
	discard := log.New()
	discard.SetOutput(io.Discard)

	g := &Gateway{
		durable: durable,
		record:  DefaultRecord,
		clock:   clock.Real{},
		log:     discard,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Record returns the durable record name.
func (g *Gateway) Record() string {
	return g.record
}

// Load builds the session's initial dashboard from the highest-precedence
// channel that holds a well-formed one. fragment is the transport link
// fragment, or empty when the session was not opened from a link.
//
// Load never fails: a rejected channel is logged and the next is tried,
// ending at the default dashboard.
func (g *Gateway) Load(ctx context.Context, fragment string) (*board.Dashboard, Source) {
	if fragment != "" {
		d, err := DecodeFragment(fragment)
		if err == nil {
			g.log.WithField("source", SourceLink).Debug("loaded dashboard from link")
			return d, SourceLink
		}
		g.log.WithFields(log.Fields{"source": SourceLink, "error": err}).Warn("ignoring transport link")
	}

	d, err := g.loadDurable(ctx)
	if err == nil {
		g.log.WithFields(log.Fields{"source": SourceDurable, "record": g.record}).Debug("loaded dashboard from durable record")
		return d, SourceDurable
	}
	if !errors.Is(err, store.ErrNotFound) {
		g.log.WithFields(log.Fields{"source": SourceDurable, "record": g.record, "error": err}).Warn("ignoring durable record")
	}

	return board.Default(), SourceDefault
}

func (g *Gateway) loadDurable(ctx context.Context) (*board.Dashboard, error) {
	data, err := g.durable.Get(ctx, g.record)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save writes the full dashboard to the durable record.
func (g *Gateway) Save(ctx context.Context, d *board.Dashboard) error {
	data, err := Encode(d)
	if err != nil {
		return err
	}
	if err := g.durable.Put(ctx, g.record, data); err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}
	return nil
}

// LinkInfo describes a generated share link.
type LinkInfo struct {
	URL       string `json:"url"`
	Length    int    `json:"length"`
	OverLimit bool   `json:"over_limit"`
	SoftLimit int    `json:"soft_limit"`
}

// ShareLink encodes d into a link based at base. Links past SoftLinkLimit
// are still produced; the overrun is reported and logged.
func (g *Gateway) ShareLink(base string, d *board.Dashboard) (LinkInfo, error) {
	link, err := ShareLink(base, d)
	if err != nil {
		return LinkInfo{}, err
	}
	info := LinkInfo{
		URL:       link,
		Length:    len(link),
		OverLimit: len(link) > SoftLinkLimit,
		SoftLimit: SoftLinkLimit,
	}
	if info.OverLimit {
		g.log.WithFields(log.Fields{"length": info.Length, "soft_limit": SoftLinkLimit}).
			Warn("share link exceeds the length most browsers accept")
	}
	return info, nil
}
