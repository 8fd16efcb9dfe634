package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"PriceSentinel/internal/collector"
	"PriceSentinel/internal/indicator"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/recorder"
	"PriceSentinel/internal/window"
)

// Cycle stage names, recorded with failures.
const (
	StageFetch    = "fetch"
	StageAppend   = "append"
	StageDispatch = "dispatch"
)

const (
	candleInterval = "3m"
	candleLimit    = 120 // 6 hours of 3m candles
	ioTimeout      = 30 * time.Second
)

// Loop drives the fetch → append → compute → dispatch cycle on a fixed
// cadence measured start-to-start. Exactly one cycle is in flight at a time;
// a cycle that overruns the interval starts its successor on the next tick.
// A failed cycle is recorded and abandoned, never fatal.
type Loop struct {
	Fetcher  collector.Fetcher
	Window   *window.SampleWindow
	Engine   *indicator.Engine
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Pair     string
	Interval time.Duration

	mu         sync.Mutex
	lastReport string
}

// NewLoop wires the poll loop.
func NewLoop(f collector.Fetcher, w *window.SampleWindow, e *indicator.Engine,
	n notifier.Notifier, r recorder.Recorder, pair string, interval time.Duration) *Loop {
	return &Loop{
		Fetcher:  f,
		Window:   w,
		Engine:   e,
		Notifier: n,
		Recorder: r,
		Pair:     pair,
		Interval: interval,
	}
}

// Run executes cycles until ctx is cancelled. The first cycle runs
// immediately.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("[INFO] poll loop started: pair=%s interval=%s", l.Pair, l.Interval)
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	l.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] poll loop stopped")
			return
		case <-ticker.C:
			l.runCycle(ctx)
		}
	}
}

func (l *Loop) runCycle(ctx context.Context) {
	// FETCHING
	fctx, cancel := context.WithTimeout(ctx, ioTimeout)
	quote, err := l.Fetcher.FetchQuote(fctx)
	cancel()
	if err != nil {
		l.fail(StageFetch, err)
		return
	}

	// COMPUTING
	if err := l.Window.Append(quote.Sample); err != nil {
		l.fail(StageAppend, err)
		return
	}
	snap := l.Engine.Compute(l.Window.Snapshot())

	// Candle context is best effort: a failure only drops the K线 section.
	var summary *model.CandleSummary
	cctx, cancel := context.WithTimeout(ctx, ioTimeout)
	candles, err := l.Fetcher.FetchCandles(cctx, candleInterval, candleLimit)
	cancel()
	if err != nil {
		log.Printf("[WARN] candle fetch failed, report omits K-line section: %v", err)
	} else {
		summary = indicator.SummarizeCandles(candles)
	}

	report := notifier.FormatReport(l.Pair, quote, snap, summary)
	l.setLastReport(report)

	// DISPATCHING. The window and engine state are already advanced; a
	// delivery failure must not roll them back.
	dctx, cancel := context.WithTimeout(ctx, ioTimeout)
	err = l.Notifier.Send(dctx, report)
	cancel()
	if err != nil {
		l.fail(StageDispatch, err)
	} else {
		log.Printf("[INFO] cycle complete: price=%.6f window=%d", quote.Sample.Price, l.Window.Size())
	}

	if err := l.Recorder.RecordCycle(&recorder.CycleRecord{Quote: quote, Snapshot: snap}); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}
}

func (l *Loop) fail(stage string, err error) {
	log.Printf("[ERROR] cycle %s failed: %v", stage, err)
	if rerr := l.Recorder.RecordFailure(&recorder.CycleFailure{Stage: stage, Message: err.Error()}); rerr != nil {
		log.Printf("[ERROR] record failure: %v", rerr)
	}
}

func (l *Loop) setLastReport(report string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastReport = report
}

// HandleCommand serves interactive bot commands.
func (l *Loop) HandleCommand(command string) string {
	switch command {
	case "/report", "查看最新报告":
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.lastReport == "" {
			return "暂无报告，等待下一个采集周期"
		}
		return l.lastReport
	case "/digest", "查看每日摘要":
		d := &Digest{Recorder: l.Recorder, Pair: l.Pair}
		text, err := d.Build()
		if err != nil {
			log.Printf("[ERROR] build digest: %v", err)
			return "摘要生成失败"
		}
		return text
	default:
		return "可用命令:\n• /report 查看最新报告\n• /digest 查看每日摘要"
	}
}
