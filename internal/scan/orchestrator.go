package scan

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/labelscan/internal/common"
	"github.com/MeKo-Tech/labelscan/internal/engine"
	"github.com/MeKo-Tech/labelscan/internal/enhance"
	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
	"github.com/MeKo-Tech/labelscan/internal/roi"
)

// Orchestrator drives the escalating sequence of decode attempts for a scan
// session. Each tick it recomputes the phase from elapsed time since the last
// commit and runs every attempt the phase admits, cheapest first, short-
// circuiting on the first committed result.
//
// The tick loop is single-threaded; the only asynchronous work is OCR, which
// runs on its own goroutine with at most one call in flight and reports back
// through a channel tagged with the session generation.
type Orchestrator struct {
	cfg       Config
	primary   engine.BarcodeDecoder
	secondary engine.BarcodeDecoder
	ocr       engine.OCR
	sink      Sink

	session *Session
	gate    *StabilityGate
	dedupe  *Deduplicator

	ocrDone chan ocrOutcome

	// now is swappable for tests.
	now func() time.Time
}

type ocrOutcome struct {
	generation uint64
	text       string
	err        error
}

// NewOrchestrator wires the scan core. A nil secondary decoder disables the
// phase-1 escalation; a nil sink discards committed readings.
func NewOrchestrator(cfg Config, primary engine.BarcodeDecoder, secondary engine.BarcodeDecoder,
	ocr engine.OCR, sink Sink,
) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, errors.New("scan: primary decoder is required")
	}
	if sink == nil {
		sink = SinkFunc(func(Reading) error { return nil })
	}
	return &Orchestrator{
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		ocr:       ocr,
		sink:      sink,
		session:   NewSession(),
		gate:      NewStabilityGate(cfg.StablePatchSize, cfg.MotionThreshold, cfg.MinStableStreak),
		dedupe:    NewDeduplicator(cfg),
		ocrDone:   make(chan ocrOutcome, 1),
		now:       time.Now,
	}, nil
}

// Session exposes the session record for observers; only the tick loop may
// mutate it.
func (o *Orchestrator) Session() *Session { return o.session }

// Start activates a new run.
func (o *Orchestrator) Start() {
	o.gate.Reset()
	o.session.Start(o.now())
}

// Stop deactivates the run. In-flight OCR results are discarded on arrival.
func (o *Orchestrator) Stop() {
	o.session.Stop()
}

// Tick processes one frame. It returns the committed reading, if any. All
// engine misses and errors are absorbed; an error return is reserved for the
// sink failing to accept a reading.
func (o *Orchestrator) Tick(ctx context.Context, frame *pixbuf.RGBA) (*Reading, error) {
	if !o.session.Active() {
		return nil, nil
	}
	now := o.now()

	if r, err := o.drainOCR(now); r != nil || err != nil {
		return r, err
	}

	if !o.gate.Observe(frame) {
		return nil, nil
	}

	phase := o.session.PhaseAt(now, o.cfg.PhaseThresholds)
	rawImg := frame.ToImage()

	if r, err := o.tryDecoder(ctx, o.primary, rawImg, now, true); r != nil || err != nil {
		return r, err
	}
	if phase >= PhaseSecondary && o.secondary != nil {
		if r, err := o.tryDecoder(ctx, o.secondary, rawImg, now, true); r != nil || err != nil {
			return r, err
		}
	}

	if phase < PhaseContrast {
		return nil, nil
	}

	timer := common.NewNamedTimer("enhance")
	variants := o.buildVariants(frame)
	slog.Debug("built enhancement variants", "count", len(variants), "took", timer.Stop())

	for _, v := range variants {
		if !variantAdmitted(v.Name, phase) {
			continue
		}
		if r, err := o.tryEngines(ctx, v.Gray.ToImage(), now); r != nil || err != nil {
			return r, err
		}
		if v.Name == enhance.VariantBinarized {
			// White-on-black symbols only decode with the polarity flipped.
			inv := v.Gray.Clone()
			enhance.InvertGray(inv)
			if r, err := o.tryEngines(ctx, inv.ToImage(), now); r != nil || err != nil {
				return r, err
			}
		}
	}

	if phase >= PhaseOCR && o.ocr != nil {
		o.maybeLaunchOCR(ctx, frame, now)
	}
	return nil, nil
}

// tryEngines runs the primary and, when present, the secondary decoder
// against one enhanced image. Variant coordinates are crop-relative, so no
// localization hint is recorded.
func (o *Orchestrator) tryEngines(ctx context.Context, img image.Image, now time.Time) (*Reading, error) {
	if r, err := o.tryDecoder(ctx, o.primary, img, now, false); r != nil || err != nil {
		return r, err
	}
	if o.secondary != nil {
		if r, err := o.tryDecoder(ctx, o.secondary, img, now, false); r != nil || err != nil {
			return r, err
		}
	}
	return nil, nil
}

// variantAdmitted maps variant names onto the escalation ladder: contrast
// corrections open up at phase 2, binarized/edge passes at phase 3.
func variantAdmitted(name string, phase Phase) bool {
	switch name {
	case enhance.VariantBarcode, enhance.VariantStrongContrast:
		return phase >= PhaseContrast
	case enhance.VariantBinarized, enhance.VariantEdgeEmphasis:
		return phase >= PhaseBinarize
	default:
		// The OCR-tuned variant is consumed by the OCR path, not by the
		// barcode decoders.
		return false
	}
}

// buildVariants runs deglare, ROI extraction and deskew, then derives the
// named enhancement variants from the straightened crop.
func (o *Orchestrator) buildVariants(frame *pixbuf.RGBA) []enhance.Variant {
	work := frame.Clone()
	enhance.Deglare(work)
	gray := enhance.ToGrayscale(work)
	crop, _ := roi.AutoCropLabel(gray, o.cfg.ROI)
	straight, angle := roi.Deskew(crop, o.cfg.ROI)
	if angle != 0 {
		slog.Debug("deskewed label crop", "angle_deg", angle)
	}
	return enhance.BuildVariants(straight, o.cfg.Enhance)
}

// tryDecoder runs one engine against one image. Misses and engine errors are
// equivalent; a successful decode flows through validation, dedupe and the
// sink. recordHint marks attempts whose coordinates are in raw-frame space,
// the only ones usable as an OCR localization hint.
func (o *Orchestrator) tryDecoder(ctx context.Context, dec engine.BarcodeDecoder,
	img image.Image, now time.Time, recordHint bool,
) (*Reading, error) {
	res, err := dec.Decode(ctx, img)
	if err != nil {
		if !errors.Is(err, engine.ErrNotFound) {
			slog.Debug("decoder error treated as miss", "engine", dec.Name(), "error", err)
		}
		return nil, nil
	}
	if recordHint && !res.BBox.Empty() {
		o.session.lastHint = res.BBox
	}
	return o.accept(res.Text, dec.Name(), now)
}

// accept validates a candidate value and commits it unless it is noise or a
// too-recent duplicate. Rejections are silent per the error taxonomy.
func (o *Orchestrator) accept(value, sourceTag string, now time.Time) (*Reading, error) {
	if !o.dedupe.IsAcceptable(value) {
		return nil, nil
	}
	if o.dedupe.IsDuplicate(value, o.session.lastValue, o.session.lastCommittedAt, now) {
		return nil, nil
	}
	o.session.commit(value, now)
	r := Reading{Timestamp: now, Value: value, SourceTag: sourceTag}
	if err := o.sink.Append(r); err != nil {
		return &r, err
	}
	slog.Info("committed reading", "value", value, "source", sourceTag)
	return &r, nil
}

// drainOCR consumes a pending OCR completion without blocking. Stale results
// from a previous generation are discarded.
func (o *Orchestrator) drainOCR(now time.Time) (*Reading, error) {
	select {
	case out := <-o.ocrDone:
		if out.generation != o.session.generation {
			// A completion from before a restart. Start already cleared the
			// busy flag for that generation; the current generation may have
			// its own call in flight, so the flag must survive.
			return nil, nil
		}
		o.session.busyOCR = false
		if !o.session.Active() {
			return nil, nil
		}
		if out.err != nil {
			if !errors.Is(out.err, engine.ErrNotFound) {
				slog.Debug("OCR error treated as miss", "error", out.err)
			}
			return nil, nil
		}
		return o.accept(NormalizeValue(out.text), "ocr", now)
	default:
		return nil, nil
	}
}

// maybeLaunchOCR starts an asynchronous OCR attempt against a small region of
// interest, subject to the throttle interval and the one-in-flight limit.
// The backpressure policy: a tick that arrives while OCR is pending skips
// launching another call rather than queueing unboundedly.
func (o *Orchestrator) maybeLaunchOCR(ctx context.Context, frame *pixbuf.RGBA, now time.Time) {
	if o.session.busyOCR {
		return
	}
	if !o.session.lastOCRAt.IsZero() && now.Sub(o.session.lastOCRAt) < o.cfg.OCRThrottle {
		return
	}
	gray := enhance.ToGrayscale(frame)
	region := ocrRegion(o.session.lastHint, gray.Width, gray.Height)
	crop := gray.Crop(region)
	enhance.Binarize(crop, nil)

	o.session.busyOCR = true
	o.session.lastOCRAt = now
	generation := o.session.generation

	go func() {
		text, err := o.recognizeWithRetry(ctx, crop)
		select {
		case o.ocrDone <- ocrOutcome{generation: generation, text: text, err: err}:
		default:
		}
	}()
}

// recognizeWithRetry runs OCR on the binarized crop and, if nothing usable
// comes back, on its inversion before giving up for this tick.
func (o *Orchestrator) recognizeWithRetry(ctx context.Context, bin *pixbuf.Gray) (string, error) {
	text, err := o.ocr.Recognize(ctx, bin.ToImage(), o.cfg.OCRWhitelist)
	if err == nil && NormalizeValue(text) != "" {
		return text, nil
	}
	inv := bin.Clone()
	enhance.InvertGray(inv)
	text, err = o.ocr.Recognize(ctx, inv.ToImage(), o.cfg.OCRWhitelist)
	if err != nil {
		return "", err
	}
	if NormalizeValue(text) == "" {
		return "", engine.ErrNotFound
	}
	return text, nil
}

// ocrRegion prefers the bounding box reported by a barcode localization hint
// and otherwise synthesizes a centered fallback box. The box is expanded with
// a small horizontal margin and a larger margin below, since printed serials
// often sit under the barcode.
func ocrRegion(hint image.Rectangle, width, height int) image.Rectangle {
	var box image.Rectangle
	if !hint.Empty() {
		box = hint
	} else {
		w := int(float64(width) * 0.70)
		h := int(float64(height) * 0.20)
		x := (width - w) / 2
		y := (height-h)/2 + int(float64(height)*0.10)
		box = image.Rect(x, y, x+w, y+h)
	}
	marginX := int(float64(width) * 0.04)
	marginBelow := int(float64(height) * 0.12)
	box = image.Rect(box.Min.X-marginX, box.Min.Y, box.Max.X+marginX, box.Max.Y+marginBelow)
	return pixbuf.ClampRect(box, width, height)
}
