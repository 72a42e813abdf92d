// Package extract resolves arbitrary page URLs into playable or
// downloadable video URLs.
//
// Extraction is a fixed-order, best-effort pipeline: a primary resolver
// service is asked first, and only if it produces nothing usable does the
// paid page-scraping fallback fire. Both attempts share one deadline, and
// a single attempt is made per strategy — no retries.
package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"streamdock/internal/httputil"
	"streamdock/internal/media"
)

// DefaultTimeout is the shared budget for one extraction request,
// covering both strategy attempts.
const DefaultTimeout = 45 * time.Second

var (
	// ErrNoMedia means every strategy completed without finding a usable
	// stream or download URL.
	ErrNoMedia = errors.New("could not extract video: the site may not be supported, require authentication, or the video format is not compatible")

	// ErrTimeout means the shared deadline expired with a strategy still
	// in flight.
	ErrTimeout = errors.New("request timed out")
)

// UpstreamError is an explicit error reported by the primary resolver
// service. It is held back while the fallback runs and only surfaced if
// nothing later succeeds.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Strategy is one way of turning a normalized URL into an ExtractedVideo.
// A (nil, nil) return is a miss: the strategy completed but found nothing,
// and the next strategy should be tried.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, url string) (*media.ExtractedVideo, error)
}

// Pipeline sequences validation and the extraction strategies under a
// shared deadline. It holds no mutable state, so one Pipeline is safe for
// any number of concurrent Extract calls.
type Pipeline struct {
	strategies []Strategy
	timeout    time.Duration
}

// NewPipeline builds a pipeline over the given strategies, tried in order.
// A non-positive timeout falls back to DefaultTimeout.
func NewPipeline(timeout time.Duration, strategies ...Strategy) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{strategies: strategies, timeout: timeout}
}

// Extract validates rawURL and runs the strategies in order, returning the
// first usable result. Validation failures are returned before any network
// call happens. Once the shared deadline expires the in-flight strategy is
// aborted and ErrTimeout is returned.
func (p *Pipeline) Extract(ctx context.Context, rawURL string) (*media.ExtractedVideo, error) {
	normalized, err := httputil.NormalizeVideoURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var upstream *UpstreamError
	for _, s := range p.strategies {
		video, err := s.Extract(ctx, normalized)
		if err != nil {
			if ctxErr := timeoutErr(ctx, err); ctxErr != nil {
				return nil, ctxErr
			}
			var ue *UpstreamError
			if errors.As(err, &ue) {
				// Held until all strategies are exhausted.
				upstream = ue
				continue
			}
			// Any other strategy failure just falls through to the
			// next strategy.
			continue
		}
		if video.HasMedia() {
			return video, nil
		}
	}

	if err := timeoutErr(ctx, nil); err != nil {
		return nil, err
	}
	if upstream != nil {
		return nil, fmt.Errorf("%w (%s)", ErrNoMedia, upstream.Message)
	}
	return nil, ErrNoMedia
}

// timeoutErr maps a deadline expiry to ErrTimeout. Cancellation by the
// caller is passed through untouched.
func timeoutErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
