package senfi

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BatchRequest is one call of a batch.
type BatchRequest struct {
	Method string // get, post, put or delete
	Path   string
	Body   any
}

// BatchResult contains the outcome of one batched call.
type BatchResult struct {
	Request  BatchRequest
	Response *Response // nil on error
	Error    error     // nil on success
}

// BatchConfig configures batch execution behavior.
type BatchConfig struct {
	// MaxConcurrent is the maximum number of concurrent API calls.
	// Defaults to 10 if not specified.
	MaxConcurrent int

	// StopOnError determines whether to skip calls that have not started yet
	// once a call fails. Calls already in flight complete normally.
	StopOnError bool
}

// DefaultBatchConfig returns sensible defaults for batch operations.
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		MaxConcurrent: 10,
		StopOnError:   false,
	}
}

// DispatchBatch performs several calls concurrently. Results are returned in
// request order. All calls share the client's token, so an expired token is
// refreshed once for the whole batch.
//
// Example:
//
//	results := client.DispatchBatch(ctx, []senfi.BatchRequest{
//	    {Method: "get", Path: "/site"},
//	    {Method: "get", Path: "/subscription"},
//	}, nil)
//	for _, r := range results {
//	    if r.Error != nil {
//	        log.Printf("%s failed: %v", r.Request.Path, r.Error)
//	    }
//	}
func (c *Client) DispatchBatch(ctx context.Context, batch []BatchRequest, cfg *BatchConfig) []BatchResult {
	if len(batch) == 0 {
		return nil
	}

	if cfg == nil {
		cfg = DefaultBatchConfig()
	}
	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = 10
	}

	results := make([]BatchResult, len(batch))
	var stopped atomic.Bool

	var g errgroup.Group
	g.SetLimit(limit)

	for i, req := range batch {
		results[i].Request = req

		if stopped.Load() {
			results[i].Error = newError(KindSDKException, "skipped after an earlier batch failure", context.Canceled)
			continue
		}
		if err := ctx.Err(); err != nil {
			results[i].Error = classifyTransportError(err)
			continue
		}

		g.Go(func() error {
			if stopped.Load() {
				results[i].Error = newError(KindSDKException, "skipped after an earlier batch failure", context.Canceled)
				return nil
			}

			resp, err := c.Dispatch(ctx, req.Method, req.Path, req.Body)
			results[i].Response = resp
			results[i].Error = err

			if err != nil && cfg.StopOnError {
				stopped.Store(true)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
