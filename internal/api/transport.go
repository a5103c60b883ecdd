package api

import (
	"context"
	"fmt"
	"time"

	"league-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

func newHTTPClient(timeout time.Duration) *fasthttp.Client {
	return &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxIdleConnDuration: 1 * time.Minute,
	}
}

type result struct {
	status int
	body   []byte
	err    error
}

// get performs one GET and returns a copy of the response body. Transport
// faults and non-200 statuses come back as *domain.UpstreamError. fasthttp
// only honours deadlines, so the exchange runs in its own goroutine and a
// cancelled ctx abandons it without waiting.
func get(ctx context.Context, hc *fasthttp.Client, op, url string, prepare func(*fasthttp.Request), inspect func(*fasthttp.Response)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan result, 1)
	go func() {
		// req and resp belong to this goroutine; the caller may have left
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "application/json")
		if prepare != nil {
			prepare(req)
		}

		var err error
		if deadline, ok := ctx.Deadline(); ok {
			err = hc.DoDeadline(req, resp, deadline)
		} else {
			err = hc.Do(req, resp)
		}
		if err != nil {
			done <- result{err: err}
			return
		}

		if inspect != nil {
			inspect(resp)
		}
		done <- result{status: resp.StatusCode(), body: append([]byte(nil), resp.Body()...)}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, &domain.UpstreamError{Op: op, Err: ctx.Err()}
	}

	if res.err != nil {
		return nil, &domain.UpstreamError{Op: op, Err: res.err}
	}
	if res.status != fasthttp.StatusOK {
		return nil, &domain.UpstreamError{Op: op, StatusCode: res.status}
	}
	return res.body, nil
}
