package reqcurry

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transport retrieves a resource: fully resolved locator in, readable
// body or error out. Anything satisfying that contract can back a
// Source.
type Transport interface {
	Fetch(locator string) (io.ReadCloser, error)
}

type httpTransport struct {
	cli *http.Client
}

// HTTPTransport returns the default transport, a plain net/http GET
// with the given timeout. Non-2xx statuses are reported as errors.
func HTTPTransport(timeout time.Duration) Transport {
	return httpTransport{cli: &http.Client{Timeout: timeout}}
}

func (t httpTransport) Fetch(locator string) (io.ReadCloser, error) {
	resp, err := t.cli.Get(locator)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

type restyTransport struct {
	cli *resty.Client
}

// RestyTransport adapts a resty client, for applications that already
// configure one (proxies, headers, middleware).
func RestyTransport(cli *resty.Client) Transport {
	return restyTransport{cli: cli}
}

func (t restyTransport) Fetch(locator string) (io.ReadCloser, error) {
	resp, err := t.cli.R().SetDoNotParseResponse(true).Get(locator)
	if err != nil {
		return nil, err
	}
	raw := resp.RawBody()
	if !resp.IsSuccess() {
		raw.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status())
	}
	return raw, nil
}
