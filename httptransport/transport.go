// Package httptransport implements protocol.Transport over the
// device's REST API, using github.com/go-resty/resty/v2 as the HTTP
// client.
package httptransport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"

	"odkey/protocol"
)

const (
	requestTimeout = 30 * time.Second
	pingTimeout    = 5 * time.Second
)

// Transport is a protocol.Transport backed by a device's HTTP API.
type Transport struct {
	client  *resty.Client
	baseURL string
}

// Open builds a Transport pointed at host:port. If token is non-empty
// it is sent as a Bearer token on every request.
func Open(host string, port int, token string) *Transport {
	client := resty.New().SetTimeout(requestTimeout)
	if token != "" {
		client.SetAuthToken(token)
	}
	return &Transport{
		client:  client,
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
	}
}

func newWithClient(client *resty.Client, baseURL string) *Transport {
	return &Transport{client: client, baseURL: baseURL}
}

// Close implements protocol.Transport; the underlying HTTP client
// needs no explicit teardown.
func (t *Transport) Close() error {
	return nil
}

// Ping checks connectivity via /api/status, mirroring find_device in
// the original tooling. It uses its own short timeout rather than the
// shared client timeout, since a reachability probe should fail fast.
func (t *Transport) Ping(ctx context.Context) error {
	resp, err := t.client.R().SetContext(ctx).SetTimeout(pingTimeout).Get(t.baseURL + "/api/status")
	if err != nil {
		return protocol.NewTransportError("contacting device", err)
	}
	if resp.StatusCode() != 200 {
		return protocol.NewProtocolError(fmt.Sprintf("device not responding: HTTP %d", resp.StatusCode()), nil)
	}
	return nil
}

func httpError(action string, resp *resty.Response) error {
	if resp.StatusCode() == 404 {
		return protocol.ErrNotFound
	}
	msg := fmt.Sprintf("%s: HTTP %d", action, resp.StatusCode())
	if body := string(resp.Body()); body != "" {
		msg += ": " + body
	}
	return protocol.NewProtocolError(msg, nil)
}

// UploadProgram implements protocol.Transport.
func (t *Transport) UploadProgram(ctx context.Context, target protocol.Target, bytecode []byte) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(bytecode).
		Post(fmt.Sprintf("%s/api/program/%s", t.baseURL, target))
	if err != nil {
		return protocol.NewTransportError("uploading program", err)
	}
	if resp.StatusCode() != 200 {
		return httpError("upload failed", resp)
	}
	return nil
}

// DownloadProgram implements protocol.Transport.
func (t *Transport) DownloadProgram(ctx context.Context, target protocol.Target) ([]byte, error) {
	resp, err := t.client.R().SetContext(ctx).Get(fmt.Sprintf("%s/api/program/%s", t.baseURL, target))
	if err != nil {
		return nil, protocol.NewTransportError("downloading program", err)
	}
	if resp.StatusCode() != 200 {
		return nil, httpError("download failed", resp)
	}
	return resp.Body(), nil
}

// DeleteProgram removes the program stored at the flash target, the
// one DELETE endpoint the original HTTP tooling exposes.
func (t *Transport) DeleteProgram(ctx context.Context) error {
	resp, err := t.client.R().SetContext(ctx).Delete(t.baseURL + "/api/program/flash")
	if err != nil {
		return protocol.NewTransportError("deleting program", err)
	}
	if resp.StatusCode() != 200 {
		return httpError("delete failed", resp)
	}
	return nil
}

// ExecuteProgram implements protocol.Transport.
func (t *Transport) ExecuteProgram(ctx context.Context, target protocol.Target) error {
	resp, err := t.client.R().SetContext(ctx).Post(fmt.Sprintf("%s/api/program/%s/execute", t.baseURL, target))
	if err != nil {
		return protocol.NewTransportError("executing program", err)
	}
	if resp.StatusCode() != 200 {
		return httpError("execute failed", resp)
	}
	return nil
}

// DownloadLogs implements protocol.Transport, streaming the response
// body to fn as it arrives, in chunks of at most 1024 bytes (one chunk
// per read of the body).
func (t *Transport) DownloadLogs(ctx context.Context, fn func(protocol.LogChunk) error) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(t.baseURL + "/api/logs")
	if err != nil {
		return protocol.NewTransportError("downloading logs", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return httpError("log download failed", resp)
	}

	const chunkSize = 1024
	buf := make([]byte, chunkSize)
	reader := bufio.NewReader(body)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if cbErr := fn(protocol.LogChunk{Data: chunk}); cbErr != nil {
				return cbErr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return protocol.NewTransportError("reading log stream", err)
		}
	}
}

// ClearLogs implements protocol.Transport.
func (t *Transport) ClearLogs(ctx context.Context) error {
	resp, err := t.client.R().SetContext(ctx).Delete(t.baseURL + "/api/logs")
	if err != nil {
		return protocol.NewTransportError("clearing logs", err)
	}
	if resp.StatusCode() != 200 {
		return httpError("log clear failed", resp)
	}
	return nil
}
