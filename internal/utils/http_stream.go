package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

// DoPostStream performs an HTTP POST request through the retry executor and
// returns the raw response with body left open for SSE reading. The caller is
// responsible for closing the response body when done reading.
//
// Retries are fully resolved here, before any byte of the stream is handed
// out: once a 2xx response is returned, no further retry occurs and
// mid-stream failures terminate the stream.
func DoPostStream(ctx context.Context, client *http.Client, url string, apiKey string, body any, config RetryConfig, headers ...HeaderOption) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	streamHeaders := append([]HeaderOption{{Key: "Accept", Value: "text/event-stream"}}, headers...)
	return DoPostRetry(ctx, client, url, apiKey, jsonBody, config, streamHeaders...)
}

// maxFrameSize is the maximum size of a single SSE frame (1 MB). Large
// tool-call arguments or long completions fit comfortably; a stream that
// accumulates more than this without a frame delimiter is malformed.
const maxFrameSize = 1 * 1024 * 1024

// frameDelimiter terminates one SSE frame.
var frameDelimiter = []byte("\n\n")

// dataPrefix marks the payload-carrying line of a frame.
const dataPrefix = "data: "

// SSEDecoder incrementally decodes Server-Sent-Events frames from a raw byte
// stream. Bytes are appended to an internal buffer as they arrive and frames
// are drained from its head whenever a complete "\n\n"-terminated frame is
// present, so network chunk boundaries never affect frame boundaries.
//
// The decoder is single-pass and owned by exactly one streaming exchange.
type SSEDecoder struct {
	reader  io.Reader
	buf     []byte
	scratch []byte
	eof     bool
	done    bool
}

// NewSSEDecoder creates an SSEDecoder that reads frames from the given reader.
func NewSSEDecoder(reader io.Reader) *SSEDecoder {
	return &SSEDecoder{
		reader:  reader,
		scratch: make([]byte, 4096),
	}
}

// Next returns the next frame payload: the text following the "data: "
// prefix, trimmed of surrounding whitespace.
//
// Returns io.EOF when the [DONE] sentinel is encountered (graceful end of
// stream; any further bytes are ignored) or when the underlying stream ends.
// Undelimited trailing bytes are discarded without error. Frames without the
// "data: " prefix (comments, keep-alives, other SSE fields) are skipped
// silently. Invalid UTF-8 in a frame or an oversized frame is a decode error.
func (decoder *SSEDecoder) Next() (string, error) {
	if decoder.done {
		return "", io.EOF
	}

	for {
		// Drain complete frames from the head of the buffer.
		for {
			index := bytes.Index(decoder.buf, frameDelimiter)
			if index < 0 {
				break
			}
			frame := decoder.buf[:index]
			decoder.buf = decoder.buf[index+len(frameDelimiter):]

			if !utf8.Valid(frame) {
				decoder.done = true
				return "", fmt.Errorf("invalid UTF-8 in SSE frame")
			}

			payload, found := strings.CutPrefix(string(frame), dataPrefix)
			if !found {
				continue
			}
			payload = strings.TrimSpace(payload)

			// OpenAI convention: the sentinel ends the stream even if
			// more bytes are available.
			if payload == "[DONE]" {
				decoder.done = true
				return "", io.EOF
			}
			return payload, nil
		}

		if decoder.eof {
			decoder.done = true
			return "", io.EOF
		}

		n, err := decoder.reader.Read(decoder.scratch)
		if n > 0 {
			decoder.buf = append(decoder.buf, decoder.scratch[:n]...)
			if len(decoder.buf) > maxFrameSize {
				decoder.done = true
				return "", fmt.Errorf("SSE frame exceeds %d bytes without a delimiter", maxFrameSize)
			}
		}
		if err == io.EOF {
			decoder.eof = true
			continue
		}
		if err != nil {
			decoder.done = true
			return "", fmt.Errorf("SSE read error: %w", err)
		}
	}
}
