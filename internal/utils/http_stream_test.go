package utils

import (
	"io"
	"strings"
	"testing"
)

// chunkedReader yields the underlying data in fixed-size chunks to exercise
// frame reassembly across arbitrary read boundaries.
type chunkedReader struct {
	data  []byte
	chunk int
	pos   int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.chunk
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.pos:end])
	r.pos += n
	return n, nil
}

func decodeAll(t *testing.T, decoder *SSEDecoder) []string {
	t.Helper()
	var payloads []string
	for {
		payload, err := decoder.Next()
		if err == io.EOF {
			return payloads
		}
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		payloads = append(payloads, payload)
	}
}

func TestSSEDecoder_SingleFrame(t *testing.T) {
	decoder := NewSSEDecoder(strings.NewReader("data: {\"a\":1}\n\n"))
	got := decodeAll(t, decoder)
	if len(got) != 1 || got[0] != `{"a":1}` {
		t.Errorf("unexpected payloads: %v", got)
	}
}

func TestSSEDecoder_MultipleFramesInOneRead(t *testing.T) {
	input := "data: one\n\ndata: two\n\ndata: three\n\n"
	got := decodeAll(t, NewSSEDecoder(strings.NewReader(input)))
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %d payloads, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("payload %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSSEDecoder_ChunkBoundariesDoNotAffectFrames(t *testing.T) {
	input := "data: {\"delta\":\"hello world\"}\n\ndata: {\"delta\":\"second\"}\n\ndata: [DONE]\n\n"

	// The same byte stream must decode identically for every chunking.
	for _, chunk := range []int{1, 2, 3, 5, 7, 16, len(input)} {
		decoder := NewSSEDecoder(&chunkedReader{data: []byte(input), chunk: chunk})
		got := decodeAll(t, decoder)
		if len(got) != 2 {
			t.Fatalf("chunk size %d: got %d payloads, want 2", chunk, len(got))
		}
		if got[0] != `{"delta":"hello world"}` || got[1] != `{"delta":"second"}` {
			t.Errorf("chunk size %d: unexpected payloads %v", chunk, got)
		}
	}
}

func TestSSEDecoder_DoneSentinel_EndsStream(t *testing.T) {
	input := "data: first\n\ndata: [DONE]\n\ndata: after\n\n"
	decoder := NewSSEDecoder(strings.NewReader(input))
	got := decodeAll(t, decoder)
	if len(got) != 1 || got[0] != "first" {
		t.Errorf("frames after [DONE] must be ignored, got %v", got)
	}
}

func TestSSEDecoder_NonDataFrames_Skipped(t *testing.T) {
	input := ": keep-alive\n\nevent: ping\n\ndata: payload\n\n"
	got := decodeAll(t, NewSSEDecoder(strings.NewReader(input)))
	if len(got) != 1 || got[0] != "payload" {
		t.Errorf("unexpected payloads: %v", got)
	}
}

func TestSSEDecoder_TrailingBytesWithoutDelimiter_Discarded(t *testing.T) {
	input := "data: complete\n\ndata: never terminated"
	got := decodeAll(t, NewSSEDecoder(strings.NewReader(input)))
	if len(got) != 1 || got[0] != "complete" {
		t.Errorf("unexpected payloads: %v", got)
	}
}

func TestSSEDecoder_EOFIsSticky(t *testing.T) {
	decoder := NewSSEDecoder(strings.NewReader("data: only\n\n"))
	decodeAll(t, decoder)
	for i := 0; i < 3; i++ {
		if _, err := decoder.Next(); err != io.EOF {
			t.Fatalf("call %d after EOF: got %v, want io.EOF", i, err)
		}
	}
}

func TestSSEDecoder_InvalidUTF8_ReturnsError(t *testing.T) {
	input := append([]byte("data: ok\n\ndata: bad"), 0xff, 0xfe)
	input = append(input, []byte("\n\n")...)
	decoder := NewSSEDecoder(&chunkedReader{data: input, chunk: 4})

	payload, err := decoder.Next()
	if err != nil || payload != "ok" {
		t.Fatalf("first frame: got %q, %v", payload, err)
	}
	if _, err := decoder.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected decode error for invalid UTF-8, got %v", err)
	}
	// The decoder stays terminated after the error.
	if _, err := decoder.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after terminal error, got %v", err)
	}
}

func TestSSEDecoder_MultibyteRuneSplitAcrossChunks(t *testing.T) {
	input := "data: café 世界\n\n"
	for _, chunk := range []int{1, 2, 3} {
		decoder := NewSSEDecoder(&chunkedReader{data: []byte(input), chunk: chunk})
		got := decodeAll(t, decoder)
		if len(got) != 1 || got[0] != "café 世界" {
			t.Errorf("chunk size %d: unexpected payloads %v", chunk, got)
		}
	}
}

func TestSSEDecoder_EmptyStream(t *testing.T) {
	if got := decodeAll(t, NewSSEDecoder(strings.NewReader(""))); len(got) != 0 {
		t.Errorf("expected no payloads, got %v", got)
	}
}
