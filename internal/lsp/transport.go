package lsp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Base-protocol framing: each message is a Content-Length header, an
// optional Content-Type header, a blank line, then that many bytes of
// JSON body.

// ReadMessage reads one framed message body from the stream.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}

	rest, ok := strings.CutPrefix(header, "Content-Length: ")
	if !ok {
		return nil, fmt.Errorf("lsp: malformed header %q", strings.TrimSpace(header))
	}
	length, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return nil, fmt.Errorf("lsp: bad content length: %w", err)
	}

	// Next line is either the blank separator or a Content-Type
	// header followed by the separator.
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(line, "Content-Type") {
		if _, err := r.ReadString('\n'); err != nil {
			return nil, err
		}
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("lsp: body is not valid UTF-8")
	}
	return body, nil
}

// WriteMessage frames and writes one message body.
func WriteMessage(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
