package events

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
)

// WriteSSE writes one event in text/event-stream framing
func WriteSSE(w io.Writer, event Event) error {
	data, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.SequenceID, event.Type, data)
	return err
}

// WriteSSEComment writes a keep-alive comment line
func WriteSSEComment(w io.Writer, comment string) error {
	_, err := fmt.Fprintf(w, ": %s\n\n", comment)
	return err
}

// ReadSSE decodes events from a text/event-stream body and calls fn for each
// until the stream ends, fn returns an error, or a frame cannot be decoded.
// Comment lines and fields other than data are ignored.
func ReadSSE(r io.Reader, fn func(Event) error) error {
	scanner := bufio.NewScanner(r)
	var data bytes.Buffer

	flush := func() error {
		if data.Len() == 0 {
			return nil
		}
		var event Event
		if err := sonic.Unmarshal(data.Bytes(), &event); err != nil {
			return fmt.Errorf("failed to decode event: %w", err)
		}
		data.Reset()
		return fn(event)
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}
