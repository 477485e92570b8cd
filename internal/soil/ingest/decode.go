package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

var (
	ErrMalformedPayload = errors.New("malformed upload payload")
	ErrEmptyPayload     = errors.New("empty upload payload")
)

// Decode returns the file bytes. Base64 payloads are data URLs of the form
// "data:<media type>;base64,<data>"; a data URL without ";base64" is taken
// as percent-encoded text.
func Decode(file entity.UploadedFile) ([]byte, error) {
	if file.Encoding == entity.EncodingRaw {
		if len(file.Raw) == 0 {
			return nil, ErrEmptyPayload
		}
		return file.Raw, nil
	}

	header, data, ok := strings.Cut(file.Payload, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing data separator", ErrMalformedPayload)
	}

	if !strings.HasSuffix(strings.ToLower(header), ";base64") {
		text, err := url.PathUnescape(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		return []byte(text), nil
	}

	data = strings.TrimSpace(data)
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		var rawErr error
		decoded, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
	}

	return decoded, nil
}

// MediaType returns the media type declared in a data URL header, if any.
func MediaType(payload string) string {
	header, _, ok := strings.Cut(payload, ",")
	if !ok {
		return ""
	}
	header = strings.TrimPrefix(header, "data:")
	mt, _, _ := strings.Cut(header, ";")
	return mt
}

// DetectFormat classifies a filename by substring: "csv" first, then "xls"
// (which also covers .xlsx and .xlsm).
func DetectFormat(filename string) entity.Format {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "csv"):
		return entity.FormatCSV
	case strings.Contains(name, "xls"):
		return entity.FormatSpreadsheet
	default:
		return entity.FormatUnknown
	}
}

// Preview returns the first n characters of the transport payload followed by "...".
func Preview(file entity.UploadedFile, n int) string {
	if file.Encoding == entity.EncodingRaw {
		raw := file.Raw
		end := 0
		for i := 0; (n < 0 || i < n) && end < len(raw); i++ {
			_, size := utf8.DecodeRune(raw[end:])
			end += size
		}
		return string(raw[:end]) + "..."
	}

	src := file.Payload
	end := 0
	for i := 0; (n < 0 || i < n) && end < len(src); i++ {
		_, size := utf8.DecodeRuneInString(src[end:])
		end += size
	}
	return src[:end] + "..."
}
