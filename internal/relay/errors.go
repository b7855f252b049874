package relay

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// MissingInputError reports that no file was selected. It is raised before
// any I/O.
type MissingInputError struct {
	Message string
}

func (e *MissingInputError) Error() string {
	return e.Message
}

// ConversionError carries the service's own explanation of a rejected request.
type ConversionError struct {
	Prefix  string
	Message string
	Status  int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Prefix, e.Message)
}

// ErrorKind is a coarse category of transport failure.
type ErrorKind string

const (
	KindTimeout           ErrorKind = "timeout"
	KindConnectionRefused ErrorKind = "connection_refused"
	KindDNS               ErrorKind = "dns"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindLocalFile         ErrorKind = "local_file"
	KindOther             ErrorKind = "other"
)

// TransportError wraps a failure of the request/response exchange itself.
type TransportError struct {
	Kind ErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return "An error occurred: " + e.Message()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the lowest-level message available. The url.Error layer
// added by net/http only repeats the method and URL.
func (e *TransportError) Message() string {
	if e.Err == nil {
		return "unknown error"
	}
	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return e.Err.Error()
}

func newTransportError(err error) *TransportError {
	return &TransportError{Kind: classify(err), Err: err}
}

// classify sorts network errors the same way the user-facing hints do.
func classify(err error) ErrorKind {
	switch {
	case isTimeoutError(err):
		return KindTimeout
	case isDNSError(err):
		return KindDNS
	case isConnectionRefusedError(err):
		return KindConnectionRefused
	default:
		return KindOther
	}
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// Display renders err as the text shown in the error area.
func Display(err error) string {
	if err == nil {
		return ""
	}

	var missing *MissingInputError
	var conversion *ConversionError
	var transport *TransportError
	switch {
	case errors.As(err, &missing):
		return missing.Error()
	case errors.As(err, &conversion):
		return conversion.Error()
	case errors.As(err, &transport):
		return transport.Error()
	default:
		return "An error occurred: " + err.Error()
	}
}
