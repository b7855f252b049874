// Package relay forwards a selected file to the conversion service and turns
// the response into a download link, a message or an error text.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nconklindev/sheetrelay/internal/types"

	"go.uber.org/zap"
)

// DefaultBaseURL is where the conversion service listens unless configured
// otherwise.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Options configures a Relay.
type Options struct {
	BaseURL string
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration
	Store   *Store
	Logger  *zap.Logger
	Client  *http.Client
}

// Relay sends conversion requests and tracks the current object reference of
// every direction.
type Relay struct {
	baseURL string
	client  *http.Client
	store   *Store
	logger  *zap.Logger

	mu      sync.Mutex
	current map[string]ObjectRef
}

// New creates a Relay from opts.
func New(opts Options) (*Relay, error) {
	if opts.Store == nil {
		return nil, errors.New("relay requires an object store")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Relay{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		store:   opts.Store,
		logger:  logger,
		current: make(map[string]ObjectRef),
	}, nil
}

func (r *Relay) BaseURL() string {
	return r.baseURL
}

func (r *Relay) Store() *Store {
	return r.store
}

// RequestSpreadsheetToData uploads a spreadsheet and exposes the JSON result.
func (r *Relay) RequestSpreadsheetToData(ctx context.Context, file *types.SelectedFile, view View) Outcome {
	return r.Run(ctx, ExcelToJSON, file, view)
}

// RequestDataToSpreadsheet uploads a JSON document and exposes the workbook
// result.
func (r *Relay) RequestDataToSpreadsheet(ctx context.Context, file *types.SelectedFile, view View) Outcome {
	return r.Run(ctx, JSONToExcel, file, view)
}

// RequestSpreadsheetValidation asks the service to validate a spreadsheet.
func (r *Relay) RequestSpreadsheetValidation(ctx context.Context, file *types.SelectedFile, view View) Outcome {
	return r.Run(ctx, ValidateExcel, file, view)
}

// RequestDataValidation asks the service to validate a JSON document.
func (r *Relay) RequestDataValidation(ctx context.Context, file *types.SelectedFile, view View) Outcome {
	return r.Run(ctx, ValidateJSON, file, view)
}

// Run performs one request for d and writes the outcome to view.
func (r *Relay) Run(ctx context.Context, d Direction, file *types.SelectedFile, view View) Outcome {
	out := r.Do(ctx, d, file, nil)
	out.Apply(view)
	return out
}

// Do performs one request for d without touching any view. When progress is
// non-nil it receives the fraction of the request body sent; nothing is sent
// on it after Do returns.
func (r *Relay) Do(ctx context.Context, d Direction, file *types.SelectedFile, progress chan<- float64) Outcome {
	out := Outcome{Direction: d.Key}
	log := r.logger.With(zap.String("direction", d.Key), zap.String("endpoint", d.Endpoint))

	if file == nil {
		log.Info("no file selected")
		out.Err = &MissingInputError{Message: d.MissingMessage}
		return out
	}
	log = log.With(zap.String("file", file.Name))

	body, err := d.Body(file)
	if err != nil {
		log.Warn("could not read selected file", zap.Error(err))
		out.Err = &TransportError{Kind: KindLocalFile, Err: err}
		return out
	}

	pr := &progressReader{
		r:        bytes.NewReader(body.Data),
		total:    len(body.Data),
		progress: progress,
	}
	defer pr.stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+d.Endpoint, pr)
	if err != nil {
		out.Err = newTransportError(err)
		return out
	}
	req.ContentLength = int64(len(body.Data))
	req.Header.Set("Content-Type", body.ContentType)

	log.Debug("sending request", zap.Int("bytes", len(body.Data)))
	resp, err := r.client.Do(req)
	if err != nil {
		terr := newTransportError(err)
		log.Warn("request failed", zap.String("error_kind", string(terr.Kind)), zap.Error(err))
		out.Err = terr
		return out
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := newTransportError(err)
		log.Warn("reading response failed", zap.String("error_kind", string(terr.Kind)), zap.Error(err))
		out.Err = terr
		return out
	}
	log = log.With(zap.Int("status", resp.StatusCode), zap.Int("response_bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		out.Err = failure(d, resp, data)
		log.Info("service rejected request", zap.Error(out.Err))
		return out
	}

	if d.Mode == ModeValidate {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			out.Err = &TransportError{Kind: KindMalformedResponse, Err: fmt.Errorf("invalid response from service: %w", err)}
			log.Warn("malformed validation response", zap.Error(err))
			return out
		}
		out.Message = payload.Message
		if out.Message == "" {
			out.Message = resp.Status
		}
		log.Info("validation passed")
		return out
	}

	ref, err := r.store.Put(d.SuccessFilename, data)
	if err != nil {
		out.Err = &TransportError{Kind: KindLocalFile, Err: err}
		log.Error("storing result failed", zap.Error(err))
		return out
	}
	r.replace(d.Key, ref, log)

	out.Link = &Link{
		Direction: d.Key,
		Href:      ref.Href,
		Path:      ref.Path,
		Filename:  d.SuccessFilename,
		Label:     d.SuccessLabel,
		Visible:   true,
	}
	log.Info("conversion stored", zap.String("href", ref.Href))
	return out
}

// Current returns the object reference currently shown for direction.
func (r *Relay) Current(direction string) (ObjectRef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.current[direction]
	return ref, ok
}

// replace makes ref the current reference for direction and revokes the one
// it supersedes.
func (r *Relay) replace(direction string, ref ObjectRef, log *zap.Logger) {
	r.mu.Lock()
	prev, ok := r.current[direction]
	r.current[direction] = ref
	r.mu.Unlock()

	if !ok {
		return
	}
	if err := r.store.Revoke(prev); err != nil {
		log.Warn("revoking previous result failed", zap.String("object", prev.ID), zap.Error(err))
	}
}

// failure builds the error for a non-OK response. A body that is not the
// service's JSON error shape is a malformed response.
func failure(d Direction, resp *http.Response, data []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return &TransportError{
			Kind: KindMalformedResponse,
			Err:  fmt.Errorf("invalid error response from service (%s): %w", resp.Status, err),
		}
	}

	msg := payload.Error
	if msg == "" {
		msg = resp.Status
	}
	return &ConversionError{Prefix: d.FailurePrefix, Message: msg, Status: resp.StatusCode}
}
