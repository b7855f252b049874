package relay

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"sync"

	"github.com/nconklindev/sheetrelay/internal/types"
)

// MultipartField is the form field the service reads the upload from.
const MultipartField = "file"

// RequestBody is a fully built request payload.
type RequestBody struct {
	Data        []byte
	ContentType string
}

// BodyBuilder turns a selected file into a request payload.
type BodyBuilder func(file *types.SelectedFile) (RequestBody, error)

// MultipartBody packages the raw file bytes as multipart form data under
// MultipartField.
func MultipartBody(file *types.SelectedFile) (RequestBody, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return RequestBody{}, err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(MultipartField, file.Name)
	if err != nil {
		return RequestBody{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return RequestBody{}, fmt.Errorf("read %s: %w", file.Name, err)
	}
	if err := w.Close(); err != nil {
		return RequestBody{}, err
	}

	return RequestBody{Data: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
}

// JSONBody sends the file's text verbatim with a JSON content type.
func JSONBody(file *types.SelectedFile) (RequestBody, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return RequestBody{}, err
	}
	return RequestBody{Data: data, ContentType: "application/json"}, nil
}

// progressReader reports the fraction of the body read so far. Sends are
// dropped when the receiver is busy, and stop entirely once stop is called
// so the caller may close the channel.
type progressReader struct {
	r        io.Reader
	total    int
	read     int
	progress chan<- float64

	mu      sync.Mutex
	stopped bool
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.read += n
	if p.progress != nil && !p.stopped && p.total > 0 && n > 0 {
		select {
		case p.progress <- float64(p.read) / float64(p.total):
		default:
		}
	}
	return n, err
}

func (p *progressReader) stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}
