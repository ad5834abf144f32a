package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

// FileAPI drives the two-phase upload protocol: a file resource is created,
// then for each part (the binary and its signature) an upload is started,
// the bytes are transferred over the side-channel, and the part is finished.
// A failure anywhere after creation triggers best-effort finish calls for
// both parts so no half-open upload is left orphaned server-side, and then
// the original error is returned.
type FileAPI struct {
	c *core
}

const (
	partFile      = "file"
	partSignature = "signature"
)

// CreateFile registers a new file resource and returns its envelope. The
// response body carries the assigned file id.
func (f *FileAPI) CreateFile(ctx context.Context, name, mimeType, extension string) (*api.Envelope, error) {
	params := map[string]any{
		"name":      name,
		"mimeType":  mimeType,
		"extension": extension,
	}
	raw, err := f.c.caller.Call(ctx, "file", api.Options{Method: http.MethodPost, Params: params})
	if err != nil {
		return nil, err
	}
	return f.c.envelope(raw, params), nil
}

// StartUpload opens the upload of one part and returns the transfer URL.
func (f *FileAPI) StartUpload(ctx context.Context, fileID string, version int, part string) (string, error) {
	endpoint := fmt.Sprintf("file/%s/%d/%s/start", fileID, version, part)
	raw, err := f.c.caller.Call(ctx, endpoint, api.Options{Method: http.MethodPut})
	if err != nil {
		return "", err
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decoding upload start response: %w", err)
	}
	return resp.URL, nil
}

// FinishUpload closes the upload of one part. Also used as the compensating
// action for a failed pipeline.
func (f *FileAPI) FinishUpload(ctx context.Context, fileID string, version int, part string) error {
	endpoint := fmt.Sprintf("file/%s/%d/%s/finish", fileID, version, part)
	_, err := f.c.caller.Call(ctx, endpoint, api.Options{Method: http.MethodPut})
	return err
}

// UploadImage runs the whole pipeline for an image and its signature:
// create → (start → put → finish) for the file part, then the same for the
// signature part, then one FILE:UPLOAD event. On any failure after creation
// it issues the compensating finish calls (their own errors ignored) and
// returns the original error.
func (f *FileAPI) UploadImage(ctx context.Context, name, mimeType, extension string, data, signature []byte) (*api.Envelope, error) {
	created, err := f.CreateFile(ctx, name, mimeType, extension)
	if err != nil {
		return nil, err
	}

	var meta struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(created.JSON, &meta); err != nil || meta.ID == "" {
		return nil, fmt.Errorf("file create response has no id")
	}
	const version = 1

	if err := f.uploadPart(ctx, meta.ID, version, partFile, mimeType, data); err != nil {
		f.cleanup(ctx, meta.ID, version)
		return nil, err
	}
	if err := f.uploadPart(ctx, meta.ID, version, partSignature, "application/x-rsync-signature", signature); err != nil {
		f.cleanup(ctx, meta.ID, version)
		return nil, err
	}

	params := map[string]any{"fileId": meta.ID}
	env := f.c.envelope(created.JSON, params)
	f.c.bus.Emit(eventbus.FileUpload, env)
	return env, nil
}

func (f *FileAPI) uploadPart(ctx context.Context, fileID string, version int, part, contentType string, data []byte) error {
	url, err := f.StartUpload(ctx, fileID, version, part)
	if err != nil {
		return fmt.Errorf("starting %s upload: %w", part, err)
	}
	if err := f.c.uploader.Put(ctx, url, contentType, data); err != nil {
		return fmt.Errorf("transferring %s part: %w", part, err)
	}
	if err := f.FinishUpload(ctx, fileID, version, part); err != nil {
		return fmt.Errorf("finishing %s upload: %w", part, err)
	}
	return nil
}

// cleanup issues the compensating finish calls for a partially created
// upload. Failures here are logged and swallowed; the pipeline's original
// error is what the caller needs to see.
func (f *FileAPI) cleanup(ctx context.Context, fileID string, version int) {
	for _, part := range []string{partSignature, partFile} {
		if err := f.FinishUpload(ctx, fileID, version, part); err != nil {
			f.c.log.Warn(ctx, "upload cleanup failed", "fileId", fileID, "part", part, "err", err)
		}
	}
}
