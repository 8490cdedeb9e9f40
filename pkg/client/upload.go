package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/Tyno1/bitescout-api/internal/types"
)

// UploadFile is a file to send to the upload endpoint.
type UploadFile struct {
	Name        string
	Reader      io.Reader
	ContentType string
}

// UploadMetadata is the optional metadata sent alongside an upload.
type UploadMetadata struct {
	Title          string
	Description    string
	Folder         string
	AssociatedWith *types.AssociatedWith
}

// ProgressFunc receives upload progress as a 0-100 percentage.
type ProgressFunc func(percent int)

// BatchProgressFunc receives whole-set completion after each file finishes.
type BatchProgressFunc func(completed, total int)

// UploadResult is the per-file outcome of a batch upload.
type UploadResult struct {
	Media types.Media
	Err   error
}

// progressReader reports the fraction of the request body written so far.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 && pr.progress != nil && pr.total > 0 {
		pr.read += int64(n)
		percent := int(pr.read * 100 / pr.total)
		if percent > 100 {
			percent = 100
		}
		pr.progress(percent)
	}
	return n, err
}

func buildUploadBody(file UploadFile, meta UploadMetadata) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"title":       meta.Title,
		"description": meta.Description,
		"folder":      meta.Folder,
	}
	if meta.AssociatedWith != nil && !meta.AssociatedWith.IsZero() {
		fields["associated_type"] = string(meta.AssociatedWith.Type)
		fields["associated_id"] = meta.AssociatedWith.ID
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

// Upload sends one file to the upload endpoint. progress, when non-nil,
// receives the percentage of the request body sent so far.
func (c *Client) Upload(ctx context.Context, file UploadFile, meta UploadMetadata, progress ProgressFunc) (types.Media, error) {
	body, contentType, err := buildUploadBody(file, meta)
	if err != nil {
		return types.Media{}, err
	}

	reader := &progressReader{
		r:        body,
		total:    int64(body.Len()),
		progress: progress,
	}

	var media types.Media
	if err := c.do(ctx, http.MethodPost, "/media/upload", reader, contentType, &media); err != nil {
		return types.Media{}, err
	}
	if progress != nil {
		progress(100)
	}

	c.invalidateMedia(media)
	return media, nil
}

// UploadBatch uploads each file independently and concurrently. Results come
// back in input order; one file's failure does not abort the others.
// progress, when non-nil, receives the whole-set completion count after each
// file finishes, success or not.
func (c *Client) UploadBatch(ctx context.Context, files []UploadFile, meta UploadMetadata, progress BatchProgressFunc) []UploadResult {
	results := make([]UploadResult, len(files))

	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	for i, file := range files {
		wg.Add(1)
		go func(i int, file UploadFile) {
			defer wg.Done()

			media, err := c.Upload(ctx, file, meta, nil)
			results[i] = UploadResult{Media: media, Err: err}

			mu.Lock()
			completed++
			if progress != nil {
				progress(completed, len(files))
			}
			mu.Unlock()
		}(i, file)
	}
	wg.Wait()

	return results
}
