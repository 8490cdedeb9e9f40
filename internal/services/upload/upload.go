// Package upload orchestrates the file-to-media-record pipeline: store the
// blob with the provider, derive the media type, persist the record, then
// run the best-effort association hooks.
package upload

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Tyno1/bitescout-api/internal/hooks"
	"github.com/Tyno1/bitescout-api/internal/services/linker"
	"github.com/Tyno1/bitescout-api/internal/services/objectstore"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

// File is one raw upload payload.
type File struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	FileName    string
}

// Metadata accompanies an upload and is copied onto the created record.
type Metadata struct {
	Title          string
	Description    string
	Folder         string
	AssociatedWith *types.AssociatedWith
}

// Result is the per-file outcome of a batch upload.
type Result struct {
	Media types.Media `json:"media,omitempty"`
	Err   error       `json:"-"`
	Error string      `json:"error,omitempty"`
}

type Orchestrator struct {
	provider objectstore.Provider
	storage  storage.Storage
	linker   *linker.Linker
	hooks    *hooks.Runner
}

func NewOrchestrator(provider objectstore.Provider, st storage.Storage, lk *linker.Linker, runner *hooks.Runner) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		storage:  st,
		linker:   lk,
		hooks:    runner,
	}
}

// Upload stores the blob, then creates the media record. A provider failure
// is atomic: no record is created. A record failure after a successful store
// leaves the blob orphaned with the provider; no compensation is attempted.
func (o *Orchestrator) Upload(ctx context.Context, actorID string, file File, meta Metadata) (types.Media, error) {
	if actorID == "" {
		return types.Media{}, fmt.Errorf("%w: no actor", apperr.ErrAuthentication)
	}

	stored, err := o.provider.Store(ctx, file.Reader, file.Size, file.ContentType, meta.Folder)
	if err != nil {
		return types.Media{}, err
	}

	mediaType, err := types.MediaTypeFromMime(stored.MimeType)
	if err != nil {
		return types.Media{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	media, err := o.storage.CreateMedia(ctx, actorID, types.CreateMediaRequest{
		URL:            stored.URL,
		Type:           mediaType,
		Title:          meta.Title,
		Description:    meta.Description,
		AssociatedWith: meta.AssociatedWith,
		FileSize:       stored.FileSize,
		MimeType:       stored.MimeType,
		Dimensions:     stored.Dimensions,
		Provider:       stored.Provider,
		ProviderID:     stored.ProviderID,
	})
	if err != nil {
		return types.Media{}, err
	}

	if media.AssociatedWith != nil && !media.AssociatedWith.IsZero() {
		o.hooks.Run(ctx, hooks.Named("link-media", func(ctx context.Context) error {
			return o.linker.Link(ctx, media)
		}))
	}

	return media, nil
}

// UploadBatch uploads every file concurrently and returns results in input
// order. A single file's failure never aborts the others.
func (o *Orchestrator) UploadBatch(ctx context.Context, actorID string, files []File, meta Metadata) []Result {
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file File) {
			defer wg.Done()
			media, err := o.Upload(ctx, actorID, file, meta)
			if err != nil {
				results[i] = Result{Err: err, Error: err.Error()}
				return
			}
			results[i] = Result{Media: media}
		}(i, file)
	}
	wg.Wait()

	return results
}
