package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Tyno1/bitescout-api/internal/types"
)

func uploadServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("failed to parse multipart: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if header.Filename == "broken.png" {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{
				"status": "error",
				"error":  "storage provider failure",
			})
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": types.Media{
				ID:   "media_" + header.Filename,
				URL:  "https://cdn.example.com/" + header.Filename,
				Type: types.MediaTypeImage,
			},
		})
	}))
}

func TestUpload_ReportsProgress(t *testing.T) {
	srv := uploadServer(t)
	defer srv.Close()

	c := New(srv.URL)

	var percents []int
	media, err := c.Upload(context.Background(), UploadFile{
		Name:        "photo.png",
		Reader:      strings.NewReader(strings.Repeat("x", 4096)),
		ContentType: "image/png",
	}, UploadMetadata{Title: "lunch"}, func(percent int) {
		percents = append(percents, percent)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if media.ID != "media_photo.png" {
		t.Errorf("unexpected media: %+v", media)
	}

	if len(percents) == 0 {
		t.Fatal("expected progress callbacks")
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress went backwards: %v", percents)
		}
	}
	if percents[len(percents)-1] != 100 {
		t.Errorf("expected final progress 100, got %d", percents[len(percents)-1])
	}
}

func TestUploadBatch_PartialFailureAndCompletionRatio(t *testing.T) {
	srv := uploadServer(t)
	defer srv.Close()

	c := New(srv.URL)

	files := []UploadFile{
		{Name: "a.png", Reader: strings.NewReader("a"), ContentType: "image/png"},
		{Name: "broken.png", Reader: strings.NewReader("b"), ContentType: "image/png"},
		{Name: "c.png", Reader: strings.NewReader("c"), ContentType: "image/png"},
	}

	var mu sync.Mutex
	var completions [][2]int
	results := c.UploadBatch(context.Background(), files, UploadMetadata{}, func(completed, total int) {
		mu.Lock()
		completions = append(completions, [2]int{completed, total})
		mu.Unlock()
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("expected file 1 to succeed, got %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("expected file 2 to fail")
	}
	if results[2].Err != nil {
		t.Errorf("expected file 3 to succeed, got %v", results[2].Err)
	}

	if len(completions) != 3 {
		t.Fatalf("expected 3 completion callbacks, got %d", len(completions))
	}
	last := completions[len(completions)-1]
	if last != [2]int{3, 3} {
		t.Errorf("expected final completion 3/3, got %v", last)
	}
}
