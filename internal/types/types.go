package types

import (
	"fmt"
	"strings"
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// MediaTypeFromMime maps a provider-reported mime type onto a media type.
func MediaTypeFromMime(mimeType string) (MediaType, error) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaTypeImage, nil
	case strings.HasPrefix(mimeType, "video/"):
		return MediaTypeVideo, nil
	case strings.HasPrefix(mimeType, "audio/"):
		return MediaTypeAudio, nil
	default:
		return "", fmt.Errorf("unsupported mime type %q", mimeType)
	}
}

func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeImage, MediaTypeVideo, MediaTypeAudio:
		return true
	}
	return false
}

type StorageProvider string

const (
	ProviderCloudinary StorageProvider = "cloudinary"
	ProviderS3         StorageProvider = "aws-s3"
	ProviderMinIO      StorageProvider = "minio"
)

// AssociationType is the discriminator of a media association. The linker
// switches over every value; unhandled cases are compile-visible there.
type AssociationType string

const (
	AssociationPost       AssociationType = "post"
	AssociationDish       AssociationType = "dish"
	AssociationRestaurant AssociationType = "restaurant"
	AssociationUser       AssociationType = "user"
)

func (a AssociationType) Valid() bool {
	switch a {
	case AssociationPost, AssociationDish, AssociationRestaurant, AssociationUser:
		return true
	}
	return false
}

// AssociatedWith ties a media record to one domain entity. The zero value
// means the record is unassociated.
type AssociatedWith struct {
	Type AssociationType `json:"type"`
	ID   string          `json:"id"`
}

func (a AssociatedWith) IsZero() bool {
	return a.Type == "" && a.ID == ""
}

// Dimensions holds image width/height in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Uploader is the expanded owner shape embedded in media responses.
type Uploader struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

// Media represents one uploaded asset.
type Media struct {
	ID             string          `json:"id"`
	URL            string          `json:"url"`
	Type           MediaType       `json:"type"`
	Title          string          `json:"title,omitempty"`
	Description    string          `json:"description,omitempty"`
	UploadedBy     Uploader        `json:"uploaded_by"`
	AssociatedWith *AssociatedWith `json:"associated_with,omitempty"`
	Verified       bool            `json:"verified"`
	FileSize       int64           `json:"file_size,omitempty"`
	MimeType       string          `json:"mime_type,omitempty"`
	Dimensions     *Dimensions     `json:"dimensions,omitempty"`
	Provider       StorageProvider `json:"provider,omitempty"`
	ProviderID     string          `json:"provider_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateMediaRequest is the metadata-only create payload.
type CreateMediaRequest struct {
	URL            string          `json:"url" validate:"required,url"`
	Type           MediaType       `json:"type" validate:"required"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	AssociatedWith *AssociatedWith `json:"associated_with"`
	FileSize       int64           `json:"file_size"`
	MimeType       string          `json:"mime_type"`
	Dimensions     *Dimensions     `json:"dimensions"`
	Provider       StorageProvider `json:"provider"`
	ProviderID     string          `json:"provider_id"`
}

// UpdateMediaRequest carries the owner-mutable fields. Nil pointers leave the
// stored value untouched.
type UpdateMediaRequest struct {
	Title          *string         `json:"title"`
	Description    *string         `json:"description"`
	AssociatedWith *AssociatedWith `json:"associated_with"`
}

// Pagination is the list-response metadata shared by every media list.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination derives the full metadata from a total row count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// MediaPage is a single page of media records, newest first.
type MediaPage struct {
	Items      []Media    `json:"items"`
	Pagination Pagination `json:"pagination"`
}
