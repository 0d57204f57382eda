package dto

import "time"

// SyncStatusResponse reports whether remote backup is connected.
type SyncStatusResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Message         string `json:"message"`
}

// AuthURLResponse carries the OAuth consent URL.
type AuthURLResponse struct {
	AuthURL string `json:"authUrl"`
}

// CompleteAuthRequest carries the authorization code returned by Google.
type CompleteAuthRequest struct {
	Code string `json:"code" binding:"required"`
}

// SyncResultResponse is returned by backup and restore.
type SyncResultResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
