// Package api is the HTTP client for the server's JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type InitiateFileUploadRequest struct {
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	HashAlg  string `json:"hashAlg"`
	Hash     string `json:"hash"`
	ZoneName string `json:"zoneName"`
}

type InitiateFileUploadResponse struct {
	Type            string `json:"type"`
	AlreadyExists   bool   `json:"alreadyExists"`
	AlreadyPending  bool   `json:"alreadyPending"`
	SignedUploadURL string `json:"signedUploadUrl"`
	ObjectKey       string `json:"objectKey"`
}

type FinalizeFileUploadRequest struct {
	Type      string `json:"type"`
	ObjectKey string `json:"objectKey"`
	HashAlg   string `json:"hashAlg"`
	Hash      string `json:"hash"`
	ZoneName  string `json:"zoneName"`
	Size      int64  `json:"size"`
}

type FinalizeFileUploadResponse struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

type FindFileRequest struct {
	Type     string `json:"type"`
	HashAlg  string `json:"hashAlg"`
	Hash     string `json:"hash"`
	ZoneName string `json:"zoneName"`
}

type FindFileResponse struct {
	Type      string `json:"type"`
	Found     bool   `json:"found"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
	BucketURI string `json:"bucketUri"`
	ObjectKey string `json:"objectKey"`
	CacheHit  bool   `json:"cacheHit"`
}

func (c *Client) InitiateFileUpload(ctx context.Context, size int64, hashAlg, hash, zoneName string) (*InitiateFileUploadResponse, error) {
	req := &InitiateFileUploadRequest{
		Type:     "initiateFileUploadRequest",
		Size:     size,
		HashAlg:  hashAlg,
		Hash:     hash,
		ZoneName: zoneName,
	}
	resp := &InitiateFileUploadResponse{}
	if err := c.post(ctx, "/api/initiateFileUpload", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) FinalizeFileUpload(ctx context.Context, objectKey string, size int64, hashAlg, hash, zoneName string) (*FinalizeFileUploadResponse, error) {
	req := &FinalizeFileUploadRequest{
		Type:      "finalizeFileUploadRequest",
		ObjectKey: objectKey,
		HashAlg:   hashAlg,
		Hash:      hash,
		ZoneName:  zoneName,
		Size:      size,
	}
	resp := &FinalizeFileUploadResponse{}
	if err := c.post(ctx, "/api/finalizeFileUpload", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) FindFile(ctx context.Context, hashAlg, hash, zoneName string) (*FindFileResponse, error) {
	req := &FindFileRequest{
		Type:     "findFileRequest",
		HashAlg:  hashAlg,
		Hash:     hash,
		ZoneName: zoneName,
	}
	resp := &FindFileResponse{}
	if err := c.post(ctx, "/api/findFile", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
