package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/monumenta/mediasync/shared/domain"
	"github.com/monumenta/mediasync/shared/logger"
)

// UploadAsset sends one file as multipart form data and returns the
// server-confirmed record.
func (c *Client) UploadAsset(ctx context.Context, req domain.UploadRequest) (domain.RawAssetRecord, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.FileName))
	header.Set("Content-Type", req.MimeType)
	part, err := form.CreatePart(header)
	if err != nil {
		return domain.RawAssetRecord{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return domain.RawAssetRecord{}, fmt.Errorf("failed to read file content: %w", err)
	}

	_ = form.WriteField("description", req.Description)
	_ = form.WriteField("category", string(req.Category))
	_ = form.WriteField("isPublic", strconv.FormatBool(req.IsPublic))
	if req.FolderId != nil {
		_ = form.WriteField("folderId", *req.FolderId)
	}
	if err := form.Close(); err != nil {
		return domain.RawAssetRecord{}, fmt.Errorf("failed to finish upload form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/assets", &buf)
	if err != nil {
		return domain.RawAssetRecord{}, fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.do(httpReq)
	if err != nil {
		return domain.RawAssetRecord{}, err
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return domain.RawAssetRecord{}, errorFromResponse("upload "+req.FileName, resp)
	}

	var record assetRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return domain.RawAssetRecord{}, fmt.Errorf("failed to parse upload response: %w", err)
	}
	return c.raw(record), nil
}

// DeleteAsset removes one asset from the store of record.
func (c *Client) DeleteAsset(ctx context.Context, id domain.AssetId) error {
	resp, err := c.jsonRequest(ctx, http.MethodDelete, "/v1/assets/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return errorFromResponse("delete asset "+id, resp)
	}
	return nil
}

// PatchAsset updates partial metadata fields and returns the updated record.
func (c *Client) PatchAsset(ctx context.Context, id domain.AssetId, patch domain.MetadataPatch) (domain.RawAssetRecord, error) {
	payload := patchPayload{
		Description:  patch.Description,
		Tags:         patch.Tags,
		DateTaken:    patch.DateTaken,
		Photographer: patch.Photographer,
		IsPublic:     patch.IsPublic,
	}
	if patch.Category != nil {
		category := string(*patch.Category)
		payload.Category = &category
	}

	resp, err := c.jsonRequest(ctx, http.MethodPatch, "/v1/assets/"+url.PathEscape(id), payload)
	if err != nil {
		return domain.RawAssetRecord{}, err
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return domain.RawAssetRecord{}, errorFromResponse("patch asset "+id, resp)
	}

	var record assetRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return domain.RawAssetRecord{}, fmt.Errorf("failed to parse patch response: %w", err)
	}
	return c.raw(record), nil
}

// MoveAsset assigns an asset to a folder.
func (c *Client) MoveAsset(ctx context.Context, id domain.AssetId, folderId domain.FolderId) error {
	resp, err := c.jsonRequest(ctx, http.MethodPut, "/v1/assets/"+url.PathEscape(id)+"/folder", movePayload{FolderId: folderId})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return errorFromResponse("move asset "+id, resp)
	}
	return nil
}

// ListAssets fetches all persisted assets of a site for cache hydration.
func (c *Client) ListAssets(ctx context.Context, siteId domain.SiteId) ([]domain.RawAssetRecord, error) {
	resp, err := c.jsonRequest(ctx, http.MethodGet, "/v1/sites/"+url.PathEscape(siteId)+"/assets", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return nil, errorFromResponse("list assets for site "+siteId, resp)
	}

	var records []assetRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse asset list: %w", err)
	}

	result := make([]domain.RawAssetRecord, 0, len(records))
	for _, r := range records {
		result = append(result, c.raw(r))
	}
	return result, nil
}

// ListFolders fetches the folders of a site. Failure is non-fatal: the
// gallery works without folder grouping, so errors degrade to an empty list.
func (c *Client) ListFolders(ctx context.Context, siteId domain.SiteId) []domain.Folder {
	resp, err := c.jsonRequest(ctx, http.MethodGet, "/v1/sites/"+url.PathEscape(siteId)+"/folders", nil)
	if err != nil {
		logger.Log.Warn("folder list unavailable", "site", siteId, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		logger.Log.Warn("folder list unavailable", "site", siteId, "status", resp.StatusCode)
		return nil
	}

	var records []folderRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		logger.Log.Warn("folder list unreadable", "site", siteId, "error", err)
		return nil
	}

	folders := make([]domain.Folder, 0, len(records))
	for _, r := range records {
		folders = append(folders, domain.Folder{Id: r.Id, Name: r.Name, Description: r.Description})
	}
	return folders
}

// Download streams an asset's bytes. The caller owns the reader.
func (c *Client) Download(ctx context.Context, id domain.AssetId) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !is2xx(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, errorFromResponse("download asset "+id, resp)
	}
	return resp.Body, nil
}

// DownloadURL is the server-backed preview source for a persisted asset.
func (c *Client) DownloadURL(id domain.AssetId) string {
	return c.BaseURL + "/v1/assets/" + url.PathEscape(id) + "/download"
}

// jsonRequest issues a request with an optional JSON body.
func (c *Client) jsonRequest(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}
