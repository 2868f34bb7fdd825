package imagekit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to an ImageKit-style media CDN: uploads, deletes and the
// account usage numbers the admin quota dashboard shows.
type Client struct {
	APIURL     string
	UploadURL  string
	PrivateKey string
	HTTPClient *http.Client
}

type UploadResponse struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	FilePath string `json:"filePath"`
	Size     int64  `json:"size"`
}

type UsageResponse struct {
	BandwidthBytes            int64 `json:"bandwidthBytes"`
	MediaLibraryStorageBytes  int64 `json:"mediaLibraryStorageBytes"`
	VideoProcessingUnitsCount int64 `json:"videoProcessingUnitsCount"`
	ExtensionUnitsCount       int64 `json:"extensionUnitsCount"`
}

func NewClient(apiURL, uploadURL, privateKey string) *Client {
	return &Client{
		APIURL:     apiURL,
		UploadURL:  uploadURL,
		PrivateKey: privateKey,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Upload pushes a base64-encoded file. fileName becomes the object name in
// the media library.
func (c *Client) Upload(fileBase64, fileName, folder string) (*UploadResponse, error) {
	form := url.Values{}
	form.Set("file", fileBase64)
	form.Set("fileName", fileName)
	if folder != "" {
		form.Set("folder", folder)
	}

	req, err := http.NewRequest("POST", c.UploadURL+"/files/upload", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.PrivateKey, "")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagekit upload failed with status %d: %s", resp.StatusCode, body)
	}

	var uploadResp UploadResponse
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &uploadResp, nil
}

func (c *Client) Delete(fileID string) error {
	req, err := http.NewRequest("DELETE", c.APIURL+"/files/"+fileID, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.PrivateKey, "")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("imagekit delete failed with status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// Usage returns account consumption between two dates (YYYY-MM-DD).
func (c *Client) Usage(startDate, endDate string) (*UsageResponse, error) {
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)

	req, err := http.NewRequest("GET", c.APIURL+"/accounts/usage?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.PrivateKey, "")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagekit usage failed with status %d: %s", resp.StatusCode, body)
	}

	var usage UsageResponse
	if err := json.Unmarshal(body, &usage); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &usage, nil
}
