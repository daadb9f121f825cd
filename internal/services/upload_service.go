package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadService pushes binary files to the external asset host and turns the
// returned content id into a stable preview link. Without a configured host
// it falls back to the local media directory so development works offline.
type UploadService struct {
	APIURL   string
	CDNURL   string
	Key      string
	MediaDir string
	Client   *http.Client
}

func NewUploadService(apiURL, cdnURL, key, mediaDir string) *UploadService {
	return &UploadService{
		APIURL:   apiURL,
		CDNURL:   cdnURL,
		Key:      key,
		MediaDir: mediaDir,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Store uploads the file and returns the link to persist against the owning
// row (product/category/banner/image).
func (s *UploadService) Store(filename string, data []byte) (string, error) {
	if s.APIURL == "" {
		return s.storeLocal(filename, data)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("UPLOADCARE_PUB_KEY", s.Key); err != nil {
		return "", err
	}
	if err := w.WriteField("UPLOADCARE_STORE", "auto"); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, s.APIURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("asset host: %s: %s", resp.Status, string(b))
	}

	var out struct {
		File string `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.File == "" {
		return "", fmt.Errorf("asset host: missing file id in response")
	}
	return fmt.Sprintf("%s/%s/-/preview/736x736/", strings.TrimRight(s.CDNURL, "/"), out.File), nil
}

func (s *UploadService) storeLocal(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.MediaDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if err := os.WriteFile(filepath.Join(s.MediaDir, name), data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + name, nil
}
