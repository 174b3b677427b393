package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

// ListDocumentsByKB returns the documents of a knowledge base
func (c *Client) ListDocumentsByKB(ctx context.Context, kbID string) ([]Document, error) {
	return getList[Document](ctx, c, "/knowledge-bases/"+esc(kbID)+"/documents", "documents")
}

// GetDocument returns a document
func (c *Client) GetDocument(ctx context.Context, docID string) (*Document, error) {
	var d Document
	if err := c.doJSON(ctx, http.MethodGet, "/documents/"+esc(docID), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDocument creates an empty document in a knowledge base
func (c *Client) CreateDocument(ctx context.Context, kbID string, req CreateDocumentRequest) (*Document, error) {
	var d Document
	if err := c.doJSON(ctx, http.MethodPost, "/knowledge-bases/"+esc(kbID)+"/documents", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDocumentFromURL asks the API to ingest a document from a URL.
// Processing is asynchronous; poll the document's versions.
func (c *Client) CreateDocumentFromURL(ctx context.Context, kbID string, req URLIngestRequest) (*IngestResult, error) {
	var res IngestResult
	if err := c.doJSON(ctx, http.MethodPost, "/knowledge-bases/"+esc(kbID)+"/documents/from-url", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateDocumentDescription replaces a document's description
func (c *Client) UpdateDocumentDescription(ctx context.Context, docID, description string) (*Document, error) {
	var d Document
	body := map[string]string{"description": description}
	if err := c.doJSON(ctx, http.MethodPatch, "/documents/"+esc(docID)+"/description", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDocumentVersions returns all versions of a document
func (c *Client) ListDocumentVersions(ctx context.Context, docID string) ([]DocumentVersion, error) {
	return getList[DocumentVersion](ctx, c, "/documents/"+esc(docID)+"/versions", "document_versions")
}

// ListProjectDocumentVersions returns every document version of a project
func (c *Client) ListProjectDocumentVersions(ctx context.Context, projectID string) ([]DocumentVersion, error) {
	return getList[DocumentVersion](ctx, c, "/projects/"+esc(projectID)+"/document-versions", "document_versions")
}

// GetDocumentVersion returns a single document version
func (c *Client) GetDocumentVersion(ctx context.Context, versionID string) (*DocumentVersion, error) {
	var v DocumentVersion
	if err := c.doJSON(ctx, http.MethodGet, "/document-versions/"+esc(versionID), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UploadDocumentVersion uploads a file as a new document version.
// The version starts pending; callers poll for completion.
func (c *Client) UploadDocumentVersion(ctx context.Context, docID, fileName string, r io.Reader, changeDescription string) (*IngestResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return nil, fmt.Errorf("multipart 생성 실패: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("파일 읽기 실패: %w", err)
	}
	if changeDescription != "" {
		if err := mw.WriteField("change_description", changeDescription); err != nil {
			return nil, fmt.Errorf("multipart 생성 실패: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("multipart 생성 실패: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/documents/"+esc(docID)+"/versions", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var res IngestResult
	if err := c.send(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateDocumentVersionFromURL ingests a new version of a document from a URL
func (c *Client) CreateDocumentVersionFromURL(ctx context.Context, docID, sourceURL string) (*DocumentVersion, error) {
	var v DocumentVersion
	body := URLIngestRequest{URL: sourceURL}
	if err := c.doJSON(ctx, http.MethodPost, "/documents/"+esc(docID)+"/versions/from-url", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ArchiveDocumentVersion archives a document version with a reason
func (c *Client) ArchiveDocumentVersion(ctx context.Context, docID, versionID, reason string) (*DocumentVersion, error) {
	var v DocumentVersion
	body := map[string]string{"reason": reason}
	path := "/documents/" + esc(docID) + "/versions/" + esc(versionID) + "/archive"
	if err := c.doJSON(ctx, http.MethodPut, path, body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteDocumentVersion deletes a document version
func (c *Client) DeleteDocumentVersion(ctx context.Context, docID, versionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/documents/"+esc(docID)+"/versions/"+esc(versionID), nil, nil)
}

// DownloadDocumentVersion streams the version's binary into w.
// It returns the server-suggested file name, if any, and the byte count.
func (c *Client) DownloadDocumentVersion(ctx context.Context, docID, versionID string, w io.Writer) (string, int64, error) {
	path := "/documents/" + esc(docID) + "/versions/" + esc(versionID) + "/download"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.execute(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return "", n, fmt.Errorf("다운로드 실패: %w", err)
	}
	return dispositionFileName(resp.Header.Get("Content-Disposition")), n, nil
}

func dispositionFileName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return filepath.Base(params["filename"])
}

var unsafeFileChars = regexp.MustCompile(`[^\w.\-]+`)

// DownloadFileName synthesizes "<document>_<version>.pdf" for a download
func DownloadFileName(documentName, versionNumber string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(documentName), "_"), "_")
	if name == "" {
		name = "document"
	}
	version := strings.Trim(unsafeFileChars.ReplaceAllString(versionNumber, "_"), "_")
	if version == "" {
		return name + ".pdf"
	}
	return name + "_" + version + ".pdf"
}
