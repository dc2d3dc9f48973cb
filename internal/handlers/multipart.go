package handlers

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"resumerank/internal/models"
)

// readUploadedFile copies one multipart file into memory. The payload is
// owned by the request and discarded after text extraction.
func readUploadedFile(fileHeader *multipart.FileHeader) (models.UploadedDocument, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return models.UploadedDocument{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.UploadedDocument{}, err
	}

	return models.UploadedDocument{
		Filename:    fileHeader.Filename,
		ContentType: resolveContentType(fileHeader),
		Data:        data,
	}, nil
}

// resolveContentType returns the declared part content type, falling
// back to the filename extension when the client sent none or the
// generic octet-stream default.
func resolveContentType(fileHeader *multipart.FileHeader) string {
	contentType := fileHeader.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	if contentType == "" || contentType == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
		case ".pdf":
			return models.ContentTypePDF
		case ".docx":
			return models.ContentTypeDOCX
		}
	}

	return contentType
}

func isSupportedType(contentType string) bool {
	return contentType == models.ContentTypePDF || contentType == models.ContentTypeDOCX
}
