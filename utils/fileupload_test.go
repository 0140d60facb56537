package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNoteFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectedCode string
	}{
		{
			name:     "valid pdf",
			filename: "summary.pdf",
			size:     1024,
		},
		{
			name:     "valid png",
			filename: "diagram.png",
			size:     2048,
		},
		{
			name:     "extension check is case-insensitive",
			filename: "SUMMARY.PDF",
			size:     1024,
		},
		{
			name:         "rejects other extensions",
			filename:     "notes.docx",
			size:         1024,
			expectedCode: "INVALID_FILE_FORMAT",
		},
		{
			name:         "rejects missing extension",
			filename:     "notes",
			size:         1024,
			expectedCode: "INVALID_FILE_FORMAT",
		},
		{
			name:         "rejects oversized files",
			filename:     "summary.pdf",
			size:         MaxFileSize + 1,
			expectedCode: "FILE_TOO_LARGE",
		},
		{
			name:     "accepts a file at the size limit",
			filename: "summary.pdf",
			size:     MaxFileSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{
				Filename: tt.filename,
				Size:     tt.size,
			}

			err := ValidateNoteFile(header)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			uploadErr, ok := err.(*FileUploadError)
			if assert.True(t, ok, "error should be a FileUploadError") {
				assert.Equal(t, tt.expectedCode, uploadErr.Code)
			}
		})
	}
}
