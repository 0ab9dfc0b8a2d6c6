package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"github.com/uecsr/portal/internal/models"
)

// Form is an ordered list of multipart fields plus an optional file.
type Form struct {
	fields    [][2]string
	fileField string
	file      *models.Upload
}

// Set appends a text field.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

// SetIf appends a text field only when value is not empty.
func (f *Form) SetIf(name, value string) *Form {
	if value == "" {
		return f
	}
	return f.Set(name, value)
}

// File attaches an upload under field name. A nil upload is ignored.
func (f *Form) File(name string, upload *models.Upload) *Form {
	if upload == nil {
		return f
	}
	f.fileField = name
	f.file = upload
	return f
}

// Encode renders the form and returns the body with its content type.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	if f.file != nil {
		part, err := w.CreateFormFile(f.fileField, f.file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(f.file.Content); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// FormRequest builds a multipart Request.
func FormRequest(method, path string, form *Form) (Request, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return Request{}, err
	}
	return Request{Method: method, Path: path, Body: body, ContentType: contentType}, nil
}
