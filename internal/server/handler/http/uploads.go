package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// maxUploadSize bounds multipart request bodies.
const maxUploadSize = 10 << 20

// Uploads keeps uploaded images in memory and serves them under
// /uploads/{name}.
type Uploads struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewUploads returns an empty upload store.
func NewUploads() *Uploads {
	return &Uploads{files: make(map[string][]byte)}
}

// Save stores the form file field of r, if any, and returns its public
// path. A request without the field returns "".
func (u *Uploads) Save(r *http.Request, field string) (string, error) {
	f, hdr, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field, err)
	}
	defer f.Close()
	return u.store(f, hdr)
}

func (u *Uploads) store(f multipart.File, hdr *multipart.FileHeader) (string, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	name := uuid.NewString() + strings.ToLower(path.Ext(hdr.Filename))

	u.mu.Lock()
	u.files[name] = data
	u.mu.Unlock()
	return "/uploads/" + name, nil
}

// Serve handles GET /uploads/{name}.
func (u *Uploads) Serve(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	u.mu.RLock()
	data, ok := u.files[name]
	u.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}
