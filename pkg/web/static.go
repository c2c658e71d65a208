package web

import (
	"io/fs"
	"mime"
	"net/http"
	"path"
)

// Asset returns a handler serving a single file from fsys. The content type
// is derived from the file extension, falling back to content sniffing.
func Asset(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		ct := mime.TypeByExtension(path.Ext(name))
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		w.Header().Set("Content-Type", ct)
		w.Write(data)
	}
}

// AssetBytes returns a handler serving pre-rendered bytes with a fixed
// content type.
func AssetBytes(data []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
