package controllers

import (
	"log"
	"net/http"

	"github.com/urbannest/real_estate_platform/backend/storage"
)

const maxUploadFiles = 10

// uploadAll forwards every file under the given form field to the image store
// and returns the resulting URLs. Uploads are best effort: a file that fails
// to open or upload is logged and skipped, and whatever succeeded is kept.
func uploadAll(r *http.Request, store storage.ImageStore, field string) []string {
	urls := []string{}
	if r.MultipartForm == nil {
		return urls
	}
	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			log.Printf("Skipping %s: failed to open: %v", header.Filename, err)
			continue
		}
		url, err := store.Upload(r.Context(), header.Filename, f)
		f.Close()
		if err != nil {
			log.Printf("Skipping %s: upload failed: %v", header.Filename, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func uploadFirst(r *http.Request, store storage.ImageStore, field string) string {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return ""
	}
	header := r.MultipartForm.File[field][0]
	f, err := header.Open()
	if err != nil {
		log.Printf("Skipping %s: failed to open: %v", header.Filename, err)
		return ""
	}
	defer f.Close()
	url, err := store.Upload(r.Context(), header.Filename, f)
	if err != nil {
		log.Printf("Skipping %s: upload failed: %v", header.Filename, err)
		return ""
	}
	return url
}

func tooManyFiles(r *http.Request, field string) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[field]) > maxUploadFiles
}
