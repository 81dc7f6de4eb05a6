package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/resume-runner/resume-runner/internal/markup"
	"github.com/resume-runner/resume-runner/internal/prettify"
	"github.com/resume-runner/resume-runner/internal/server"
	"github.com/resume-runner/resume-runner/internal/storage"
)

const maxUploadBytes = 20 << 20

// PrettifyHandler cleans up pasted job posting text. Pasted HTML is reduced to text first.
func PrettifyHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := struct {
			Text string `json:"text"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		text := req.Text
		if markup.LooksLikeHTML(text) {
			plain, err := markup.HTMLToText(text)
			if err != nil {
				svr.Error(w, http.StatusBadRequest, "unable to read html")
				return
			}
			text = plain
		}
		svr.JSON(w, http.StatusOK, envelope{"text": prettify.Text(text)})
	}
}

func DownloadURLHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := struct {
			S3Key     string `json:"s3_key"`
			ExpiresIn int    `json:"expires_in"`
		}{}
		if !decode(svr, w, r, &req) {
			return
		}
		if !required(&req.S3Key) {
			svr.Error(w, http.StatusBadRequest, "s3_key required")
			return
		}
		url, err := svr.GetStore().DownloadURL(r.Context(), req.S3Key, storage.ClampExpiry(req.ExpiresIn))
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to presign %s", req.S3Key))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"download_url": url})
	}
}

func ListFilesHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = storage.KeyPrefix + "/"
		}
		keys, err := svr.GetStore().List(r.Context(), prefix)
		if err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to list files under %s", prefix))
			return
		}
		svr.JSON(w, http.StatusOK, envelope{"files": keys})
	}
}

// UploadFileHandler stores a multipart file under a key built from kind, name, company and title
func UploadFileHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			svr.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			svr.Error(w, http.StatusBadRequest, "file required")
			return
		}
		defer file.Close()
		kind, err := storage.ParseKind(r.FormValue("kind"))
		if err != nil {
			svr.Error(w, http.StatusBadRequest, "kind must be one of resume, cover_letter, screenshot")
			return
		}
		key, err := storage.Key(kind, header.Filename, time.Now(), r.FormValue("name"), r.FormValue("company"), r.FormValue("title"))
		if err != nil {
			svr.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		metadata := map[string]string{
			"original-filename": header.Filename,
			"kind":              string(kind),
		}
		if err := svr.GetStore().Upload(r.Context(), key, file, contentType, metadata); err != nil {
			svr.Fail(w, err, fmt.Sprintf("unable to upload %s", key))
			return
		}
		svr.JSON(w, http.StatusCreated, envelope{"s3_key": key})
	}
}

// HealthHandler never fails, it reports what is reachable
func HealthHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		database := "connected"
		if svr.Conn == nil || svr.Conn.PingContext(r.Context()) != nil {
			database = "unavailable"
		}
		status := "healthy"
		if database != "connected" {
			status = "degraded"
		}
		s3Status := storage.StatusStub
		if store := svr.GetStore(); store != nil {
			s3Status = store.Status()
		}
		svr.JSON(w, http.StatusOK, envelope{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  database,
			"s3_status": s3Status,
		})
	}
}
