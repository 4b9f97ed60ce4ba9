// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/zip"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/internal/intake"
	"github.com/pdiddy/convertkit/internal/workspace"
	"github.com/pdiddy/convertkit/pkg/types"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files until the request ends.
const multipartMemory = 32 << 20

type ctxKey struct{}

// artifactView is an artifact as returned to clients.
type artifactView struct {
	types.Artifact
	Size int    `json:"size"`
	URL  string `json:"url"`
}

type convertResponse struct {
	Kind      types.TargetKind     `json:"kind"`
	Busy      bool                 `json:"busy"`
	Progress  *types.ProgressState `json:"progress,omitempty"`
	Artifacts []artifactView       `json:"artifacts"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Message string                    `json:"message"`
	Context types.ConversationContext `json:"context"`
}

type chatResponse struct {
	Reply   string                    `json:"reply"`
	Context types.ConversationContext `json:"context"`
}

// resolveInstance looks up the converter instance named by {kind}.
func (s *Server) resolveInstance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, err := types.ParseTargetKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Unknown converter.", err.Error())
			return
		}
		inst, ok := s.ws.Instance(kind)
		if !ok {
			writeError(w, http.StatusNotFound, "Unknown converter.", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, inst)))
	})
}

func instanceFrom(r *http.Request) *workspace.Instance {
	return r.Context().Value(ctxKey{}).(*workspace.Instance)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"live_handles": s.ws.LiveHandles(),
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	inst := instanceFrom(r)
	notice := inst.Kind().FailureNotice()

	if s.cfg.MaxUploadMB > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	}
	job, err := s.jobFromRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, notice, "upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, notice, err.Error())
		return
	}

	var last types.ProgressState
	sink := convert.SinkFuncs{OnProgress: func(p types.ProgressState) { last = p }}

	artifacts, err := inst.Convert(r.Context(), job, sink)
	switch {
	case err == nil:
	case errors.Is(err, workspace.ErrBusy):
		writeError(w, http.StatusConflict, "A conversion is already running. Please wait for it to finish.", "")
		return
	case errors.Is(err, types.ErrUnsupportedMediaType), errors.Is(err, types.ErrInvalidParameters):
		writeError(w, http.StatusBadRequest, notice, err.Error())
		return
	default:
		s.log.Error().Err(err).Str("kind", string(inst.Kind())).Msg("conversion failed")
		writeError(w, http.StatusInternalServerError, notice, "")
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Kind:      inst.Kind(),
		Progress:  &last,
		Artifacts: views(artifacts),
	})
}

// jobFromRequest reads the multipart form: "files" and "file" parts in
// order, optional "width" and "height", optional "combine".
func (s *Server) jobFromRequest(r *http.Request) (types.Job, error) {
	var job types.Job
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return job, fmt.Errorf("reading upload: %w", err)
	}

	for _, field := range []string{"files", "file"} {
		for _, fh := range r.MultipartForm.File[field] {
			src, err := intake.FromUpload(fh)
			if err != nil {
				return job, err
			}
			job.Sources = append(job.Sources, src)
		}
	}

	width, height := r.FormValue("width"), r.FormValue("height")
	if width != "" || height != "" {
		dims, err := types.ParseDimensions(width, height)
		if err != nil {
			return job, err
		}
		job.Params = &dims
	}

	if v := r.FormValue("combine"); v != "" {
		combine, err := strconv.ParseBool(v)
		if err != nil {
			return job, fmt.Errorf("%w: combine must be true or false", types.ErrInvalidParameters)
		}
		job.Combine = combine
	}
	return job, nil
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	inst := instanceFrom(r)
	writeJSON(w, http.StatusOK, convertResponse{
		Kind:      inst.Kind(),
		Busy:      inst.Busy(),
		Artifacts: views(inst.Artifacts()),
	})
}

func (s *Server) handleClearArtifacts(w http.ResponseWriter, r *http.Request) {
	inst := instanceFrom(r)
	if inst.Busy() {
		writeError(w, http.StatusConflict, "A conversion is already running. Please wait for it to finish.", "")
		return
	}
	inst.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// handleBundle streams every current artifact as one zip, in creation order.
func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	inst := instanceFrom(r)
	artifacts := inst.Artifacts()
	if len(artifacts) == 0 {
		writeError(w, http.StatusNotFound, "Nothing to download yet.", "")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", contentDisposition("attachment", string(inst.Kind())+".zip"))
	w.Header().Set("Cache-Control", "no-store")

	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, a := range artifacts {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     a.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err == nil {
			_, err = f.Write(a.Data)
		}
		if err != nil {
			s.log.Error().Err(err).Str("name", a.Name).Msg("writing bundle")
			return
		}
	}
	if err := zw.Close(); err != nil {
		s.log.Error().Err(err).Msg("closing bundle")
	}
}

// handleArtifact serves one artifact by display handle. ?inline=1 asks for
// an inline preview instead of a download.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	a, ok := s.ws.Lookup(chi.URLParam(r, "handle"))
	if !ok {
		writeError(w, http.StatusNotFound, "This file is no longer available.", "")
		return
	}

	disposition := "attachment"
	if inline, _ := strconv.ParseBool(r.URL.Query().Get("inline")); inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", a.MediaType)
	w.Header().Set("Content-Length", strconv.Itoa(a.Size()))
	w.Header().Set("Content-Disposition", contentDisposition(disposition, a.Name))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, chatResponse{Reply: s.assistant.Welcome()})
}

// handleChat answers after the assistant's thinking delay. A client that
// disconnects during the delay gets nothing.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chat message.", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Invalid chat message.", "message is empty")
		return
	}
	if req.Context.Topic != "" && !types.IsConverter(req.Context.Topic) {
		req.Context.Topic = ""
	}

	if d := s.assistant.ThinkingDelay(); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.Context().Done():
			return
		}
	}

	reply, ctx := s.assistant.Respond(req.Message, req.Context)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Context: ctx})
}

func views(artifacts []types.Artifact) []artifactView {
	out := make([]artifactView, len(artifacts))
	for i, a := range artifacts {
		out[i] = artifactView{Artifact: a, Size: a.Size(), URL: "/api/artifacts/" + a.Handle}
	}
	return out
}

func contentDisposition(disposition, name string) string {
	return mime.FormatMediaType(disposition, map[string]string{"filename": name})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Error: message, Detail: detail})
}
