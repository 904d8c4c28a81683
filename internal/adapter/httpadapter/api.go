package httpadapter

import (
	_ "embed"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/couchcryptid/recruit-map-etl/internal/dashboard"
	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/couchcryptid/recruit-map-etl/internal/pipeline"
	"github.com/couchcryptid/recruit-map-etl/internal/session"
	"github.com/google/uuid"
)

//go:embed index.html
var indexHTML []byte

const onboardingMessage = "Upload one or more candidate CSV or Excel files to build the map."

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

type uploadResponse struct {
	SessionID  string             `json:"session_id,omitempty"`
	BatchID    string             `json:"batch_id,omitempty"`
	Onboarding bool               `json:"onboarding,omitempty"`
	Message    string             `json:"message,omitempty"`
	Total      int                `json:"total"`
	Mappable   int                `json:"mappable"`
	Files      []string           `json:"files"`
	Notices    []domain.Notice    `json:"notices"`
	Regions    []dashboard.Region `json:"regions"`
	BuiltAt    *time.Time         `json:"built_at,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML) //nolint:errcheck // best-effort response
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	files := r.MultipartForm.File["files"]
	uploads := make([]pipeline.Upload, len(files))
	for i, fh := range files {
		uploads[i] = pipeline.Upload{Name: fh.Filename, Open: openPart(fh)}
	}

	batchID := uuid.NewString()
	ds, err := s.ingester.Ingest(r.Context(), batchID, uploads)
	if errors.Is(err, pipeline.ErrEmptyBatch) {
		writeJSON(w, http.StatusOK, uploadResponse{
			Onboarding: true,
			Message:    onboardingMessage,
			Files:      []string{},
			Notices:    []domain.Notice{},
			Regions:    []dashboard.Region{},
		})
		return
	}
	if err != nil {
		s.logger.Error("ingest failed", "batch_id", batchID, "error", err)
		writeError(w, http.StatusInternalServerError, "ingest failed")
		return
	}

	sess := s.sessions.Create(ds)
	s.logger.Info("session created", "session_id", sess.ID, "batch_id", batchID, "records", ds.Len())

	notices := ds.Notices
	if notices == nil {
		notices = []domain.Notice{}
	}
	builtAt := ds.BuiltAt
	writeJSON(w, http.StatusCreated, uploadResponse{
		SessionID: sess.ID,
		BatchID:   batchID,
		Total:     ds.Len(),
		Mappable:  len(dashboard.Filter(ds, dashboard.Overview)),
		Files:     append([]string{}, ds.Sources...),
		Notices:   notices,
		Regions:   nonNil(dashboard.Regions(ds)),
		BuiltAt:   &builtAt,
	})
}

func openPart(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// lookupSession resolves the {id} path value, writing a 404 when it is unknown.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return session.Session{}, false
	}
	return sess, true
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(dashboard.Regions(sess.Dataset)))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	city := r.URL.Query().Get("city")
	summary := dashboard.Summarize(sess.Dataset, city, dashboard.Filter(sess.Dataset, city))
	summary.Roles = nonNil(summary.Roles)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	records := dashboard.Filter(sess.Dataset, r.URL.Query().Get("city"))
	view, err := dashboard.BuildMarkerView(records, s.opts.MapCenter, s.opts.ClusterResolution)
	if err != nil {
		s.logger.Error("build markers failed", "session_id", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "build markers failed")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	records := dashboard.Filter(sess.Dataset, r.URL.Query().Get("city"))
	writeJSON(w, http.StatusOK, dashboard.Roster(records))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	city := r.URL.Query().Get("city")
	records := dashboard.Filter(sess.Dataset, city)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": dashboard.ExportFilename(city),
	}))
	if err := dashboard.WriteCSV(w, sess.Dataset, records); err != nil {
		s.logger.Error("export failed", "session_id", sess.ID, "error", err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
