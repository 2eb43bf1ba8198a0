package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/labelforge/labelforge/pkg/codes"
	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/store"
	"github.com/labelforge/labelforge/pkg/workbook"
	"github.com/labelforge/labelforge/pkg/workspace"
)

type createExcelRequest struct {
	FileName string `json:"fileName"`
	StartNum int64  `json:"startNum"`
	Count    int    `json:"count"`
}

type createExcelResponse struct {
	Status           string `json:"status"`
	FileURL          string `json:"fileUrl"`
	Range            string `json:"range"`
	NumbersGenerated int    `json:"numbersGenerated"`
	Failed           int    `json:"failed"`
}

func (s *Server) handleCreateExcel(w http.ResponseWriter, r *http.Request) {
	var req createExcelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	name, err := s.workbookName(req.FileName)
	if err != nil {
		respondError(w, err)
		return
	}

	rng := codes.Range{Start: req.StartNum, Count: req.Count}
	if err := s.validateRange(rng); err != nil {
		respondError(w, err)
		return
	}

	path, err := s.outputPath(name)
	if err != nil {
		respondError(w, err)
		return
	}
	if _, statErr := os.Stat(path); statErr == nil {
		respondError(w, errors.New(errors.ErrCodeAlreadyExists, "file %q already exists", name))
		return
	}

	result, err := workbook.Write(r.Context(), path, rng.Expand(), s.renderer)
	if err != nil {
		respondError(w, err)
		return
	}

	s.recordBatch(r, name, store.KindExcel, rng.Start, rng.Count)
	s.logger.Info("workbook created", "file", name, "range", rng.String(), "failed", result.Failed)

	respondJSON(w, http.StatusOK, createExcelResponse{
		Status:           "success",
		FileURL:          "/download/" + name,
		Range:            rng.String(),
		NumbersGenerated: result.Added,
		Failed:           result.Failed,
	})
}

type uploadExcelResponse struct {
	Status       string `json:"status"`
	FileName     string `json:"fileName"`
	NumbersFound int    `json:"numbersFound"`
	Range        string `json:"range"`
	LastNumber   int64  `json:"lastNumber"`
}

func (s *Server) handleUploadExcel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "missing file field"))
		return
	}
	defer file.Close()

	name := errors.SanitizeFilename(filepath.Base(header.Filename), "upload.xlsx")
	if err := errors.ValidateWorkbookFilename(name); err != nil {
		respondError(w, err)
		return
	}

	// Stage the upload in scratch space and analyze it there, so a
	// corrupt workbook never lands in the output directory.
	ws, err := workspace.New("upload")
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "create workspace"))
		return
	}
	defer ws.Close()

	staged := ws.File(name)
	dst, err := os.Create(staged)
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "save upload"))
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "save upload"))
		return
	}
	if err := dst.Close(); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "save upload"))
		return
	}

	analysis, err := workbook.Analyze(staged)
	if err != nil {
		respondError(w, err)
		return
	}

	path, err := s.outputPath(name)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := moveFile(staged, path); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "save upload"))
		return
	}

	s.logger.Info("workbook uploaded", "file", name, "numbers", analysis.Count)
	respondJSON(w, http.StatusOK, uploadExcelResponse{
		Status:       "success",
		FileName:     name,
		NumbersFound: analysis.Count,
		Range:        analysis.Range(),
		LastNumber:   analysis.Max,
	})
}

type updateExcelRequest struct {
	FileName    string `json:"fileName"`
	NewStartNum int64  `json:"newStartNum"`
	Count       int    `json:"count"`
}

func (s *Server) handleUpdateExcel(w http.ResponseWriter, r *http.Request) {
	var req updateExcelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	name, err := s.workbookName(req.FileName)
	if err != nil {
		respondError(w, err)
		return
	}

	rng := codes.Range{Start: req.NewStartNum, Count: req.Count}
	if err := s.validateRange(rng); err != nil {
		respondError(w, err)
		return
	}

	path, err := s.outputPath(name)
	if err != nil {
		respondError(w, err)
		return
	}
	if _, statErr := os.Stat(path); statErr != nil {
		respondError(w, errors.New(errors.ErrCodeFileNotFound, "file %q not found", name))
		return
	}

	result, err := workbook.Append(r.Context(), path, rng.Expand(), s.renderer)
	if err != nil {
		respondError(w, err)
		return
	}

	s.recordBatch(r, name, store.KindExcel, rng.Start, rng.Count)
	s.logger.Info("workbook updated", "file", name, "range", rng.String())

	respondJSON(w, http.StatusOK, createExcelResponse{
		Status:           "success",
		FileURL:          "/download/" + name,
		Range:            rng.String(),
		NumbersGenerated: result.Added,
		Failed:           result.Failed,
	})
}

type renameRequest struct {
	FileName    string `json:"fileName"`
	NewFileName string `json:"newFileName"`
}

func (s *Server) handleRenameAndDownload(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	oldName, err := s.workbookName(req.FileName)
	if err != nil {
		respondError(w, err)
		return
	}
	newName, err := s.workbookName(req.NewFileName)
	if err != nil {
		respondError(w, err)
		return
	}

	oldPath, err := s.outputPath(oldName)
	if err != nil {
		respondError(w, err)
		return
	}
	newPath, err := s.outputPath(newName)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, statErr := os.Stat(oldPath); statErr != nil {
		respondError(w, errors.New(errors.ErrCodeFileNotFound, "file %q not found", oldName))
		return
	}
	if oldName != newName {
		if _, statErr := os.Stat(newPath); statErr == nil {
			respondError(w, errors.New(errors.ErrCodeAlreadyExists, "file %q already exists", newName))
			return
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "rename file"))
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"fileUrl": "/download/" + newName,
	})
}

type fileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`

	// Batch history, present when the file's generation was recorded.
	Kind      string     `json:"kind,omitempty"`
	Range     string     `json:"range,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			respondJSON(w, http.StatusOK, map[string]any{"status": "success", "files": []fileInfo{}})
			return
		}
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "list files"))
		return
	}

	history := s.batchHistory(r)

	files := make([]fileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".xlsx" && ext != ".xls" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		fi := fileInfo{Name: entry.Name(), Size: info.Size(), Modified: info.ModTime()}
		if b, ok := history[entry.Name()]; ok {
			fi.Kind = b.Kind
			fi.Range = codes.Range{Start: b.Start, Count: b.Count}.String()
			created := b.CreatedAt
			fi.CreatedAt = &created
		}
		files = append(files, fi)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Modified.After(files[j].Modified) })

	respondJSON(w, http.StatusOK, map[string]any{"status": "success", "files": files})
}

// batchHistory maps file names to the caller's most recent batch record.
// Lookup failures degrade to a bare listing, matching the best-effort
// write side in recordBatch.
func (s *Server) batchHistory(r *http.Request) map[string]*store.Batch {
	sess := currentSession(r.Context())
	if sess == nil {
		return nil
	}
	batches, err := s.batches.ListByOwner(r.Context(), sess.UserID)
	if err != nil {
		s.logger.Warn("batch history lookup failed", "error", err)
		return nil
	}
	history := make(map[string]*store.Batch, len(batches))
	for _, b := range batches {
		if _, ok := history[b.FileName]; !ok {
			history[b.FileName] = b
		}
	}
	return history
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if err := errors.ValidateFilename(name); err != nil {
		respondError(w, err)
		return
	}

	path, err := s.outputPath(name)
	if err != nil {
		respondError(w, err)
		return
	}
	if _, statErr := os.Stat(path); statErr != nil {
		respondError(w, errors.New(errors.ErrCodeFileNotFound, "file %q not found", name))
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// workbookName sanitizes and validates a client-supplied workbook filename.
func (s *Server) workbookName(name string) (string, error) {
	name = errors.SanitizeFilename(name, "")
	if err := errors.ValidateWorkbookFilename(name); err != nil {
		return "", err
	}
	return name, nil
}

// validateRange applies both the absolute range rules and the configured
// per-batch cap.
func (s *Server) validateRange(rng codes.Range) error {
	if err := rng.Validate(); err != nil {
		return err
	}
	if rng.Count > s.cfg.Limits.MaxCount {
		return errors.New(errors.ErrCodeInvalidRange, "count must be between 1 and %d", s.cfg.Limits.MaxCount)
	}
	return nil
}

// outputPath resolves name inside the output directory, creating the
// directory on first use. The validated name cannot escape it.
func (s *Server) outputPath(name string) (string, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}
	return filepath.Join(s.cfg.OutputDir, name), nil
}

// recordBatch stores batch metadata for the authenticated user. Failures
// are logged, not surfaced: the artifact was already produced.
func (s *Server) recordBatch(r *http.Request, name, kind string, start int64, count int) {
	sess := currentSession(r.Context())
	if sess == nil {
		return
	}
	batch := &store.Batch{
		ID:        uuid.NewString(),
		FileName:  name,
		Kind:      kind,
		Start:     start,
		Count:     count,
		Owner:     sess.UserID,
		CreatedAt: time.Now(),
	}
	if err := s.batches.Insert(r.Context(), batch); err != nil {
		s.logger.Warn("batch record failed", "file", name, "error", err)
	}
}

// moveFile renames src to dst, falling back to a copy when the two live on
// different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
