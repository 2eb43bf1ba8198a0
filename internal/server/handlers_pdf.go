package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/layout"
	"github.com/labelforge/labelforge/pkg/store"
	"github.com/labelforge/labelforge/pkg/workbook"
)

type generatePDFRequest struct {
	ExcelSource string `json:"excelSource"`
	PDFName     string `json:"pdfName"`
	Cols        int    `json:"cols"`
	Rows        int    `json:"rows"`
}

type generatePDFResponse struct {
	Status        string `json:"status"`
	FileURL       string `json:"fileUrl"`
	BarcodesInPDF int    `json:"barcodesInPDF"`
	Pages         int    `json:"pages"`
	Failed        int    `json:"failed"`
	Layout        string `json:"layout"`
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req generatePDFRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	source, err := s.workbookName(req.ExcelSource)
	if err != nil {
		respondError(w, err)
		return
	}

	pdfName := errors.SanitizeFilename(req.PDFName, "")
	if err := errors.ValidatePDFFilename(pdfName); err != nil {
		respondError(w, err)
		return
	}

	g := layout.A4()
	if req.Cols > 0 {
		g.Columns = req.Cols
	}
	if req.Rows > 0 {
		g.Rows = req.Rows
	}

	sourcePath, err := s.outputPath(source)
	if err != nil {
		respondError(w, err)
		return
	}
	if _, statErr := os.Stat(sourcePath); statErr != nil {
		respondError(w, errors.New(errors.ErrCodeFileNotFound, "file %q not found", source))
		return
	}

	numbers, err := workbook.Read(sourcePath)
	if err != nil {
		respondError(w, err)
		return
	}

	texts := make([]string, len(numbers))
	for i, n := range numbers {
		texts[i] = strconv.FormatInt(n, 10)
	}

	data, result, err := s.composer.Compose(r.Context(), layout.Labels(texts), g)
	if err != nil {
		respondError(w, err)
		return
	}

	pdfPath, err := s.outputPath(pdfName)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "write pdf"))
		return
	}

	start := int64(0)
	if len(numbers) > 0 {
		start = numbers[0]
	}
	s.recordBatch(r, pdfName, store.KindPDF, start, len(numbers))
	s.logger.Info("pdf composed", "file", pdfName, "labels", result.Labels, "pages", result.Pages, "failed", result.Failed)

	respondJSON(w, http.StatusOK, generatePDFResponse{
		Status:        "success",
		FileURL:       "/download/" + pdfName,
		BarcodesInPDF: result.Labels - result.Failed,
		Pages:         result.Pages,
		Failed:        result.Failed,
		Layout:        fmt.Sprintf("%dx%d", g.Columns, g.Rows),
	})
}
