package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/transfer"
	"github.com/camden-git/familyring/workspace"
)

const maxImportBytes = 10 << 20

type TransferHandler struct {
	WS *workspace.Workspace
	// full path of the directory export archives are saved in
	ExportDir string
}

type exportFormat struct {
	contentType string
	filename    string
	write       func(io.Writer, []models.Record) error
}

var exportFormats = map[string]exportFormat{
	"json": {"application/json", transfer.JSONFilename, transfer.WriteJSON},
	"csv":  {"text/csv; charset=utf-8", transfer.CSVFilename, transfer.WriteCSV},
	"zip":  {"application/zip", "familie.zip", transfer.WriteArchive},
}

// Export handles GET /api/export?format=json|csv|zip and sends the family as a
// download. JSON is the default.
func (th *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(r.URL.Query().Get("format"))
	if name == "" {
		name = "json"
	}
	format, ok := exportFormats[name]
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_format", fmt.Sprintf("Unsupported export format %q", name))
		return
	}

	var buf bytes.Buffer
	if err := format.write(&buf, th.WS.Records()); err != nil {
		log.Printf("Error exporting family as %s: %v", name, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to export family")
		return
	}
	w.Header().Set("Content-Type", format.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing %s export: %v", name, err)
	}
}

type archiveResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// SaveArchive handles POST /api/exports. The bundle is written to the export
// directory and served from there.
func (th *TransferHandler) SaveArchive(w http.ResponseWriter, r *http.Request) {
	path, size, err := transfer.SaveArchive(th.ExportDir, th.WS.Records())
	if err != nil {
		log.Printf("Error saving export archive: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create export archive")
		return
	}
	filename := filepath.Base(path)
	writeJSON(w, http.StatusCreated, archiveResponse{
		Filename: filename,
		URL:      "/api/" + filepath.Base(th.ExportDir) + "/" + filename,
		Size:     size,
	})
}

// Import handles POST /api/import. The body is read as JSON, CSV or a ZIP
// bundle depending on ?format= or, failing that, the Content-Type header.
func (th *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		WriteAPIError(w, http.StatusRequestEntityTooLarge, "invalid_body", "Import body could not be read: "+err.Error())
		return
	}

	var records []models.Record
	switch importFormat(r) {
	case "csv":
		records, err = transfer.ReadCSV(bytes.NewReader(data))
	case "zip":
		records, err = transfer.ReadArchive(data)
	default:
		records, err = transfer.ReadJSON(bytes.NewReader(data))
	}
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_import", err.Error())
		return
	}

	res, err := th.WS.Import(records)
	if err != nil {
		writeDomainError(w, "import family", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func importFormat(r *http.Request) string {
	if f := strings.ToLower(r.URL.Query().Get("format")); f != "" {
		return f
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return "json"
	}
	switch mediaType {
	case "text/csv", "application/csv":
		return "csv"
	case "application/zip", "application/x-zip-compressed":
		return "zip"
	default:
		return "json"
	}
}
