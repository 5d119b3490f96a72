package transfer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/camden-git/familyring/models"
)

// WriteArchive writes a ZIP bundle holding the JSON and CSV exports.
func WriteArchive(w io.Writer, records []models.Record) error {
	zipWriter := zip.NewWriter(w)

	entries := []struct {
		name  string
		write func(io.Writer, []models.Record) error
	}{
		{JSONFilename, WriteJSON},
		{CSVFilename, WriteCSV},
	}
	for _, entry := range entries {
		writer, err := zipWriter.CreateHeader(&zip.FileHeader{
			Name:     entry.name,
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			zipWriter.Close()
			return fmt.Errorf("failed to create zip entry %s: %w", entry.name, err)
		}
		if err := entry.write(writer, records); err != nil {
			zipWriter.Close()
			return fmt.Errorf("failed to write zip entry %s: %w", entry.name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip writer: %w", err)
	}
	return nil
}

// SaveArchive writes the export bundle into archiveSaveDir under a unique name.
// Returns: full path of the archive, size in bytes, error.
func SaveArchive(archiveSaveDir string, records []models.Record) (string, int64, error) {
	if err := os.MkdirAll(archiveSaveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create archive save directory %s: %w", archiveSaveDir, err)
	}

	timestamp := time.Now().Unix()
	archiveUUID, _ := uuid.NewRandom()
	zipFilename := fmt.Sprintf("familie_%d_%s.zip", timestamp, archiveUUID.String()[:8])
	zipFilePath := filepath.Join(archiveSaveDir, zipFilename)

	var buf bytes.Buffer
	if err := WriteArchive(&buf, records); err != nil {
		return "", 0, err
	}
	if err := os.WriteFile(zipFilePath, buf.Bytes(), 0644); err != nil {
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("failed to write zip file %s: %w", zipFilePath, err)
	}

	log.Printf("Successfully created family export: %s (Size: %d bytes, %d people)", zipFilePath, buf.Len(), len(records))
	return zipFilePath, int64(buf.Len()), nil
}

// ReadArchive loads records from an export bundle, preferring the JSON entry
// and falling back to the CSV entry.
func ReadArchive(data []byte) ([]models.Record, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[filepath.Base(f.Name)] = f
	}

	if f, ok := files[JSONFilename]; ok {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()
		return ReadJSON(rc)
	}
	if f, ok := files[CSVFilename]; ok {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()
		return ReadCSV(rc)
	}
	return nil, fmt.Errorf("archive holds neither %s nor %s", JSONFilename, CSVFilename)
}
