// Package artifacts migrates legacy upload directories into the unified
// content store, classifying each file by document type along the way.
package artifacts

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobvault/internal/canonical"
	"jobvault/internal/fileutil"
	"jobvault/internal/logging"
)

// MigratedFile describes one artifact copied into the content store.
type MigratedFile struct {
	OriginalPath     string
	OriginalFilename string
	Filename         string
	StoragePath      string
	DocumentType     string
	MimeType         string
	SizeBytes        int64
	Source           canonical.Source
}

// Result carries everything one artifact migration pass produced.
type Result struct {
	Files  []MigratedFile
	Errors []string
}

// Document types, ordered by classification priority. A file whose name
// matches several categories gets the highest-priority one: "resume_cover_
// letter.pdf" is a cover letter, not a resume.
const (
	TypeCoverLetter    = "cover_letter"
	TypeResume         = "resume"
	TypePortfolio      = "portfolio"
	TypeContract       = "contract"
	TypeAnalysisReport = "analysis_report"
	TypeOther          = "other"
)

var classificationOrder = []struct {
	docType  string
	keywords []string
}{
	{TypeCoverLetter, []string{"cover_letter", "cover letter", "coverletter", "cover"}},
	{TypeResume, []string{"resume", "curriculum", "cv"}},
	{TypePortfolio, []string{"portfolio", "work_sample", "sample"}},
	{TypeContract, []string{"contract", "agreement", "sow", "statement_of_work"}},
	{TypeAnalysisReport, []string{"analysis", "report", "assessment"}},
}

var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".odt":  "application/vnd.oasis.opendocument.text",
	".rtf":  "application/rtf",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".json": "application/json",
	".csv":  "text/csv",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Migrator copies upload trees into the content directory. Destination
// names carry the source tag and original modification timestamp so two
// sources can never collide and provenance stays visible in a directory
// listing.
type Migrator struct {
	contentDir string
	logger     *slog.Logger
}

func NewMigrator(contentDir string, logger *slog.Logger) *Migrator {
	return &Migrator{
		contentDir: contentDir,
		logger:     logging.NewComponentLogger(logger, "artifacts"),
	}
}

// Migrate walks uploadsDir and copies every regular, non-hidden file into
// the content store. A missing uploads directory is a no-op: sources are
// regularly migrated from machines where the tracker was installed but
// never used for documents.
func (m *Migrator) Migrate(ctx context.Context, source canonical.Source, uploadsDir string) (*Result, error) {
	result := &Result{}
	if uploadsDir == "" {
		return result, nil
	}
	if _, err := os.Stat(uploadsDir); err != nil {
		if os.IsNotExist(err) {
			m.logger.Warn("uploads directory does not exist, skipping",
				logging.String("source", string(source)),
				logging.String("dir", uploadsDir))
			return result, nil
		}
		return nil, fmt.Errorf("stat uploads dir %s: %w", uploadsDir, err)
	}

	destDir := filepath.Join(m.contentDir, "documents")
	used := map[string]bool{}

	err := filepath.WalkDir(uploadsDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("walk %s: %v", path, err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}

		file, ferr := m.migrateFile(source, uploadsDir, path, destDir, used)
		if ferr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, ferr))
			return nil
		}
		result.Files = append(result.Files, file)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("artifact migration finished",
		logging.String("source", string(source)),
		logging.Int("files", len(result.Files)),
		logging.Int("errors", len(result.Errors)))
	return result, nil
}

func (m *Migrator) migrateFile(source canonical.Source, uploadsDir, path, destDir string, used map[string]bool) (MigratedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return MigratedFile{}, fmt.Errorf("stat: %w", err)
	}

	original := filepath.Base(path)
	parent := filepath.Base(filepath.Dir(path))
	if filepath.Dir(path) == filepath.Clean(uploadsDir) {
		parent = ""
	}

	filename := m.destName(source, destDir, info.ModTime(), original, used)
	storagePath := filepath.Join(destDir, filename)
	if err := fileutil.CopyFilePreserve(path, storagePath); err != nil {
		return MigratedFile{}, fmt.Errorf("copy: %w", err)
	}

	return MigratedFile{
		OriginalPath:     path,
		OriginalFilename: original,
		Filename:         filename,
		StoragePath:      storagePath,
		DocumentType:     Classify(original, parent),
		MimeType:         MimeType(original),
		SizeBytes:        info.Size(),
		Source:           source,
	}, nil
}

// destName builds "<source>_<timestamp>_<sanitized original>" and keeps it
// unique by inserting a short random token when the name was already
// handed out this run or a file from an earlier run occupies it.
func (m *Migrator) destName(source canonical.Source, destDir string, modTime time.Time, original string, used map[string]bool) string {
	timestamp := modTime.UTC().Format("20060102T150405")
	name := fmt.Sprintf("%s_%s_%s", source, timestamp, sanitizeName(original))
	if used[name] || destExists(filepath.Join(destDir, name)) {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		name = fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext)
	}
	used[name] = true
	return name
}

func destExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Classify picks a document type from the filename and its parent
// directory, in priority order.
func Classify(filename, parentDir string) string {
	haystack := strings.ToLower(filename + " " + parentDir)
	for _, category := range classificationOrder {
		for _, keyword := range category.keywords {
			if strings.Contains(haystack, keyword) {
				return category.docType
			}
		}
	}
	return TypeOther
}

// MimeType maps a filename extension to a MIME type, defaulting to
// application/octet-stream.
func MimeType(filename string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	return "application/octet-stream"
}

func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
