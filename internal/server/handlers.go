package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/huffviz/pkg/artifact"
	"github.com/matzehuels/huffviz/pkg/buildinfo"
	"github.com/matzehuels/huffviz/pkg/codec"
	herrors "github.com/matzehuels/huffviz/pkg/errors"
	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

const multipartMemory = 8 << 20

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// =============================================================================
// Compression
// =============================================================================

type compressResponse struct {
	codec.Stats
	CompressedFilePath string `json:"compressedFilePath"`
	Filename           string `json:"filename"`
	DownloadURL        string `json:"downloadUrl"`
}

type decompressResponse struct {
	Success              bool   `json:"success"`
	DecompressedFileName string `json:"decompressedFileName"`
	Filename             string `json:"filename"`
	Size                 int    `json:"size"`
	DownloadURL          string `json:"downloadUrl"`
}

func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	compressed, err := codec.Compress(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ref, err := s.store.Put(r.Context(), artifact.KindCompressed, filename, compressed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats := codec.NewStats(len(data), len(compressed))
	s.logger.Info("compressed",
		"file", ref.Filename,
		"original", stats.OriginalSize,
		"compressed", stats.CompressedSize,
		"ratio", strconv.FormatFloat(stats.Ratio, 'f', 1, 64))

	writeJSON(w, http.StatusOK, compressResponse{
		Stats:              stats,
		CompressedFilePath: ref.Name,
		Filename:           ref.Filename,
		DownloadURL:        "/api/download/" + ref.Name,
	})
}

func (s *Server) handleDecompress(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !strings.HasSuffix(filename, ".bin") {
		s.writeError(w, r, herrors.New(herrors.ErrCodeInvalidFormat, "Invalid file format: expected a .bin file"))
		return
	}

	text, err := codec.Decompress(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ref, err := s.store.Put(r.Context(), artifact.KindDecompressed, filename, text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, decompressResponse{
		Success:              true,
		DecompressedFileName: ref.Name,
		Filename:             ref.Filename,
		Size:                 len(text),
		DownloadURL:          "/api/download_decompressed/" + ref.Name,
	})
}

// readUpload returns the contents and client filename of the multipart
// "file" field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	if r.ContentLength > s.maxUpload {
		return nil, "", herrors.New(herrors.ErrCodeTooLarge, "request body exceeds %d bytes", s.maxUpload)
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", herrors.Wrap(herrors.ErrCodeInvalidInput, err, "No file part")
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, "", herrors.Wrap(herrors.ErrCodeInvalidInput, err, "No file part")
	}
	defer f.Close()

	if hdr.Filename == "" {
		return nil, "", herrors.New(herrors.ErrCodeInvalidInput, "No selected file")
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, hdr.Filename, nil
}

func (s *Server) handleDownload(kind artifact.Kind) http.HandlerFunc {
	contentType := "application/octet-stream"
	if kind == artifact.KindDecompressed {
		contentType = "text/plain; charset=utf-8"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.store.Get(r.Context(), kind, chi.URLParam(r, "name"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
		w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
		w.WriteHeader(http.StatusOK)
		w.Write(a.Data)
	}
}

// =============================================================================
// Visualization
// =============================================================================

type visualizeResponse struct {
	Codes       map[string]string `json:"codes"`
	Frequencies map[string]int    `json:"frequencies"`
	Order       []graph.Frequency `json:"order"`
	Tree        *graph.Tree       `json:"tree"`
	Layout      graph.Layout      `json:"layout"`
	Stats       pipeline.Stats    `json:"stats"`
	AverageBits float64           `json:"average_bits"`
}

type renderRequest struct {
	pipeline.Options
	Format string `json:"format"`
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := s.decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.layout.Apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	table, root, err := s.runner.BuildTree(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	gl, err := s.runner.ComputeLayout(ctx, root, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	codes := huffman.Codebook(root)
	stats := pipeline.TreeStats(table, root, codes)
	writeJSON(w, http.StatusOK, visualizeResponse{
		Codes:       huffman.Strings(codes),
		Frequencies: table.Map(),
		Order:       graph.FromTable(table),
		Tree:        graph.FromTree(root),
		Layout:      gl,
		Stats:       stats,
		AverageBits: stats.AverageBits(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	if len(opts.Formats) > 1 {
		s.writeError(w, r, herrors.New(herrors.ErrCodeInvalidInput, "render returns one format per request, got %d", len(opts.Formats)))
		return
	}
	format := pipeline.FormatSVG
	switch {
	case req.Format != "":
		format = req.Format
	case len(opts.Formats) == 1:
		format = opts.Formats[0]
	}
	opts.Formats = []string{format}
	s.layout.Apply(&opts)

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := result.Artifacts[format]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return herrors.Wrap(herrors.ErrCodeInvalidInput, err, "No text provided")
	}
	return nil
}
