package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandcopilot-backend/internal/http/response"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

const maxDocumentBytes = 25 << 20

type DocumentHandler struct {
	log       *logger.Logger
	documents services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documents services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		log:       log.With("handler", "DocumentHandler"),
		documents: documents,
	}
}

// POST /api/documents (multipart: company_id, file)
func (h *DocumentHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentBytes+(1<<20))
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	companyID, err := parseUUID("company_id", c.PostForm("company_id"))
	if err != nil {
		respondServiceError(c, h.log, "UploadDocument", err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		respondServiceError(c, h.log, "UploadDocument", fmt.Errorf("%w: file is required", services.ErrInvalidArgument))
		return
	}
	if fh.Size > maxDocumentBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("file exceeds %d bytes", maxDocumentBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}

	doc, err := h.documents.Upload(dbctx.Context{Ctx: c.Request.Context()}, services.UploadDocumentInput{
		CompanyID: companyID,
		Filename:  filepath.Base(fh.Filename),
		MimeType:  detectMIME(fh.Header.Get("Content-Type"), fh.Filename, data),
		Data:      data,
	})
	if err != nil {
		respondServiceError(c, h.log, "UploadDocument", err)
		return
	}
	response.RespondCreated(c, gin.H{"document": doc})
}

// GET /api/documents?company_id=
func (h *DocumentHandler) List(c *gin.Context) {
	companyID, err := companyIDFromQuery(c)
	if err != nil {
		respondServiceError(c, h.log, "ListDocuments", err)
		return
	}
	rows, err := h.documents.List(dbctx.Context{Ctx: c.Request.Context()}, companyID)
	if err != nil {
		respondServiceError(c, h.log, "ListDocuments", err)
		return
	}
	response.RespondOK(c, gin.H{"documents": rows})
}

// GET /api/documents/:id?company_id=
func (h *DocumentHandler) Get(c *gin.Context) {
	companyID, err := companyIDFromQuery(c)
	if err != nil {
		respondServiceError(c, h.log, "GetDocument", err)
		return
	}
	docID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, "GetDocument", err)
		return
	}
	doc, err := h.documents.Get(dbctx.Context{Ctx: c.Request.Context()}, companyID, docID)
	if err != nil {
		respondServiceError(c, h.log, "GetDocument", err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// detectMIME trusts the part header unless it is missing or generic, then
// tries the file extension and finally content sniffing.
func detectMIME(header, filename string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && !strings.HasPrefix(header, "application/octet-stream") {
		return header
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
