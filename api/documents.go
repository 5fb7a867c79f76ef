package api

import (
	"net/http"
	"time"

	"github.com/flightdeck/aeromatch/internal/docstore"
	"github.com/flightdeck/aeromatch/pkg/models"
	"github.com/flightdeck/aeromatch/pkg/repository"
)

const maxDocumentSize = 10 << 20 // 10 MiB

type DocumentsHandler struct {
	documentRepo repository.DocumentRepo
	store        *docstore.Client
}

func NewDocumentsHandler(dr repository.DocumentRepo, store *docstore.Client) *DocumentsHandler {
	return &DocumentsHandler{documentRepo: dr, store: store}
}

// Upload stores one multipart document: the bytes go to object storage, the
// metadata row to the database.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	docType := r.FormValue("doc_type")
	if docType == "" {
		http.Error(w, "doc_type is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path := docstore.ObjectPath(userID, docType, header.Filename, time.Now().UTC())
	storedPath, err := h.store.Upload(r.Context(), path, header.Header.Get("Content-Type"), file)
	if err != nil {
		logger.Error("document upload failed", "user_id", userID, "err", err)
		http.Error(w, "failed to store document", http.StatusInternalServerError)
		return
	}

	doc := models.Document{
		UserID:      userID,
		DocType:     docType,
		FileName:    header.Filename,
		StoragePath: storedPath,
	}
	id, err := h.documentRepo.CreateDocument(r.Context(), &doc)
	if err != nil {
		http.Error(w, "failed to record document", http.StatusInternalServerError)
		return
	}
	doc.ID = id

	writeJSON(w, doc, http.StatusCreated)
}

func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	docs, err := h.documentRepo.ListDocumentsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}

	writeJSON(w, docs, http.StatusOK)
}
