package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/documents"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// --- response shapes ---

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

type documentResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	Size              int64     `json:"size"`
	Tags              []string  `json:"tags"`
	Encrypted         bool      `json:"encrypted"`
	AccessLevel       string    `json:"access_level"`
	RequiredPrivilege string    `json:"required_privilege"`
	Status            string    `json:"status"`
	OwnerID           string    `json:"owner_id"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toDocumentResponse(d *models.Document) documentResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return documentResponse{
		ID:                d.ID,
		Name:              d.Name,
		Type:              d.Type,
		Size:              d.Size,
		Tags:              tags,
		Encrypted:         d.Encrypted,
		AccessLevel:       string(d.AccessLevel),
		RequiredPrivilege: string(d.RequiredPrivilege),
		Status:            string(d.Status),
		OwnerID:           d.OwnerID,
		Content:           d.Content,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func toDocumentResponses(docs []*models.Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

type stepResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Assignee    string     `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
}

type workflowResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Assignees   []string       `json:"assignees"`
	Steps       []stepResponse `json:"steps"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toStepResponse(s *models.WorkflowStep) stepResponse {
	return stepResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Status:      string(s.Status),
		Assignee:    s.Assignee,
		DueDate:     s.DueDate,
	}
}

func toWorkflowResponse(w *models.Workflow) workflowResponse {
	assignees := w.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	steps := make([]stepResponse, 0, len(w.Steps))
	for _, s := range w.Steps {
		steps = append(steps, toStepResponse(s))
	}
	return workflowResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Status:      string(w.Status),
		Assignees:   assignees,
		Steps:       steps,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

type auditResponse struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
	Details    string    `json:"details"`
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "response encoding failed", "error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, map[string]string{"error": msg})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.writeError(w, r, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		s.writeError(w, r, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		s.writeError(w, r, http.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, r, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrorConflict):
		s.writeError(w, r, http.StatusConflict, "Already exists")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		s.writeError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// --- auth ---

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.writeError(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.respondServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) || errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}
		s.respondServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	})
}

// --- admin user management ---

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	user, err := s.users.CreateUser(r.Context(), actorFrom(r), req.Email, req.Name, models.Role(req.Role), req.Password)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, toUserResponse(user))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteUser(r.Context(), actorFrom(r), chi.URLParam(r, "userID")); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"message": "User deleted"})
}

// --- documents ---

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid upload")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	doc, err := s.documents.Create(r.Context(), actorFrom(r), services.CreateDocumentRequest{
		Name:              name,
		Data:              data,
		Tags:              splitTags(r.FormValue("tags")),
		AccessLevel:       models.AccessLevel(r.FormValue("access_level")),
		Encrypt:           r.FormValue("encrypt") == "true",
		RequiredPrivilege: models.Role(r.FormValue("required_privilege")),
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, toDocumentResponse(doc))
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := documents.Filter{
		Search:      q.Get("search"),
		Type:        q.Get("type"),
		AccessLevel: q.Get("access_level"),
		Status:      q.Get("status"),
		Tags:        splitTags(q.Get("tags")),
	}
	if raw := q.Get("encrypted"); raw != "" {
		encrypted := raw == "true"
		filter.Encrypted = &encrypted
	}

	docs, err := s.documents.List(r.Context(), actorFrom(r), filter)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toDocumentResponses(docs))
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), actorFrom(r), chi.URLParam(r, "documentID"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              *string   `json:"name"`
		Tags              *[]string `json:"tags"`
		AccessLevel       *string   `json:"access_level"`
		Status            *string   `json:"status"`
		Encrypted         *bool     `json:"encrypted"`
		RequiredPrivilege *string   `json:"required_privilege"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	patch := services.DocumentPatch{
		Name:      req.Name,
		Tags:      req.Tags,
		Encrypted: req.Encrypted,
	}
	if req.AccessLevel != nil {
		level := models.AccessLevel(*req.AccessLevel)
		patch.AccessLevel = &level
	}
	if req.Status != nil {
		status := models.DocumentStatus(*req.Status)
		patch.Status = &status
	}
	if req.RequiredPrivilege != nil {
		role := models.Role(*req.RequiredPrivilege)
		patch.RequiredPrivilege = &role
	}

	doc, err := s.documents.Update(r.Context(), actorFrom(r), chi.URLParam(r, "documentID"), patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "documentID")); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Document deleted"})
}

func (s *Server) downloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, data, err := s.documents.Download(r.Context(), actorFrom(r), chi.URLParam(r, "documentID"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Error(r.Context(), "download write failed", "document_id", doc.ID, "error", err.Error())
	}
}

func (s *Server) encryptDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Encrypt(r.Context(), actorFrom(r), chi.URLParam(r, "documentID"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) decryptDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Decrypt(r.Context(), actorFrom(r), chi.URLParam(r, "documentID"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) shareDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Share(r.Context(), actorFrom(r), chi.URLParam(r, "documentID"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

// --- workflows ---

type stepPayload struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Assignee    string     `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
}

func toStepRequests(payloads []stepPayload) []services.StepRequest {
	steps := make([]services.StepRequest, 0, len(payloads))
	for _, p := range payloads {
		steps = append(steps, services.StepRequest{
			Name:        p.Name,
			Description: p.Description,
			Status:      models.StepStatus(p.Status),
			Assignee:    p.Assignee,
			DueDate:     p.DueDate,
		})
	}
	return steps
}

func (s *Server) createWorkflow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string        `json:"name"`
		Description string        `json:"description"`
		Status      string        `json:"status"`
		Assignees   []string      `json:"assignees"`
		Steps       []stepPayload `json:"steps"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	workflow, err := s.workflows.Create(r.Context(), actorFrom(r), services.CreateWorkflowRequest{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.WorkflowStatus(req.Status),
		Assignees:   req.Assignees,
		Steps:       toStepRequests(req.Steps),
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, toWorkflowResponse(workflow))
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := s.workflows.List(r.Context(), actorFrom(r), r.URL.Query().Get("status"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	out := make([]workflowResponse, 0, len(workflows))
	for _, wf := range workflows {
		out = append(out, toWorkflowResponse(wf))
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	workflow, err := s.workflows.Get(r.Context(), actorFrom(r), chi.URLParam(r, "workflowID"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toWorkflowResponse(workflow))
}

func (s *Server) updateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string        `json:"name"`
		Description *string        `json:"description"`
		Status      *string        `json:"status"`
		Assignees   *[]string      `json:"assignees"`
		Steps       *[]stepPayload `json:"steps"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	patch := services.WorkflowPatch{
		Name:        req.Name,
		Description: req.Description,
		Assignees:   req.Assignees,
	}
	if req.Status != nil {
		status := models.WorkflowStatus(*req.Status)
		patch.Status = &status
	}
	if req.Steps != nil {
		steps := toStepRequests(*req.Steps)
		patch.Steps = &steps
	}

	workflow, err := s.workflows.Update(r.Context(), actorFrom(r), chi.URLParam(r, "workflowID"), patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toWorkflowResponse(workflow))
}

func (s *Server) updateWorkflowStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		Status      *string         `json:"status"`
		Assignee    *string         `json:"assignee"`
		DueDate     json.RawMessage `json:"due_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	patch := services.StepPatch{
		Name:        req.Name,
		Description: req.Description,
		Assignee:    req.Assignee,
	}
	if req.Status != nil {
		status := models.StepStatus(*req.Status)
		patch.Status = &status
	}
	if len(req.DueDate) > 0 {
		// present in the payload; JSON null clears the due date
		patch.DueDateSet = true
		if string(req.DueDate) != "null" {
			var due time.Time
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				s.respondServiceError(w, r, common.ErrorValidation)
				return
			}
			patch.DueDate = &due
		}
	}

	step, err := s.workflows.UpdateStep(r.Context(), actorFrom(r), chi.URLParam(r, "workflowID"), chi.URLParam(r, "stepID"), patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toStepResponse(step))
}

func (s *Server) deleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.workflows.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "workflowID")); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Workflow deleted"})
}

// --- audit ---

func (s *Server) auditTrail(w http.ResponseWriter, r *http.Request) {
	entries, err := s.audits.Trail(r.Context(), actorFrom(r))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	out := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditResponse{
			ID:         e.ID,
			DocumentID: e.DocumentID,
			UserID:     e.UserID,
			Action:     string(e.Action),
			Timestamp:  e.CreatedAt,
			Details:    e.Details,
		})
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

// --- dashboard ---

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.documents.Stats(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"total_documents":     stats.TotalDocuments,
		"encrypted_documents": stats.EncryptedDocuments,
		"shared_documents":    stats.SharedDocuments,
		"pending_documents":   stats.PendingDocuments,
		"document_types":      stats.DocumentTypes,
		"all_tags":            stats.AllTags,
	})
}

func (s *Server) recentDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.respondServiceError(w, r, common.ErrorValidation)
			return
		}
		limit = parsed
	}

	docs, err := s.documents.Recent(r.Context(), actorFrom(r), limit)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toDocumentResponses(docs))
}
