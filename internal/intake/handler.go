package intake

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"benefitflow-backend/internal/documents"
	"benefitflow-backend/internal/reasoning"
	"benefitflow-backend/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20

// Handler exposes the submission endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the intake routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.submit)
}

type submitResponse struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	ApplicationID string  `json:"application_id"`
	UserID        string  `json:"user_id"`
	UserCreated   bool    `json:"user_created"`
	Decision      string  `json:"decision"`
	Confidence    float64 `json:"confidence_level"`
	Summary       string  `json:"summary"`
}

func (h *Handler) submit(c *gin.Context) {
	sub := Submission{
		FirstName:                c.PostForm("firstName"),
		LastName:                 c.PostForm("lastName"),
		DateOfBirth:              c.PostForm("dateOfBirth"),
		Address:                  c.PostForm("address"),
		City:                     c.PostForm("city"),
		State:                    c.PostForm("state"),
		ZipCode:                  c.PostForm("zipCode"),
		SocialSecurityNumber:     c.PostForm("socialSecurityNumber"),
		DoctorNames:              c.PostForm("doctorNames"),
		HospitalNames:            c.PostForm("hospitalNames"),
		MedicalRecordsPermission: strings.EqualFold(c.PostForm("medicalRecordsPermission"), "true"),
	}

	medical, err := readUpload(c, "medicalRecordsFile")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	income, err := readUpload(c, "incomeDocumentsFile")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	sub.MedicalRecords = medical
	sub.IncomeDocuments = income

	result, err := h.svc.Submit(c.Request.Context(), sub)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Set("applicationId", result.ApplicationID)
	c.Set("userId", result.UserID)
	respond.Created(c, submitResponse{
		Success:       true,
		Message:       "Application submitted successfully",
		ApplicationID: result.ApplicationID,
		UserID:        result.UserID,
		UserCreated:   result.UserCreated,
		Decision:      result.Decision,
		Confidence:    result.Confidence,
		Summary:       result.Summary,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var extractionErr *reasoning.ExtractionError
	switch {
	case errors.Is(err, ErrInvalidSubmission):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.As(err, &extractionErr):
		code := "extraction_output_missing"
		if errors.Is(err, reasoning.ErrOutputMalformed) {
			code = "extraction_output_malformed"
		}
		respond.Error(c, http.StatusUnprocessableEntity, code, err.Error(), gin.H{
			"raw_response": extractionErr.Raw,
		})
	case errors.Is(err, documents.ErrStoreFailed):
		respond.Error(c, http.StatusServiceUnavailable, "storage_error", "failed to store documents", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process application", nil)
	}
}

func readUpload(c *gin.Context, field string) (FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return FileUpload{}, errors.New(field + " is required")
	}
	if header.Size > maxUploadBytes {
		return FileUpload{}, errors.New(field + " exceeds the size limit")
	}
	content, err := readAll(header)
	if err != nil {
		return FileUpload{}, errors.New(field + " could not be read")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return FileUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
}
