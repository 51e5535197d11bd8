package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/services"
)

// CertificateHandler handles certificate issuance and verification
type CertificateHandler struct {
	certService *services.CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certService *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

// Issue creates the certificate for a completed, passing enrollment
// POST /api/v1/enrollments/:id/certificate
func (h *CertificateHandler) Issue(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	cert, err := h.certService.Issue(enrollmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"certificate": cert})
}

// Verify resolves a verification code. Public: anyone holding a printed
// certificate may check it.
// GET /api/v1/certificates/verify/:code
func (h *CertificateHandler) Verify(c *gin.Context) {
	verified, err := h.certService.Verify(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificate": verified})
}
