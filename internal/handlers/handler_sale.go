package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fin_consistency_engine/internal/apperrors"
	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	portssvc "github.com/SscSPs/fin_consistency_engine/internal/core/ports/services"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
	"github.com/SscSPs/fin_consistency_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// saleHandler receives sale lifecycle calls from the sales subsystem. An invalid
// sale is rejected with 400; a ledger failure is reported as a warning with 202.
type saleHandler struct {
	mirror portssvc.SaleMirrorSvc
}

func newSaleHandler(m portssvc.SaleMirrorSvc) *saleHandler {
	return &saleHandler{mirror: m}
}

func registerSaleRoutes(rg *gin.RouterGroup, mirror portssvc.SaleMirrorSvc) {
	h := newSaleHandler(mirror)

	sales := rg.Group("/sales")
	{
		sales.POST("", h.saleCreated)
		sales.PUT("", h.saleUpdated)
		sales.DELETE("/:saleID", h.saleDeleted)
	}
}

// saleCreated godoc
// @Summary Mirror a created sale
// @Description Creates the income transaction for a completed or pending sale.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   sale body dto.SaleRequest true "Sale"
// @Success 200 {object} dto.SaleMirrorResponse
// @Success 202 {object} dto.SaleMirrorResponse "Sale accepted, mirroring failed"
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /companies/{companyID}/sales [post]
func (h *saleHandler) saleCreated(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.SaleRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.mirror.CreateTransactionFromSale(c.Request.Context(), req.ToSale(companyID), userID)
	respondMirror(c, txn, err)
}

// saleUpdated godoc
// @Summary Mirror an updated sale
// @Description Synchronises the mirrored transaction, creating it when the sale now qualifies.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   sale body dto.SaleRequest true "Sale"
// @Success 200 {object} dto.SaleMirrorResponse
// @Success 202 {object} dto.SaleMirrorResponse "Sale accepted, mirroring failed"
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /companies/{companyID}/sales [put]
func (h *saleHandler) saleUpdated(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.SaleRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.mirror.UpdateTransactionFromSale(c.Request.Context(), req.ToSale(companyID), userID)
	respondMirror(c, txn, err)
}

// saleDeleted godoc
// @Summary Remove the mirror of a deleted sale
// @Tags sales
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   saleID path string true "Sale ID"
// @Success 200 {object} dto.SaleMirrorResponse
// @Success 202 {object} dto.SaleMirrorResponse "Sale accepted, mirroring failed"
// @Security BearerAuth
// @Router /companies/{companyID}/sales/{saleID} [delete]
func (h *saleHandler) saleDeleted(c *gin.Context) {
	companyID, userID, ok := requestScope(c)
	if !ok {
		return
	}
	err := h.mirror.DeleteTransactionFromSale(c.Request.Context(), c.Param("saleID"), companyID, userID)
	respondMirror(c, nil, err)
}

func respondMirror(c *gin.Context, txn *domain.Transaction, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		respondError(c, err, "Invalid sale")
		return
	}
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Sale accepted without ledger mirror", slog.String("error", err.Error()))
		c.JSON(http.StatusAccepted, dto.SaleMirrorResponse{Warning: err.Error()})
		return
	}
	resp := dto.SaleMirrorResponse{}
	if txn != nil {
		t := dto.ToTransactionResponse(txn)
		resp.Transaction = &t
	}
	c.JSON(http.StatusOK, resp)
}
