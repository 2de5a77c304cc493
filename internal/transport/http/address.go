package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cep-connect4/backend/internal/domain"
	"github.com/iamasit07/cep-connect4/backend/internal/service/postal"
)

type AddressService interface {
	Lookup(ctx context.Context, raw string) (domain.LookupResult, error)
	LookupMany(ctx context.Context, rawList string) ([]domain.Address, error)
	LookupWithTimeout(ctx context.Context, raw string) (domain.LookupResult, error)
	SaveAddress(ctx context.Context, addr domain.Address) (domain.Address, error)
	GetAddress(ctx context.Context, id int64) (*domain.Address, error)
}

type AddressHandler struct {
	Service AddressService
}

func NewAddressHandler(service AddressService) *AddressHandler {
	return &AddressHandler{Service: service}
}

type lookupResponse struct {
	Status  domain.Status   `json:"status"`
	CEP     string          `json:"cep,omitempty"`
	Found   bool            `json:"found"`
	Address *domain.Address `json:"address,omitempty"`
}

type batchRequest struct {
	CEPs string `json:"ceps" binding:"required"`
}

type batchResponse struct {
	Status    domain.Status    `json:"status"`
	Addresses []domain.Address `json:"addresses"`
}

type addressResponse struct {
	Status  domain.Status   `json:"status"`
	Address *domain.Address `json:"address,omitempty"`
}

// lookupCode maps a lookup outcome to an HTTP status
func lookupCode(res domain.LookupResult, err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCEP), errors.Is(err, domain.ErrNoValidCEP):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLookupTimeout):
		return http.StatusGatewayTimeout
	case err != nil:
		return http.StatusBadGateway
	case !res.Found:
		return http.StatusNotFound
	}
	return http.StatusOK
}

// Lookup handles GET /api/cep/:code
func (h *AddressHandler) Lookup(c *gin.Context) {
	res, err := h.Service.Lookup(c.Request.Context(), c.Param("code"))
	c.JSON(lookupCode(res, err), lookupResponse{
		Status:  postal.LookupStatus(res, err),
		CEP:     res.CEP,
		Found:   res.Found,
		Address: res.Address,
	})
}

// LookupWithTimeout handles GET /api/cep/:code/timeout
func (h *AddressHandler) LookupWithTimeout(c *gin.Context) {
	res, err := h.Service.LookupWithTimeout(c.Request.Context(), c.Param("code"))
	code := lookupCode(res, err)
	if err != nil && code == http.StatusBadGateway {
		// the race only distinguishes a bad code from "did not make it in time"
		code = http.StatusGatewayTimeout
	}
	c.JSON(code, lookupResponse{
		Status:  postal.TimeoutLookupStatus(res, err),
		CEP:     res.CEP,
		Found:   res.Found,
		Address: res.Address,
	})
}

// LookupBatch handles POST /api/cep/batch
func (h *AddressHandler) LookupBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, batchResponse{
			Status:    postal.BatchStatus(domain.ErrNoValidCEP),
			Addresses: []domain.Address{},
		})
		return
	}

	addresses, err := h.Service.LookupMany(c.Request.Context(), req.CEPs)
	if addresses == nil {
		addresses = []domain.Address{}
	}
	c.JSON(lookupCode(domain.LookupResult{Found: true}, err), batchResponse{
		Status:    postal.BatchStatus(err),
		Addresses: addresses,
	})
}

// Save handles POST /api/addresses
func (h *AddressHandler) Save(c *gin.Context) {
	var addr domain.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, addressResponse{Status: domain.Status{Kind: domain.StatusError, Message: domain.MsgInvalidRequest}})
		return
	}
	if _, err := domain.NormalizeCEP(addr.CEP); err != nil {
		c.JSON(http.StatusBadRequest, addressResponse{Status: domain.Status{Kind: domain.StatusError, Message: domain.MsgInvalidCEP}})
		return
	}

	saved, err := h.Service.SaveAddress(c.Request.Context(), addr)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, addressResponse{Status: postal.SaveStatus(saved, err)})
		return
	}
	c.JSON(http.StatusCreated, addressResponse{Status: postal.SaveStatus(saved, nil), Address: &saved})
}

// Get handles GET /api/addresses/:id
func (h *AddressHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}

	addr, err := h.Service.GetAddress(c.Request.Context(), id)
	if errors.Is(err, domain.ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch address"})
		return
	}
	c.JSON(http.StatusOK, addr)
}
