package handler

import (
	workshopapp "github.com/mecanicpro/backend/internal/application/workshop"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ServiceOrderHandler handles service order API endpoints
type ServiceOrderHandler struct {
	BaseHandler
	orderService   *workshopapp.ServiceOrderService
	paymentService *workshopapp.PaymentService
}

// NewServiceOrderHandler creates a new ServiceOrderHandler
func NewServiceOrderHandler(
	orderService *workshopapp.ServiceOrderService,
	paymentService *workshopapp.PaymentService,
) *ServiceOrderHandler {
	return &ServiceOrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// Create godoc
// @ID           createServiceOrder
// @Summary      Open service order
// @Description  Open a new service order in budget state, optionally with initial budget items
// @Tags         service-orders
// @Accept       json
// @Produce      json
// @Param        request body workshop.CreateServiceOrderRequest true "Order data"
// @Success      201 {object} APIResponse[workshop.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders [post]
func (h *ServiceOrderHandler) Create(c *gin.Context) {
	var req workshopapp.CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListActive godoc
// @ID           listActiveServiceOrders
// @Summary      List active service orders
// @Description  List orders that have not been finished, with search and status filters
// @Tags         service-orders
// @Produce      json
// @Param        search query string false "Search term"
// @Param        status query string false "Status filter" Enums(BUDGET, APPROVED, IN_PROGRESS, READY)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]workshop.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders [get]
func (h *ServiceOrderHandler) ListActive(c *gin.Context) {
	var filter workshopapp.ServiceOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	orders, total, err := h.orderService.ListActive(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// ListHistory godoc
// @ID           listServiceOrderHistory
// @Summary      List finished service orders
// @Description  List finished orders, most recently finished first
// @Tags         service-orders
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]workshop.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders/history [get]
func (h *ServiceOrderHandler) ListHistory(c *gin.Context) {
	var filter workshopapp.ServiceOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	orders, total, err := h.orderService.ListHistory(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// GetByID godoc
// @ID           getServiceOrder
// @Summary      Get service order
// @Description  Get a service order by ID, including budget items and totals
// @Tags         service-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[workshop.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders/{id} [get]
func (h *ServiceOrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateBudget godoc
// @ID           updateServiceOrderBudget
// @Summary      Update budget
// @Description  Replace the budget items and discount of an order still in budget state
// @Tags         service-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body workshop.UpdateBudgetRequest true "Budget items and discount"
// @Success      200 {object} APIResponse[workshop.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders/{id}/budget [put]
func (h *ServiceOrderHandler) UpdateBudget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req workshopapp.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.orderService.UpdateBudget(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve godoc
// @ID           approveServiceOrder
// @Summary      Approve budget
// @Description  Approve the budget, moving the order from budget to approved state
// @Tags         service-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[workshop.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders/{id}/approve [post]
func (h *ServiceOrderHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateExecution godoc
// @ID           updateServiceOrderExecution
// @Summary      Update execution
// @Description  Record execution notes and advance the order through the execution states
// @Tags         service-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body workshop.UpdateExecutionRequest true "Execution notes and target status"
// @Success      200 {object} APIResponse[workshop.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders/{id}/execution [put]
func (h *ServiceOrderHandler) UpdateExecution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req workshopapp.UpdateExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.orderService.UpdateExecution(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Settle godoc
// @ID           settleServiceOrder
// @Summary      Settle payment
// @Description  Settle the order's payment, record the income transactions and finish the order
// @Tags         service-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body workshop.SettleRequest true "Payment method and cheque details"
// @Success      200 {object} APIResponse[workshop.SettleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders/{id}/settle [post]
func (h *ServiceOrderHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req workshopapp.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.paymentService.Settle(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteServiceOrder
// @Summary      Delete service order
// @Description  Delete a service order. Finished orders cannot be deleted.
// @Tags         service-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /service-orders/{id} [delete]
func (h *ServiceOrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func pageOrDefault(page int) int {
	if page == 0 {
		return 1
	}
	return page
}

func pageSizeOrDefault(size int) int {
	if size == 0 {
		return 20
	}
	return size
}
