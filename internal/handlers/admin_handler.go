package handlers

import (
	"swiftaid/internal/models"
	"swiftaid/internal/services"
	"swiftaid/internal/utils"
	"swiftaid/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler covers the dispatcher console: the full request list, driver
// assignment, the driver roster and dashboard statistics.
type AdminHandler struct {
	dispatchService services.DispatchService
	driverService   services.DriverService
	statsService    services.StatsService
}

func NewAdminHandler(dispatchService services.DispatchService, driverService services.DriverService, statsService services.StatsService) *AdminHandler {
	return &AdminHandler{
		dispatchService: dispatchService,
		driverService:   driverService,
		statsService:    statsService,
	}
}

// ListRequests lists all requests, optionally filtered by status
func (h *AdminHandler) ListRequests(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.RequestStatus(c.Query("status"))

	requests, total, err := h.dispatchService.ListRequests(c.Request.Context(), status, params.Limit(), params.Skip())
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Requests retrieved successfully", requests, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(requests),
	})
}

// AssignDriver binds a driver to a pending request
func (h *AdminHandler) AssignDriver(c *gin.Context) {
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateAssignDriver(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	driverID, _ := primitive.ObjectIDFromHex(req.DriverID)

	request, err := h.dispatchService.AssignDriver(c.Request.Context(), requestID, driverID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver assigned successfully", request)
}

// ListDrivers returns the full driver roster
func (h *AdminHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.driverService.ListDrivers(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Drivers retrieved successfully", drivers)
}

// ListAvailableDrivers returns drivers eligible for a new assignment
func (h *AdminHandler) ListAvailableDrivers(c *gin.Context) {
	drivers, err := h.driverService.ListAvailableDrivers(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Available drivers retrieved successfully", drivers)
}

// GetDashboardStats returns the aggregate projections for the admin console
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Dashboard statistics retrieved successfully", stats)
}
