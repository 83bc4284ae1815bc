package handlers

import (
	"swiftaid/internal/services"
	"swiftaid/internal/utils"
	"swiftaid/internal/validators"

	"github.com/gin-gonic/gin"
)

// DriverHandler covers driver self-service and job execution.
type DriverHandler struct {
	dispatchService services.DispatchService
	driverService   services.DriverService
}

func NewDriverHandler(dispatchService services.DispatchService, driverService services.DriverService) *DriverHandler {
	return &DriverHandler{
		dispatchService: dispatchService,
		driverService:   driverService,
	}
}

// GetProfile returns the driver's own profile
func (h *DriverHandler) GetProfile(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.driverService.GetProfile(c.Request.Context(), driverID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", profile)
}

// UpdateAvailability toggles the driver's availability flag
func (h *DriverHandler) UpdateAvailability(c *gin.Context) {
	var req validators.AvailabilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateAvailabilityUpdate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	driverID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.driverService.SetAvailability(c.Request.Context(), driverID, *req.Available); err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability updated", nil)
}

// UpdateSchedule toggles the driver's on-schedule flag
func (h *DriverHandler) UpdateSchedule(c *gin.Context) {
	var req validators.ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateScheduleUpdate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	driverID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.driverService.SetOnSchedule(c.Request.Context(), driverID, *req.OnSchedule); err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Schedule updated", nil)
}

// UpdateLocation stores the driver's free-text location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req validators.LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateLocationUpdate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	driverID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.driverService.SetLocation(c.Request.Context(), driverID, req.Location); err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Location updated", nil)
}

// GetMyJobs lists the requests assigned to this driver
func (h *DriverHandler) GetMyJobs(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := h.dispatchService.ListByDriver(c.Request.Context(), driverID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Jobs retrieved successfully", requests)
}

// StartJob moves an assigned request to in-progress
func (h *DriverHandler) StartJob(c *gin.Context) {
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	driverID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.dispatchService.StartJob(c.Request.Context(), requestID, driverID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Job started", request)
}

// CompleteJob moves an in-progress request to completed
func (h *DriverHandler) CompleteJob(c *gin.Context) {
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	driverID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.dispatchService.CompleteJob(c.Request.Context(), requestID, driverID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Job completed", request)
}
