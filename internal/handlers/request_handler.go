package handlers

import (
	"swiftaid/internal/services"
	"swiftaid/internal/utils"
	"swiftaid/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestHandler covers the user-facing request surface: submission, own
// request list, detail, rating and chat.
type RequestHandler struct {
	dispatchService services.DispatchService
	chatService     services.ChatService
}

func NewRequestHandler(dispatchService services.DispatchService, chatService services.ChatService) *RequestHandler {
	return &RequestHandler{
		dispatchService: dispatchService,
		chatService:     chatService,
	}
}

// CreateRequest submits a new emergency request
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req validators.RequestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateRequestCreate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.dispatchService.CreateRequest(c.Request.Context(), requesterID, &services.CreateRequestInput{
		PatientName:    req.PatientName,
		PatientAge:     req.PatientAge,
		Location:       req.Location,
		EmergencyType:  req.EmergencyType,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Emergency request submitted successfully", request)
}

// GetMyRequests lists the authenticated user's requests
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := h.dispatchService.ListByRequester(c.Request.Context(), requesterID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Requests retrieved successfully", requests)
}

// GetRequest retrieves a single request with its full chat history
func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	request, err := h.dispatchService.GetRequestByID(c.Request.Context(), requestID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Request retrieved successfully", request)
}

// RateService stores one-shot feedback on a completed request
func (h *RequestHandler) RateService(c *gin.Context) {
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.RatingSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateRatingSubmit(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}

	request, err := h.dispatchService.RateService(c.Request.Context(), requestID, requesterID, req.Rating, req.Feedback)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Thank you for your feedback", request)
}

// SendMessage appends a chat message to the request's conversation
func (h *RequestHandler) SendMessage(c *gin.Context) {
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.MessageSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateMessageSend(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	senderID, ok := currentUserID(c)
	if !ok {
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), requestID, senderID, req.Text)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Message sent", message)
}

// GetChatHistory returns the request's conversation in insertion order
func (h *RequestHandler) GetChatHistory(c *gin.Context) {
	requestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	history, err := h.chatService.GetHistory(c.Request.Context(), requestID)
	if err != nil {
		utils.FailureResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Chat history retrieved successfully", history)
}

// currentUserID pulls the authenticated principal set by the auth
// middleware. Writes the error response itself on failure.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	return userObjectID, true
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}
